package catalog

import "github.com/noah-isme/storefront/internal/pricing"

// Variant is one purchasable color option of a product. StockBySize is the
// authoritative availability source; a missing size counts as zero stock.
type Variant struct {
	Color       string         `json:"color"`
	Hex         string         `json:"hex"`
	Images      []string       `json:"images"`
	StockBySize map[string]int `json:"stockBySize"`
}

// Product is immutable after catalog load.
type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Price       pricing.Money `json:"price"`
	Description string        `json:"description"`
	Sizes       []string      `json:"sizes"`
	Category    string        `json:"category"`
	Variants    []Variant     `json:"variants"`
}

// InStock reports whether any variant has stock in any size.
func (p Product) InStock() bool {
	for _, v := range p.Variants {
		for _, qty := range v.StockBySize {
			if qty > 0 {
				return true
			}
		}
	}
	return false
}
