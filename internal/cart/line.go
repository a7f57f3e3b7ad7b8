package cart

import (
	"sort"

	"github.com/noah-isme/storefront/internal/catalog"
	"github.com/noah-isme/storefront/internal/pricing"
)

// LineItem is one row in the cart. Price and StockBySize are snapshots taken
// at add time; the catalog may move on without affecting existing lines.
type LineItem struct {
	ProductID    string         `json:"productId"`
	Name         string         `json:"name"`
	Price        pricing.Money  `json:"price"`
	VariantIndex int            `json:"variantIndex"`
	Size         string         `json:"size,omitempty"`
	Quantity     int            `json:"quantity"`
	Images       []string       `json:"images"`
	Color        string         `json:"color"`
	Hex          string         `json:"hex"`
	StockBySize  map[string]int `json:"stockBySize"`
}

// LineKey uniquely identifies a cart line. Two operations targeting the same
// key always collapse into one line.
type LineKey struct {
	ProductID    string
	VariantIndex int
	Size         string
}

// Key returns the line's identity triple.
func (li LineItem) Key() LineKey {
	return LineKey{ProductID: li.ProductID, VariantIndex: li.VariantIndex, Size: li.Size}
}

// Subtotal returns the line's contribution to the cart subtotal.
func (li LineItem) Subtotal() pricing.Money {
	if li.Quantity <= 0 {
		return 0
	}
	return pricing.Money(li.Quantity) * li.Price
}

// Product rebuilds a single-variant product from the line snapshot, for
// re-adding a removed line or saving it for later. The mapping is total:
// ProductID, Name and Price map to the product head; Color, Hex, Images and
// StockBySize form the sole variant (so the line's VariantIndex becomes 0);
// Sizes are the snapshot's size labels; Size and Quantity belong to the add
// operation, not the product, and are the caller's to re-apply. Description
// and Category have no snapshot source and stay empty.
func (li LineItem) Product() catalog.Product {
	sizes := make([]string, 0, len(li.StockBySize))
	for size := range li.StockBySize {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	return catalog.Product{
		ID:    li.ProductID,
		Name:  li.Name,
		Price: li.Price,
		Sizes: sizes,
		Variants: []catalog.Variant{{
			Color:       li.Color,
			Hex:         li.Hex,
			Images:      li.Images,
			StockBySize: li.StockBySize,
		}},
	}
}

// PricingItems projects cart lines into the pricing calculator's input shape.
func PricingItems(items []LineItem) []pricing.Item {
	out := make([]pricing.Item, 0, len(items))
	for _, li := range items {
		out = append(out, pricing.Item{Qty: li.Quantity, UnitPrice: li.Price})
	}
	return out
}
