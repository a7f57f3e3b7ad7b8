package catalog

// Products returns the compiled-in product catalog. There is no backing
// store; this fixture set is the whole inventory.
func Products() []Product {
	return []Product{
		{
			ID:          "shirt-oxford-001",
			Name:        "Imperial Oxford Shirt",
			Price:       1999,
			Description: "Classic oxford weave — slim modern fit. 100% premium cotton.",
			Sizes:       []string{"S", "M", "L", "XL"},
			Category:    "Shirts",
			Variants: []Variant{
				{
					Color:       "Navy Blue",
					Hex:         "#0F1724",
					Images:      []string{"/assets/img/products/product_1.jpeg"},
					StockBySize: map[string]int{"S": 10, "M": 8, "L": 6, "XL": 4},
				},
				{
					Color:       "White",
					Hex:         "#FFFFFF",
					Images:      []string{"/assets/img/products/product_2.jpeg"},
					StockBySize: map[string]int{"S": 5, "M": 4, "L": 2, "XL": 0},
				},
			},
		},
		{
			ID:          "tee-premium-003",
			Name:        "Imperial Premium Tee",
			Price:       1299,
			Description: "Ultra-soft crewneck tee for everyday comfort.",
			Sizes:       []string{"S", "M", "L", "XL"},
			Category:    "T-Shirts",
			Variants: []Variant{
				{
					Color:       "Black",
					Hex:         "#000000",
					Images:      []string{"/assets/img/products/product_2.jpeg"},
					StockBySize: map[string]int{"S": 12, "M": 12, "L": 12, "XL": 12},
				},
				{
					Color:       "Olive",
					Hex:         "#556B2F",
					Images:      []string{"/assets/img/products/product_1.jpeg"},
					StockBySize: map[string]int{"S": 8, "M": 6, "L": 3, "XL": 1},
				},
			},
		},
		{
			ID:          "tee-oxford-003",
			Name:        "Imperial Oxford Tee",
			Price:       999,
			Description: "Ultra-soft crewneck tee for everyday comfort.",
			Sizes:       []string{"S", "M", "L", "XL"},
			Category:    "T-Shirts",
			Variants: []Variant{
				{
					Color:       "Black",
					Hex:         "#000000",
					Images:      []string{"/assets/img/products/product_1.jpeg"},
					StockBySize: map[string]int{"S": 12, "M": 12, "L": 12, "XL": 12},
				},
				{
					Color:       "Olive",
					Hex:         "#556B2F",
					Images:      []string{"/assets/img/products/product_2.jpeg"},
					StockBySize: map[string]int{"S": 8, "M": 6, "L": 3, "XL": 1},
				},
			},
		},
		{
			ID:          "shirt-premium-001",
			Name:        "Imperial Premium Shirt",
			Price:       2999,
			Description: "Ultra-soft crewneck shirt for everyday comfort.",
			Sizes:       []string{"S", "M", "L", "XL"},
			Category:    "Shirts",
			Variants: []Variant{
				{
					Color:       "Black",
					Hex:         "#000000",
					Images:      []string{"/assets/img/products/product_1.jpeg"},
					StockBySize: map[string]int{"S": 12, "M": 12, "L": 12, "XL": 12},
				},
				{
					Color:       "Olive",
					Hex:         "#556B2F",
					Images:      []string{"/assets/img/products/product_2.jpeg"},
					StockBySize: map[string]int{"S": 8, "M": 6, "L": 3, "XL": 1},
				},
			},
		},
	}
}

// Categories returns the storefront category labels in display order.
func Categories() []string {
	return []string{"All", "Shirts", "T-Shirts", "Polos", "Casual"}
}
