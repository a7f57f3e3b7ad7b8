package order

import (
	"time"

	"github.com/noah-isme/storefront/internal/pricing"
)

func day(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

// fixtureOrders seeds the order history shown before any checkout happens.
func fixtureOrders() []Order {
	return []Order{
		{
			ID:      "IT-9A2F7C",
			Date:    day("2025-08-24"),
			Status:  StatusDelivered,
			Pricing: pricing.Summary{Subtotal: 2498, Total: 2499},
			Items: []Item{
				{
					ProductID: "p1",
					Name:      "Oxford Shirt – Navy",
					Price:     1499,
					Quantity:  1,
					Image:     "/assets/img/products/product_2.jpeg",
				},
				{
					ProductID: "p2",
					Name:      "Polo Tee – White",
					Price:     999,
					Quantity:  1,
					Image:     "/assets/img/banners/banner_2.avif",
				},
			},
		},
		{
			ID:      "IT-5QW12B",
			Date:    day("2025-08-22"),
			Status:  StatusShipped,
			Pricing: pricing.Summary{Subtotal: 1799, Total: 1799},
			Items: []Item{
				{
					ProductID: "p3",
					Name:      "Casual Linen Shirt – Sand",
					Price:     1799,
					Quantity:  1,
					Image:     "/assets/img/products/product_1.jpeg",
				},
			},
		},
		{
			ID:      "IT-3KLM90",
			Date:    day("2025-08-20"),
			Status:  StatusProcessing,
			Pricing: pricing.Summary{Subtotal: 1299, Total: 1299},
			Items: []Item{
				{
					ProductID: "p4",
					Name:      "Essential Cotton Tee – Black",
					Price:     1299,
					Quantity:  1,
					Image:     "/assets/img/products/product_2.jpeg",
				},
			},
		},
	}
}
