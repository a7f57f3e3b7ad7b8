package pricing

// Money represents a monetary value in whole currency units.
type Money = int64

// Item describes a line item used for pricing calculation.
type Item struct {
	Qty       int
	UnitPrice Money
}

// Config carries the pricing constants. RegionSurcharges maps a postal-code
// prefix (first two digits) to an additional shipping fee; it is empty by
// default and exists as an extension hook.
type Config struct {
	TaxBps           int
	FreeShippingMin  Money
	BaseShippingFee  Money
	RegionSurcharges map[string]Money
}

// Summary aggregates computed pricing components in derivation order.
type Summary struct {
	Subtotal    Money `json:"subtotal"`
	Discount    Money `json:"discount"`
	TaxableBase Money `json:"taxableBase"`
	Tax         Money `json:"tax"`
	Shipping    Money `json:"shipping"`
	Total       Money `json:"total"`
}

// Quote derives order totals from a cart snapshot, an optional promo, and an
// optional destination postal code. It is pure: safe to call on every request.
//
// Stage order is fixed: subtotal, promo discount, taxable base, tax,
// shipping, total. Tax rounds half up on basis points, matching the rounding
// the rest of the system uses.
func Quote(items []Item, promo *Promo, postalCode string, cfg Config) Summary {
	var subtotal Money
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		subtotal += Money(it.Qty) * it.UnitPrice
	}

	var discount Money
	if promo != nil && promo.Compute != nil {
		discount = promo.Compute(subtotal)
		if discount < 0 {
			discount = 0
		}
	}

	taxable := subtotal - discount
	if taxable < 0 {
		taxable = 0
	}

	tax := roundBps(taxable, cfg.TaxBps)

	var shipping Money
	switch {
	case len(items) == 0:
		shipping = 0
	case promo != nil && promo.FreeShipping:
		shipping = 0
	default:
		if subtotal < cfg.FreeShippingMin {
			shipping = cfg.BaseShippingFee
		}
		shipping += surcharge(cfg.RegionSurcharges, postalCode)
	}

	total := taxable + tax + shipping
	if total < 0 {
		total = 0
	}

	return Summary{
		Subtotal:    subtotal,
		Discount:    discount,
		TaxableBase: taxable,
		Tax:         tax,
		Shipping:    shipping,
		Total:       total,
	}
}

// roundBps applies a basis-point rate with half-up rounding. v must be
// non-negative.
func roundBps(v Money, bps int) Money {
	if bps <= 0 || v <= 0 {
		return 0
	}
	return (v*Money(bps) + 5000) / 10000
}

func surcharge(table map[string]Money, postalCode string) Money {
	if len(table) == 0 || len(postalCode) < 2 {
		return 0
	}
	return table[postalCode[:2]]
}
