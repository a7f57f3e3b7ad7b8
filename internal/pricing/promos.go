package pricing

import (
	"errors"
	"strings"
)

// ErrUnknownCode is returned when a promo code matches no registry entry.
// Callers surface it to the user as an "invalid code" message; totals stay
// identical to having no promo applied.
var ErrUnknownCode = errors.New("pricing: unknown promo code")

// Promo is a named discount rule applied to the pre-tax subtotal. A promo
// with FreeShipping set waives the shipping fee downstream instead of (or in
// addition to) discounting money.
type Promo struct {
	Code         string                     `json:"code"`
	Label        string                     `json:"label"`
	Compute      func(subtotal Money) Money `json:"-"`
	FreeShipping bool                       `json:"freeShipping,omitempty"`
}

// Registry is an ordered, read-only promo collection.
type Registry []Promo

// Find matches a code case-insensitively.
func (r Registry) Find(code string) (Promo, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return Promo{}, ErrUnknownCode
	}
	for _, p := range r {
		if strings.EqualFold(p.Code, trimmed) {
			return p, nil
		}
	}
	return Promo{}, ErrUnknownCode
}

// DefaultPromos returns the built-in promo registry.
func DefaultPromos() Registry {
	return Registry{
		{
			Code:  "IMPERIAL10",
			Label: "10% off",
			// 10% of subtotal, rounded half up.
			Compute: func(subtotal Money) Money { return (subtotal + 5) / 10 },
		},
		{
			Code:         "FREESHIP",
			Label:        "Free Shipping",
			Compute:      func(Money) Money { return 0 },
			FreeShipping: true,
		},
		{
			Code:  "SAVE1500",
			Label: "₹200 off orders ₹1500+",
			Compute: func(subtotal Money) Money {
				if subtotal >= 1500 {
					return 200
				}
				return 0
			},
		},
	}
}
