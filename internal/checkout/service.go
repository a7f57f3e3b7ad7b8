package checkout

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/storefront/internal/cart"
	"github.com/noah-isme/storefront/internal/obs"
	"github.com/noah-isme/storefront/internal/order"
	"github.com/noah-isme/storefront/internal/pricing"
)

// ErrEmptyCart is returned when placing an order with nothing in the cart.
var ErrEmptyCart = errors.New("checkout: cart is empty")

// Address is the shipping destination submitted at checkout.
type Address struct {
	Name  string `json:"name" validate:"required,min=2"`
	Phone string `json:"phone" validate:"required,min=7,max=15"`
	Line1 string `json:"line1" validate:"required,min=3"`
	Line2 string `json:"line2"`
	City  string `json:"city" validate:"required"`
	Pin   string `json:"pin" validate:"required,len=6,numeric"`
}

// QuoteInput selects the promo and destination to price the current cart.
type QuoteInput struct {
	PromoCode  string `json:"promoCode"`
	PostalCode string `json:"postalCode"`
}

// PlaceInput is the full checkout request.
type PlaceInput struct {
	Address    Address `json:"address" validate:"required"`
	PromoCode  string  `json:"promoCode"`
	PostalCode string  `json:"postalCode"`
}

// Quote is a priced view of the cart under an optional promo.
type Quote struct {
	Items    []cart.LineItem `json:"items"`
	Promo    *PromoView      `json:"promo,omitempty"`
	Pricing  pricing.Summary `json:"pricing"`
	Currency string          `json:"currency"`
}

// PromoView is the applied promo as shown to the client.
type PromoView struct {
	Code         string `json:"code"`
	Label        string `json:"label"`
	FreeShipping bool   `json:"freeShipping,omitempty"`
}

// Service turns the live cart into quotes and placed orders.
type Service struct {
	Engine   *cart.Engine
	Orders   *order.Service
	Promos   pricing.Registry
	Pricing  pricing.Config
	Validate *validator.Validate
	Currency string
}

// NewService wires a checkout service with a ready validator.
func NewService(engine *cart.Engine, orders *order.Service, promos pricing.Registry, cfg pricing.Config, currency string) *Service {
	return &Service{
		Engine:   engine,
		Orders:   orders,
		Promos:   promos,
		Pricing:  cfg,
		Validate: validator.New(),
		Currency: currency,
	}
}

// QuoteCart prices the current cart contents. An unknown promo code returns
// pricing.ErrUnknownCode; the cart itself is never modified.
func (s *Service) QuoteCart(in QuoteInput) (Quote, error) {
	if s == nil || s.Engine == nil {
		return Quote{}, errors.New("checkout service not configured")
	}
	if !s.Engine.Hydrated() {
		return Quote{}, cart.ErrNotHydrated
	}
	items := s.Engine.Items()
	if items == nil {
		items = []cart.LineItem{}
	}
	var promo *pricing.Promo
	var view *PromoView
	if in.PromoCode != "" {
		found, err := s.Promos.Find(in.PromoCode)
		if err != nil {
			return Quote{}, err
		}
		promo = &found
		view = &PromoView{Code: found.Code, Label: found.Label, FreeShipping: found.FreeShipping}
		if obs.PromoAppliedTotal != nil {
			obs.PromoAppliedTotal.WithLabelValues(found.Code).Inc()
		}
	}
	summary := pricing.Quote(cart.PricingItems(items), promo, in.PostalCode, s.Pricing)
	return Quote{Items: items, Promo: view, Pricing: summary, Currency: s.Currency}, nil
}

// Place validates the address, prices the cart, records the order, and
// clears the cart.
func (s *Service) Place(in PlaceInput) (order.Order, error) {
	if s == nil || s.Engine == nil || s.Orders == nil {
		return order.Order{}, errors.New("checkout service not configured")
	}
	if err := s.Validate.Struct(in); err != nil {
		return order.Order{}, err
	}
	quote, err := s.QuoteCart(QuoteInput{PromoCode: in.PromoCode, PostalCode: in.PostalCode})
	if err != nil {
		return order.Order{}, err
	}
	if len(quote.Items) == 0 {
		return order.Order{}, ErrEmptyCart
	}
	placed := s.Orders.Place(order.Order{
		Address: &order.Address{
			Name:  in.Address.Name,
			Phone: in.Address.Phone,
			Line1: in.Address.Line1,
			Line2: in.Address.Line2,
			City:  in.Address.City,
			Pin:   in.Address.Pin,
		},
		Pricing: quote.Pricing,
		Items:   orderItems(quote.Items),
	})
	if obs.OrdersPlacedTotal != nil {
		obs.OrdersPlacedTotal.Inc()
	}
	if err := s.Engine.Clear(); err != nil {
		return placed, err
	}
	return placed, nil
}

func orderItems(lines []cart.LineItem) []order.Item {
	out := make([]order.Item, 0, len(lines))
	for _, line := range lines {
		image := ""
		if len(line.Images) > 0 {
			image = line.Images[0]
		}
		out = append(out, order.Item{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Image:     image,
		})
	}
	return out
}
