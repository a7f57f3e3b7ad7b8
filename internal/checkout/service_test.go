package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront/internal/cart"
	"github.com/noah-isme/storefront/internal/catalog"
	"github.com/noah-isme/storefront/internal/order"
	"github.com/noah-isme/storefront/internal/pricing"
)

func testPricingConfig() pricing.Config {
	return pricing.Config{TaxBps: 1800, FreeShippingMin: 999, BaseShippingFee: 79}
}

func newCheckoutService(t *testing.T, seed func(*cart.Engine, *catalog.Service)) *Service {
	t.Helper()
	cat, err := catalog.NewService(catalog.ServiceConfig{})
	require.NoError(t, err)
	engine := cart.NewEngine(cart.EngineConfig{Logger: zerolog.Nop(), AllowZeroQtyLines: true})
	engine.Hydrate(context.Background())
	t.Cleanup(engine.Close)
	if seed != nil {
		seed(engine, cat)
	}
	return NewService(engine, order.NewService(), pricing.DefaultPromos(), testPricingConfig(), "INR")
}

func seedOxford(t *testing.T) func(*cart.Engine, *catalog.Service) {
	return func(engine *cart.Engine, cat *catalog.Service) {
		p, err := cat.Get("shirt-oxford-001")
		require.NoError(t, err)
		_, err = engine.Add(p, 1, "M", 0)
		require.NoError(t, err)
	}
}

func validAddress() Address {
	return Address{
		Name:  "Asha Rao",
		Phone: "9876543210",
		Line1: "14 MG Road",
		City:  "Bengaluru",
		Pin:   "560001",
	}
}

func TestQuoteCartWithoutPromo(t *testing.T) {
	svc := newCheckoutService(t, seedOxford(t))

	quote, err := svc.QuoteCart(QuoteInput{})
	require.NoError(t, err)
	require.Nil(t, quote.Promo)
	require.Equal(t, pricing.Money(1999), quote.Pricing.Subtotal)
	require.Equal(t, pricing.Money(0), quote.Pricing.Shipping)
	require.Equal(t, pricing.Money(360), quote.Pricing.Tax)
	require.Equal(t, pricing.Money(2359), quote.Pricing.Total)
	require.Equal(t, "INR", quote.Currency)
}

func TestQuoteCartAppliesFlatPromo(t *testing.T) {
	svc := newCheckoutService(t, func(engine *cart.Engine, cat *catalog.Service) {
		p, err := cat.Get("shirt-oxford-001")
		require.NoError(t, err)
		_, err = engine.Add(p, 1, "M", 0)
		require.NoError(t, err)
		tee, err := cat.Get("tee-oxford-003")
		require.NoError(t, err)
		_, err = engine.Add(tee, 1, "S", 0)
		require.NoError(t, err)
	})

	quote, err := svc.QuoteCart(QuoteInput{PromoCode: "save1500"})
	require.NoError(t, err)
	require.NotNil(t, quote.Promo)
	require.Equal(t, "SAVE1500", quote.Promo.Code)
	require.Equal(t, pricing.Money(2998), quote.Pricing.Subtotal)
	require.Equal(t, pricing.Money(200), quote.Pricing.Discount)
	require.Equal(t, pricing.Money(2798), quote.Pricing.TaxableBase)
	require.Equal(t, pricing.Money(504), quote.Pricing.Tax)
	require.Equal(t, pricing.Money(0), quote.Pricing.Shipping)
	require.Equal(t, pricing.Money(3302), quote.Pricing.Total)
}

func TestQuoteCartUnknownPromo(t *testing.T) {
	svc := newCheckoutService(t, seedOxford(t))

	_, err := svc.QuoteCart(QuoteInput{PromoCode: "NOPE50"})
	require.ErrorIs(t, err, pricing.ErrUnknownCode)
}

func TestQuoteBeforeHydrateFails(t *testing.T) {
	engine := cart.NewEngine(cart.EngineConfig{Logger: zerolog.Nop()})
	t.Cleanup(engine.Close)
	svc := NewService(engine, order.NewService(), pricing.DefaultPromos(), testPricingConfig(), "INR")

	_, err := svc.QuoteCart(QuoteInput{})
	require.ErrorIs(t, err, cart.ErrNotHydrated)
}

func TestPlaceRecordsOrderAndClearsCart(t *testing.T) {
	svc := newCheckoutService(t, seedOxford(t))

	placed, err := svc.Place(PlaceInput{Address: validAddress(), PromoCode: "FREESHIP", PostalCode: "560001"})
	require.NoError(t, err)
	require.Equal(t, order.StatusProcessing, placed.Status)
	require.NotNil(t, placed.Address)
	require.Equal(t, "Bengaluru", placed.Address.City)
	require.Len(t, placed.Items, 1)
	require.Equal(t, "shirt-oxford-001", placed.Items[0].ProductID)
	require.Equal(t, pricing.Money(1999), placed.Pricing.Subtotal)
	require.Equal(t, pricing.Money(0), placed.Pricing.Shipping)

	require.Empty(t, svc.Engine.Items())

	stored, err := svc.Orders.Get(placed.ID)
	require.NoError(t, err)
	require.Equal(t, placed.ID, stored.ID)
}

func TestPlaceEmptyCartRejected(t *testing.T) {
	svc := newCheckoutService(t, nil)

	_, err := svc.Place(PlaceInput{Address: validAddress()})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceInvalidAddressRejected(t *testing.T) {
	svc := newCheckoutService(t, seedOxford(t))

	addr := validAddress()
	addr.Pin = "12AB"
	_, err := svc.Place(PlaceInput{Address: addr})
	require.Error(t, err)

	require.Len(t, svc.Engine.Items(), 1)
}

func TestCheckoutHandlers(t *testing.T) {
	svc := newCheckoutService(t, seedOxford(t))
	h := &Handler{Svc: svc}

	r := chi.NewRouter()
	r.Post("/api/v1/checkout/quote", h.Quote)
	r.Post("/api/v1/checkout", h.Place)

	post := func(path string, body any) *httptest.ResponseRecorder {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := post("/api/v1/checkout/quote", QuoteInput{PromoCode: "IMPERIAL10"})
	require.Equal(t, http.StatusOK, rec.Code)
	var quoted struct {
		Data Quote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quoted))
	require.Equal(t, pricing.Money(200), quoted.Data.Pricing.Discount)

	rec = post("/api/v1/checkout/quote", QuoteInput{PromoCode: "BOGUS"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "INVALID_PROMO")
	require.Contains(t, rec.Body.String(), "subtotal")

	rec = post("/api/v1/checkout", PlaceInput{Address: Address{Name: "A"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION")

	rec = post("/api/v1/checkout", PlaceInput{Address: validAddress()})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), "IT-")

	rec = post("/api/v1/checkout", PlaceInput{Address: validAddress()})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "EMPTY_CART")
}
