package cart_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront/internal/cart"
	"github.com/noah-isme/storefront/internal/catalog"
	"github.com/noah-isme/storefront/internal/pricing"
	"github.com/noah-isme/storefront/internal/store"
	"github.com/noah-isme/storefront/internal/wishlist"
)

type cartResponse struct {
	Data struct {
		Items    []cart.LineItem `json:"items"`
		Pricing  pricing.Summary `json:"pricing"`
		Currency string          `json:"currency"`
	} `json:"data"`
}

func newRouter(t *testing.T) (chi.Router, *cart.Engine, *wishlist.Service) {
	t.Helper()
	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{})
	require.NoError(t, err)

	engine := cart.NewEngine(cart.EngineConfig{
		Store:             store.NewMemory(),
		Logger:            zerolog.Nop(),
		AllowZeroQtyLines: true,
	})
	t.Cleanup(engine.Close)
	engine.Hydrate(context.Background())

	wl := wishlist.NewService()
	handler := &cart.Handler{
		Engine:   engine,
		Catalog:  catalogSvc,
		Wishlist: wl,
		Pricing:  pricing.Config{TaxBps: 1800, FreeShippingMin: 999, BaseShippingFee: 79},
		Currency: "INR",
	}

	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(c chi.Router) {
		c.Get("/", handler.Get)
		c.Delete("/", handler.Clear)
		c.Post("/items", handler.AddItem)
		c.Patch("/items/{productId}", handler.UpdateItem)
		c.Delete("/items/{productId}", handler.RemoveItem)
		c.Post("/items/{productId}/wishlist", handler.MoveToWishlist)
	})
	return r, engine, wl
}

func doJSON(t *testing.T, r http.Handler, method, target, body string) (*httptest.ResponseRecorder, cartResponse) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var resp cartResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestCartHTTPFlow(t *testing.T) {
	r, _, wl := newRouter(t)

	rec, resp := doJSON(t, r, http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, resp.Data.Items)
	require.EqualValues(t, 0, resp.Data.Pricing.Total)
	require.Equal(t, "INR", resp.Data.Currency)

	rec, resp = doJSON(t, r, http.MethodPost, "/api/v1/cart/items",
		`{"productId":"shirt-oxford-001","qty":2,"size":"M","variantIndex":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Data.Items, 1)
	require.Equal(t, 2, resp.Data.Items[0].Quantity)
	require.EqualValues(t, 3998, resp.Data.Pricing.Subtotal)
	// over the free-shipping threshold
	require.EqualValues(t, 0, resp.Data.Pricing.Shipping)

	// same triple merges and clamps against M stock of 8
	rec, resp = doJSON(t, r, http.MethodPost, "/api/v1/cart/items",
		`{"productId":"shirt-oxford-001","qty":10,"size":"M","variantIndex":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Data.Items, 1)
	require.Equal(t, 8, resp.Data.Items[0].Quantity)

	rec, resp = doJSON(t, r, http.MethodPatch, "/api/v1/cart/items/shirt-oxford-001",
		`{"qty":1,"size":"M","variantIndex":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, resp.Data.Items[0].Quantity)

	rec, resp = doJSON(t, r, http.MethodPost, "/api/v1/cart/items/shirt-oxford-001/wishlist?size=M&variant=0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, resp.Data.Items)
	require.True(t, wl.Contains("shirt-oxford-001"))

	rec, _ = doJSON(t, r, http.MethodDelete, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCartHTTPErrors(t *testing.T) {
	r, _, _ := newRouter(t)

	rec, _ := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", `{"qty":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, r, http.MethodPost, "/api/v1/cart/items", `{"productId":"missing"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, r, http.MethodPost, "/api/v1/cart/items",
		`{"productId":"shirt-oxford-001","variantIndex":7}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, r, http.MethodPost, "/api/v1/cart/items/shirt-oxford-001/wishlist?size=M", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	// deleting an absent line stays a 200 no-op
	rec, _ = doJSON(t, r, http.MethodDelete, "/api/v1/cart/items/shirt-oxford-001?size=M", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCartHTTPNotHydrated(t *testing.T) {
	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{})
	require.NoError(t, err)
	engine := cart.NewEngine(cart.EngineConfig{Logger: zerolog.Nop(), AllowZeroQtyLines: true})
	t.Cleanup(engine.Close)

	handler := &cart.Handler{Engine: engine, Catalog: catalogSvc, Wishlist: wishlist.NewService()}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	handler.Get(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
