package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/storefront/internal/catalog"
	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/obs"
	"github.com/noah-isme/storefront/internal/pricing"
	"github.com/noah-isme/storefront/internal/wishlist"
)

// Handler wires the cart engine to HTTP.
type Handler struct {
	Engine   *Engine
	Catalog  *catalog.Service
	Wishlist *wishlist.Service
	Pricing  pricing.Config
	Currency string
}

// Get returns cart contents and a pricing preview without any promo applied.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Engine == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart engine not configured", nil)
		return
	}
	if !h.Engine.Hydrated() {
		common.JSONError(w, http.StatusServiceUnavailable, "NOT_READY", "cart not hydrated yet", nil)
		return
	}
	h.renderCart(w, r)
}

// AddItem adds or merges a cart line.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	if h.Engine == nil || h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart engine not configured", nil)
		return
	}
	var payload struct {
		ProductID    string `json:"productId"`
		Qty          int    `json:"qty"`
		Size         string `json:"size"`
		VariantIndex int    `json:"variantIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	payload.ProductID = strings.TrimSpace(payload.ProductID)
	if payload.ProductID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "productId is required", nil)
		return
	}
	if payload.Qty == 0 {
		payload.Qty = 1
	}
	product, err := h.Catalog.Get(payload.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load product", nil)
		return
	}
	_, err = h.Engine.Add(product, payload.Qty, payload.Size, payload.VariantIndex)
	observeMutation("add", err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.renderCart(w, r)
}

// UpdateItem replaces the quantity of a cart line.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if h.Engine == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart engine not configured", nil)
		return
	}
	productID := chi.URLParam(r, "productId")
	var payload struct {
		Qty          int    `json:"qty"`
		Size         string `json:"size"`
		VariantIndex int    `json:"variantIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	err := h.Engine.UpdateQty(productID, payload.Qty, payload.Size, payload.VariantIndex)
	observeMutation("update", err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.renderCart(w, r)
}

// RemoveItem deletes a cart line identified by the triple key.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if h.Engine == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart engine not configured", nil)
		return
	}
	productID := chi.URLParam(r, "productId")
	size, variantIndex := lineSelector(r)
	err := h.Engine.Remove(productID, size, variantIndex)
	observeMutation("remove", err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.renderCart(w, r)
}

// MoveToWishlist removes a cart line and saves its product for later.
func (h *Handler) MoveToWishlist(w http.ResponseWriter, r *http.Request) {
	if h.Engine == nil || h.Wishlist == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart engine not configured", nil)
		return
	}
	productID := chi.URLParam(r, "productId")
	size, variantIndex := lineSelector(r)
	line, found := h.Engine.Find(productID, size, variantIndex)
	if !found {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart line not found", nil)
		return
	}
	h.Wishlist.Add(line.Product())
	err := h.Engine.Remove(productID, size, variantIndex)
	observeMutation("move_to_wishlist", err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.renderCart(w, r)
}

// Clear empties the cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if h.Engine == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart engine not configured", nil)
		return
	}
	err := h.Engine.Clear()
	observeMutation("clear", err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.renderCart(w, r)
}

func (h *Handler) renderCart(w http.ResponseWriter, _ *http.Request) {
	items := h.Engine.Items()
	summary := pricing.Quote(PricingItems(items), nil, "", h.Pricing)
	if items == nil {
		items = []LineItem{}
	}
	common.Data(w, http.StatusOK, map[string]any{
		"items":    items,
		"pricing":  summary,
		"currency": h.Currency,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotHydrated):
		common.JSONError(w, http.StatusServiceUnavailable, "NOT_READY", "cart not hydrated yet", nil)
	case errors.Is(err, ErrInvalidVariant):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid variant index", nil)
	case errors.Is(err, ErrOutOfStock):
		common.JSONError(w, http.StatusConflict, "OUT_OF_STOCK", "selected size is out of stock", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart operation failed", nil)
	}
}

func observeMutation(op string, err error) {
	if obs.CartMutationsTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	obs.CartMutationsTotal.WithLabelValues(op, result).Inc()
}

func lineSelector(r *http.Request) (size string, variantIndex int) {
	q := r.URL.Query()
	size = q.Get("size")
	variantIndex, _ = strconv.Atoi(q.Get("variant"))
	return size, variantIndex
}
