package wishlist

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/storefront/internal/catalog"
	"github.com/noah-isme/storefront/internal/common"
)

// Handler exposes wishlist endpoints.
type Handler struct {
	Svc     *Service
	Catalog *catalog.Service
}

// List handles GET /api/v1/wishlist.
func (h *Handler) List(w http.ResponseWriter, _ *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "wishlist not configured", nil)
		return
	}
	common.Data(w, http.StatusOK, h.Svc.List())
}

// Add handles POST /api/v1/wishlist.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil || h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "wishlist not configured", nil)
		return
	}
	var payload struct {
		ProductID string `json:"productId"`
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
	product, err := h.Catalog.Get(payload.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load product", nil)
		return
	}
	h.Svc.Add(product)
	common.Data(w, http.StatusOK, h.Svc.List())
}

// Remove handles DELETE /api/v1/wishlist/{productId}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "wishlist not configured", nil)
		return
	}
	h.Svc.Remove(chi.URLParam(r, "productId"))
	common.Data(w, http.StatusOK, h.Svc.List())
}
