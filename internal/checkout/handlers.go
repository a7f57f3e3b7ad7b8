package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/storefront/internal/cart"
	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/pricing"
)

// Handler exposes checkout over HTTP.
type Handler struct {
	Svc *Service
}

// Quote prices the current cart under an optional promo code without
// placing an order.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var payload QuoteInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	quote, err := h.Svc.QuoteCart(payload)
	if err != nil {
		h.writeError(w, payload, err)
		return
	}
	common.Data(w, http.StatusOK, quote)
}

// Place validates the request, converts the cart into an order, and empties
// the cart.
func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var payload PlaceInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	placed, err := h.Svc.Place(payload)
	if err != nil {
		h.writeError(w, QuoteInput{PostalCode: payload.PostalCode}, err)
		return
	}
	common.Data(w, http.StatusCreated, placed)
}

// writeError maps checkout failures to the API error envelope. Unknown
// promo codes answer 422 and carry the promo-free totals in details so the
// client can keep rendering the cart.
func (h *Handler) writeError(w http.ResponseWriter, in QuoteInput, err error) {
	var vErrs validator.ValidationErrors
	switch {
	case errors.Is(err, cart.ErrNotHydrated):
		common.JSONError(w, http.StatusServiceUnavailable, "NOT_READY", "cart not hydrated yet", nil)
	case errors.Is(err, pricing.ErrUnknownCode):
		var details any
		if fallback, qErr := h.Svc.QuoteCart(QuoteInput{PostalCode: in.PostalCode}); qErr == nil {
			details = map[string]any{"pricing": fallback.Pricing}
		}
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_PROMO", "unknown promo code", details)
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusConflict, "EMPTY_CART", "cart is empty", nil)
	case errors.As(err, &vErrs):
		fields := make(map[string]string, len(vErrs))
		for _, fe := range vErrs {
			fields[fe.Field()] = fe.Tag()
		}
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid address", fields)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout failed", nil)
	}
}
