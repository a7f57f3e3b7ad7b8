package session

import (
	"net/http"

	"github.com/noah-isme/storefront/internal/common"
)

// Handler exposes the session flags over HTTP.
type Handler struct {
	Svc *Service
}

// State returns the current flags.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	state, err := h.Svc.State(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load session", nil)
		return
	}
	common.Data(w, http.StatusOK, state)
}

// Login sets the login flag and returns the new state.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Login(r.Context()); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to update session", nil)
		return
	}
	h.State(w, r)
}

// Logout clears the login flag and returns the new state.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Logout(r.Context()); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to update session", nil)
		return
	}
	h.State(w, r)
}

// FinishOnboarding marks onboarding as seen and returns the new state.
func (h *Handler) FinishOnboarding(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.FinishOnboarding(r.Context()); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to update session", nil)
		return
	}
	h.State(w, r)
}
