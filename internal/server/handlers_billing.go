package server

import (
	"io"
	"net/http"

	"github.com/locksum/locksum/internal/model"
)

type checkoutRequest struct {
	Plan     string `json:"plan"`     // plus | pro
	Interval string `json:"interval"` // monthly | yearly
}

// handleCheckoutSession starts a Stripe subscription checkout.
func (s *Server) handleCheckoutSession(w http.ResponseWriter, r *http.Request) {
	if s.deps.Billing == nil {
		respondDetail(w, http.StatusServiceUnavailable, "Billing is not configured")
		return
	}

	user, err := s.currentUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	req := checkoutRequest{Plan: "plus", Interval: "monthly"}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	url, err := s.deps.Billing.CreateCheckoutSession(r.Context(), user, model.Plan(req.Plan), req.Interval)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// handleBillingWebhook applies Stripe subscription events. Stripe
// authenticates itself through the signature header, not a bearer token.
func (s *Server) handleBillingWebhook(w http.ResponseWriter, r *http.Request) {
	if s.deps.Billing == nil {
		respondDetail(w, http.StatusServiceUnavailable, "Billing is not configured")
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Failed to read payload")
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if err := s.deps.Billing.HandleWebhook(r.Context(), payload, signature); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
