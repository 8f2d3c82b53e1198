// Package server exposes the HTTP API: auth, transactions, budgets, the
// advisory endpoints, Plaid linking, and Stripe billing.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/locksum/locksum/internal/advisor"
	"github.com/locksum/locksum/internal/auth"
	"github.com/locksum/locksum/internal/billing"
	"github.com/locksum/locksum/internal/config"
	"github.com/locksum/locksum/internal/plaid"
	"github.com/locksum/locksum/internal/service"
)

// Deps contains all dependencies required by the HTTP server.
type Deps struct {
	// Storage provides access to the persistence layer.
	Storage service.Storage
	// Engine computes insights and debt plans.
	Engine *advisor.Engine
	// Tokens issues and verifies access tokens.
	Tokens *auth.TokenIssuer
	// Bank talks to Plaid. Optional; bank routes 503 when nil.
	Bank plaid.BankGateway
	// Billing talks to Stripe. Optional; billing routes 503 when nil.
	Billing billing.Gateway
	// Config holds listen address and frontend origin.
	Config config.ServerConfig
}

// Validate ensures all required dependencies are provided.
func (d *Deps) Validate() error {
	if d.Storage == nil {
		return fmt.Errorf("storage dependency is required")
	}
	if d.Engine == nil {
		return fmt.Errorf("engine dependency is required")
	}
	if d.Tokens == nil {
		return fmt.Errorf("token issuer dependency is required")
	}
	return nil
}

// Server handles HTTP requests for the finance API.
type Server struct {
	deps   Deps
	logger *slog.Logger
}

// New creates a new server with the provided dependencies.
func New(deps Deps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	return &Server{
		deps:   deps,
		logger: slog.Default().With("component", "server"),
	}, nil
}

// Handler builds the route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHealth)

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.Handle("GET /auth/me", s.requireAuth(s.handleMe))

	mux.Handle("POST /transactions", s.requireAuth(s.handleCreateTransaction))
	mux.Handle("GET /transactions", s.requireAuth(s.handleListTransactions))

	mux.Handle("POST /budgets", s.requireAuth(s.handleUpsertBudget))
	mux.Handle("GET /budgets", s.requireAuth(s.handleListBudgets))
	mux.Handle("DELETE /budgets/{category}", s.requireAuth(s.handleDeleteBudget))

	mux.Handle("POST /ai/insights", s.requireAuth(s.handleInsights))
	mux.HandleFunc("POST /ai/debt-plan", s.handleDebtPlan)

	mux.Handle("POST /plaid/link-token", s.requireAuth(s.handlePlaidLinkToken))
	mux.Handle("POST /plaid/exchange", s.requireAuth(s.handlePlaidExchange))
	mux.Handle("POST /plaid/sync", s.requireAuth(s.handlePlaidSync))

	mux.Handle("POST /billing/checkout-session", s.requireAuth(s.handleCheckoutSession))
	mux.HandleFunc("POST /billing/webhook", s.handleBillingWebhook)

	return s.withRequestID(s.withLogging(s.withCORS(mux)))
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
