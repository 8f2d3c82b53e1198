package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/locksum/locksum/internal/advisor"
	"github.com/locksum/locksum/internal/model"
)

type debtPlanRequest struct {
	TotalDebt    float64 `json:"total_debt"`
	MonthlyExtra float64 `json:"monthly_extra"`
	Risk         string  `json:"risk"`
}

// handleInsights runs the advisory pipeline over the trailing window.
// Gated to plus-or-higher plans with an active subscription.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if !user.Plan.AtLeast(model.PlanPlus) || !user.HasActiveSubscription() {
		respondDetail(w, http.StatusPaymentRequired,
			"Plus plan (or higher) required for this feature.")
		return
	}

	windowDays := advisor.DefaultWindowDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, r, badQueryParam("days"))
			return
		}
		windowDays = n
	}

	// The body is an optional goals object; an empty body means no goals.
	var goals *model.Goals
	body, err := io.ReadAll(r.Body)
	if err == nil && len(body) > 0 {
		goals = &model.Goals{}
		if err := json.Unmarshal(body, goals); err != nil {
			respondDetail(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	report, err := s.deps.Engine.ComputeInsights(r.Context(), user.ID, windowDays, goals)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// handleDebtPlan estimates a payoff schedule. Unrecognized risk values are
// normalized to medium rather than rejected.
func (s *Server) handleDebtPlan(w http.ResponseWriter, r *http.Request) {
	var req debtPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		// An empty body still yields the degenerate plan.
		if !errors.Is(err, io.EOF) {
			respondError(w, r, err)
			return
		}
	}

	plan := s.deps.Engine.ComputeDebtPlan(req.TotalDebt, req.MonthlyExtra, advisor.ParseRiskLevel(req.Risk))
	respondJSON(w, http.StatusOK, plan)
}
