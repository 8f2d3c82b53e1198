package server

import (
	"fmt"
	"net/http"

	"github.com/locksum/locksum/internal/common"
	"github.com/locksum/locksum/internal/model"
)

type budgetRequest struct {
	Category    string  `json:"category"`
	LimitAmount float64 `json:"limit_amount"`
}

type budgetResponse struct {
	ID          int64   `json:"id"`
	Category    string  `json:"category"`
	LimitAmount float64 `json:"limit_amount"`
}

// badQueryParam builds a user-facing error for an unparseable query value.
func badQueryParam(name string) error {
	return common.NewUserError(
		fmt.Sprintf("Invalid value for %q", name),
		fmt.Errorf("bad query param %s", name))
}

// handleUpsertBudget creates or replaces the budget for a category.
func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if req.Category == "" {
		respondDetail(w, http.StatusBadRequest, "Budget category is required")
		return
	}
	if req.LimitAmount < 0 {
		respondDetail(w, http.StatusBadRequest, "Budget limit cannot be negative")
		return
	}

	budget := &model.Budget{
		UserID:      userID,
		Category:    req.Category,
		LimitAmount: req.LimitAmount,
	}
	if err := s.deps.Storage.UpsertBudget(r.Context(), budget); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, budgetResponse{
		ID:          budget.ID,
		Category:    budget.Category,
		LimitAmount: budget.LimitAmount,
	})
}

// handleListBudgets returns all budgets for the user.
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	budgets, err := s.deps.Storage.GetBudgets(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, budgetResponse{
			ID:          b.ID,
			Category:    b.Category,
			LimitAmount: b.LimitAmount,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// handleDeleteBudget removes the budget for a category.
func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	category := r.PathValue("category")
	if err := s.deps.Storage.DeleteBudget(r.Context(), userID, category); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
