package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/locksum/locksum/internal/model"
	"github.com/locksum/locksum/internal/service"
)

type transactionRequest struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"` // YYYY-MM-DD
	Category string  `json:"category"`
}

type transactionResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
}

func toTransactionResponse(t model.Transaction) transactionResponse {
	return transactionResponse{
		ID:       t.ID,
		Name:     t.Name,
		Amount:   t.Amount,
		Date:     t.Date.Format("2006-01-02"),
		Category: t.Category,
	}
}

// handleCreateTransaction records a manually entered transaction.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if req.Name == "" {
		respondDetail(w, http.StatusBadRequest, "Transaction name is required")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
		return
	}

	category := req.Category
	if category == "" {
		category = model.DefaultCategory
	}

	tx := model.Transaction{
		ID:       uuid.NewString(),
		UserID:   userID,
		Name:     req.Name,
		Amount:   req.Amount,
		Date:     date,
		Category: category,
	}
	tx.Hash = tx.GenerateHash()

	if err := s.deps.Storage.SaveTransactions(r.Context(), []model.Transaction{tx}); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toTransactionResponse(tx))
}

// handleListTransactions returns the user's transactions, optionally filtered
// by category, date range, and pagination parameters.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	filter, err := parseTransactionFilter(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	transactions, err := s.deps.Storage.GetTransactions(r.Context(), userID, filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionResponse(t))
	}
	respondJSON(w, http.StatusOK, out)
}

func parseTransactionFilter(r *http.Request) (service.TransactionFilter, error) {
	q := r.URL.Query()
	filter := service.TransactionFilter{
		Category: q.Get("category"),
	}

	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, badQueryParam("start_date")
		}
		filter.StartDate = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, badQueryParam("end_date")
		}
		filter.EndDate = &t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, badQueryParam("limit")
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, badQueryParam("offset")
		}
		filter.Offset = n
	}

	return filter, nil
}
