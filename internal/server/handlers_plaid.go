package server

import (
	"net/http"
	"time"

	"github.com/locksum/locksum/internal/model"
)

// syncWindowDays is how far back a Plaid sync reaches.
const syncWindowDays = 90

type plaidExchangeRequest struct {
	PublicToken     string `json:"public_token"`
	InstitutionName string `json:"institution_name"`
}

// handlePlaidLinkToken creates a Link token for the frontend Link flow.
func (s *Server) handlePlaidLinkToken(w http.ResponseWriter, r *http.Request) {
	if s.deps.Bank == nil {
		respondDetail(w, http.StatusServiceUnavailable, "Plaid is not configured")
		return
	}
	userID, _ := userIDFrom(r.Context())

	token, err := s.deps.Bank.CreateLinkToken(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"link_token": token})
}

// handlePlaidExchange swaps a public token for an access token and stores the
// linked item.
func (s *Server) handlePlaidExchange(w http.ResponseWriter, r *http.Request) {
	if s.deps.Bank == nil {
		respondDetail(w, http.StatusServiceUnavailable, "Plaid is not configured")
		return
	}
	userID, _ := userIDFrom(r.Context())

	var req plaidExchangeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.PublicToken == "" {
		respondDetail(w, http.StatusBadRequest, "public_token is required")
		return
	}

	accessToken, itemID, err := s.deps.Bank.ExchangePublicToken(r.Context(), req.PublicToken)
	if err != nil {
		respondError(w, r, err)
		return
	}

	item := &model.BankItem{
		UserID:          userID,
		AccessToken:     accessToken,
		ItemID:          itemID,
		InstitutionName: req.InstitutionName,
	}
	if err := s.deps.Storage.SaveBankItem(r.Context(), item); err != nil {
		respondError(w, r, err)
		return
	}

	s.logger.Info("Linked bank item", "user_id", userID, "item_id", itemID)
	respondJSON(w, http.StatusOK, map[string]string{"status": "linked", "item_id": itemID})
}

// handlePlaidSync pulls recent transactions for every linked item. Duplicate
// transactions are dropped by the storage hash constraint.
func (s *Server) handlePlaidSync(w http.ResponseWriter, r *http.Request) {
	if s.deps.Bank == nil {
		respondDetail(w, http.StatusServiceUnavailable, "Plaid is not configured")
		return
	}
	userID, _ := userIDFrom(r.Context())

	items, err := s.deps.Storage.GetBankItems(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if len(items) == 0 {
		respondDetail(w, http.StatusBadRequest, "No linked bank accounts to sync")
		return
	}

	before, err := s.deps.Storage.GetTransactionCount(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -syncWindowDays)

	var fetched int
	for _, item := range items {
		transactions, err := s.deps.Bank.GetTransactions(r.Context(), item.AccessToken, startDate, endDate)
		if err != nil {
			respondError(w, r, err)
			return
		}

		for i := range transactions {
			transactions[i].UserID = userID
			transactions[i].Hash = transactions[i].GenerateHash()
		}
		fetched += len(transactions)

		// An item with nothing in the window is a normal result, not a save.
		if len(transactions) == 0 {
			continue
		}

		if err := s.deps.Storage.SaveTransactions(r.Context(), transactions); err != nil {
			respondError(w, r, err)
			return
		}
	}

	after, err := s.deps.Storage.GetTransactionCount(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.logger.Info("Synced Plaid transactions",
		"user_id", userID,
		"fetched", fetched,
		"imported", after-before)

	respondJSON(w, http.StatusOK, map[string]int{
		"fetched":  fetched,
		"imported": after - before,
	})
}
