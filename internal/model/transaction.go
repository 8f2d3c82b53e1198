package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single financial transaction from any source
// (manual entry, Plaid sync, or OFX import). Read-only once stored.
type Transaction struct {
	Date     time.Time
	ID       string
	Name     string // Raw transaction description
	Category string // Single category label, DefaultCategory when unknown
	Hash     string
	UserID   int64
	Amount   float64
}

// DefaultCategory is assigned when a source provides no category.
const DefaultCategory = "Uncategorized"

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%d:%s:%.2f:%s",
		t.UserID,
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Name)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
