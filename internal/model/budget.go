package model

// Budget is a per-category monthly spending ceiling. A user has at most one
// budget per category; the category label is the natural key.
type Budget struct {
	Category    string
	UserID      int64
	ID          int64
	LimitAmount float64
}
