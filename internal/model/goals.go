package model

// Goals carries optional user-supplied targets for the advisory engine.
type Goals struct {
	MonthlySavingsTarget *float64 `json:"monthly_savings_target"`
}
