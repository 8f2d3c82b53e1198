package model

// BankItem is a linked bank connection obtained through Plaid Link.
// The access token is stored server-side and never returned to clients.
type BankItem struct {
	ItemID          string
	AccessToken     string
	InstitutionName string
	UserID          int64
	ID              int64
}
