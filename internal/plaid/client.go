// Package plaid provides a client for interacting with the Plaid API.
package plaid

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/plaid/plaid-go/v20/plaid"

	"github.com/locksum/locksum/internal/common"
	"github.com/locksum/locksum/internal/model"
	"github.com/locksum/locksum/internal/service"
)

// Config holds Plaid API configuration.
type Config struct {
	ClientID    string
	Secret      string
	Environment string // sandbox or production
	ClientName  string // shown to users in the Link flow
	RedirectURI string // required by OAuth banks in production
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: plaid client ID", common.ErrMissingConfig)
	}
	if c.Secret == "" {
		return fmt.Errorf("%w: plaid secret", common.ErrMissingConfig)
	}
	if c.Environment == "" {
		return fmt.Errorf("%w: plaid environment", common.ErrMissingConfig)
	}

	validEnvs := map[string]bool{
		"sandbox":    true,
		"production": true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("%w: plaid environment must be sandbox or production", common.ErrInvalidConfig)
	}

	return nil
}

// Client implements the BankGateway interface against the Plaid API.
type Client struct {
	client      *plaid.APIClient
	logger      *slog.Logger
	retryOpts   *service.RetryOptions
	clientName  string
	redirectURI string
	environment string
}

// NewClient creates a new Plaid client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.Secret)

	switch cfg.Environment {
	case "sandbox":
		configuration.UseEnvironment(plaid.Sandbox)
	case "production":
		configuration.UseEnvironment(plaid.Production)
	}

	clientName := cfg.ClientName
	if clientName == "" {
		clientName = "Locksum Finance"
	}

	return &Client{
		client:      plaid.NewAPIClient(configuration),
		clientName:  clientName,
		redirectURI: cfg.RedirectURI,
		environment: cfg.Environment,
		logger:      slog.Default().With("component", "plaid"),
		retryOpts: &service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// CreateLinkToken creates a Link token for Plaid Link initialization.
func (c *Client) CreateLinkToken(ctx context.Context, userID int64) (string, error) {
	user := plaid.LinkTokenCreateRequestUser{
		ClientUserId: strconv.FormatInt(userID, 10),
	}

	request := plaid.NewLinkTokenCreateRequest(
		c.clientName,
		"en",
		[]plaid.CountryCode{plaid.COUNTRYCODE_US},
		user,
	)
	request.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})

	// OAuth banks require a redirect URI that matches the Plaid dashboard.
	if c.environment == "production" && c.redirectURI != "" {
		request.SetRedirectUri(c.redirectURI)
	}

	resp, _, err := c.client.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*request).Execute()
	if err != nil {
		if plaidError := extractPlaidError(err); plaidError != nil {
			return "", fmt.Errorf("plaid API error: %s - %s", plaidError.ErrorCode, plaidError.ErrorMessage)
		}
		return "", fmt.Errorf("failed to create link token: %w", err)
	}

	return resp.GetLinkToken(), nil
}

// ExchangePublicToken exchanges a public token from Link for an access token.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	request := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	resp, _, err := c.client.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*request).Execute()
	if err != nil {
		if plaidError := extractPlaidError(err); plaidError != nil {
			return "", "", fmt.Errorf("plaid API error: %s - %s", plaidError.ErrorCode, plaidError.ErrorMessage)
		}
		return "", "", fmt.Errorf("failed to exchange public token: %w", err)
	}

	return resp.GetAccessToken(), resp.GetItemId(), nil
}

// GetTransactions fetches transactions from Plaid within the specified date range.
func (c *Client) GetTransactions(ctx context.Context, accessToken string, startDate, endDate time.Time) ([]model.Transaction, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("start date must be before end date")
	}

	c.logger.Info("Fetching transactions from Plaid",
		"start_date", startDate.Format("2006-01-02"),
		"end_date", endDate.Format("2006-01-02"))

	var allTransactions []plaid.Transaction
	offset := int32(0)
	const pageSize = int32(500) // Plaid's max page size

	for {
		var plaidTransactions []plaid.Transaction

		retryErr := common.WithRetry(ctx, func() error {
			request := plaid.NewTransactionsGetRequest(
				accessToken,
				startDate.Format("2006-01-02"),
				endDate.Format("2006-01-02"),
			)
			options := plaid.TransactionsGetRequestOptions{
				Count:  plaid.PtrInt32(pageSize),
				Offset: plaid.PtrInt32(offset),
			}
			request.SetOptions(options)

			resp, _, err := c.client.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*request).Execute()
			if err != nil {
				if plaidError := extractPlaidError(err); plaidError != nil {
					if plaidError.ErrorCode == "RATE_LIMIT_EXCEEDED" {
						c.logger.Warn("Rate limit hit, will retry", "error", plaidError.ErrorMessage)
						return &common.RetryableError{Err: err, Retryable: true}
					}
					return fmt.Errorf("plaid API error: %s - %s", plaidError.ErrorCode, plaidError.ErrorMessage)
				}
				return fmt.Errorf("failed to fetch transactions: %w", err)
			}

			plaidTransactions = resp.GetTransactions()

			c.logger.Debug("Fetched transaction batch",
				"count", len(plaidTransactions),
				"offset", offset,
				"total", resp.GetTotalTransactions())

			return nil
		}, *c.retryOpts)

		if retryErr != nil {
			return nil, retryErr
		}

		allTransactions = append(allTransactions, plaidTransactions...)

		if len(plaidTransactions) < int(pageSize) {
			break
		}

		offset += pageSize
	}

	c.logger.Info("Fetched all transactions", "count", len(allTransactions))

	transactions := make([]model.Transaction, 0, len(allTransactions))
	for _, pt := range allTransactions {
		transactions = append(transactions, mapPlaidTransaction(pt))
	}

	return transactions, nil
}

// mapPlaidTransaction converts a Plaid transaction to our internal model.
// The user ID is filled in by the caller before persisting.
func mapPlaidTransaction(pt plaid.Transaction) model.Transaction {
	date, err := time.Parse("2006-01-02", pt.GetDate())
	if err != nil {
		slog.Error("Failed to parse transaction date", "date", pt.GetDate(), "error", err)
		date = time.Now()
	}

	// Plaid supplies a category hierarchy; keep the leaf as our single label.
	category := model.DefaultCategory
	if categories := pt.GetCategory(); len(categories) > 0 {
		category = categories[len(categories)-1]
	}

	name := pt.GetMerchantName()
	if name == "" {
		name = pt.GetName()
	}

	return model.Transaction{
		Date:     date,
		ID:       pt.GetTransactionId(),
		Name:     name,
		Category: category,
		Amount:   pt.GetAmount(),
	}
}

// extractPlaidError attempts to extract a Plaid error from a generic error.
func extractPlaidError(err error) *plaid.PlaidError {
	plaidErr, convErr := plaid.ToPlaidError(err)
	if convErr != nil {
		return nil
	}
	return &plaidErr
}

// Ensure Client implements BankGateway interface.
var _ BankGateway = (*Client)(nil)
