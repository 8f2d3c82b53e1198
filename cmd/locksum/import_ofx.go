package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/locksum/locksum/internal/config"
	"github.com/locksum/locksum/internal/model"
	"github.com/locksum/locksum/internal/ofx"
	"github.com/locksum/locksum/internal/storage"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import financial transactions from OFX or QFX (Quicken) files
exported from your bank, attributing them to an existing account.

Examples:
  # Import single file
  locksum import-ofx --user alice@example.com ~/Downloads/chase_jan_2024.qfx

  # Import all QFX files in a directory
  locksum import-ofx --user alice@example.com ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().StringP("user", "u", "", "email of the account to import into (required)")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("user")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	ctx := cmd.Context()

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	store, err := storage.NewSQLiteStorage(config.LoadServerConfig().DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	user, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("no account with email %s: %w", email, err)
	}

	slog.Info("🔐 Importing OFX files...",
		"user", email,
		"file_count", len(allFiles),
		"dry_run", dryRun)

	bar := progressbar.NewOptions(len(allFiles),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Importing statements..."))

	parser := ofx.NewParser()

	// Dedup across files before the storage hash constraint dedups
	// against previously imported data.
	var allTransactions []model.Transaction
	seen := make(map[string]bool)
	accountSet := make(map[string]bool)

	for _, filePath := range allFiles {
		data, err := os.ReadFile(filePath)
		if err != nil {
			slog.Error("Failed to read file", "file", filePath, "error", err)
			_ = bar.Add(1)
			continue
		}

		accounts, err := parser.GetAccounts(ctx, bytes.NewReader(data))
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", filePath, "error", err)
			_ = bar.Add(1)
			continue
		}
		for _, acct := range accounts {
			accountSet[acct] = true
		}

		transactions, err := parser.ParseFile(ctx, bytes.NewReader(data), user.ID)
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", filePath, "error", err)
			_ = bar.Add(1)
			continue
		}

		added := 0
		for _, tx := range transactions {
			if !seen[tx.Hash] {
				seen[tx.Hash] = true
				allTransactions = append(allTransactions, tx)
				added++
			}
		}

		slog.Info("Processed file",
			"file", filepath.Base(filePath),
			"accounts", len(accounts),
			"transactions_found", len(transactions),
			"added", added,
			"duplicates", len(transactions)-added)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	if len(allTransactions) == 0 {
		slog.Warn("No transactions found in any file")
		return nil
	}

	var accounts []string
	for acct := range accountSet {
		accounts = append(accounts, acct)
	}
	sort.Strings(accounts)

	summarizeImport(allTransactions, accounts)

	if dryRun {
		slog.Info("🔍 Dry run complete - no data saved")
		return nil
	}

	before, err := store.GetTransactionCount(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to count transactions: %w", err)
	}

	if err := store.SaveTransactions(ctx, allTransactions); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	after, err := store.GetTransactionCount(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to count transactions: %w", err)
	}

	slog.Info("💾 Import complete",
		"parsed", len(allTransactions),
		"imported", after-before,
		"already_present", len(allTransactions)-(after-before))

	return nil
}

// summarizeImport prints the source accounts, date range and totals for the
// parsed batch.
func summarizeImport(transactions []model.Transaction, accounts []string) {
	var oldest, newest = transactions[0].Date, transactions[0].Date
	categories := make(map[string]int)
	total := 0.0

	for _, tx := range transactions {
		if tx.Date.Before(oldest) {
			oldest = tx.Date
		}
		if tx.Date.After(newest) {
			newest = tx.Date
		}
		categories[tx.Category]++
		total += tx.Amount
	}

	slog.Info("✅ Parsed statements",
		"transactions", len(transactions),
		"categories", len(categories))

	if len(accounts) > 0 {
		fmt.Printf("\n🏦 Accounts: %s\n", strings.Join(accounts, ", "))
	}
	fmt.Printf("\n📅 Transaction date range: %s to %s\n",
		oldest.Format("2006-01-02"),
		newest.Format("2006-01-02"))
	fmt.Printf("💰 Total amount: $%.2f\n", total)

	fmt.Println("\n📝 Sample transactions (first 5):")
	for i, tx := range transactions {
		if i >= 5 {
			break
		}
		fmt.Printf("  %s | $%8.2f | %s\n",
			tx.Date.Format("2006-01-02"), tx.Amount, tx.Name)
	}
}
