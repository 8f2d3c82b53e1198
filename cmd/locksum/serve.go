package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/locksum/locksum/internal/advisor"
	"github.com/locksum/locksum/internal/billing"
	"github.com/locksum/locksum/internal/config"
	"github.com/locksum/locksum/internal/plaid"
	"github.com/locksum/locksum/internal/server"
	"github.com/locksum/locksum/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Start the Locksum Finance API server.

Opens the database, applies any pending migrations, and serves the API
until interrupted. Plaid and Stripe integrations are enabled when their
credentials are configured and disabled otherwise.`,
		RunE: runServe,
	}

	cmd.Flags().String("listen", "", "listen address (default :8000)")
	_ = viper.BindPFlag("server.listen_addr", cmd.Flags().Lookup("listen"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	srvCfg := config.LoadServerConfig()

	store, err := storage.NewSQLiteStorage(srvCfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	engine, err := advisor.NewEngine(advisor.Deps{Storage: store})
	if err != nil {
		return fmt.Errorf("failed to create advisory engine: %w", err)
	}

	tokens, err := config.LoadAuthConfig()
	if err != nil {
		return fmt.Errorf("failed to load auth config: %w", err)
	}

	deps := server.Deps{
		Storage: store,
		Engine:  engine,
		Tokens:  tokens,
		Config:  srvCfg,
	}

	// Integrations are optional; the server answers 503 on their routes
	// when credentials are absent.
	if plaidCfg, err := config.LoadPlaidConfig(); err != nil {
		slog.Warn("Plaid disabled", "reason", err)
	} else {
		bank, err := plaid.NewClient(*plaidCfg)
		if err != nil {
			return fmt.Errorf("failed to create plaid client: %w", err)
		}
		deps.Bank = bank
	}

	if stripeCfg, err := config.LoadStripeConfig(srvCfg.FrontendBaseURL); err != nil {
		slog.Warn("Billing disabled", "reason", err)
	} else {
		gateway, err := billing.NewClient(*stripeCfg, store)
		if err != nil {
			return fmt.Errorf("failed to create billing client: %w", err)
		}
		deps.Billing = gateway
	}

	srv, err := server.New(deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              srvCfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("🔐 Locksum Finance API listening",
			"addr", srvCfg.ListenAddr,
			"database", srvCfg.DatabasePath)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	slog.Info("✅ Server stopped cleanly")
	return nil
}
