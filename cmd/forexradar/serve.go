package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"forexradar/internal/dashboard"
	"forexradar/internal/database"
	"forexradar/internal/models"
	"forexradar/internal/records"
	"forexradar/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Poll the records API and serve the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, log, err := opts.load()
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return err
	}
	log.Info("Database connection successful and schema migrated.")

	store := database.NewSettingsRepository(db, log, models.Settings{
		Balance:     cfg.Dashboard.DefaultBalance,
		RiskPercent: cfg.Dashboard.DefaultRiskPercent,
	})

	client := records.NewClient(&cfg.Records, log)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session := dashboard.NewSession(log, &cfg.Dashboard, client, store)
	api := server.New(cfg.Server.Port, session, log)
	api.Start()

	// The first refresh runs in the background; until it lands the API
	// serves a loading view.
	if err := session.Start(ctx); err != nil {
		return fmt.Errorf("failed to start dashboard: %w", err)
	}
	defer session.Stop()

	if !client.Ping(ctx) {
		// Not fatal: the dashboard shows the connectivity error and keeps polling.
		log.Warn("Records API is not reachable yet")
	}

	<-ctx.Done()
	log.Info("Shutdown signal received, gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := api.Stop(shutdownCtx); err != nil {
		log.Error("API server shutdown failed", zap.Error(err))
	}
	log.Info("Dashboard has been shut down.")
	return nil
}
