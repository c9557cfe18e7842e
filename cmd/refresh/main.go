// Package main runs a single bank summary snapshot refresh and exits.
// With -client it refreshes the given accounts of that client; otherwise every active account.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pj-finance/backend/config"
	"github.com/pj-finance/backend/internal/application/usecase/snapshot"
	"github.com/pj-finance/backend/internal/infra/cache"
	"github.com/pj-finance/backend/internal/infra/db"
	"github.com/pj-finance/backend/internal/infra/dependency"
	"github.com/pj-finance/backend/internal/integration/persistence/model"
)

func main() {
	organizationID := flag.String("org", "", "organization id (required with -client)")
	clientID := flag.String("client", "", "refresh only this client's accounts")
	accounts := flag.String("accounts", "", "comma-separated bank account ids (required with -client)")
	flag.Parse()

	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.AutoMigrate(model.All()...); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	redisConn, err := cache.NewRedisConnection(&cfg.Redis)
	if err != nil {
		slog.Warn("Redis connection failed, refreshing without lock", "error", err)
		redisConn = nil
	}
	defer redisConn.Close()

	injector := dependency.NewInjector(cfg, database.DB(), redisConn.Client())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var report *snapshot.RefreshReport
	if *clientID != "" {
		report, err = injector.RefreshAccounts.Execute(ctx, snapshot.RefreshAccountsSnapshotsInput{
			OrganizationID: *organizationID,
			ClientID:       *clientID,
			BankAccountIDs: strings.Split(*accounts, ","),
		})
		if err != nil {
			slog.Error("Failed to refresh bank summary snapshots", "error", err)
			os.Exit(1)
		}
	} else {
		report = injector.RefreshWorker.RunOnce(ctx)
		if report == nil {
			os.Exit(1)
		}
	}

	if len(report.Failed) > 0 {
		for _, f := range report.Failed {
			slog.Error("Account refresh failed",
				"client_id", f.ClientID,
				"bank_account_id", f.BankAccountID,
				"error", f.Err,
			)
		}
		os.Exit(2)
	}
}
