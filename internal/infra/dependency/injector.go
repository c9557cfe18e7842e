// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pj-finance/backend/config"
	"github.com/pj-finance/backend/internal/application/usecase/snapshot"
	"github.com/pj-finance/backend/internal/application/usecase/summary"
	"github.com/pj-finance/backend/internal/infra/server/router"
	"github.com/pj-finance/backend/internal/integration/adapters"
	"github.com/pj-finance/backend/internal/integration/entrypoint/controller"
	"github.com/pj-finance/backend/internal/integration/entrypoint/middleware"
	"github.com/pj-finance/backend/internal/integration/persistence"
	"github.com/pj-finance/backend/internal/integration/scheduler"
)

const refreshLockKey = "locks:bank_summary_snapshot_refresh"

// Injector holds all application dependencies.
type Injector struct {
	Config          *config.Config
	DB              *gorm.DB
	Router          *router.Router
	RateLimiter     *middleware.RateLimiter
	RefreshWorker   *scheduler.RefreshWorker
	RefreshAccounts *snapshot.RefreshAccountsSnapshotsUseCase
}

// NewInjector creates a new dependency injector with all dependencies wired.
// A nil redisClient disables the snapshot cache and runs the refresh worker without a lock.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	// Create repositories
	transactionRepo := persistence.NewBankTransactionRepository(db)
	saleLegRepo := persistence.NewSaleLegRepository(db)
	categoryRepo := persistence.NewPjCategoryRepository(db)
	clientRepo := persistence.NewClientRepository(db)
	bankAccountRepo := persistence.NewBankAccountRepository(db)
	snapshotRepo := persistence.NewCachedBankSummarySnapshotRepository(
		persistence.NewBankSummarySnapshotRepository(db),
		redisClient,
		cfg.Snapshot.CacheTTL,
	)

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)

	// Create summary use cases
	calculator := summary.NewMetricsCalculator(nil)
	computeFreshUseCase := summary.NewComputeFreshSummaryUseCase(calculator)
	getSummaryUseCase := summary.NewGetSummaryUseCase(transactionRepo, saleLegRepo, categoryRepo, snapshotRepo, calculator)

	// Create snapshot use cases
	refreshAccountUseCase := snapshot.NewRefreshAccountSnapshotsUseCase(transactionRepo, saleLegRepo, categoryRepo, snapshotRepo, computeFreshUseCase)
	refreshAccountsUseCase := snapshot.NewRefreshAccountsSnapshotsUseCase(refreshAccountUseCase, cfg.Snapshot.RefreshConcurrency)
	refreshAllUseCase := snapshot.NewRefreshAllActiveAccountSnapshotsUseCase(clientRepo, bankAccountRepo, refreshAccountsUseCase)

	// Create refresh worker
	var locker scheduler.Locker
	if redisClient != nil {
		locker = scheduler.NewRedisLock(redisClient, refreshLockKey, cfg.Snapshot.RefreshLockTTL)
	}
	refreshWorker := scheduler.NewRefreshWorker(refreshAllUseCase, locker, scheduler.WorkerConfig{
		Interval: cfg.Snapshot.RefreshInterval,
		Timeout:  cfg.Snapshot.RefreshTimeout,
	})

	// Create controllers
	healthController := controller.NewHealthController(
		func() bool {
			sqlDB, err := db.DB()
			if err != nil {
				return false
			}
			return sqlDB.Ping() == nil
		},
		cacheHealthChecker(redisClient),
	)
	summaryController := controller.NewSummaryController(getSummaryUseCase, refreshAccountsUseCase)

	// Create middleware
	refreshRateLimiter := middleware.NewRateLimiterWithConfig(cfg.Snapshot.RefreshRateLimit, cfg.Snapshot.RefreshRateWindow)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(healthController, summaryController, refreshRateLimiter, authMiddleware)

	return &Injector{
		Config:          cfg,
		DB:              db,
		Router:          r,
		RateLimiter:     refreshRateLimiter,
		RefreshWorker:   refreshWorker,
		RefreshAccounts: refreshAccountsUseCase,
	}
}

func cacheHealthChecker(client *redis.Client) func() bool {
	if client == nil {
		return nil
	}
	return func() bool {
		return client.Ping(context.Background()).Err() == nil
	}
}
