package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pj-finance/backend/internal/application/adapter"
)

// RefreshAllActiveAccountSnapshotsUseCase refreshes every active bank account of every client.
// It is the entry point of the scheduled batch job.
type RefreshAllActiveAccountSnapshotsUseCase struct {
	clientRepo      adapter.ClientRepository
	bankAccountRepo adapter.BankAccountRepository
	refreshAccounts *RefreshAccountsSnapshotsUseCase
}

// NewRefreshAllActiveAccountSnapshotsUseCase creates a new RefreshAllActiveAccountSnapshotsUseCase instance.
func NewRefreshAllActiveAccountSnapshotsUseCase(
	clientRepo adapter.ClientRepository,
	bankAccountRepo adapter.BankAccountRepository,
	refreshAccounts *RefreshAccountsSnapshotsUseCase,
) *RefreshAllActiveAccountSnapshotsUseCase {
	return &RefreshAllActiveAccountSnapshotsUseCase{
		clientRepo:      clientRepo,
		bankAccountRepo: bankAccountRepo,
		refreshAccounts: refreshAccounts,
	}
}

// Execute walks every client and refreshes its active accounts. Only a failure to list the
// clients aborts the run; any other failure is logged and reported.
func (uc *RefreshAllActiveAccountSnapshotsUseCase) Execute(ctx context.Context, now *time.Time) (*RefreshReport, error) {
	report := &RefreshReport{RunID: uuid.New()}
	logger := slog.With("run_id", report.RunID)

	clients, err := uc.clientRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}

	for _, client := range clients {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		accounts, err := uc.bankAccountRepo.FindByClient(ctx, client.OrganizationID, client.ID)
		if err != nil {
			logger.Error("Failed to get bank accounts",
				"organization_id", client.OrganizationID,
				"client_id", client.ID,
				"error", err,
			)
			report.Failed = append(report.Failed, RefreshFailure{
				OrganizationID: client.OrganizationID,
				ClientID:       client.ID,
				Err:            err,
			})
			continue
		}

		activeIDs := make([]string, 0, len(accounts))
		for _, account := range accounts {
			if account.IsActive {
				activeIDs = append(activeIDs, account.ID)
			}
		}
		if len(activeIDs) == 0 {
			continue
		}

		clientReport, err := uc.refreshAccounts.Execute(ctx, RefreshAccountsSnapshotsInput{
			OrganizationID: client.OrganizationID,
			ClientID:       client.ID,
			BankAccountIDs: activeIDs,
			Logger:         logger,
			Now:            now,
		})
		if err != nil {
			logger.Error("Failed to refresh client snapshots",
				"organization_id", client.OrganizationID,
				"client_id", client.ID,
				"error", err,
			)
			report.Failed = append(report.Failed, RefreshFailure{
				OrganizationID: client.OrganizationID,
				ClientID:       client.ID,
				Err:            err,
			})
			continue
		}
		report.merge(clientReport)
	}

	logger.Info("Scheduled bank summary snapshot refresh completed",
		"clients", len(clients),
		"refreshed", len(report.Refreshed),
		"failed", len(report.Failed),
	)

	return report, nil
}
