// Package snapshot contains the bank summary snapshot refresh use cases.
package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pj-finance/backend/internal/application/adapter"
	"github.com/pj-finance/backend/internal/application/usecase/summary"
	"github.com/pj-finance/backend/internal/domain/entity"
	domainerror "github.com/pj-finance/backend/internal/domain/error"
	"github.com/pj-finance/backend/internal/domain/valueobject"
)

// RefreshAccountSnapshotsInput represents the input for refreshing one account's snapshots.
type RefreshAccountSnapshotsInput struct {
	OrganizationID string
	ClientID       string
	BankAccountID  string
	Now            *time.Time // Optional reference instant
}

// RefreshAccountSnapshotsUseCase recomputes and persists the fixed-window snapshots of one account.
type RefreshAccountSnapshotsUseCase struct {
	transactionRepo adapter.BankTransactionRepository
	saleLegRepo     adapter.SaleLegRepository
	categoryRepo    adapter.PjCategoryRepository
	snapshotRepo    adapter.BankSummarySnapshotRepository
	computeFresh    *summary.ComputeFreshSummaryUseCase
	clock           func() time.Time
}

// NewRefreshAccountSnapshotsUseCase creates a new RefreshAccountSnapshotsUseCase instance.
func NewRefreshAccountSnapshotsUseCase(
	transactionRepo adapter.BankTransactionRepository,
	saleLegRepo adapter.SaleLegRepository,
	categoryRepo adapter.PjCategoryRepository,
	snapshotRepo adapter.BankSummarySnapshotRepository,
	computeFresh *summary.ComputeFreshSummaryUseCase,
) *RefreshAccountSnapshotsUseCase {
	return &RefreshAccountSnapshotsUseCase{
		transactionRepo: transactionRepo,
		saleLegRepo:     saleLegRepo,
		categoryRepo:    categoryRepo,
		snapshotRepo:    snapshotRepo,
		computeFresh:    computeFresh,
		clock:           time.Now,
	}
}

// Execute loads the account's records once, computes one snapshot per fixed window ending on
// the reference date and replaces the stored set in a single write.
func (uc *RefreshAccountSnapshotsUseCase) Execute(
	ctx context.Context,
	input RefreshAccountSnapshotsInput,
) ([]*entity.BankSummarySnapshot, error) {
	if input.OrganizationID == "" || input.ClientID == "" || input.BankAccountID == "" {
		return nil, domainerror.NewSummaryError(
			domainerror.ErrCodeInvalidRefreshTarget,
			"organization_id, client_id and bank_account_id are required",
			nil,
		)
	}

	now := uc.clock()
	if input.Now != nil {
		now = *input.Now
	}

	// 1. Load the raw records once for all windows
	var (
		transactions []*entity.BankTransaction
		saleLegs     []*entity.SaleLeg
		categories   []*entity.PjCategory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = uc.transactionRepo.FindByAccount(gctx, input.ClientID, input.BankAccountID)
		if err != nil {
			return fmt.Errorf("failed to get bank transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		saleLegs, err = uc.saleLegRepo.FindByClient(gctx, input.ClientID)
		if err != nil {
			return fmt.Errorf("failed to get sale legs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = uc.categoryRepo.FindByClient(gctx, input.OrganizationID, input.ClientID)
		if err != nil {
			slog.Warn("Failed to get PJ categories, building hierarchy without them",
				"client_id", input.ClientID,
				"error", err,
			)
			categories = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 2. Compute one snapshot per window
	reference := referenceDate(transactions, now)
	refreshedAt := uc.clock().UTC()

	snapshots := make([]*entity.BankSummarySnapshot, 0, len(entity.SummaryWindows))
	for _, window := range entity.SummaryWindows {
		period := valueobject.DateRange{From: reference.AddDays(-(window - 1)), To: reference}

		output, err := uc.computeFresh.Execute(ctx, summary.ComputeFreshSummaryInput{
			ClientID:      input.ClientID,
			BankAccountID: input.BankAccountID,
			Transactions:  transactions,
			SaleLegs:      saleLegs,
			Range:         period,
			WindowDays:    window,
			Categories:    categories,
			Now:           now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to compute %s summary: %w", entity.WindowTag(window), err)
		}

		snapshots = append(snapshots, buildSnapshot(input, window, output, refreshedAt))
	}

	// 3. Replace the stored set
	if err := uc.snapshotRepo.ReplaceForAccount(ctx, input.OrganizationID, input.ClientID, input.BankAccountID, snapshots); err != nil {
		return nil, fmt.Errorf("failed to save bank summary snapshots: %w", err)
	}

	return snapshots, nil
}

// referenceDate is the latest transaction date, or the date of now when there is none.
func referenceDate(transactions []*entity.BankTransaction, now time.Time) valueobject.Date {
	var latest valueobject.Date
	for _, tx := range transactions {
		if tx != nil && tx.Date.After(latest) {
			latest = tx.Date
		}
	}
	if latest.IsZero() {
		return valueobject.DateOf(now)
	}
	return latest
}

// buildSnapshot converts a finalized summary into a persisted snapshot record.
func buildSnapshot(
	input RefreshAccountSnapshotsInput,
	window int,
	output *summary.SummaryOutput,
	refreshedAt time.Time,
) *entity.BankSummarySnapshot {
	totals := map[string]any{
		string(summary.TotalIn):  output.Totals.TotalIn,
		string(summary.TotalOut): output.Totals.TotalOut,
		string(summary.Balance):  output.Totals.Balance,
	}

	k := output.KPIs
	kpis := map[string]any{
		string(summary.InflowCount):             k.InflowCount,
		string(summary.OutflowCount):            k.OutflowCount,
		string(summary.LargestIn):               k.LargestIn,
		string(summary.LargestOut):              k.LargestOut,
		string(summary.AverageTicketIn):         k.AverageTicketIn,
		string(summary.AverageTicketOut):        k.AverageTicketOut,
		string(summary.AverageDailyNetFlow):     k.AverageDailyNetFlow,
		string(summary.CashConversionRatio):     k.CashConversionRatio,
		string(summary.ProjectedBalance):        k.ProjectedBalance,
		string(summary.ReceivableAmount):        k.ReceivableAmount,
		string(summary.ReceivableCount):         k.ReceivableCount,
		string(summary.OverdueReceivableAmount): k.OverdueReceivableAmount,
		string(summary.OverdueReceivableCount):  k.OverdueReceivableCount,
	}

	coverageDays := output.Metadata.CoverageDays
	windowDays := window
	transactionCount := output.Metadata.TransactionCount
	generatedAt := output.Metadata.GeneratedAt

	return &entity.BankSummarySnapshot{
		ID:             uuid.New(),
		OrganizationID: input.OrganizationID,
		ClientID:       input.ClientID,
		BankAccountID:  input.BankAccountID,
		Window:         entity.WindowTag(window),
		Totals:         totals,
		KPIs:           kpis,
		Metadata: entity.SnapshotMetadata{
			Version:           entity.SnapshotMetadataVersion,
			From:              output.From,
			To:                output.To,
			CoverageDays:      &coverageDays,
			WindowDays:        &windowDays,
			TransactionCount:  &transactionCount,
			GeneratedAt:       &generatedAt,
			DataSource:        string(output.Metadata.DataSource),
			DailyNetFlows:     output.Series.DailyNetFlows,
			CategoryHierarchy: output.Metadata.CategoryHierarchy,
		},
		RefreshedAt: refreshedAt,
	}
}
