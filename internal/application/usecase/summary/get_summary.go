package summary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pj-finance/backend/internal/application/adapter"
	"github.com/pj-finance/backend/internal/domain/entity"
	domainerror "github.com/pj-finance/backend/internal/domain/error"
	"github.com/pj-finance/backend/internal/domain/valueobject"
)

// GetSummaryInput represents the input for getting a bank account summary.
// Zero dates mean the bound was not requested.
type GetSummaryInput struct {
	OrganizationID string
	ClientID       string
	BankAccountID  string
	From           valueobject.Date
	To             valueobject.Date
}

// GetSummaryUseCase answers a bank account summary from the best-fit snapshot, completing
// missing metric domains with live computations, or fully live when no snapshot exists.
type GetSummaryUseCase struct {
	transactionRepo adapter.BankTransactionRepository
	saleLegRepo     adapter.SaleLegRepository
	categoryRepo    adapter.PjCategoryRepository
	snapshotRepo    adapter.BankSummarySnapshotRepository
	calculator      *MetricsCalculator
	clock           func() time.Time
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase(
	transactionRepo adapter.BankTransactionRepository,
	saleLegRepo adapter.SaleLegRepository,
	categoryRepo adapter.PjCategoryRepository,
	snapshotRepo adapter.BankSummarySnapshotRepository,
	calculator *MetricsCalculator,
) *GetSummaryUseCase {
	return &GetSummaryUseCase{
		transactionRepo: transactionRepo,
		saleLegRepo:     saleLegRepo,
		categoryRepo:    categoryRepo,
		snapshotRepo:    snapshotRepo,
		calculator:      calculator,
		clock:           time.Now,
	}
}

// Execute returns the summary of a bank account for the requested period.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*SummaryOutput, error) {
	// 1. Validate input
	if err := uc.validateInput(input); err != nil {
		return nil, err
	}
	requested := valueobject.DateRange{From: input.From, To: input.To}
	now := uc.clock()

	logger := slog.With(
		"organization_id", input.OrganizationID,
		"client_id", input.ClientID,
		"bank_account_id", input.BankAccountID,
	)

	// 2. Pick the best-fit snapshot for the requested coverage
	snapshots, err := uc.snapshotRepo.FindByAccount(ctx, input.OrganizationID, input.ClientID, input.BankAccountID)
	if err != nil {
		logger.Warn("Failed to load bank summary snapshots, computing live", "error", err)
		snapshots = nil
	}
	selected := SelectSnapshot(snapshots, requested.CoverageDays())

	// 3. No snapshot: compute everything live
	if selected == nil {
		records, err := uc.loadRecords(ctx, input, true, true)
		if err != nil {
			return nil, err
		}
		return computeLiveSummary(uc.calculator, liveSummaryInput{
			clientID:      input.ClientID,
			bankAccountID: input.BankAccountID,
			transactions:  records.transactions,
			saleLegs:      records.saleLegs,
			categories:    records.categories,
			requested:     requested,
			now:           now,
		})
	}

	// 4. Snapshot: fill the missing domains live, then let the snapshot win on overlap
	decomposition := DecomposeSnapshot(selected, requested)
	records, err := uc.loadRecords(ctx, input, decomposition.NeedsTransactions, decomposition.NeedsSaleLegs)
	if err != nil {
		return nil, err
	}

	partials := make([]*PartialSummary, 0, 3)
	if decomposition.NeedsTransactions {
		txPartial, err := uc.calculator.ComputeTransactionMetrics(records.transactions, decomposition.Range, records.categories)
		if err != nil {
			return nil, err
		}
		partials = append(partials, txPartial)
	}
	if decomposition.NeedsSaleLegs {
		partials = append(partials, uc.calculator.ComputeReceivableMetrics(records.saleLegs, decomposition.Range, now))
	}

	dataSource := DataSourceSnapshot
	if len(partials) > 0 {
		dataSource = DataSourceSnapshotLive
	}
	partials = append(partials, decomposition.Partial)

	logger.Debug("Bank summary served from snapshot",
		"window", selected.Window,
		"data_source", dataSource,
	)

	return finalizeSummary(finalizeInput{
		clientID:      input.ClientID,
		bankAccountID: input.BankAccountID,
		combined:      CombinePartials(partials...),
		fallbackRange: decomposition.Range,
		dataSource:    dataSource,
		windowDays:    decomposition.WindowDays,
		snapshot:      selected,
		generatedAt:   now.UTC(),
	}), nil
}

// validateInput validates the input parameters.
func (uc *GetSummaryUseCase) validateInput(input GetSummaryInput) error {
	if input.OrganizationID == "" {
		return domainerror.NewSummaryError(
			domainerror.ErrCodeMissingIdentifier,
			"organization_id is required",
			domainerror.ErrMissingOrganizationID,
		)
	}

	if input.ClientID == "" {
		return domainerror.NewSummaryError(
			domainerror.ErrCodeMissingIdentifier,
			"client_id is required",
			domainerror.ErrMissingClientID,
		)
	}

	if input.BankAccountID == "" {
		return domainerror.NewSummaryError(
			domainerror.ErrCodeMissingIdentifier,
			"bank_account_id is required",
			domainerror.ErrMissingBankAccountID,
		)
	}

	return valueobject.DateRange{From: input.From, To: input.To}.Validate()
}

// accountRecords holds the raw records loaded for one summary request.
type accountRecords struct {
	transactions []*entity.BankTransaction
	categories   []*entity.PjCategory
	saleLegs     []*entity.SaleLeg
}

// loadRecords loads the requested record sets concurrently, each at most once.
func (uc *GetSummaryUseCase) loadRecords(
	ctx context.Context,
	input GetSummaryInput,
	needTransactions, needSaleLegs bool,
) (*accountRecords, error) {
	records := &accountRecords{}
	g, gctx := errgroup.WithContext(ctx)

	if needTransactions {
		g.Go(func() error {
			transactions, err := uc.transactionRepo.FindByAccount(gctx, input.ClientID, input.BankAccountID)
			if err != nil {
				return fmt.Errorf("failed to get bank transactions: %w", err)
			}
			records.transactions = transactions
			return nil
		})

		g.Go(func() error {
			categories, err := uc.categoryRepo.FindByClient(gctx, input.OrganizationID, input.ClientID)
			if err != nil {
				slog.Warn("Failed to get PJ categories, building hierarchy without them",
					"client_id", input.ClientID,
					"error", err,
				)
				return nil
			}
			records.categories = categories
			return nil
		})
	}

	if needSaleLegs {
		g.Go(func() error {
			saleLegs, err := uc.saleLegRepo.FindByClient(gctx, input.ClientID)
			if err != nil {
				return fmt.Errorf("failed to get sale legs: %w", err)
			}
			records.saleLegs = saleLegs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
