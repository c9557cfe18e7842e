package summary

import (
	"context"
	"time"

	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/domain/valueobject"
)

// ComputeFreshSummaryInput represents the input of an always-live summary computation
// over records the caller already loaded.
type ComputeFreshSummaryInput struct {
	ClientID      string
	BankAccountID string
	Transactions  []*entity.BankTransaction
	SaleLegs      []*entity.SaleLeg
	Range         valueobject.DateRange
	WindowDays    int
	Categories    []*entity.PjCategory
	Now           time.Time // Reference instant for overdue parcels; zero means the current time
}

// ComputeFreshSummaryUseCase computes a summary purely from raw records, never from snapshots.
type ComputeFreshSummaryUseCase struct {
	calculator *MetricsCalculator
	clock      func() time.Time
}

// NewComputeFreshSummaryUseCase creates a new ComputeFreshSummaryUseCase instance.
func NewComputeFreshSummaryUseCase(calculator *MetricsCalculator) *ComputeFreshSummaryUseCase {
	return &ComputeFreshSummaryUseCase{
		calculator: calculator,
		clock:      time.Now,
	}
}

// Execute computes both metric domains live and finalizes the result.
func (uc *ComputeFreshSummaryUseCase) Execute(
	ctx context.Context,
	input ComputeFreshSummaryInput,
) (*SummaryOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := input.Range.Validate(); err != nil {
		return nil, err
	}

	now := input.Now
	if now.IsZero() {
		now = uc.clock()
	}

	return computeLiveSummary(uc.calculator, liveSummaryInput{
		clientID:      input.ClientID,
		bankAccountID: input.BankAccountID,
		transactions:  input.Transactions,
		saleLegs:      input.SaleLegs,
		categories:    input.Categories,
		requested:     input.Range,
		windowDays:    input.WindowDays,
		now:           now,
	})
}

type liveSummaryInput struct {
	clientID      string
	bankAccountID string
	transactions  []*entity.BankTransaction
	saleLegs      []*entity.SaleLeg
	categories    []*entity.PjCategory
	requested     valueobject.DateRange
	windowDays    int
	now           time.Time
}

// computeLiveSummary is the no-cache path shared by the fresh computation and getSummary.
func computeLiveSummary(calculator *MetricsCalculator, in liveSummaryInput) (*SummaryOutput, error) {
	txPartial, err := calculator.ComputeTransactionMetrics(in.transactions, in.requested, in.categories)
	if err != nil {
		return nil, err
	}
	receivables := calculator.ComputeReceivableMetrics(in.saleLegs, in.requested, in.now)

	return finalizeSummary(finalizeInput{
		clientID:      in.clientID,
		bankAccountID: in.bankAccountID,
		combined:      CombinePartials(txPartial, receivables),
		fallbackRange: in.requested,
		dataSource:    DataSourceLive,
		windowDays:    in.windowDays,
		generatedAt:   in.now.UTC(),
	}), nil
}
