package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	domainerror "github.com/pj-finance/backend/internal/domain/error"
)

// defaultConcurrency bounds how many accounts are refreshed at the same time.
const defaultConcurrency = 4

// RefreshFailure records why one account could not be refreshed.
type RefreshFailure struct {
	OrganizationID string
	ClientID       string
	BankAccountID  string
	Err            error
}

// RefreshReport is the outcome of a multi-account refresh.
type RefreshReport struct {
	RunID     uuid.UUID
	Refreshed []string
	Failed    []RefreshFailure
}

// merge appends the results of another report.
func (r *RefreshReport) merge(other *RefreshReport) {
	r.Refreshed = append(r.Refreshed, other.Refreshed...)
	r.Failed = append(r.Failed, other.Failed...)
}

// RefreshAccountsSnapshotsInput represents the input for refreshing a list of accounts of a client.
type RefreshAccountsSnapshotsInput struct {
	OrganizationID string
	ClientID       string
	BankAccountIDs []string
	Logger         *slog.Logger // Optional; defaults to slog.Default()
	Now            *time.Time
}

// RefreshAccountsSnapshotsUseCase refreshes several accounts, isolating per-account failures.
type RefreshAccountsSnapshotsUseCase struct {
	refreshAccount *RefreshAccountSnapshotsUseCase
	concurrency    int
}

// NewRefreshAccountsSnapshotsUseCase creates a new RefreshAccountsSnapshotsUseCase instance.
// A non-positive concurrency falls back to the default.
func NewRefreshAccountsSnapshotsUseCase(
	refreshAccount *RefreshAccountSnapshotsUseCase,
	concurrency int,
) *RefreshAccountsSnapshotsUseCase {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &RefreshAccountsSnapshotsUseCase{
		refreshAccount: refreshAccount,
		concurrency:    concurrency,
	}
}

// Execute refreshes each distinct account id. A failing account is logged and reported;
// it never stops the remaining accounts.
func (uc *RefreshAccountsSnapshotsUseCase) Execute(
	ctx context.Context,
	input RefreshAccountsSnapshotsInput,
) (*RefreshReport, error) {
	if input.OrganizationID == "" || input.ClientID == "" {
		return nil, domainerror.NewSummaryError(
			domainerror.ErrCodeInvalidRefreshTarget,
			"organization_id and client_id are required",
			nil,
		)
	}

	logger := input.Logger
	if logger == nil {
		logger = slog.Default()
	}

	report := &RefreshReport{RunID: uuid.New()}
	accountIDs := normalizeAccountIDs(input.BankAccountIDs)
	if len(accountIDs) == 0 {
		return report, nil
	}

	logger = logger.With(
		"run_id", report.RunID,
		"organization_id", input.OrganizationID,
		"client_id", input.ClientID,
	)

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(uc.concurrency)

	for _, accountID := range accountIDs {
		g.Go(func() error {
			err := uc.refreshOne(ctx, input, accountID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("Failed to refresh bank summary snapshots",
					"bank_account_id", accountID,
					"error", err,
				)
				report.Failed = append(report.Failed, RefreshFailure{
					OrganizationID: input.OrganizationID,
					ClientID:       input.ClientID,
					BankAccountID:  accountID,
					Err:            err,
				})
				return nil
			}
			report.Refreshed = append(report.Refreshed, accountID)
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(report.Refreshed)
	sort.Slice(report.Failed, func(i, j int) bool {
		return report.Failed[i].BankAccountID < report.Failed[j].BankAccountID
	})

	logger.Info("Bank summary snapshot refresh completed",
		"refreshed", len(report.Refreshed),
		"failed", len(report.Failed),
	)

	return report, nil
}

// refreshOne refreshes a single account, turning a panic into an error.
func (uc *RefreshAccountsSnapshotsUseCase) refreshOne(
	ctx context.Context,
	input RefreshAccountsSnapshotsInput,
	accountID string,
) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while refreshing account: %v", rec)
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	_, err = uc.refreshAccount.Execute(ctx, RefreshAccountSnapshotsInput{
		OrganizationID: input.OrganizationID,
		ClientID:       input.ClientID,
		BankAccountID:  accountID,
		Now:            input.Now,
	})
	return err
}

// normalizeAccountIDs trims, drops empty ids and removes duplicates keeping first-seen order.
func normalizeAccountIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
