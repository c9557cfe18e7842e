package snapshot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pj-finance/backend/internal/application/usecase/summary"
	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/domain/valueobject"
)

var errAccountUnavailable = errors.New("account unavailable")

type fakeTransactionRepo struct {
	transactions []*entity.BankTransaction
	failAccounts map[string]bool
}

func (r *fakeTransactionRepo) FindByAccount(_ context.Context, clientID, bankAccountID string) ([]*entity.BankTransaction, error) {
	if r.failAccounts[bankAccountID] {
		return nil, errAccountUnavailable
	}
	var result []*entity.BankTransaction
	for _, tx := range r.transactions {
		if tx.ClientID == clientID && tx.BankAccountID == bankAccountID {
			result = append(result, tx)
		}
	}
	return result, nil
}

type fakeSaleLegRepo struct {
	saleLegs []*entity.SaleLeg
}

func (r *fakeSaleLegRepo) FindByClient(_ context.Context, clientID string) ([]*entity.SaleLeg, error) {
	var result []*entity.SaleLeg
	for _, leg := range r.saleLegs {
		if leg.ClientID == clientID {
			result = append(result, leg)
		}
	}
	return result, nil
}

type fakeCategoryRepo struct {
	err error
}

func (r *fakeCategoryRepo) FindByClient(_ context.Context, _, _ string) ([]*entity.PjCategory, error) {
	return nil, r.err
}

type fakeSnapshotRepo struct {
	mu            sync.Mutex
	stored        map[string][]*entity.BankSummarySnapshot
	replaces      int
	panicAccounts map[string]bool
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{stored: map[string][]*entity.BankSummarySnapshot{}}
}

func (r *fakeSnapshotRepo) FindByAccount(_ context.Context, _, _, bankAccountID string) ([]*entity.BankSummarySnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stored[bankAccountID], nil
}

func (r *fakeSnapshotRepo) ReplaceForAccount(_ context.Context, _, _, bankAccountID string, snapshots []*entity.BankSummarySnapshot) error {
	if r.panicAccounts[bankAccountID] {
		panic("corrupted snapshot set")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored[bankAccountID] = snapshots
	r.replaces++
	return nil
}

type fakeClientRepo struct {
	clients []*entity.Client
	err     error
}

func (r *fakeClientRepo) FindAll(_ context.Context) ([]*entity.Client, error) {
	return r.clients, r.err
}

type fakeBankAccountRepo struct {
	accounts   []*entity.BankAccount
	failClient string
}

func (r *fakeBankAccountRepo) FindByClient(_ context.Context, _, clientID string) ([]*entity.BankAccount, error) {
	if clientID == r.failClient {
		return nil, errors.New("listing failed")
	}
	var result []*entity.BankAccount
	for _, a := range r.accounts {
		if a.ClientID == clientID {
			result = append(result, a)
		}
	}
	return result, nil
}

type refreshFixture struct {
	transactions *fakeTransactionRepo
	saleLegs     *fakeSaleLegRepo
	categories   *fakeCategoryRepo
	snapshots    *fakeSnapshotRepo
	refresh      *RefreshAccountSnapshotsUseCase
}

func newRefreshFixture() *refreshFixture {
	f := &refreshFixture{
		transactions: &fakeTransactionRepo{
			transactions: []*entity.BankTransaction{
				bankTx("client-1", "acc-1", valueobject.NewDate(2024, 3, 31), 1000),
				bankTx("client-1", "acc-1", valueobject.NewDate(2024, 3, 1), -250),
				bankTx("client-1", "acc-1", valueobject.NewDate(2023, 6, 1), 400),
				bankTx("client-1", "acc-2", valueobject.NewDate(2024, 3, 10), 70),
				bankTx("client-1", "acc-3", valueobject.NewDate(2024, 3, 11), 80),
			},
		},
		saleLegs: &fakeSaleLegRepo{
			saleLegs: []*entity.SaleLeg{{
				ID:       "leg-1",
				ClientID: "client-1",
				SettlementPlan: []entity.SettlementParcel{{
					N:        1,
					Due:      valueobject.NewDate(2024, 3, 20),
					Expected: decimal.NewFromInt(300),
				}},
			}},
		},
		categories: &fakeCategoryRepo{},
		snapshots:  newFakeSnapshotRepo(),
	}

	calculator := summary.NewMetricsCalculator(nil)
	f.refresh = NewRefreshAccountSnapshotsUseCase(
		f.transactions,
		f.saleLegs,
		f.categories,
		f.snapshots,
		summary.NewComputeFreshSummaryUseCase(calculator),
	)
	f.refresh.clock = func() time.Time { return time.Date(2024, 4, 2, 6, 0, 0, 0, time.UTC) }
	return f
}

func bankTx(clientID, accountID string, d valueobject.Date, amount int64) *entity.BankTransaction {
	return &entity.BankTransaction{
		BankTxID:      accountID + "-" + d.ISO(),
		ClientID:      clientID,
		BankAccountID: accountID,
		Date:          d,
		Amount:        decimal.NewFromInt(amount),
	}
}
