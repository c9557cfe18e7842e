package summary

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/domain/valueobject"
)

// fakeTransactionRepo is an in-memory BankTransactionRepository.
type fakeTransactionRepo struct {
	mu           sync.Mutex
	transactions []*entity.BankTransaction
	err          error
	calls        int
}

func (r *fakeTransactionRepo) FindByAccount(_ context.Context, clientID, bankAccountID string) ([]*entity.BankTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	result := make([]*entity.BankTransaction, 0, len(r.transactions))
	for _, tx := range r.transactions {
		if tx.ClientID == clientID && tx.BankAccountID == bankAccountID {
			result = append(result, tx)
		}
	}
	return result, nil
}

// fakeSaleLegRepo is an in-memory SaleLegRepository.
type fakeSaleLegRepo struct {
	mu       sync.Mutex
	saleLegs []*entity.SaleLeg
	err      error
	calls    int
}

func (r *fakeSaleLegRepo) FindByClient(_ context.Context, clientID string) ([]*entity.SaleLeg, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	result := make([]*entity.SaleLeg, 0, len(r.saleLegs))
	for _, leg := range r.saleLegs {
		if leg.ClientID == clientID {
			result = append(result, leg)
		}
	}
	return result, nil
}

// fakeCategoryRepo is an in-memory PjCategoryRepository.
type fakeCategoryRepo struct {
	categories []*entity.PjCategory
	err        error
	calls      int
}

func (r *fakeCategoryRepo) FindByClient(_ context.Context, _, _ string) ([]*entity.PjCategory, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.categories, nil
}

// fakeSnapshotRepo is an in-memory BankSummarySnapshotRepository.
type fakeSnapshotRepo struct {
	snapshots []*entity.BankSummarySnapshot
	err       error
	finds     int
}

func (r *fakeSnapshotRepo) FindByAccount(_ context.Context, _, _, _ string) ([]*entity.BankSummarySnapshot, error) {
	r.finds++
	if r.err != nil {
		return nil, r.err
	}
	return r.snapshots, nil
}

func (r *fakeSnapshotRepo) ReplaceForAccount(_ context.Context, _, _, _ string, snapshots []*entity.BankSummarySnapshot) error {
	if r.err != nil {
		return r.err
	}
	r.snapshots = snapshots
	return nil
}

func date(year int, month time.Month, day int) valueobject.Date {
	return valueobject.NewDate(year, month, day)
}

func tx(id string, d valueobject.Date, amount float64) *entity.BankTransaction {
	return &entity.BankTransaction{
		BankTxID:      id,
		ClientID:      "client-1",
		BankAccountID: "account-1",
		Date:          d,
		Amount:        decimal.NewFromFloat(amount),
	}
}

func parcel(n int, due valueobject.Date, expected float64, received bool) entity.SettlementParcel {
	p := entity.SettlementParcel{
		N:        n,
		Due:      due,
		Expected: decimal.NewFromFloat(expected),
	}
	if received {
		p.ReceivedTxID = "received"
	}
	return p
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func intPtr(v int) *int {
	return &v
}

func datePtr(d valueobject.Date) *valueobject.Date {
	return &d
}
