package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pj-finance/backend/internal/application/usecase/summary"
	"github.com/pj-finance/backend/internal/domain/entity"
	domainerror "github.com/pj-finance/backend/internal/domain/error"
	"github.com/pj-finance/backend/internal/domain/valueobject"
)

func refreshInput(accountID string) RefreshAccountSnapshotsInput {
	return RefreshAccountSnapshotsInput{
		OrganizationID: "org-1",
		ClientID:       "client-1",
		BankAccountID:  accountID,
	}
}

func TestRefreshAccountSnapshotsUseCase(t *testing.T) {
	f := newRefreshFixture()

	snapshots, err := f.refresh.Execute(context.Background(), refreshInput("acc-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snapshots) != len(entity.SummaryWindows) {
		t.Fatalf("expected %d snapshots, got %d", len(entity.SummaryWindows), len(snapshots))
	}

	reference := valueobject.NewDate(2024, 3, 31)
	expected := []struct {
		window   string
		from     valueobject.Date
		totalIn  float64
		txCount  int
		coverage int
	}{
		{window: "30d", from: reference.AddDays(-29), totalIn: 1000, txCount: 1, coverage: 30},
		{window: "90d", from: reference.AddDays(-89), totalIn: 1000, txCount: 2, coverage: 90},
		{window: "365d", from: reference.AddDays(-364), totalIn: 1400, txCount: 3, coverage: 365},
	}

	for i, want := range expected {
		t.Run(want.window, func(t *testing.T) {
			s := snapshots[i]
			if s.Window != want.window {
				t.Fatalf("expected window %s, got %s", want.window, s.Window)
			}
			if s.Metadata.From == nil || !s.Metadata.From.Equal(want.from) {
				t.Errorf("expected from %v, got %v", want.from, s.Metadata.From)
			}
			if s.Metadata.To == nil || !s.Metadata.To.Equal(reference) {
				t.Errorf("expected to %v, got %v", reference, s.Metadata.To)
			}
			if s.Totals[string(summary.TotalIn)] != want.totalIn {
				t.Errorf("expected totalIn %v, got %v", want.totalIn, s.Totals[string(summary.TotalIn)])
			}
			if *s.Metadata.TransactionCount != want.txCount {
				t.Errorf("expected %d transactions, got %d", want.txCount, *s.Metadata.TransactionCount)
			}
			if *s.Metadata.CoverageDays != want.coverage {
				t.Errorf("expected coverage %d, got %d", want.coverage, *s.Metadata.CoverageDays)
			}
			if s.Metadata.Version != entity.SnapshotMetadataVersion {
				t.Errorf("expected metadata version %d, got %d", entity.SnapshotMetadataVersion, s.Metadata.Version)
			}
			if len(s.KPIs) != len(summary.KpiFields) {
				t.Errorf("expected every KPI to be stored, got %d", len(s.KPIs))
			}
		})
	}

	if f.snapshots.replaces != 1 {
		t.Errorf("expected one replace, got %d", f.snapshots.replaces)
	}
}

func TestRefreshAccountSnapshotsUseCase_Idempotent(t *testing.T) {
	f := newRefreshFixture()

	for i := 0; i < 2; i++ {
		if _, err := f.refresh.Execute(context.Background(), refreshInput("acc-1")); err != nil {
			t.Fatalf("unexpected error on run %d: %v", i+1, err)
		}
	}

	stored := f.snapshots.stored["acc-1"]
	if len(stored) != len(entity.SummaryWindows) {
		t.Errorf("expected %d stored snapshots after two runs, got %d", len(entity.SummaryWindows), len(stored))
	}
}

func TestRefreshAccountSnapshotsUseCase_NoTransactionsUsesNow(t *testing.T) {
	f := newRefreshFixture()
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	input := refreshInput("acc-empty")
	input.Now = &now

	snapshots, err := f.refresh.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !snapshots[0].Metadata.To.Equal(valueobject.NewDate(2024, 5, 10)) {
		t.Errorf("expected the window to end on 10/05/2024, got %v", snapshots[0].Metadata.To)
	}
	// The parcel due on 20/03/2024 only falls inside the 90 and 365 day windows.
	if got := snapshots[0].KPIs[string(summary.OverdueReceivableCount)]; got != float64(0) {
		t.Errorf("expected no overdue parcel in the 30 day window, got %v", got)
	}
	if got := snapshots[1].KPIs[string(summary.OverdueReceivableCount)]; got != float64(1) {
		t.Errorf("expected the past parcel to be overdue in the 90 day window, got %v", got)
	}
}

func TestRefreshAccountSnapshotsUseCase_CategoryFailureIsNotFatal(t *testing.T) {
	f := newRefreshFixture()
	f.categories.err = errors.New("categories unavailable")

	if _, err := f.refresh.Execute(context.Background(), refreshInput("acc-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRefreshAccountSnapshotsUseCase_Errors(t *testing.T) {
	t.Run("missing target", func(t *testing.T) {
		f := newRefreshFixture()

		_, err := f.refresh.Execute(context.Background(), refreshInput(""))

		var summaryErr *domainerror.SummaryError
		if !errors.As(err, &summaryErr) || summaryErr.Code != domainerror.ErrCodeInvalidRefreshTarget {
			t.Fatalf("expected invalid refresh target, got %v", err)
		}
	})

	t.Run("transaction load failure stores nothing", func(t *testing.T) {
		f := newRefreshFixture()
		f.transactions.failAccounts = map[string]bool{"acc-1": true}

		_, err := f.refresh.Execute(context.Background(), refreshInput("acc-1"))
		if !errors.Is(err, errAccountUnavailable) {
			t.Fatalf("expected errAccountUnavailable, got %v", err)
		}
		if f.snapshots.replaces != 0 {
			t.Errorf("expected no replace, got %d", f.snapshots.replaces)
		}
	})
}
