package snapshot

import (
	"context"
	"errors"
	"testing"
)

func TestRefreshAccountsSnapshotsUseCase(t *testing.T) {
	t.Run("one failing account does not stop the others", func(t *testing.T) {
		f := newRefreshFixture()
		f.transactions.failAccounts = map[string]bool{"acc-2": true}
		uc := NewRefreshAccountsSnapshotsUseCase(f.refresh, 2)

		report, err := uc.Execute(context.Background(), RefreshAccountsSnapshotsInput{
			OrganizationID: "org-1",
			ClientID:       "client-1",
			BankAccountIDs: []string{"acc-1", "acc-2", "acc-3"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(report.Refreshed) != 2 || report.Refreshed[0] != "acc-1" || report.Refreshed[1] != "acc-3" {
			t.Errorf("expected acc-1 and acc-3 refreshed, got %v", report.Refreshed)
		}
		if len(report.Failed) != 1 || report.Failed[0].BankAccountID != "acc-2" {
			t.Fatalf("expected acc-2 to fail, got %+v", report.Failed)
		}
		if !errors.Is(report.Failed[0].Err, errAccountUnavailable) {
			t.Errorf("expected errAccountUnavailable, got %v", report.Failed[0].Err)
		}
		if _, ok := f.snapshots.stored["acc-3"]; !ok {
			t.Error("expected acc-3 snapshots to be stored")
		}
	})

	t.Run("panicking account is reported as a failure", func(t *testing.T) {
		f := newRefreshFixture()
		f.snapshots.panicAccounts = map[string]bool{"acc-1": true}
		uc := NewRefreshAccountsSnapshotsUseCase(f.refresh, 0)

		report, err := uc.Execute(context.Background(), RefreshAccountsSnapshotsInput{
			OrganizationID: "org-1",
			ClientID:       "client-1",
			BankAccountIDs: []string{"acc-1", "acc-2"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(report.Failed) != 1 || report.Failed[0].BankAccountID != "acc-1" {
			t.Errorf("expected acc-1 to fail, got %+v", report.Failed)
		}
		if len(report.Refreshed) != 1 || report.Refreshed[0] != "acc-2" {
			t.Errorf("expected acc-2 refreshed, got %v", report.Refreshed)
		}
	})

	t.Run("ids are trimmed and deduplicated", func(t *testing.T) {
		f := newRefreshFixture()
		uc := NewRefreshAccountsSnapshotsUseCase(f.refresh, 4)

		report, err := uc.Execute(context.Background(), RefreshAccountsSnapshotsInput{
			OrganizationID: "org-1",
			ClientID:       "client-1",
			BankAccountIDs: []string{" acc-1", "acc-1", "", "acc-1 "},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(report.Refreshed) != 1 {
			t.Errorf("expected a single refresh, got %v", report.Refreshed)
		}
		if f.snapshots.replaces != 1 {
			t.Errorf("expected one replace, got %d", f.snapshots.replaces)
		}
	})

	t.Run("empty list is a no-op", func(t *testing.T) {
		f := newRefreshFixture()
		uc := NewRefreshAccountsSnapshotsUseCase(f.refresh, 4)

		report, err := uc.Execute(context.Background(), RefreshAccountsSnapshotsInput{
			OrganizationID: "org-1",
			ClientID:       "client-1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.Refreshed) != 0 || len(report.Failed) != 0 {
			t.Errorf("expected an empty report, got %+v", report)
		}
	})

	t.Run("missing client is rejected", func(t *testing.T) {
		uc := NewRefreshAccountsSnapshotsUseCase(newRefreshFixture().refresh, 4)

		if _, err := uc.Execute(context.Background(), RefreshAccountsSnapshotsInput{OrganizationID: "org-1"}); err == nil {
			t.Fatal("expected an error")
		}
	})
}
