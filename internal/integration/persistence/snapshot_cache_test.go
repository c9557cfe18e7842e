package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pj-finance/backend/internal/domain/entity"
)

// countingSnapshotRepo records how often the wrapped repository is hit.
type countingSnapshotRepo struct {
	snapshots []*entity.BankSummarySnapshot
	finds     int
	err       error
}

func (r *countingSnapshotRepo) FindByAccount(_ context.Context, _, _, _ string) ([]*entity.BankSummarySnapshot, error) {
	r.finds++
	if r.err != nil {
		return nil, r.err
	}
	return r.snapshots, nil
}

func (r *countingSnapshotRepo) ReplaceForAccount(_ context.Context, _, _, _ string, snapshots []*entity.BankSummarySnapshot) error {
	r.snapshots = snapshots
	return nil
}

// replacingSnapshotRepo runs onFirstFind after the first read has loaded its result,
// simulating a refresh that lands while that read is in flight.
type replacingSnapshotRepo struct {
	countingSnapshotRepo
	onFirstFind func()
}

func (r *replacingSnapshotRepo) FindByAccount(ctx context.Context, organizationID, clientID, bankAccountID string) ([]*entity.BankSummarySnapshot, error) {
	snapshots, err := r.countingSnapshotRepo.FindByAccount(ctx, organizationID, clientID, bankAccountID)
	if r.finds == 1 && r.onFirstFind != nil {
		r.onFirstFind()
	}
	return snapshots, err
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

func TestCachedSnapshotRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("second read is served from the cache", func(t *testing.T) {
		_, client := newTestRedis(t)
		inner := &countingSnapshotRepo{snapshots: []*entity.BankSummarySnapshot{testSnapshot("30d", 100)}}
		repo := NewCachedBankSummarySnapshotRepository(inner, client, time.Minute)

		for i := 0; i < 2; i++ {
			got, err := repo.FindByAccount(ctx, "org-1", "client-1", "acc-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 1 || got[0].Window != "30d" {
				t.Fatalf("unexpected snapshots %+v", got)
			}
		}

		if inner.finds != 1 {
			t.Errorf("expected one repository read, got %d", inner.finds)
		}
	})

	t.Run("replace invalidates the cached set", func(t *testing.T) {
		server, client := newTestRedis(t)
		inner := &countingSnapshotRepo{snapshots: []*entity.BankSummarySnapshot{testSnapshot("30d", 100)}}
		repo := NewCachedBankSummarySnapshotRepository(inner, client, time.Minute)

		if _, err := repo.FindByAccount(ctx, "org-1", "client-1", "acc-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		key := snapshotDataKey(snapshotCacheKey("org-1", "client-1", "acc-1"), 0)
		if !server.Exists(key) {
			t.Fatalf("expected key %s to be cached", key)
		}

		replacement := []*entity.BankSummarySnapshot{testSnapshot("90d", 200)}
		if err := repo.ReplaceForAccount(ctx, "org-1", "client-1", "acc-1", replacement); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if server.Exists(key) {
			t.Error("expected the cached set to be invalidated")
		}

		got, err := repo.FindByAccount(ctx, "org-1", "client-1", "acc-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].Window != "90d" {
			t.Errorf("expected the replaced set, got %+v", got)
		}
	})

	t.Run("replace during an in-flight miss does not leave the old set cached", func(t *testing.T) {
		_, client := newTestRedis(t)
		inner := &replacingSnapshotRepo{
			countingSnapshotRepo: countingSnapshotRepo{snapshots: []*entity.BankSummarySnapshot{testSnapshot("30d", 100)}},
		}
		repo := NewCachedBankSummarySnapshotRepository(inner, client, time.Minute)
		inner.onFirstFind = func() {
			replacement := []*entity.BankSummarySnapshot{testSnapshot("30d", 999)}
			if err := repo.ReplaceForAccount(ctx, "org-1", "client-1", "acc-1", replacement); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		first, err := repo.FindByAccount(ctx, "org-1", "client-1", "acc-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := first[0].Totals["totalIn"]; got != 100.0 {
			t.Fatalf("expected the in-flight read to return totalIn 100, got %v", got)
		}

		second, err := repo.FindByAccount(ctx, "org-1", "client-1", "acc-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := fmt.Sprint(second[0].Totals["totalIn"]); got != "999" {
			t.Errorf("expected the replaced set with totalIn 999, got %s", got)
		}
	})

	t.Run("entries expire after the ttl", func(t *testing.T) {
		server, client := newTestRedis(t)
		inner := &countingSnapshotRepo{snapshots: []*entity.BankSummarySnapshot{testSnapshot("30d", 100)}}
		repo := NewCachedBankSummarySnapshotRepository(inner, client, time.Minute)

		_, _ = repo.FindByAccount(ctx, "org-1", "client-1", "acc-1")
		server.FastForward(2 * time.Minute)
		_, _ = repo.FindByAccount(ctx, "org-1", "client-1", "acc-1")

		if inner.finds != 2 {
			t.Errorf("expected two repository reads, got %d", inner.finds)
		}
	})

	t.Run("redis outage falls through to the repository", func(t *testing.T) {
		server, client := newTestRedis(t)
		inner := &countingSnapshotRepo{snapshots: []*entity.BankSummarySnapshot{testSnapshot("30d", 100)}}
		repo := NewCachedBankSummarySnapshotRepository(inner, client, time.Minute)
		server.Close()

		got, err := repo.FindByAccount(ctx, "org-1", "client-1", "acc-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("expected the repository snapshots, got %d", len(got))
		}
		if err := repo.ReplaceForAccount(ctx, "org-1", "client-1", "acc-1", nil); err != nil {
			t.Errorf("expected replace to succeed without redis, got %v", err)
		}
	})

	t.Run("repository errors are returned", func(t *testing.T) {
		_, client := newTestRedis(t)
		inner := &countingSnapshotRepo{err: errors.New("db down")}
		repo := NewCachedBankSummarySnapshotRepository(inner, client, time.Minute)

		if _, err := repo.FindByAccount(ctx, "org-1", "client-1", "acc-1"); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("nil client disables caching", func(t *testing.T) {
		inner := &countingSnapshotRepo{}
		if repo := NewCachedBankSummarySnapshotRepository(inner, nil, time.Minute); repo != inner {
			t.Error("expected the wrapped repository to be returned")
		}
	})
}
