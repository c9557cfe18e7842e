// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pj-finance/backend/internal/application/adapter"
	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/integration/persistence/model"
)

const snapshotCacheKeyPrefix = "bank_summary_snapshots"

// cachedSnapshotRepository is a read-through Redis cache in front of a snapshot repository.
// Redis failures are logged and the call falls through to the wrapped repository.
type cachedSnapshotRepository struct {
	next  adapter.BankSummarySnapshotRepository
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedBankSummarySnapshotRepository wraps next with a Redis cache.
// A nil client or a non-positive TTL disables caching and returns next unchanged.
func NewCachedBankSummarySnapshotRepository(
	next adapter.BankSummarySnapshotRepository,
	client *redis.Client,
	ttl time.Duration,
) adapter.BankSummarySnapshotRepository {
	if client == nil || ttl <= 0 {
		return next
	}
	return &cachedSnapshotRepository{
		next:  next,
		redis: client,
		ttl:   ttl,
	}
}

// FindByAccount returns the cached snapshot set, loading and caching it on a miss.
// Entries are keyed by the account's cache generation, so a set loaded before a concurrent
// ReplaceForAccount is written under a generation no reader asks for again.
func (r *cachedSnapshotRepository) FindByAccount(ctx context.Context, organizationID, clientID, bankAccountID string) ([]*entity.BankSummarySnapshot, error) {
	base := snapshotCacheKey(organizationID, clientID, bankAccountID)

	generation, err := r.redis.Get(ctx, snapshotGenerationKey(base)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("Failed to read snapshot cache generation", "key", base, "error", err)
		return r.next.FindByAccount(ctx, organizationID, clientID, bankAccountID)
	}
	key := snapshotDataKey(base, generation)

	cached, err := r.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var models []model.BankSummarySnapshotModel
		if err := json.Unmarshal(cached, &models); err == nil {
			return snapshotsFromModels(models), nil
		}
		slog.Warn("Failed to decode cached snapshots", "key", key, "error", err)
	case !errors.Is(err, redis.Nil):
		slog.Warn("Failed to read snapshot cache", "key", key, "error", err)
	}

	snapshots, err := r.next.FindByAccount(ctx, organizationID, clientID, bankAccountID)
	if err != nil {
		return nil, err
	}

	r.store(ctx, key, snapshots)
	return snapshots, nil
}

// ReplaceForAccount replaces the stored set and moves the account to a new cache generation.
func (r *cachedSnapshotRepository) ReplaceForAccount(
	ctx context.Context,
	organizationID, clientID, bankAccountID string,
	snapshots []*entity.BankSummarySnapshot,
) error {
	if err := r.next.ReplaceForAccount(ctx, organizationID, clientID, bankAccountID, snapshots); err != nil {
		return err
	}

	base := snapshotCacheKey(organizationID, clientID, bankAccountID)
	generation, err := r.redis.Incr(ctx, snapshotGenerationKey(base)).Result()
	if err != nil {
		slog.Warn("Failed to invalidate snapshot cache", "key", base, "error", err)
		return nil
	}
	if err := r.redis.Del(ctx, snapshotDataKey(base, generation-1)).Err(); err != nil {
		slog.Warn("Failed to delete superseded snapshot cache entry", "key", base, "error", err)
	}
	return nil
}

func (r *cachedSnapshotRepository) store(ctx context.Context, key string, snapshots []*entity.BankSummarySnapshot) {
	models := make([]*model.BankSummarySnapshotModel, 0, len(snapshots))
	for _, s := range snapshots {
		m, err := model.BankSummarySnapshotFromEntity(s)
		if err != nil {
			slog.Warn("Failed to encode snapshot for cache", "key", key, "error", err)
			return
		}
		models = append(models, m)
	}

	payload, err := json.Marshal(models)
	if err != nil {
		slog.Warn("Failed to encode snapshots for cache", "key", key, "error", err)
		return
	}
	if err := r.redis.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		slog.Warn("Failed to write snapshot cache", "key", key, "error", err)
	}
}

func snapshotCacheKey(organizationID, clientID, bankAccountID string) string {
	return fmt.Sprintf("%s:%s:%s:%s", snapshotCacheKeyPrefix, organizationID, clientID, bankAccountID)
}

func snapshotGenerationKey(base string) string {
	return base + ":generation"
}

func snapshotDataKey(base string, generation int64) string {
	return fmt.Sprintf("%s:g%d", base, generation)
}
