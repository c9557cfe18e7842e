// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/pj-finance/backend/internal/domain/entity"
)

// BankSummarySnapshotRepository defines persistence of per-window bank summary snapshots.
type BankSummarySnapshotRepository interface {
	// FindByAccount retrieves every snapshot stored for a bank account.
	FindByAccount(ctx context.Context, organizationID, clientID, bankAccountID string) ([]*entity.BankSummarySnapshot, error)

	// ReplaceForAccount atomically replaces the full snapshot set of a bank account.
	ReplaceForAccount(ctx context.Context, organizationID, clientID, bankAccountID string, snapshots []*entity.BankSummarySnapshot) error
}
