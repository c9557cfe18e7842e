// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/pj-finance/backend/internal/application/adapter"
	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/integration/persistence/model"
)

// bankSummarySnapshotRepository implements the adapter.BankSummarySnapshotRepository interface.
type bankSummarySnapshotRepository struct {
	db *gorm.DB
}

// NewBankSummarySnapshotRepository creates a new bank summary snapshot repository instance.
func NewBankSummarySnapshotRepository(db *gorm.DB) adapter.BankSummarySnapshotRepository {
	return &bankSummarySnapshotRepository{
		db: db,
	}
}

// FindByAccount retrieves every snapshot stored for a bank account.
func (r *bankSummarySnapshotRepository) FindByAccount(ctx context.Context, organizationID, clientID, bankAccountID string) ([]*entity.BankSummarySnapshot, error) {
	var models []model.BankSummarySnapshotModel
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND client_id = ? AND bank_account_id = ?", organizationID, clientID, bankAccountID).
		Order("summary_window ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return snapshotsFromModels(models), nil
}

// ReplaceForAccount deletes the account's snapshots and inserts the new set in one transaction.
func (r *bankSummarySnapshotRepository) ReplaceForAccount(
	ctx context.Context,
	organizationID, clientID, bankAccountID string,
	snapshots []*entity.BankSummarySnapshot,
) error {
	models := make([]*model.BankSummarySnapshotModel, 0, len(snapshots))
	for _, s := range snapshots {
		m, err := model.BankSummarySnapshotFromEntity(s)
		if err != nil {
			return err
		}
		models = append(models, m)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("organization_id = ? AND client_id = ? AND bank_account_id = ?", organizationID, clientID, bankAccountID).
			Delete(&model.BankSummarySnapshotModel{}).Error; err != nil {
			return err
		}

		if len(models) == 0 {
			return nil
		}
		return tx.Create(&models).Error
	})
}

func snapshotsFromModels(models []model.BankSummarySnapshotModel) []*entity.BankSummarySnapshot {
	snapshots := make([]*entity.BankSummarySnapshot, len(models))
	for i := range models {
		snapshots[i] = models[i].ToEntity()
	}
	return snapshots
}
