// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/pj-finance/backend/internal/application/adapter"
	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/integration/persistence/model"
)

// bankTransactionRepository implements the adapter.BankTransactionRepository interface.
type bankTransactionRepository struct {
	db *gorm.DB
}

// NewBankTransactionRepository creates a new bank transaction repository instance.
func NewBankTransactionRepository(db *gorm.DB) adapter.BankTransactionRepository {
	return &bankTransactionRepository{
		db: db,
	}
}

// FindByAccount retrieves every transaction of a client's bank account ordered by date.
func (r *bankTransactionRepository) FindByAccount(ctx context.Context, clientID, bankAccountID string) ([]*entity.BankTransaction, error) {
	var models []model.BankTransactionModel
	result := r.db.WithContext(ctx).
		Where("client_id = ? AND bank_account_id = ?", clientID, bankAccountID).
		Order("date ASC, bank_tx_id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.BankTransaction, len(models))
	for i := range models {
		transactions[i] = models[i].ToEntity()
	}
	return transactions, nil
}
