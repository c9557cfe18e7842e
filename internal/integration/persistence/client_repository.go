// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/pj-finance/backend/internal/application/adapter"
	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/integration/persistence/model"
)

// clientRepository implements the adapter.ClientRepository interface.
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository instance.
func NewClientRepository(db *gorm.DB) adapter.ClientRepository {
	return &clientRepository{
		db: db,
	}
}

// FindAll retrieves every client ordered by organization and id.
func (r *clientRepository) FindAll(ctx context.Context) ([]*entity.Client, error) {
	var models []model.ClientModel
	result := r.db.WithContext(ctx).
		Order("organization_id ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	clients := make([]*entity.Client, len(models))
	for i := range models {
		clients[i] = models[i].ToEntity()
	}
	return clients, nil
}

// bankAccountRepository implements the adapter.BankAccountRepository interface.
type bankAccountRepository struct {
	db *gorm.DB
}

// NewBankAccountRepository creates a new bank account repository instance.
func NewBankAccountRepository(db *gorm.DB) adapter.BankAccountRepository {
	return &bankAccountRepository{
		db: db,
	}
}

// FindByClient retrieves the bank accounts of a client, active or not.
func (r *bankAccountRepository) FindByClient(ctx context.Context, organizationID, clientID string) ([]*entity.BankAccount, error) {
	var models []model.BankAccountModel
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND client_id = ?", organizationID, clientID).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	accounts := make([]*entity.BankAccount, len(models))
	for i := range models {
		accounts[i] = models[i].ToEntity()
	}
	return accounts, nil
}
