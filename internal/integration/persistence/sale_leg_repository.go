// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/pj-finance/backend/internal/application/adapter"
	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/integration/persistence/model"
)

// saleLegRepository implements the adapter.SaleLegRepository interface.
type saleLegRepository struct {
	db *gorm.DB
}

// NewSaleLegRepository creates a new sale leg repository instance.
func NewSaleLegRepository(db *gorm.DB) adapter.SaleLegRepository {
	return &saleLegRepository{
		db: db,
	}
}

// FindByClient retrieves every sale leg of a client with its parcels ordered by number.
func (r *saleLegRepository) FindByClient(ctx context.Context, clientID string) ([]*entity.SaleLeg, error) {
	var models []model.SaleLegModel
	result := r.db.WithContext(ctx).
		Preload("SettlementPlan", func(db *gorm.DB) *gorm.DB {
			return db.Order("n ASC")
		}).
		Where("client_id = ?", clientID).
		Order("created_at ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	saleLegs := make([]*entity.SaleLeg, len(models))
	for i := range models {
		saleLegs[i] = models[i].ToEntity()
	}
	return saleLegs, nil
}
