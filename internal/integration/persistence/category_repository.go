// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/pj-finance/backend/internal/application/adapter"
	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/integration/persistence/model"
)

// pjCategoryRepository implements the adapter.PjCategoryRepository interface.
type pjCategoryRepository struct {
	db *gorm.DB
}

// NewPjCategoryRepository creates a new PJ category repository instance.
func NewPjCategoryRepository(db *gorm.DB) adapter.PjCategoryRepository {
	return &pjCategoryRepository{
		db: db,
	}
}

// FindByClient retrieves the categories configured for a PJ client.
func (r *pjCategoryRepository) FindByClient(ctx context.Context, organizationID, clientID string) ([]*entity.PjCategory, error) {
	var models []model.PjCategoryModel
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND client_id = ?", organizationID, clientID).
		Order("name ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	categories := make([]*entity.PjCategory, len(models))
	for i := range models {
		categories[i] = models[i].ToEntity()
	}
	return categories, nil
}
