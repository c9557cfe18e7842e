// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/pj-finance/backend/internal/domain/entity"
)

// PjCategoryRepository defines read access to client-defined categories.
type PjCategoryRepository interface {
	// FindByClient retrieves the categories configured for a PJ client.
	FindByClient(ctx context.Context, organizationID, clientID string) ([]*entity.PjCategory, error)
}
