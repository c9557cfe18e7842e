// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/pj-finance/backend/internal/domain/entity"
)

// SaleLegRepository defines read access to sale legs and their settlement plans.
type SaleLegRepository interface {
	// FindByClient retrieves every sale leg of a client with its settlement plan loaded.
	FindByClient(ctx context.Context, clientID string) ([]*entity.SaleLeg, error)
}
