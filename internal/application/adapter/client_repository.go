// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/pj-finance/backend/internal/domain/entity"
)

// ClientRepository defines read access to clients across all organizations.
type ClientRepository interface {
	// FindAll retrieves every client.
	FindAll(ctx context.Context) ([]*entity.Client, error)
}

// BankAccountRepository defines read access to client bank accounts.
type BankAccountRepository interface {
	// FindByClient retrieves the bank accounts of a client, active or not.
	FindByClient(ctx context.Context, organizationID, clientID string) ([]*entity.BankAccount, error)
}
