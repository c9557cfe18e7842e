// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/pj-finance/backend/internal/domain/entity"
)

// BankTransactionRepository defines read access to imported bank transactions.
type BankTransactionRepository interface {
	// FindByAccount retrieves every transaction of a client's bank account.
	FindByAccount(ctx context.Context, clientID, bankAccountID string) ([]*entity.BankTransaction, error)
}
