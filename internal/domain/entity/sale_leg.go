// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pj-finance/backend/internal/domain/valueobject"
)

// SettlementParcel is one expected installment of a receivable.
type SettlementParcel struct {
	ID           uuid.UUID
	N            int
	Due          valueobject.Date // Zero when the stored due date could not be parsed
	Expected     decimal.Decimal
	ReceivedTxID string
	ReceivedAt   *time.Time
}

// IsOutstanding reports whether the parcel has not been matched to a received transaction.
func (p *SettlementParcel) IsOutstanding() bool {
	return p.ReceivedTxID == ""
}

// IsOverdue reports whether the parcel is outstanding and due strictly before now.
// Parcels without a valid due date are never overdue.
func (p *SettlementParcel) IsOverdue(now time.Time) bool {
	if !p.IsOutstanding() || p.Due.IsZero() {
		return false
	}
	return p.Due.Time().Before(now)
}

// SaleLeg is one leg of a sale with its settlement plan.
type SaleLeg struct {
	ID             string
	ClientID       string
	Description    string
	SettlementPlan []SettlementParcel // Ordered by parcel number
}
