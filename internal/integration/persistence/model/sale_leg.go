// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/domain/valueobject"
)

// SaleLegModel represents the sale_legs table in the database.
type SaleLegModel struct {
	ID          string    `gorm:"type:varchar(64);primaryKey"`
	ClientID    string    `gorm:"type:varchar(64);not null;index"`
	Description string    `gorm:"type:varchar(255)"`
	CreatedAt   time.Time `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	SettlementPlan []SettlementParcelModel `gorm:"foreignKey:SaleLegID;references:ID"`
}

// TableName returns the table name for the SaleLegModel.
func (SaleLegModel) TableName() string {
	return "sale_legs"
}

// SettlementParcelModel represents the settlement_parcels table in the database.
// Due keeps the date text exactly as imported.
type SettlementParcelModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleLegID    string          `gorm:"type:varchar(64);not null;index"`
	N            int             `gorm:"column:n;not null"`
	Due          string          `gorm:"type:varchar(32)"`
	Expected     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	ReceivedTxID *string         `gorm:"type:varchar(64)"`
	ReceivedAt   *time.Time      `gorm:"type:timestamp"`
}

// TableName returns the table name for the SettlementParcelModel.
func (SettlementParcelModel) TableName() string {
	return "settlement_parcels"
}

// ToEntity converts a SaleLegModel and its loaded parcels to a domain SaleLeg entity.
func (m *SaleLegModel) ToEntity() *entity.SaleLeg {
	plan := make([]entity.SettlementParcel, len(m.SettlementPlan))
	for i := range m.SettlementPlan {
		plan[i] = m.SettlementPlan[i].ToEntity()
	}

	return &entity.SaleLeg{
		ID:             m.ID,
		ClientID:       m.ClientID,
		Description:    m.Description,
		SettlementPlan: plan,
	}
}

// ToEntity converts a SettlementParcelModel to a domain SettlementParcel.
// An unparseable due date becomes the zero date.
func (m *SettlementParcelModel) ToEntity() entity.SettlementParcel {
	due, err := valueobject.ParseFlexible(m.Due)
	if err != nil {
		due = valueobject.Date{}
	}

	var receivedTxID string
	if m.ReceivedTxID != nil {
		receivedTxID = *m.ReceivedTxID
	}

	return entity.SettlementParcel{
		ID:           m.ID,
		N:            m.N,
		Due:          due,
		Expected:     m.Expected,
		ReceivedTxID: receivedTxID,
		ReceivedAt:   m.ReceivedAt,
	}
}

// SaleLegFromEntity creates a SaleLegModel with its parcels from a domain SaleLeg entity.
func SaleLegFromEntity(leg *entity.SaleLeg) *SaleLegModel {
	plan := make([]SettlementParcelModel, len(leg.SettlementPlan))
	for i, p := range leg.SettlementPlan {
		id := p.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		var receivedTxID *string
		if p.ReceivedTxID != "" {
			value := p.ReceivedTxID
			receivedTxID = &value
		}
		plan[i] = SettlementParcelModel{
			ID:           id,
			SaleLegID:    leg.ID,
			N:            p.N,
			Due:          p.Due.ISO(),
			Expected:     p.Expected,
			ReceivedTxID: receivedTxID,
			ReceivedAt:   p.ReceivedAt,
		}
	}

	return &SaleLegModel{
		ID:             leg.ID,
		ClientID:       leg.ClientID,
		Description:    leg.Description,
		SettlementPlan: plan,
	}
}
