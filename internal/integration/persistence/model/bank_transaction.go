// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/domain/valueobject"
)

// BankTransactionModel represents the bank_transactions table in the database.
type BankTransactionModel struct {
	BankTxID      string          `gorm:"column:bank_tx_id;type:varchar(64);primaryKey"`
	ClientID      string          `gorm:"type:varchar(64);not null;index:idx_bank_tx_account,priority:1"`
	BankAccountID string          `gorm:"type:varchar(64);not null;index:idx_bank_tx_account,priority:2"`
	Date          time.Time       `gorm:"type:date;not null;index"`
	Description   string          `gorm:"type:varchar(255)"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null"`

	// Explicit categorization, null when the transaction was never categorized
	CategorizedGroup       *string `gorm:"type:varchar(32)"`
	CategorizedSubcategory string  `gorm:"type:varchar(128)"`
	CategorizedAuto        bool    `gorm:"default:false"`

	// Legacy cash-flow statement text
	DfcCategory string `gorm:"type:varchar(128)"`
	DfcItem     string `gorm:"type:varchar(128)"`

	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the BankTransactionModel.
func (BankTransactionModel) TableName() string {
	return "bank_transactions"
}

// ToEntity converts a BankTransactionModel to a domain BankTransaction entity.
func (m *BankTransactionModel) ToEntity() *entity.BankTransaction {
	var categorized *entity.Categorization
	if m.CategorizedGroup != nil {
		categorized = &entity.Categorization{
			Group:       entity.LedgerGroup(*m.CategorizedGroup),
			Subcategory: m.CategorizedSubcategory,
			Auto:        m.CategorizedAuto,
		}
	}

	return &entity.BankTransaction{
		BankTxID:      m.BankTxID,
		ClientID:      m.ClientID,
		BankAccountID: m.BankAccountID,
		Date:          valueobject.DateOf(m.Date.UTC()),
		Description:   m.Description,
		Amount:        m.Amount,
		CategorizedAs: categorized,
		DfcCategory:   m.DfcCategory,
		DfcItem:       m.DfcItem,
	}
}

// BankTransactionFromEntity creates a BankTransactionModel from a domain BankTransaction entity.
func BankTransactionFromEntity(tx *entity.BankTransaction) *BankTransactionModel {
	m := &BankTransactionModel{
		BankTxID:      tx.BankTxID,
		ClientID:      tx.ClientID,
		BankAccountID: tx.BankAccountID,
		Date:          tx.Date.Time(),
		Description:   tx.Description,
		Amount:        tx.Amount,
		DfcCategory:   tx.DfcCategory,
		DfcItem:       tx.DfcItem,
	}
	if tx.CategorizedAs != nil {
		group := string(tx.CategorizedAs.Group)
		m.CategorizedGroup = &group
		m.CategorizedSubcategory = tx.CategorizedAs.Subcategory
		m.CategorizedAuto = tx.CategorizedAs.Auto
	}
	return m
}
