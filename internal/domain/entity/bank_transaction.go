// Package entity defines the core business entities for the domain layer.
package entity

import (
	"github.com/shopspring/decimal"

	"github.com/pj-finance/backend/internal/domain/valueobject"
)

// LedgerGroup is one of the six fixed top-level cash-flow groups of the statement report.
type LedgerGroup string

const (
	LedgerGroupReceita         LedgerGroup = "RECEITA"
	LedgerGroupDeducoesReceita LedgerGroup = "DEDUCOES_RECEITA"
	LedgerGroupGEA             LedgerGroup = "GEA"
	LedgerGroupComercialMkt    LedgerGroup = "COMERCIAL_MKT"
	LedgerGroupFinanceiras     LedgerGroup = "FINANCEIRAS"
	LedgerGroupOutras          LedgerGroup = "OUTRAS"
)

// LedgerGroups lists every ledger group in statement order.
var LedgerGroups = []LedgerGroup{
	LedgerGroupReceita,
	LedgerGroupDeducoesReceita,
	LedgerGroupGEA,
	LedgerGroupComercialMkt,
	LedgerGroupFinanceiras,
	LedgerGroupOutras,
}

// IsValid reports whether the group is one of the six known groups.
func (g LedgerGroup) IsValid() bool {
	for _, known := range LedgerGroups {
		if g == known {
			return true
		}
	}
	return false
}

// Categorization is the explicit category assignment of a bank transaction.
type Categorization struct {
	Group       LedgerGroup
	Subcategory string
	Auto        bool // true when assigned by an automatic rule
}

// BankTransaction is an imported bank statement line. Immutable once imported.
type BankTransaction struct {
	BankTxID      string
	ClientID      string
	BankAccountID string
	Date          valueobject.Date
	Description   string
	Amount        decimal.Decimal // Positive for inflows, negative for outflows
	CategorizedAs *Categorization

	// Legacy free-text cash-flow statement fields.
	DfcCategory string
	DfcItem     string
}

// IsInflow reports whether the transaction credits the account.
func (t *BankTransaction) IsInflow() bool {
	return t.Amount.IsPositive()
}

// IsOutflow reports whether the transaction debits the account.
func (t *BankTransaction) IsOutflow() bool {
	return t.Amount.IsNegative()
}
