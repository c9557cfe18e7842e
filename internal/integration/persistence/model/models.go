// Package model defines database models for persistence layer.
package model

// All returns every model of the summary schema in migration order.
func All() []any {
	return []any{
		&ClientModel{},
		&BankAccountModel{},
		&PjCategoryModel{},
		&BankTransactionModel{},
		&SaleLegModel{},
		&SettlementParcelModel{},
		&BankSummarySnapshotModel{},
	}
}
