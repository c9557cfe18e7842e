// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/pj-finance/backend/internal/domain/entity"
)

// ClientModel represents the clients table in the database.
type ClientModel struct {
	ID             string    `gorm:"type:varchar(64);primaryKey"`
	OrganizationID string    `gorm:"type:varchar(64);not null;index"`
	Name           string    `gorm:"type:varchar(255);not null"`
	Type           string    `gorm:"type:varchar(2);not null;default:'PJ'"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for the ClientModel.
func (ClientModel) TableName() string {
	return "clients"
}

// ToEntity converts a ClientModel to a domain Client entity.
func (m *ClientModel) ToEntity() *entity.Client {
	return &entity.Client{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		Type:           entity.ClientType(m.Type),
		CreatedAt:      m.CreatedAt,
	}
}

// ClientFromEntity creates a ClientModel from a domain Client entity.
func ClientFromEntity(client *entity.Client) *ClientModel {
	return &ClientModel{
		ID:             client.ID,
		OrganizationID: client.OrganizationID,
		Name:           client.Name,
		Type:           string(client.Type),
		CreatedAt:      client.CreatedAt,
	}
}

// BankAccountModel represents the bank_accounts table in the database.
type BankAccountModel struct {
	ID             string    `gorm:"type:varchar(64);primaryKey"`
	OrganizationID string    `gorm:"type:varchar(64);not null;index:idx_bank_account_client,priority:1"`
	ClientID       string    `gorm:"type:varchar(64);not null;index:idx_bank_account_client,priority:2"`
	Name           string    `gorm:"type:varchar(255)"`
	BankName       string    `gorm:"type:varchar(128)"`
	IsActive       bool      `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for the BankAccountModel.
func (BankAccountModel) TableName() string {
	return "bank_accounts"
}

// ToEntity converts a BankAccountModel to a domain BankAccount entity.
func (m *BankAccountModel) ToEntity() *entity.BankAccount {
	return &entity.BankAccount{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		ClientID:       m.ClientID,
		Name:           m.Name,
		BankName:       m.BankName,
		IsActive:       m.IsActive,
	}
}

// BankAccountFromEntity creates a BankAccountModel from a domain BankAccount entity.
func BankAccountFromEntity(account *entity.BankAccount) *BankAccountModel {
	return &BankAccountModel{
		ID:             account.ID,
		OrganizationID: account.OrganizationID,
		ClientID:       account.ClientID,
		Name:           account.Name,
		BankName:       account.BankName,
		IsActive:       account.IsActive,
	}
}

// PjCategoryModel represents the pj_categories table in the database.
type PjCategoryModel struct {
	ID             string    `gorm:"type:varchar(64);primaryKey"`
	OrganizationID string    `gorm:"type:varchar(64);not null;index:idx_pj_category_client,priority:1"`
	ClientID       string    `gorm:"type:varchar(64);not null;index:idx_pj_category_client,priority:2"`
	Name           string    `gorm:"type:varchar(128);not null"`
	Group          string    `gorm:"column:ledger_group;type:varchar(32)"`
	ParentID       *string   `gorm:"type:varchar(64)"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for the PjCategoryModel.
func (PjCategoryModel) TableName() string {
	return "pj_categories"
}

// ToEntity converts a PjCategoryModel to a domain PjCategory entity.
func (m *PjCategoryModel) ToEntity() *entity.PjCategory {
	var parentID string
	if m.ParentID != nil {
		parentID = *m.ParentID
	}
	return &entity.PjCategory{
		ID:       m.ID,
		Name:     m.Name,
		Group:    entity.LedgerGroup(m.Group),
		ParentID: parentID,
	}
}
