// Package entity defines the core business entities for the domain layer.
package entity

import "time"

// ClientType distinguishes business (PJ) from personal (PF) clients.
type ClientType string

const (
	ClientTypePJ ClientType = "PJ"
	ClientTypePF ClientType = "PF"
)

// Client is a customer of an organization.
type Client struct {
	ID             string
	OrganizationID string
	Name           string
	Type           ClientType
	CreatedAt      time.Time
}

// BankAccount is a bank account owned by a client.
type BankAccount struct {
	ID             string
	OrganizationID string
	ClientID       string
	Name           string
	BankName       string
	IsActive       bool
}

// PjCategory is a client-defined category that can be attached to bank transactions.
type PjCategory struct {
	ID       string
	Name     string
	Group    LedgerGroup
	ParentID string
}
