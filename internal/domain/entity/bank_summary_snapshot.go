// Package entity defines the core business entities for the domain layer.
package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pj-finance/backend/internal/domain/valueobject"
)

// SnapshotMetadataVersion is the metadata layout written by the current refresher.
const SnapshotMetadataVersion = 1

// SummaryWindows are the fixed lookback periods, in days, kept as snapshots per account.
var SummaryWindows = []int{30, 90, 365}

// IsSummaryWindow reports whether days is one of the fixed snapshot windows.
func IsSummaryWindow(days int) bool {
	for _, w := range SummaryWindows {
		if w == days {
			return true
		}
	}
	return false
}

// WindowTag returns the persisted tag for a window length, e.g. "30d".
func WindowTag(days int) string {
	return fmt.Sprintf("%dd", days)
}

// DailyNetFlow is the summed signed amount of one calendar day.
type DailyNetFlow struct {
	Date valueobject.Date `json:"date"`
	Net  float64          `json:"net"`
}

// CategoryNode is one node of the ledger-group / category hierarchy with aggregated flows.
type CategoryNode struct {
	Key              string          `json:"key"`
	Label            string          `json:"label"`
	Inflow           float64         `json:"inflow"`
	Outflow          float64         `json:"outflow"`
	Net              float64         `json:"net"`
	TransactionCount int             `json:"transaction_count"`
	Children         []*CategoryNode `json:"children,omitempty"`
}

// SnapshotMetadata is the typed metadata stored with a bank summary snapshot.
// Nil fields were not recorded.
type SnapshotMetadata struct {
	Version           int
	From              *valueobject.Date
	To                *valueobject.Date
	CoverageDays      *int
	WindowDays        *int
	TransactionCount  *int
	GeneratedAt       *time.Time
	DataSource        string
	DailyNetFlows     []DailyNetFlow // nil when the snapshot carries no series
	CategoryHierarchy []*CategoryNode
}

// BankSummarySnapshot is a persisted, pre-computed summary for one account and one window.
// Totals and KPIs hold raw stored values keyed by field name; they are coerced on read.
type BankSummarySnapshot struct {
	ID             uuid.UUID
	OrganizationID string
	ClientID       string
	BankAccountID  string
	Window         string
	Totals         map[string]any
	KPIs           map[string]any
	Metadata       SnapshotMetadata
	RefreshedAt    time.Time
}
