// Package model defines database models for persistence layer.
package model

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/domain/valueobject"
)

// BankSummarySnapshotModel represents the bank_summary_snapshots table in the database.
// Totals, KPIs and Metadata are JSON documents.
type BankSummarySnapshotModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID string    `gorm:"type:varchar(64);not null;index:idx_snapshot_account,priority:1" json:"organization_id"`
	ClientID       string    `gorm:"type:varchar(64);not null;index:idx_snapshot_account,priority:2" json:"client_id"`
	BankAccountID  string    `gorm:"type:varchar(64);not null;index:idx_snapshot_account,priority:3" json:"bank_account_id"`
	Window         string    `gorm:"column:summary_window;type:varchar(16);not null" json:"window"`
	Totals         string    `gorm:"type:text;not null;default:'{}'" json:"totals"`
	KPIs           string    `gorm:"column:kpis;type:text;not null;default:'{}'" json:"kpis"`
	Metadata       string    `gorm:"type:text;not null;default:'{}'" json:"metadata"`
	RefreshedAt    time.Time `gorm:"not null;index" json:"refreshed_at"`
}

// TableName returns the table name for the BankSummarySnapshotModel.
func (BankSummarySnapshotModel) TableName() string {
	return "bank_summary_snapshots"
}

// metadataDocument is the stored metadata layout written by the refresher. Reads go through
// decodeMetadata, which also understands documents from older writers.
type metadataDocument struct {
	Version           int                    `json:"version"`
	From              *string                `json:"from,omitempty"`
	To                *string                `json:"to,omitempty"`
	CoverageDays      *json.Number           `json:"coverageDays,omitempty"`
	WindowDays        *json.Number           `json:"windowDays,omitempty"`
	TransactionCount  *json.Number           `json:"transactionCount,omitempty"`
	GeneratedAt       *string                `json:"generatedAt,omitempty"`
	DataSource        string                 `json:"dataSource,omitempty"`
	Series            *seriesDocument        `json:"series,omitempty"`
	CategoryHierarchy []*entity.CategoryNode `json:"categoryHierarchy,omitempty"`
}

type seriesDocument struct {
	DailyNetFlows []flowDocument `json:"dailyNetFlows"`
}

type flowDocument struct {
	Date string       `json:"date"`
	Net  *json.Number `json:"net,omitempty"`
}

// rawDocument is a JSON object whose fields are decoded one at a time, so a malformed
// field only drops itself.
type rawDocument map[string]json.RawMessage

// ToEntity converts a BankSummarySnapshotModel to a domain BankSummarySnapshot entity.
// Malformed documents are logged and read as empty, which leaves their fields unprovided.
func (m *BankSummarySnapshotModel) ToEntity() *entity.BankSummarySnapshot {
	snapshot := &entity.BankSummarySnapshot{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		ClientID:       m.ClientID,
		BankAccountID:  m.BankAccountID,
		Window:         m.Window,
		Totals:         decodeValues(m.Totals, m.ID, "totals"),
		KPIs:           decodeValues(m.KPIs, m.ID, "kpis"),
		RefreshedAt:    m.RefreshedAt,
	}

	var doc rawDocument
	if err := decodeJSON(m.Metadata, &doc); err != nil {
		slog.Warn("Failed to decode snapshot metadata", "snapshot_id", m.ID, "error", err)
		return snapshot
	}
	snapshot.Metadata = decodeMetadata(doc)

	return snapshot
}

// BankSummarySnapshotFromEntity creates a BankSummarySnapshotModel from a domain entity.
// Metadata is always written in the current version.
func BankSummarySnapshotFromEntity(s *entity.BankSummarySnapshot) (*BankSummarySnapshotModel, error) {
	totals, err := json.Marshal(nonNilValues(s.Totals))
	if err != nil {
		return nil, err
	}
	kpis, err := json.Marshal(nonNilValues(s.KPIs))
	if err != nil {
		return nil, err
	}
	metadata, err := json.Marshal(metadataFromEntity(s.Metadata))
	if err != nil {
		return nil, err
	}

	return &BankSummarySnapshotModel{
		ID:             s.ID,
		OrganizationID: s.OrganizationID,
		ClientID:       s.ClientID,
		BankAccountID:  s.BankAccountID,
		Window:         s.Window,
		Totals:         string(totals),
		KPIs:           string(kpis),
		Metadata:       string(metadata),
		RefreshedAt:    s.RefreshedAt,
	}, nil
}

func metadataFromEntity(meta entity.SnapshotMetadata) metadataDocument {
	doc := metadataDocument{
		Version:           entity.SnapshotMetadataVersion,
		From:              isoPtr(meta.From),
		To:                isoPtr(meta.To),
		CoverageDays:      numberPtr(meta.CoverageDays),
		WindowDays:        numberPtr(meta.WindowDays),
		TransactionCount:  numberPtr(meta.TransactionCount),
		DataSource:        meta.DataSource,
		CategoryHierarchy: meta.CategoryHierarchy,
	}
	if meta.GeneratedAt != nil {
		generatedAt := meta.GeneratedAt.UTC().Format(time.RFC3339)
		doc.GeneratedAt = &generatedAt
	}
	if meta.DailyNetFlows != nil {
		flows := make([]flowDocument, len(meta.DailyNetFlows))
		for i, f := range meta.DailyNetFlows {
			net := json.Number(strconv.FormatFloat(f.Net, 'f', -1, 64))
			flows[i] = flowDocument{Date: f.Date.ISO(), Net: &net}
		}
		doc.Series = &seriesDocument{DailyNetFlows: flows}
	}
	return doc
}

// decodeMetadata reads the current layout and the legacy keys ("range", "start"/"end" and a
// top-level "dailyNetFlows"). Fields with an unexpected type are left unprovided.
func decodeMetadata(doc rawDocument) entity.SnapshotMetadata {
	meta := entity.SnapshotMetadata{
		CoverageDays:     doc.intField("coverageDays"),
		WindowDays:       doc.intField("windowDays"),
		TransactionCount: doc.intField("transactionCount"),
	}
	if version := doc.intField("version"); version != nil {
		meta.Version = *version
	}
	if dataSource := doc.stringField("dataSource"); dataSource != nil {
		meta.DataSource = *dataSource
	}

	legacyRange := doc.objectField("range")
	meta.From = parseDatePtr(firstString(doc.stringField("from"), doc.stringField("start"), legacyRange.stringField("from"), legacyRange.stringField("start")))
	meta.To = parseDatePtr(firstString(doc.stringField("to"), doc.stringField("end"), legacyRange.stringField("to"), legacyRange.stringField("end")))

	if generatedAt := doc.stringField("generatedAt"); generatedAt != nil {
		if t, err := time.Parse(time.RFC3339, *generatedAt); err == nil {
			meta.GeneratedAt = &t
		}
	}

	if flows, ok := doc.objectField("series").arrayField("dailyNetFlows"); ok {
		meta.DailyNetFlows = flowsToEntity(flows)
	} else if flows, ok := doc.arrayField("dailyNetFlows"); ok {
		meta.DailyNetFlows = flowsToEntity(flows)
	}

	if raw, ok := doc["categoryHierarchy"]; ok {
		var nodes []*entity.CategoryNode
		if err := json.Unmarshal(raw, &nodes); err == nil {
			meta.CategoryHierarchy = nodes
		}
	}

	return meta
}

// flowsToEntity keeps the points with a parseable date and numeric value.
func flowsToEntity(flows []json.RawMessage) []entity.DailyNetFlow {
	result := make([]entity.DailyNetFlow, 0, len(flows))
	for _, raw := range flows {
		var point rawDocument
		if err := decodeJSON(string(raw), &point); err != nil || point == nil {
			continue
		}
		date := point.stringField("date")
		if date == nil {
			continue
		}
		day, err := valueobject.ParseFlexible(*date)
		if err != nil {
			continue
		}
		key := "net"
		if _, ok := point[key]; !ok {
			key = "value"
		}
		net := point.floatField(key)
		if net == nil {
			continue
		}
		result = append(result, entity.DailyNetFlow{Date: day, Net: *net})
	}
	return result
}

func (d rawDocument) stringField(key string) *string {
	raw, ok := d[key]
	if !ok {
		return nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}
	return &value
}

// numberField accepts a JSON number or a numeric string.
func (d rawDocument) numberField(key string) (json.Number, bool) {
	raw, ok := d[key]
	if !ok {
		return "", false
	}
	var value any
	if err := decodeJSON(string(raw), &value); err != nil {
		return "", false
	}
	switch v := value.(type) {
	case json.Number:
		return v, true
	case string:
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return json.Number(strings.TrimSpace(v)), true
		}
	}
	return "", false
}

func (d rawDocument) intField(key string) *int {
	n, ok := d.numberField(key)
	if !ok {
		return nil
	}
	if i, err := n.Int64(); err == nil {
		v := int(i)
		return &v
	}
	if f, err := n.Float64(); err == nil {
		v := int(f)
		return &v
	}
	return nil
}

func (d rawDocument) floatField(key string) *float64 {
	n, ok := d.numberField(key)
	if !ok {
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	return &f
}

func (d rawDocument) objectField(key string) rawDocument {
	raw, ok := d[key]
	if !ok {
		return nil
	}
	var nested rawDocument
	if err := decodeJSON(string(raw), &nested); err != nil {
		return nil
	}
	return nested
}

func (d rawDocument) arrayField(key string) ([]json.RawMessage, bool) {
	raw, ok := d[key]
	if !ok {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

func firstString(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}

func parseDatePtr(value *string) *valueobject.Date {
	if value == nil {
		return nil
	}
	d, err := valueobject.ParseFlexible(*value)
	if err != nil {
		return nil
	}
	return &d
}

func isoPtr(d *valueobject.Date) *string {
	if d == nil || d.IsZero() {
		return nil
	}
	iso := d.ISO()
	return &iso
}

func numberPtr(v *int) *json.Number {
	if v == nil {
		return nil
	}
	n := json.Number(strconv.Itoa(*v))
	return &n
}

// decodeValues decodes a totals or KPI document keeping numbers as json.Number.
func decodeValues(raw string, snapshotID uuid.UUID, column string) map[string]any {
	values := map[string]any{}
	if err := decodeJSON(raw, &values); err != nil {
		slog.Warn("Failed to decode snapshot values", "snapshot_id", snapshotID, "column", column, "error", err)
		return map[string]any{}
	}
	return values
}

func decodeJSON(raw string, target any) error {
	if raw == "" {
		return nil
	}
	decoder := json.NewDecoder(bytes.NewBufferString(raw))
	decoder.UseNumber()
	return decoder.Decode(target)
}

func nonNilValues(values map[string]any) map[string]any {
	if values == nil {
		return map[string]any{}
	}
	return values
}
