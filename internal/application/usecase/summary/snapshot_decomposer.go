package summary

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/domain/valueobject"
)

// transactionDomainTotals and transactionDomainKPIs must all be cached for the
// snapshot to stand in for a live transaction computation.
var (
	transactionDomainTotals = []TotalsField{TotalIn, TotalOut}
	transactionDomainKPIs   = []KpiField{InflowCount, OutflowCount, LargestIn, LargestOut}
)

// SnapshotDecomposition is the partial extracted from a snapshot plus the live gaps to fill.
type SnapshotDecomposition struct {
	Partial           *PartialSummary
	Range             valueobject.DateRange
	WindowDays        int
	NeedsTransactions bool
	NeedsSaleLegs     bool
}

// DecomposeSnapshot copies every numeric totals/KPI value of the snapshot into a partial,
// extracts its daily series and range, and reports which metric domains are incomplete.
// Bounds set in contextRange take precedence over the snapshot's own range.
func DecomposeSnapshot(s *entity.BankSummarySnapshot, contextRange valueobject.DateRange) SnapshotDecomposition {
	partial := NewPartialSummary()

	for _, field := range TotalsFields {
		if value, ok := coerceNumber(s.Totals[string(field)]); ok {
			partial.SetTotal(field, value)
		}
	}
	for _, field := range KpiFields {
		if value, ok := coerceNumber(s.KPIs[string(field)]); ok {
			partial.SetKPI(field, value)
		}
	}

	meta := s.Metadata
	if meta.DailyNetFlows != nil {
		partial.SetSeries(DailyNetFlows, meta.DailyNetFlows)
	}
	if meta.TransactionCount != nil {
		partial.Metadata.TransactionCount = *meta.TransactionCount
		partial.Provided.Metadata.Add(MetaTransactionCount)
	}
	if meta.CoverageDays != nil {
		partial.Metadata.CoverageDays = *meta.CoverageDays
		partial.Provided.Metadata.Add(MetaCoverageDays)
	}
	if meta.GeneratedAt != nil {
		partial.Metadata.GeneratedAt = *meta.GeneratedAt
		partial.Provided.Metadata.Add(MetaGeneratedAt)
	}
	if meta.CategoryHierarchy != nil {
		partial.Metadata.CategoryHierarchy = meta.CategoryHierarchy
		partial.Provided.Metadata.Add(MetaCategoryHierarchy)
	}

	resolved := contextRange
	if resolved.From.IsZero() && meta.From != nil {
		resolved.From = *meta.From
	}
	if resolved.To.IsZero() && meta.To != nil {
		resolved.To = *meta.To
	}
	partial.SetRange(resolved)

	windowDays, _ := SnapshotWindowDays(s)

	return SnapshotDecomposition{
		Partial:           partial,
		Range:             resolved,
		WindowDays:        windowDays,
		NeedsTransactions: missingTransactionDomain(partial),
		NeedsSaleLegs:     missingReceivableDomain(partial),
	}
}

func missingTransactionDomain(p *PartialSummary) bool {
	for _, field := range transactionDomainTotals {
		if !p.Provided.Totals.Has(field) {
			return true
		}
	}
	for _, field := range transactionDomainKPIs {
		if !p.Provided.KPIs.Has(field) {
			return true
		}
	}
	return !p.Provided.Series.Has(DailyNetFlows) || !p.Provided.Metadata.Has(MetaTransactionCount)
}

func missingReceivableDomain(p *PartialSummary) bool {
	for _, field := range ReceivableKpiFields {
		if !p.Provided.KPIs.Has(field) {
			return true
		}
	}
	return false
}

// coerceNumber converts a stored value to a finite float64. Non-numeric values are rejected.
func coerceNumber(value any) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
