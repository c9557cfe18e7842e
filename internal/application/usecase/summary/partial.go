// Package summary contains the bank summary use cases: live metric computation,
// snapshot selection and decomposition, and the partial-summary combiner.
package summary

import (
	"time"

	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/domain/valueobject"
)

// TotalsField names a field of the totals group.
type TotalsField string

const (
	TotalIn  TotalsField = "totalIn"
	TotalOut TotalsField = "totalOut"
	Balance  TotalsField = "balance"
)

// TotalsFields lists every totals field.
var TotalsFields = []TotalsField{TotalIn, TotalOut, Balance}

// KpiField names a field of the KPI group.
type KpiField string

const (
	InflowCount             KpiField = "inflowCount"
	OutflowCount            KpiField = "outflowCount"
	LargestIn               KpiField = "largestIn"
	LargestOut              KpiField = "largestOut"
	AverageTicketIn         KpiField = "averageTicketIn"
	AverageTicketOut        KpiField = "averageTicketOut"
	AverageDailyNetFlow     KpiField = "averageDailyNetFlow"
	CashConversionRatio     KpiField = "cashConversionRatio"
	ProjectedBalance        KpiField = "projectedBalance"
	ReceivableAmount        KpiField = "receivableAmount"
	ReceivableCount         KpiField = "receivableCount"
	OverdueReceivableAmount KpiField = "overdueReceivableAmount"
	OverdueReceivableCount  KpiField = "overdueReceivableCount"
)

// KpiFields lists every KPI field.
var KpiFields = []KpiField{
	InflowCount,
	OutflowCount,
	LargestIn,
	LargestOut,
	AverageTicketIn,
	AverageTicketOut,
	AverageDailyNetFlow,
	CashConversionRatio,
	ProjectedBalance,
	ReceivableAmount,
	ReceivableCount,
	OverdueReceivableAmount,
	OverdueReceivableCount,
}

// ReceivableKpiFields are the KPIs owned by the receivable domain.
var ReceivableKpiFields = []KpiField{
	ReceivableAmount,
	ReceivableCount,
	OverdueReceivableAmount,
	OverdueReceivableCount,
}

// SeriesField names a field of the series group.
type SeriesField string

const (
	DailyNetFlows SeriesField = "dailyNetFlows"
)

// MetadataField names a metadata entry produced by a computation.
type MetadataField string

const (
	MetaTransactionCount  MetadataField = "transactionCount"
	MetaCoverageDays      MetadataField = "coverageDays"
	MetaGeneratedAt       MetadataField = "generatedAt"
	MetaCategoryHierarchy MetadataField = "categoryHierarchy"
)

// FieldSet is a set of field names.
type FieldSet[T comparable] map[T]struct{}

// Add inserts the fields into the set.
func (s FieldSet[T]) Add(fields ...T) {
	for _, f := range fields {
		s[f] = struct{}{}
	}
}

// Has reports whether the field is in the set.
func (s FieldSet[T]) Has(field T) bool {
	_, ok := s[field]
	return ok
}

// ProvidedPaths records which fields a partial actually computed or supplied.
type ProvidedPaths struct {
	Totals   FieldSet[TotalsField]
	KPIs     FieldSet[KpiField]
	Series   FieldSet[SeriesField]
	Metadata FieldSet[MetadataField]
}

// NewProvidedPaths returns an empty ProvidedPaths.
func NewProvidedPaths() ProvidedPaths {
	return ProvidedPaths{
		Totals:   FieldSet[TotalsField]{},
		KPIs:     FieldSet[KpiField]{},
		Series:   FieldSet[SeriesField]{},
		Metadata: FieldSet[MetadataField]{},
	}
}

// IsEmpty reports whether no field was provided.
func (p ProvidedPaths) IsEmpty() bool {
	return len(p.Totals) == 0 && len(p.KPIs) == 0 && len(p.Series) == 0 && len(p.Metadata) == 0
}

// PartialMetadata holds the metadata values a partial may carry.
type PartialMetadata struct {
	TransactionCount  int
	CoverageDays      int
	GeneratedAt       time.Time
	CategoryHierarchy []*entity.CategoryNode
}

// PartialSummary is a transient, possibly incomplete summary. A value being present in a map
// does not make it authoritative: only fields listed in Provided take part in a merge.
type PartialSummary struct {
	From     *valueobject.Date
	To       *valueobject.Date
	Totals   map[TotalsField]float64
	KPIs     map[KpiField]float64
	Series   map[SeriesField][]entity.DailyNetFlow
	Metadata PartialMetadata
	Provided ProvidedPaths
}

// NewPartialSummary returns an empty partial.
func NewPartialSummary() *PartialSummary {
	return &PartialSummary{
		Totals:   map[TotalsField]float64{},
		KPIs:     map[KpiField]float64{},
		Series:   map[SeriesField][]entity.DailyNetFlow{},
		Provided: NewProvidedPaths(),
	}
}

// SetTotal stores a totals value and marks it provided.
func (p *PartialSummary) SetTotal(field TotalsField, value float64) {
	p.Totals[field] = value
	p.Provided.Totals.Add(field)
}

// SetKPI stores a KPI value and marks it provided.
func (p *PartialSummary) SetKPI(field KpiField, value float64) {
	p.KPIs[field] = value
	p.Provided.KPIs.Add(field)
}

// SetSeries stores a series and marks it provided.
func (p *PartialSummary) SetSeries(field SeriesField, points []entity.DailyNetFlow) {
	p.Series[field] = points
	p.Provided.Series.Add(field)
}

// SetRange records the resolved period of the partial. Zero bounds are left undefined.
func (p *PartialSummary) SetRange(r valueobject.DateRange) {
	if !r.From.IsZero() {
		from := r.From
		p.From = &from
	}
	if !r.To.IsZero() {
		to := r.To
		p.To = &to
	}
}

// Range returns the partial's period; undefined bounds are zero.
func (p *PartialSummary) Range() valueobject.DateRange {
	var r valueobject.DateRange
	if p.From != nil {
		r.From = *p.From
	}
	if p.To != nil {
		r.To = *p.To
	}
	return r
}
