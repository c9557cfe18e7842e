package summary

import (
	"time"

	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/domain/valueobject"
)

// DataSource tells where the numbers of a summary came from.
type DataSource string

const (
	DataSourceLive         DataSource = "live"
	DataSourceSnapshot     DataSource = "snapshot"
	DataSourceSnapshotLive DataSource = "snapshot+live"
)

// Totals are the cash totals of a summary. Balance is always TotalIn - TotalOut.
type Totals struct {
	TotalIn  float64
	TotalOut float64
	Balance  float64
}

// KPIs are the named indicators of a summary.
type KPIs struct {
	InflowCount             float64
	OutflowCount            float64
	LargestIn               float64
	LargestOut              float64
	AverageTicketIn         float64
	AverageTicketOut        float64
	AverageDailyNetFlow     float64
	CashConversionRatio     float64
	ProjectedBalance        float64
	ReceivableAmount        float64
	ReceivableCount         float64
	OverdueReceivableAmount float64
	OverdueReceivableCount  float64
}

// Series are the time series of a summary.
type Series struct {
	DailyNetFlows []entity.DailyNetFlow
}

// SummaryMetadata describes how a summary was produced.
type SummaryMetadata struct {
	DataSource          DataSource
	CoverageDays        int
	TransactionCount    int
	GeneratedAt         time.Time
	CategoryHierarchy   []*entity.CategoryNode
	WindowDays          int
	SnapshotWindow      string
	SnapshotRefreshedAt *time.Time
}

// SummaryOutput is the finalized summary of one bank account over a period.
type SummaryOutput struct {
	ClientID      string
	BankAccountID string
	From          *valueobject.Date
	To            *valueobject.Date
	Totals        Totals
	KPIs          KPIs
	Series        Series
	Metadata      SummaryMetadata
}

// finalizeInput carries what finalization needs besides the combined partial.
type finalizeInput struct {
	clientID      string
	bankAccountID string
	combined      *PartialSummary
	fallbackRange valueobject.DateRange
	dataSource    DataSource
	windowDays    int
	snapshot      *entity.BankSummarySnapshot
	generatedAt   time.Time
}

// finalizeSummary fills every field the combined partial did not provide with zero or its
// derived default, then enforces Balance = TotalIn - TotalOut.
func finalizeSummary(in finalizeInput) *SummaryOutput {
	p := in.combined

	total := func(field TotalsField) float64 {
		if p.Provided.Totals.Has(field) {
			return p.Totals[field]
		}
		return 0
	}
	kpi := func(field KpiField, fallback func() float64) float64 {
		if p.Provided.KPIs.Has(field) {
			return p.KPIs[field]
		}
		if fallback == nil {
			return 0
		}
		return fallback()
	}

	out := &SummaryOutput{
		ClientID:      in.clientID,
		BankAccountID: in.bankAccountID,
		From:          p.From,
		To:            p.To,
	}
	if out.From == nil && !in.fallbackRange.From.IsZero() {
		from := in.fallbackRange.From
		out.From = &from
	}
	if out.To == nil && !in.fallbackRange.To.IsZero() {
		to := in.fallbackRange.To
		out.To = &to
	}

	out.Totals.TotalIn = total(TotalIn)
	out.Totals.TotalOut = total(TotalOut)
	out.Totals.Balance = out.Totals.TotalIn - out.Totals.TotalOut

	coverageDays := finalCoverageDays(p, out, in)
	balance := out.Totals.Balance

	k := &out.KPIs
	k.InflowCount = kpi(InflowCount, nil)
	k.OutflowCount = kpi(OutflowCount, nil)
	k.LargestIn = kpi(LargestIn, nil)
	k.LargestOut = kpi(LargestOut, nil)
	k.ReceivableAmount = kpi(ReceivableAmount, nil)
	k.ReceivableCount = kpi(ReceivableCount, nil)
	k.OverdueReceivableAmount = kpi(OverdueReceivableAmount, nil)
	k.OverdueReceivableCount = kpi(OverdueReceivableCount, nil)
	k.AverageTicketIn = kpi(AverageTicketIn, func() float64 {
		return safeDiv(out.Totals.TotalIn, k.InflowCount)
	})
	k.AverageTicketOut = kpi(AverageTicketOut, func() float64 {
		return safeDiv(out.Totals.TotalOut, k.OutflowCount)
	})
	k.AverageDailyNetFlow = kpi(AverageDailyNetFlow, func() float64 {
		return safeDiv(balance, float64(coverageDays))
	})
	k.CashConversionRatio = kpi(CashConversionRatio, func() float64 {
		return safeDiv(balance, out.Totals.TotalIn)
	})
	k.ProjectedBalance = kpi(ProjectedBalance, func() float64 {
		return balance + k.ReceivableAmount
	})

	out.Series.DailyNetFlows = []entity.DailyNetFlow{}
	if p.Provided.Series.Has(DailyNetFlows) && p.Series[DailyNetFlows] != nil {
		out.Series.DailyNetFlows = p.Series[DailyNetFlows]
	}

	out.Metadata = SummaryMetadata{
		DataSource:        in.dataSource,
		CoverageDays:      coverageDays,
		TransactionCount:  p.Metadata.TransactionCount,
		GeneratedAt:       in.generatedAt,
		CategoryHierarchy: p.Metadata.CategoryHierarchy,
		WindowDays:        in.windowDays,
	}
	if p.Provided.Metadata.Has(MetaGeneratedAt) {
		out.Metadata.GeneratedAt = p.Metadata.GeneratedAt
	}
	if out.Metadata.CategoryHierarchy == nil {
		out.Metadata.CategoryHierarchy = []*entity.CategoryNode{}
	}
	if in.snapshot != nil {
		refreshedAt := in.snapshot.RefreshedAt
		out.Metadata.SnapshotWindow = in.snapshot.Window
		out.Metadata.SnapshotRefreshedAt = &refreshedAt
	}

	return out
}

// finalCoverageDays prefers the provided coverage, then the output range span,
// then the snapshot window length.
func finalCoverageDays(p *PartialSummary, out *SummaryOutput, in finalizeInput) int {
	if p.Provided.Metadata.Has(MetaCoverageDays) && p.Metadata.CoverageDays > 0 {
		return p.Metadata.CoverageDays
	}
	if out.From != nil && out.To != nil {
		if span := out.From.InclusiveDaysUntil(*out.To); span > 0 {
			return span
		}
	}
	if in.snapshot != nil {
		if days, ok := SnapshotWindowDays(in.snapshot); ok {
			return days
		}
	}
	return 0
}

func safeDiv(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator
}
