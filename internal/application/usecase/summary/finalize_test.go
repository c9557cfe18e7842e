package summary

import (
	"testing"
	"time"

	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/domain/valueobject"
)

func TestFinalizeSummary(t *testing.T) {
	generatedAt := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("derives defaults for fields that were not provided", func(t *testing.T) {
		p := NewPartialSummary()
		p.SetTotal(TotalIn, 1000)
		p.SetTotal(TotalOut, 400)
		p.SetTotal(Balance, 12345) // stale value is ignored
		p.SetKPI(InflowCount, 4)
		p.SetKPI(OutflowCount, 2)
		p.SetKPI(ReceivableAmount, 250)

		out := finalizeSummary(finalizeInput{
			combined:      p,
			fallbackRange: valueobject.DateRange{From: date(2024, 1, 1), To: date(2024, 1, 30)},
			dataSource:    DataSourceSnapshot,
			generatedAt:   generatedAt,
		})

		if out.Totals.Balance != 600 {
			t.Errorf("expected balance 600, got %v", out.Totals.Balance)
		}
		if out.KPIs.AverageTicketIn != 250 {
			t.Errorf("expected average ticket in 250, got %v", out.KPIs.AverageTicketIn)
		}
		if out.KPIs.AverageTicketOut != 200 {
			t.Errorf("expected average ticket out 200, got %v", out.KPIs.AverageTicketOut)
		}
		if out.KPIs.AverageDailyNetFlow != 20 {
			t.Errorf("expected average daily net flow 20, got %v", out.KPIs.AverageDailyNetFlow)
		}
		if !almostEqual(out.KPIs.CashConversionRatio, 0.6) {
			t.Errorf("expected cash conversion 0.6, got %v", out.KPIs.CashConversionRatio)
		}
		if out.KPIs.ProjectedBalance != 850 {
			t.Errorf("expected projected balance 850, got %v", out.KPIs.ProjectedBalance)
		}
		if out.Metadata.CoverageDays != 30 {
			t.Errorf("expected coverage 30, got %d", out.Metadata.CoverageDays)
		}
		if out.From == nil || out.To == nil {
			t.Error("expected the fallback range to be used")
		}
	})

	t.Run("provided KPIs are kept as is", func(t *testing.T) {
		p := NewPartialSummary()
		p.SetTotal(TotalIn, 1000)
		p.SetKPI(AverageTicketIn, 7)

		out := finalizeSummary(finalizeInput{combined: p, dataSource: DataSourceLive, generatedAt: generatedAt})

		if out.KPIs.AverageTicketIn != 7 {
			t.Errorf("expected provided average ticket 7, got %v", out.KPIs.AverageTicketIn)
		}
	})

	t.Run("empty partial yields zeros and empty collections", func(t *testing.T) {
		out := finalizeSummary(finalizeInput{combined: NewPartialSummary(), dataSource: DataSourceLive, generatedAt: generatedAt})

		if out.Totals != (Totals{}) || out.KPIs != (KPIs{}) {
			t.Errorf("expected zero values, got %+v %+v", out.Totals, out.KPIs)
		}
		if out.Series.DailyNetFlows == nil || len(out.Series.DailyNetFlows) != 0 {
			t.Errorf("expected an empty series, got %v", out.Series.DailyNetFlows)
		}
		if out.Metadata.CategoryHierarchy == nil {
			t.Error("expected an empty hierarchy")
		}
		if !out.Metadata.GeneratedAt.Equal(generatedAt) {
			t.Errorf("expected generatedAt %v, got %v", generatedAt, out.Metadata.GeneratedAt)
		}
	})

	t.Run("coverage falls back to the snapshot window", func(t *testing.T) {
		refreshedAt := time.Date(2024, 1, 31, 3, 0, 0, 0, time.UTC)
		snapshot := &entity.BankSummarySnapshot{Window: "90d", RefreshedAt: refreshedAt}

		out := finalizeSummary(finalizeInput{
			combined:    NewPartialSummary(),
			dataSource:  DataSourceSnapshot,
			snapshot:    snapshot,
			generatedAt: generatedAt,
		})

		if out.Metadata.CoverageDays != 90 {
			t.Errorf("expected coverage 90, got %d", out.Metadata.CoverageDays)
		}
		if out.Metadata.SnapshotWindow != "90d" {
			t.Errorf("expected snapshot window 90d, got %s", out.Metadata.SnapshotWindow)
		}
		if out.Metadata.SnapshotRefreshedAt == nil || !out.Metadata.SnapshotRefreshedAt.Equal(refreshedAt) {
			t.Errorf("expected snapshot refreshedAt %v, got %v", refreshedAt, out.Metadata.SnapshotRefreshedAt)
		}
	})
}
