package summary

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/domain/valueobject"
)

// ComputeReceivableMetrics computes the receivable KPIs from outstanding settlement parcels.
// With a range, only parcels due inside it count; without one every outstanding parcel counts.
// Overdue means due strictly before now. Only the four receivable KPIs are provided.
func (c *MetricsCalculator) ComputeReceivableMetrics(
	saleLegs []*entity.SaleLeg,
	r valueobject.DateRange,
	now time.Time,
) *PartialSummary {
	if now.IsZero() {
		now = c.clock()
	}
	filterByDue := !r.From.IsZero() || !r.To.IsZero()

	amount := decimal.Zero
	count := 0
	overdueAmount := decimal.Zero
	overdueCount := 0

	for _, leg := range saleLegs {
		if leg == nil {
			continue
		}
		for i := range leg.SettlementPlan {
			parcel := &leg.SettlementPlan[i]
			if !parcel.IsOutstanding() {
				continue
			}
			if filterByDue && !parcel.Due.Between(r.From, r.To) {
				continue
			}

			amount = amount.Add(parcel.Expected)
			count++

			if parcel.IsOverdue(now) {
				overdueAmount = overdueAmount.Add(parcel.Expected)
				overdueCount++
			}
		}
	}

	partial := NewPartialSummary()
	partial.SetKPI(ReceivableAmount, amount.InexactFloat64())
	partial.SetKPI(ReceivableCount, float64(count))
	partial.SetKPI(OverdueReceivableAmount, overdueAmount.InexactFloat64())
	partial.SetKPI(OverdueReceivableCount, float64(overdueCount))
	return partial
}
