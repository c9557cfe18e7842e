package summary

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/domain/valueobject"
)

// MetricsCalculator computes live partial summaries from raw records.
type MetricsCalculator struct {
	aggregator CategoryAggregator
	clock      func() time.Time
}

// NewMetricsCalculator creates a MetricsCalculator. A nil aggregator uses the default tree builder.
func NewMetricsCalculator(aggregator CategoryAggregator) *MetricsCalculator {
	if aggregator == nil {
		aggregator = NewCategoryAggregator()
	}
	return &MetricsCalculator{
		aggregator: aggregator,
		clock:      time.Now,
	}
}

// ComputeTransactionMetrics computes the cash-flow domain over the transactions inside r.
// Missing bounds are inferred from the earliest and latest transaction dates.
// Every totals, KPI, series and metadata field it computes is marked provided.
func (c *MetricsCalculator) ComputeTransactionMetrics(
	transactions []*entity.BankTransaction,
	r valueobject.DateRange,
	categories []*entity.PjCategory,
) (*PartialSummary, error) {
	resolved := inferRange(transactions, r)
	if err := resolved.Validate(); err != nil {
		return nil, err
	}

	filtered := make([]*entity.BankTransaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx != nil && tx.Date.Between(resolved.From, resolved.To) {
			filtered = append(filtered, tx)
		}
	}

	totalIn := decimal.Zero
	totalOut := decimal.Zero
	largestIn := decimal.Zero
	largestOut := decimal.Zero
	inflowCount := 0
	outflowCount := 0
	daily := make(map[valueobject.Date]decimal.Decimal)

	for _, tx := range filtered {
		switch {
		case tx.IsInflow():
			totalIn = totalIn.Add(tx.Amount)
			inflowCount++
			if tx.Amount.GreaterThan(largestIn) {
				largestIn = tx.Amount
			}
		case tx.IsOutflow():
			abs := tx.Amount.Abs()
			totalOut = totalOut.Add(abs)
			outflowCount++
			if abs.GreaterThan(largestOut) {
				largestOut = abs
			}
		}
		daily[tx.Date] = daily[tx.Date].Add(tx.Amount)
	}

	balance := totalIn.Sub(totalOut)
	coverageDays := resolved.CoverageDays()

	partial := NewPartialSummary()
	partial.SetRange(resolved)

	partial.SetTotal(TotalIn, totalIn.InexactFloat64())
	partial.SetTotal(TotalOut, totalOut.InexactFloat64())
	partial.SetTotal(Balance, balance.InexactFloat64())

	partial.SetKPI(InflowCount, float64(inflowCount))
	partial.SetKPI(OutflowCount, float64(outflowCount))
	partial.SetKPI(LargestIn, largestIn.InexactFloat64())
	partial.SetKPI(LargestOut, largestOut.InexactFloat64())
	partial.SetKPI(AverageTicketIn, ratio(totalIn, inflowCount))
	partial.SetKPI(AverageTicketOut, ratio(totalOut, outflowCount))
	partial.SetKPI(AverageDailyNetFlow, ratio(balance, coverageDays))
	if totalIn.IsZero() {
		partial.SetKPI(CashConversionRatio, 0)
	} else {
		partial.SetKPI(CashConversionRatio, balance.Div(totalIn).InexactFloat64())
	}

	partial.SetSeries(DailyNetFlows, dailySeries(daily))

	partial.Metadata = PartialMetadata{
		TransactionCount:  len(filtered),
		CoverageDays:      coverageDays,
		GeneratedAt:       c.clock().UTC(),
		CategoryHierarchy: c.aggregator.Aggregate(filtered, categories, GetLedgerGroup),
	}
	partial.Provided.Metadata.Add(MetaTransactionCount, MetaCoverageDays, MetaGeneratedAt, MetaCategoryHierarchy)

	return partial, nil
}

// inferRange fills missing bounds with the earliest/latest transaction date.
func inferRange(transactions []*entity.BankTransaction, r valueobject.DateRange) valueobject.DateRange {
	if r.IsComplete() {
		return r
	}

	var earliest, latest valueobject.Date
	for _, tx := range transactions {
		if tx == nil || tx.Date.IsZero() {
			continue
		}
		if earliest.IsZero() || tx.Date.Before(earliest) {
			earliest = tx.Date
		}
		if latest.IsZero() || tx.Date.After(latest) {
			latest = tx.Date
		}
	}

	if r.From.IsZero() {
		r.From = earliest
	}
	if r.To.IsZero() {
		r.To = latest
	}
	return r
}

// dailySeries returns the per-day sums in chronological order.
func dailySeries(daily map[valueobject.Date]decimal.Decimal) []entity.DailyNetFlow {
	series := make([]entity.DailyNetFlow, 0, len(daily))
	for day, net := range daily {
		series = append(series, entity.DailyNetFlow{Date: day, Net: net.InexactFloat64()})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}

func ratio(total decimal.Decimal, count int) float64 {
	if count <= 0 {
		return 0
	}
	return total.Div(decimal.NewFromInt(int64(count))).InexactFloat64()
}
