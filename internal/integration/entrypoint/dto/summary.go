// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/pj-finance/backend/internal/application/usecase/snapshot"
	"github.com/pj-finance/backend/internal/application/usecase/summary"
	"github.com/pj-finance/backend/internal/domain/entity"
	"github.com/pj-finance/backend/internal/domain/valueobject"
)

// BankSummaryResponse represents the bank account summary response.
type BankSummaryResponse struct {
	ClientID      string                  `json:"client_id"`
	BankAccountID string                  `json:"bank_account_id"`
	From          *valueobject.Date       `json:"from"`
	To            *valueobject.Date       `json:"to"`
	Totals        SummaryTotalsResponse   `json:"totals"`
	KPIs          SummaryKPIsResponse     `json:"kpis"`
	Series        SummarySeriesResponse   `json:"series"`
	Metadata      SummaryMetadataResponse `json:"metadata"`
}

// SummaryTotalsResponse represents the cash totals.
type SummaryTotalsResponse struct {
	TotalIn  float64 `json:"total_in"`
	TotalOut float64 `json:"total_out"`
	Balance  float64 `json:"balance"`
}

// SummaryKPIsResponse represents the summary indicators.
type SummaryKPIsResponse struct {
	InflowCount             int     `json:"inflow_count"`
	OutflowCount            int     `json:"outflow_count"`
	LargestIn               float64 `json:"largest_in"`
	LargestOut              float64 `json:"largest_out"`
	AverageTicketIn         float64 `json:"average_ticket_in"`
	AverageTicketOut        float64 `json:"average_ticket_out"`
	AverageDailyNetFlow     float64 `json:"average_daily_net_flow"`
	CashConversionRatio     float64 `json:"cash_conversion_ratio"`
	ProjectedBalance        float64 `json:"projected_balance"`
	ReceivableAmount        float64 `json:"receivable_amount"`
	ReceivableCount         int     `json:"receivable_count"`
	OverdueReceivableAmount float64 `json:"overdue_receivable_amount"`
	OverdueReceivableCount  int     `json:"overdue_receivable_count"`
}

// SummarySeriesResponse represents the summary time series.
type SummarySeriesResponse struct {
	DailyNetFlows []entity.DailyNetFlow `json:"daily_net_flows"`
}

// SummaryMetadataResponse describes how the summary was produced.
type SummaryMetadataResponse struct {
	DataSource          string                 `json:"data_source"`
	CoverageDays        int                    `json:"coverage_days"`
	TransactionCount    int                    `json:"transaction_count"`
	GeneratedAt         string                 `json:"generated_at"`
	WindowDays          int                    `json:"window_days,omitempty"`
	SnapshotWindow      string                 `json:"snapshot_window,omitempty"`
	SnapshotRefreshedAt *string                `json:"snapshot_refreshed_at,omitempty"`
	CategoryHierarchy   []*entity.CategoryNode `json:"category_hierarchy"`
}

// RefreshSnapshotsRequest represents the request body for refreshing account snapshots.
type RefreshSnapshotsRequest struct {
	BankAccountIDs []string `json:"bank_account_ids" binding:"required,min=1,max=50,dive,required"`
}

// RefreshSnapshotsResponse represents the outcome of a snapshot refresh.
type RefreshSnapshotsResponse struct {
	RunID     string                   `json:"run_id"`
	Refreshed []string                 `json:"refreshed"`
	Failed    []RefreshFailureResponse `json:"failed"`
}

// RefreshFailureResponse describes one account that could not be refreshed.
type RefreshFailureResponse struct {
	BankAccountID string `json:"bank_account_id"`
	Error         string `json:"error"`
}

// ToBankSummaryResponse converts a SummaryOutput to a BankSummaryResponse DTO.
func ToBankSummaryResponse(output *summary.SummaryOutput) BankSummaryResponse {
	k := output.KPIs
	meta := output.Metadata

	var refreshedAt *string
	if meta.SnapshotRefreshedAt != nil {
		formatted := meta.SnapshotRefreshedAt.UTC().Format(time.RFC3339)
		refreshedAt = &formatted
	}

	return BankSummaryResponse{
		ClientID:      output.ClientID,
		BankAccountID: output.BankAccountID,
		From:          output.From,
		To:            output.To,
		Totals: SummaryTotalsResponse{
			TotalIn:  output.Totals.TotalIn,
			TotalOut: output.Totals.TotalOut,
			Balance:  output.Totals.Balance,
		},
		KPIs: SummaryKPIsResponse{
			InflowCount:             int(k.InflowCount),
			OutflowCount:            int(k.OutflowCount),
			LargestIn:               k.LargestIn,
			LargestOut:              k.LargestOut,
			AverageTicketIn:         k.AverageTicketIn,
			AverageTicketOut:        k.AverageTicketOut,
			AverageDailyNetFlow:     k.AverageDailyNetFlow,
			CashConversionRatio:     k.CashConversionRatio,
			ProjectedBalance:        k.ProjectedBalance,
			ReceivableAmount:        k.ReceivableAmount,
			ReceivableCount:         int(k.ReceivableCount),
			OverdueReceivableAmount: k.OverdueReceivableAmount,
			OverdueReceivableCount:  int(k.OverdueReceivableCount),
		},
		Series: SummarySeriesResponse{
			DailyNetFlows: output.Series.DailyNetFlows,
		},
		Metadata: SummaryMetadataResponse{
			DataSource:          string(meta.DataSource),
			CoverageDays:        meta.CoverageDays,
			TransactionCount:    meta.TransactionCount,
			GeneratedAt:         meta.GeneratedAt.UTC().Format(time.RFC3339),
			WindowDays:          meta.WindowDays,
			SnapshotWindow:      meta.SnapshotWindow,
			SnapshotRefreshedAt: refreshedAt,
			CategoryHierarchy:   meta.CategoryHierarchy,
		},
	}
}

// ToRefreshSnapshotsResponse converts a RefreshReport to a RefreshSnapshotsResponse DTO.
func ToRefreshSnapshotsResponse(report *snapshot.RefreshReport) RefreshSnapshotsResponse {
	failed := make([]RefreshFailureResponse, len(report.Failed))
	for i, f := range report.Failed {
		failed[i] = RefreshFailureResponse{
			BankAccountID: f.BankAccountID,
			Error:         f.Err.Error(),
		}
	}

	refreshed := report.Refreshed
	if refreshed == nil {
		refreshed = []string{}
	}

	return RefreshSnapshotsResponse{
		RunID:     report.RunID.String(),
		Refreshed: refreshed,
		Failed:    failed,
	}
}
