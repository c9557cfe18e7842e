package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pj-finance/backend/internal/application/usecase/snapshot"
	"github.com/pj-finance/backend/internal/application/usecase/summary"
	domainerror "github.com/pj-finance/backend/internal/domain/error"
	"github.com/pj-finance/backend/internal/domain/valueobject"
	"github.com/pj-finance/backend/internal/integration/entrypoint/dto"
	"github.com/pj-finance/backend/internal/integration/entrypoint/middleware"
)

// SummaryExecutor answers a bank account summary.
type SummaryExecutor interface {
	Execute(ctx context.Context, input summary.GetSummaryInput) (*summary.SummaryOutput, error)
}

// SnapshotRefresher refreshes the snapshots of a set of accounts.
type SnapshotRefresher interface {
	Execute(ctx context.Context, input snapshot.RefreshAccountsSnapshotsInput) (*snapshot.RefreshReport, error)
}

// SummaryController handles bank summary endpoints.
type SummaryController struct {
	getSummaryUseCase      SummaryExecutor
	refreshAccountsUseCase SnapshotRefresher
}

// NewSummaryController creates a new summary controller instance.
func NewSummaryController(
	getSummaryUseCase SummaryExecutor,
	refreshAccountsUseCase SnapshotRefresher,
) *SummaryController {
	return &SummaryController{
		getSummaryUseCase:      getSummaryUseCase,
		refreshAccountsUseCase: refreshAccountsUseCase,
	}
}

// GetSummary handles GET /clients/:client_id/bank-accounts/:bank_account_id/summary requests.
func (c *SummaryController) GetSummary(ctx *gin.Context) {
	organizationID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	// Parse optional period bounds
	from, ok := parseDateQuery(ctx, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(ctx, "to")
	if !ok {
		return
	}

	input := summary.GetSummaryInput{
		OrganizationID: organizationID,
		ClientID:       ctx.Param("client_id"),
		BankAccountID:  ctx.Param("bank_account_id"),
		From:           from,
		To:             to,
	}

	output, err := c.getSummaryUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleSummaryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBankSummaryResponse(output))
}

// RefreshSnapshots handles POST /clients/:client_id/bank-summary-snapshots/refresh requests.
func (c *SummaryController) RefreshSnapshots(ctx *gin.Context) {
	organizationID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	var req dto.RefreshSnapshotsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeInvalidRefreshTarget),
		})
		return
	}

	input := snapshot.RefreshAccountsSnapshotsInput{
		OrganizationID: organizationID,
		ClientID:       ctx.Param("client_id"),
		BankAccountIDs: req.BankAccountIDs,
	}

	report, err := c.refreshAccountsUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleSummaryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRefreshSnapshotsResponse(report))
}

// parseDateQuery reads an optional DD/MM/YYYY or YYYY-MM-DD query parameter.
// It writes the error response and returns false when the value is malformed.
func parseDateQuery(ctx *gin.Context, name string) (valueobject.Date, bool) {
	raw := strings.TrimSpace(ctx.Query(name))
	if raw == "" {
		return valueobject.Date{}, true
	}
	date, err := valueobject.ParseFlexible(raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + name + " format, expected DD/MM/YYYY",
			Code:  string(domainerror.ErrCodeInvalidDateFormat),
		})
		return valueobject.Date{}, false
	}
	return date, true
}

// handleSummaryError maps summary errors to HTTP responses.
func (c *SummaryController) handleSummaryError(ctx *gin.Context, err error) {
	var sumErr *domainerror.SummaryError
	if errors.As(err, &sumErr) && sumErr.IsValidation() {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: sumErr.Message,
			Code:  string(sumErr.Code),
		})
		return
	}

	slog.Error("Failed to handle summary request",
		"path", ctx.FullPath(),
		"error", err,
	)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
		Code:  string(domainerror.ErrCodeSummaryInternalError),
	})
}
