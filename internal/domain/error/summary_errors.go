// Package error defines domain-specific errors for the PJ finance application.
package error

import "errors"

// Summary domain errors.
var (
	// ErrInvalidDateRange is returned when the start of a period is after its end.
	ErrInvalidDateRange = errors.New("from must not be after to")

	// ErrInvalidDateFormat is returned when a date is not in DD/MM/YYYY or YYYY-MM-DD format.
	ErrInvalidDateFormat = errors.New("invalid date format, expected DD/MM/YYYY")

	// ErrMissingClientID is returned when the client id is not provided.
	ErrMissingClientID = errors.New("client_id is required")

	// ErrMissingBankAccountID is returned when the bank account id is not provided.
	ErrMissingBankAccountID = errors.New("bank_account_id is required")

	// ErrMissingOrganizationID is returned when the organization id is not provided.
	ErrMissingOrganizationID = errors.New("organization_id is required")
)

// SummaryErrorCode defines error codes for summary errors.
// Format: SUM-XXYYYY where XX is category and YYYY is specific error.
type SummaryErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidDateRange     SummaryErrorCode = "SUM-010001"
	ErrCodeInvalidDateFormat    SummaryErrorCode = "SUM-010002"
	ErrCodeMissingIdentifier    SummaryErrorCode = "SUM-010003"
	ErrCodeInvalidRefreshTarget SummaryErrorCode = "SUM-010004"

	// Internal errors (99XXXX)
	ErrCodeSummaryInternalError SummaryErrorCode = "SUM-990001"
)

// SummaryError represents a summary error with code and message.
type SummaryError struct {
	Code    SummaryErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *SummaryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *SummaryError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether the error should be surfaced as a client error.
func (e *SummaryError) IsValidation() bool {
	switch e.Code {
	case ErrCodeInvalidDateRange, ErrCodeInvalidDateFormat, ErrCodeMissingIdentifier, ErrCodeInvalidRefreshTarget:
		return true
	}
	return false
}

// NewSummaryError creates a new SummaryError with the given code and message.
func NewSummaryError(code SummaryErrorCode, message string, err error) *SummaryError {
	return &SummaryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewInvalidDateRangeError creates the range error raised when from is after to.
func NewInvalidDateRangeError(from, to string) *SummaryError {
	return NewSummaryError(
		ErrCodeInvalidDateRange,
		"invalid date range "+from+" - "+to,
		ErrInvalidDateRange,
	)
}
