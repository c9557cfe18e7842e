// Package valueobject contains domain value objects for the PJ finance system.
package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domainerror "github.com/pj-finance/backend/internal/domain/error"
)

const (
	// LayoutBR is the display format used by the Brazilian front-end (DD/MM/YYYY).
	LayoutBR = "02/01/2006"
	// LayoutISO is the ISO calendar date format (YYYY-MM-DD).
	LayoutISO = "2006-01-02"
	// layoutOFX is the compact date prefix found in OFX statements (YYYYMMDD...).
	layoutOFX = "20060102"
)

// Date is a calendar date without time of day. The zero value is "no date".
type Date struct {
	t time.Time
}

// NewDate creates a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date in the timestamp's own location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar date in UTC.
func Today() Date {
	return DateOf(time.Now().UTC())
}

// ParseBR parses a DD/MM/YYYY date.
func ParseBR(value string) (Date, error) {
	parsed, err := time.Parse(LayoutBR, strings.TrimSpace(value))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", domainerror.ErrInvalidDateFormat, value)
	}
	return DateOf(parsed), nil
}

// ParseFlexible accepts DD/MM/YYYY, YYYY-MM-DD (optionally followed by a time part)
// and OFX-style YYYYMMDD[HHMMSS...] dates.
func ParseFlexible(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Date{}, fmt.Errorf("%w: empty date", domainerror.ErrInvalidDateFormat)
	}

	if strings.Contains(value, "/") {
		return ParseBR(value)
	}

	if len(value) >= len(LayoutISO) && value[4] == '-' {
		if parsed, err := time.Parse(LayoutISO, value[:len(LayoutISO)]); err == nil {
			return DateOf(parsed), nil
		}
	}

	if len(value) >= len(layoutOFX) {
		if parsed, err := time.Parse(layoutOFX, value[:len(layoutOFX)]); err == nil {
			return DateOf(parsed), nil
		}
	}

	return Date{}, fmt.Errorf("%w: %q", domainerror.ErrInvalidDateFormat, value)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time {
	return d.t
}

// FormatBR formats the date as DD/MM/YYYY. Returns an empty string for the zero date.
func (d Date) FormatBR() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(LayoutBR)
}

// ISO formats the date as YYYY-MM-DD. Returns an empty string for the zero date.
func (d Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(LayoutISO)
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return d.FormatBR()
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal reports whether both dates are the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// AddDays returns the date shifted by n days.
func (d Date) AddDays(n int) Date {
	if d.IsZero() {
		return d
	}
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Between reports whether d falls inside [start, end], both ends inclusive.
// A zero bound is treated as open.
func (d Date) Between(start, end Date) bool {
	if d.IsZero() {
		return false
	}
	if !start.IsZero() && d.Before(start) {
		return false
	}
	if !end.IsZero() && d.After(end) {
		return false
	}
	return true
}

// InclusiveDaysUntil returns the number of calendar days in [d, end], both ends inclusive.
// Returns 0 when either date is unset or end is before d.
func (d Date) InclusiveDaysUntil(end Date) int {
	if d.IsZero() || end.IsZero() || end.Before(d) {
		return 0
	}
	return int(end.t.Sub(d.t).Hours()/24) + 1
}

// MarshalJSON renders the date in DD/MM/YYYY form, or null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.FormatBR())
}

// UnmarshalJSON accepts any format understood by ParseFlexible. Null and "" yield the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", domainerror.ErrInvalidDateFormat, string(data))
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseFlexible(*raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is an optional period; either bound may be unset.
type DateRange struct {
	From Date
	To   Date
}

// IsComplete reports whether both bounds are set.
func (r DateRange) IsComplete() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}

// Validate returns a range error when both bounds are set and From is after To.
func (r DateRange) Validate() error {
	if r.IsComplete() && r.From.After(r.To) {
		return domainerror.NewInvalidDateRangeError(r.From.FormatBR(), r.To.FormatBR())
	}
	return nil
}

// CoverageDays returns the inclusive day span of a complete range, 0 otherwise.
func (r DateRange) CoverageDays() int {
	return r.From.InclusiveDaysUntil(r.To)
}
