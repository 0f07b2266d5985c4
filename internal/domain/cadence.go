package domain

import (
	"fmt"
	"strings"
	"time"
)

// Cadence is the frequency class of a life report.
type Cadence string

const (
	CadenceWeekly    Cadence = "weekly"
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
	CadenceAnnual    Cadence = "annual"
)

// Cadences lists all cadences in scheduling order.
var Cadences = []Cadence{CadenceWeekly, CadenceMonthly, CadenceQuarterly, CadenceAnnual}

// Valid reports whether c is a known cadence.
func (c Cadence) Valid() bool {
	switch c {
	case CadenceWeekly, CadenceMonthly, CadenceQuarterly, CadenceAnnual:
		return true
	}
	return false
}

func (c Cadence) String() string { return string(c) }

// ParseCadence converts a string into a Cadence.
// Returns a ValidationError for unknown values.
func ParseCadence(s string) (Cadence, error) {
	c := Cadence(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", NewValidationError("cadence", fmt.Sprintf("unknown cadence %q", s))
	}
	return c, nil
}

// Period is the inclusive date range a report summarizes.
// End carries end-of-day time (23:59:59.999).
type Period struct {
	Start time.Time
	End   time.Time
}

// Period returns the most recently completed period for the cadence,
// relative to ref:
//
//   - weekly: the last full Mon–Sun week strictly before ref
//   - monthly: the calendar month preceding the month containing ref
//   - quarterly: the calendar quarter preceding the current quarter
//   - annual: the previous calendar year
//
// Any two reference times falling inside the same target period produce
// identical output; report identity derives from that. An unknown cadence
// is a programmer error and panics.
func (c Cadence) Period(ref time.Time) Period {
	ref = ref.UTC()

	switch c {
	case CadenceWeekly:
		wd := int(ref.Weekday())
		if wd == 0 {
			wd = 7 // Sunday
		}
		currentMonday := midnight(ref).AddDate(0, 0, -(wd - 1))
		return Period{
			Start: currentMonday.AddDate(0, 0, -7),
			End:   endOfDay(currentMonday.AddDate(0, 0, -1)),
		}

	case CadenceMonthly:
		firstOfMonth := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Period{
			Start: firstOfMonth.AddDate(0, -1, 0),
			End:   endOfDay(firstOfMonth.AddDate(0, 0, -1)),
		}

	case CadenceQuarterly:
		quarterMonth := time.Month((int(ref.Month())-1)/3*3 + 1)
		quarterStart := time.Date(ref.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
		return Period{
			Start: quarterStart.AddDate(0, -3, 0),
			End:   endOfDay(quarterStart.AddDate(0, 0, -1)),
		}

	case CadenceAnnual:
		return Period{
			Start: time.Date(ref.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   endOfDay(time.Date(ref.Year()-1, time.December, 31, 0, 0, 0, 0, time.UTC)),
		}
	}

	panic(fmt.Sprintf("domain: unknown cadence %q", c))
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

// ReportID derives the deterministic report identity for a cadence and
// period start, e.g. "monthly-2026-01-01". Identical cadence and period
// always yield the same id; that collapses duplicate generation attempts
// onto one document.
func ReportID(c Cadence, periodStart time.Time) string {
	return fmt.Sprintf("%s-%s", c, periodStart.UTC().Format("2006-01-02"))
}

// ParseReportID splits a report id back into its cadence and period start.
// Returns a ValidationError if the id does not match "{cadence}-{YYYY-MM-DD}".
func ParseReportID(id string) (Cadence, time.Time, error) {
	parts := strings.SplitN(id, "-", 2)
	if len(parts) != 2 {
		return "", time.Time{}, NewValidationError("report_id", fmt.Sprintf("malformed report id %q", id))
	}

	cadence, err := ParseCadence(parts[0])
	if err != nil {
		return "", time.Time{}, NewValidationError("report_id", fmt.Sprintf("unknown cadence in report id %q", id))
	}

	start, err := time.ParseInLocation("2006-01-02", parts[1], time.UTC)
	if err != nil {
		return "", time.Time{}, NewValidationError("report_id", fmt.Sprintf("malformed period date in report id %q", id))
	}

	return cadence, start, nil
}
