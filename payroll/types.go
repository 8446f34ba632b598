/*
Package payroll implements the payroll calculation core.

PURPOSE:
  This package turns a month of calendar appointments plus a client price
  list into a per-client earnings breakdown. It owns the three cooperating
  pieces of the core:
    - Text normalization (normalize.go): accent/case-insensitive canonical
      form of names and event titles
    - Client matching (matcher.go): confidence-scored fuzzy matching of
      free-text event titles against the client roster
    - Payroll calculation (calculator.go): filtering, classification and
      decimal-exact aggregation into an immutable report

KEY CONCEPTS IN THIS FILE (types.go):
  - CalendarEvent: A read-only appointment record from the calendar source
  - Client: A roster entry with a total/employee/company price split
  - Employee: The person whose calendar is being reconciled
  - SupervisionConfig: Optional pricing for supervision sessions
  - PayrollReport: The immutable result of one calculation

DESIGN PRINCIPLES:
  1. Purity: the core performs no I/O and holds no state between calls
  2. Precision: all money is decimal.Decimal, never raw float64
  3. Determinism: same inputs always produce the same report; tie-breaks
     are roster-order-stable
  4. Totality: absence of a match is data (unmatched/uncertain lists),
     never an error

SEE ALSO:
  - matcher.go: Matching strategies and confidence tiers
  - calculator.go: The calculation pipeline
  - store.go: Persistence interfaces implemented by store/sqlite
*/
package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CALENDAR EVENT - Read-only input from the calendar source
// =============================================================================

// CalendarEvent is one appointment as supplied by the calendar collaborator.
// The core never mutates events.
type CalendarEvent struct {
	ID               string
	Title            string
	Start            time.Time
	End              time.Time
	ColorID          string
	IsCancelled      bool
	IsPendingPayment bool
	Attendees        []string
}

// Billable reports whether the event counts as a session. A cancelled event
// is still billable when it is marked pending-payment: the session happened,
// settlement is just outstanding.
func (e CalendarEvent) Billable() bool {
	return !(e.IsCancelled && !e.IsPendingPayment)
}

// CalendarSource supplies events for a calendar and period. The core never
// fetches, caches or retries; that belongs to the implementation (see gcal).
type CalendarSource interface {
	Events(ctx context.Context, calendarID string, period Period) ([]CalendarEvent, error)
}

// =============================================================================
// CLIENT & EMPLOYEE
// =============================================================================

// Client is one roster entry. Price is the total session price;
// EmployeePrice and CompanyPrice are the split.
type Client struct {
	ID             string
	Name           string
	Price          decimal.Decimal
	EmployeePrice  decimal.Decimal
	CompanyPrice   decimal.Decimal
	EmployeeID     string
	PendingPayment bool
}

// priceSplitTolerance absorbs minor rounding drift between the total price
// and the employee/company split.
var priceSplitTolerance = decimal.NewFromFloat(0.01)

// ValidateSplit checks that employee + company share equals the total price
// within tolerance. The calculation core itself tolerates drift; this check
// guards the write path (API, import).
func (c Client) ValidateSplit() error {
	drift := c.Price.Sub(c.EmployeePrice.Add(c.CompanyPrice)).Abs()
	if drift.GreaterThan(priceSplitTolerance) {
		return &PriceSplitError{
			ClientName:    c.Name,
			Total:         c.Price,
			EmployeeShare: c.EmployeePrice,
			CompanyShare:  c.CompanyPrice,
			Drift:         drift,
		}
	}
	return nil
}

// Employee owns a calendar and a client roster.
// SupervisionPrice of zero disables supervision tracking.
type Employee struct {
	ID               string
	Name             string
	Email            string
	Phone            string
	CalendarID       string
	SheetID          string
	SupervisionPrice decimal.Decimal
}

// =============================================================================
// SUPERVISION
// =============================================================================

// DefaultSupervisionKeywords are the phrases that mark an event as a
// supervision session. Matching is accent- and case-insensitive, so the
// Greek entry covers both "Εποπτεία" and "εποπτεια".
var DefaultSupervisionKeywords = []string{"supervision", "εποπτεία"}

// SupervisionConfig prices supervision sessions separately from client
// sessions. Derived from the employee record; nil or Enabled=false means
// supervision events are matched like any other title.
type SupervisionConfig struct {
	Enabled       bool
	Keywords      []string
	Price         decimal.Decimal
	EmployeePrice decimal.Decimal
	CompanyPrice  decimal.Decimal
}

// SupervisionFor derives the supervision configuration from an employee.
// The full supervision price accrues to the employee unless the caller
// overrides the split.
func SupervisionFor(e Employee) *SupervisionConfig {
	if e.SupervisionPrice.IsZero() {
		return nil
	}
	return &SupervisionConfig{
		Enabled:       true,
		Keywords:      DefaultSupervisionKeywords,
		Price:         e.SupervisionPrice,
		EmployeePrice: e.SupervisionPrice,
		CompanyPrice:  decimal.Zero,
	}
}

// =============================================================================
// MATCH DECISIONS - The confirmation store's records
// =============================================================================

// MatchDecision records a human confirmation or rejection of an uncertain
// match. Decisions are keyed by (employee, event title) so a repeat
// calculation does not re-surface the same question.
type MatchDecision struct {
	ID         string
	EmployeeID string
	EventTitle string
	ClientName string
	Accepted   bool
	DecidedAt  time.Time
}

// UncertainMatch is an event whose best candidate needs human confirmation
// before it affects totals. Lives only inside one report; never persisted.
type UncertainMatch struct {
	EventID    string
	EventTitle string
	EventStart time.Time
	Candidate  ClientMatchResult
}

// =============================================================================
// PAYROLL REPORT - Immutable result of one calculation
// =============================================================================

// SessionStatus classifies a counted session for report detail rows.
type SessionStatus string

const (
	SessionCompleted      SessionStatus = "completed"
	SessionPendingPayment SessionStatus = "pending_payment"
)

// SessionDetail is one counted session within a report entry.
type SessionDetail struct {
	Date   time.Time
	Status SessionStatus
}

// PayrollReportEntry aggregates all sessions for one client, or for the
// synthetic supervision category when Supervision is true.
type PayrollReportEntry struct {
	ClientName       string
	Supervision      bool
	Sessions         int
	Price            decimal.Decimal
	EmployeePrice    decimal.Decimal
	CompanyPrice     decimal.Decimal
	Revenue          decimal.Decimal
	EmployeeEarnings decimal.Decimal
	CompanyEarnings  decimal.Decimal
	Details          []SessionDetail
}

// PayrollReport is created fresh per calculation and never mutated after
// construction. Entries follow roster order, with the supervision entry last.
type PayrollReport struct {
	EmployeeID   string
	EmployeeName string
	Period       Period

	Entries []PayrollReportEntry

	TotalSessions         int
	TotalRevenue          decimal.Decimal
	TotalEmployeeEarnings decimal.Decimal
	TotalCompanyEarnings  decimal.Decimal

	// Events that matched no client and no keyword at any confidence.
	UnmatchedEvents []CalendarEvent

	// Events held out of the totals pending confirmation.
	UncertainMatches []UncertainMatch
}
