/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  internal domain model from the external contract.

MONEY ENCODING:
  All monetary fields are decimal strings ("50.00"), never JSON floats.
  Binary floating point has no business in a payroll API; clients parse
  the strings with their own decimal type.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - payroll/types.go: The domain model behind them
*/
package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkanellos/PayrollDesktop-sub001/payroll"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	CalendarID       string `json:"calendar_id,omitempty"`
	SheetID          string `json:"sheet_id,omitempty"`
	SupervisionPrice string `json:"supervision_price"`
}

// EmployeeRequest is the body for creating or updating an employee.
type EmployeeRequest struct {
	ID               string `json:"id,omitempty"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	CalendarID       string `json:"calendar_id"`
	SheetID          string `json:"sheet_id"`
	SupervisionPrice string `json:"supervision_price"`
}

func (r EmployeeRequest) toDomain() (payroll.Employee, error) {
	price, err := parseMoney(r.SupervisionPrice, "supervision_price")
	if err != nil {
		return payroll.Employee{}, err
	}
	return payroll.Employee{
		ID:               r.ID,
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		CalendarID:       r.CalendarID,
		SheetID:          r.SheetID,
		SupervisionPrice: price,
	}, nil
}

func employeeDTO(e payroll.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:               e.ID,
		Name:             e.Name,
		Email:            e.Email,
		Phone:            e.Phone,
		CalendarID:       e.CalendarID,
		SheetID:          e.SheetID,
		SupervisionPrice: e.SupervisionPrice.StringFixed(2),
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// ClientDTO represents a roster entry in API responses.
type ClientDTO struct {
	ID             string `json:"id"`
	EmployeeID     string `json:"employee_id"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	EmployeePrice  string `json:"employee_price"`
	CompanyPrice   string `json:"company_price"`
	PendingPayment bool   `json:"pending_payment"`
}

// ClientRequest is the body for creating or updating a client.
type ClientRequest struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	EmployeePrice  string `json:"employee_price"`
	CompanyPrice   string `json:"company_price"`
	PendingPayment bool   `json:"pending_payment"`
}

func (r ClientRequest) toDomain(employeeID string) (payroll.Client, error) {
	price, err := parseMoney(r.Price, "price")
	if err != nil {
		return payroll.Client{}, err
	}
	employeePrice, err := parseMoney(r.EmployeePrice, "employee_price")
	if err != nil {
		return payroll.Client{}, err
	}
	companyPrice, err := parseMoney(r.CompanyPrice, "company_price")
	if err != nil {
		return payroll.Client{}, err
	}
	return payroll.Client{
		ID:             r.ID,
		EmployeeID:     employeeID,
		Name:           r.Name,
		Price:          price,
		EmployeePrice:  employeePrice,
		CompanyPrice:   companyPrice,
		PendingPayment: r.PendingPayment,
	}, nil
}

func clientDTO(c payroll.Client) ClientDTO {
	return ClientDTO{
		ID:             c.ID,
		EmployeeID:     c.EmployeeID,
		Name:           c.Name,
		Price:          c.Price.StringFixed(2),
		EmployeePrice:  c.EmployeePrice.StringFixed(2),
		CompanyPrice:   c.CompanyPrice.StringFixed(2),
		PendingPayment: c.PendingPayment,
	}
}

// =============================================================================
// PAYROLL
// =============================================================================

// PayrollRequest selects the period for a payroll run. Boundaries accept
// RFC3339 timestamps or plain dates; a plain end date covers its whole day.
type PayrollRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ReportDTO is the serialized payroll report.
type ReportDTO struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`

	Entries []ReportEntryDTO `json:"entries"`

	TotalSessions         int    `json:"total_sessions"`
	TotalRevenue          string `json:"total_revenue"`
	TotalEmployeeEarnings string `json:"total_employee_earnings"`
	TotalCompanyEarnings  string `json:"total_company_earnings"`

	UnmatchedEvents  []UnmatchedEventDTO `json:"unmatched_events"`
	UncertainMatches []UncertainMatchDTO `json:"uncertain_matches"`
}

// ReportEntryDTO is one per-client (or supervision) line.
type ReportEntryDTO struct {
	ClientName       string       `json:"client_name"`
	Supervision      bool         `json:"supervision,omitempty"`
	Sessions         int          `json:"sessions"`
	Price            string       `json:"price"`
	EmployeePrice    string       `json:"employee_price"`
	CompanyPrice     string       `json:"company_price"`
	Revenue          string       `json:"revenue"`
	EmployeeEarnings string       `json:"employee_earnings"`
	CompanyEarnings  string       `json:"company_earnings"`
	Details          []SessionDTO `json:"details"`
}

// SessionDTO is one counted session.
type SessionDTO struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// UnmatchedEventDTO is an event no client or keyword matched.
type UnmatchedEventDTO struct {
	EventID string `json:"event_id"`
	Title   string `json:"title"`
	Start   string `json:"start"`
}

// UncertainMatchDTO is an event held out of totals pending confirmation.
type UncertainMatchDTO struct {
	EventID    string `json:"event_id"`
	EventTitle string `json:"event_title"`
	EventStart string `json:"event_start"`
	ClientName string `json:"client_name"`
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}

func reportDTO(r *payroll.PayrollReport) ReportDTO {
	dto := ReportDTO{
		EmployeeID:            r.EmployeeID,
		EmployeeName:          r.EmployeeName,
		PeriodStart:           r.Period.Start.Format(time.RFC3339),
		PeriodEnd:             r.Period.End.Format(time.RFC3339),
		TotalSessions:         r.TotalSessions,
		TotalRevenue:          r.TotalRevenue.StringFixed(2),
		TotalEmployeeEarnings: r.TotalEmployeeEarnings.StringFixed(2),
		TotalCompanyEarnings:  r.TotalCompanyEarnings.StringFixed(2),
		Entries:               []ReportEntryDTO{},
		UnmatchedEvents:       []UnmatchedEventDTO{},
		UncertainMatches:      []UncertainMatchDTO{},
	}

	for _, e := range r.Entries {
		entry := ReportEntryDTO{
			ClientName:       e.ClientName,
			Supervision:      e.Supervision,
			Sessions:         e.Sessions,
			Price:            e.Price.StringFixed(2),
			EmployeePrice:    e.EmployeePrice.StringFixed(2),
			CompanyPrice:     e.CompanyPrice.StringFixed(2),
			Revenue:          e.Revenue.StringFixed(2),
			EmployeeEarnings: e.EmployeeEarnings.StringFixed(2),
			CompanyEarnings:  e.CompanyEarnings.StringFixed(2),
		}
		for _, d := range e.Details {
			entry.Details = append(entry.Details, SessionDTO{
				Date:   d.Date.Format(time.RFC3339),
				Status: string(d.Status),
			})
		}
		dto.Entries = append(dto.Entries, entry)
	}

	for _, ev := range r.UnmatchedEvents {
		dto.UnmatchedEvents = append(dto.UnmatchedEvents, UnmatchedEventDTO{
			EventID: ev.ID,
			Title:   ev.Title,
			Start:   ev.Start.Format(time.RFC3339),
		})
	}

	for _, u := range r.UncertainMatches {
		dto.UncertainMatches = append(dto.UncertainMatches, UncertainMatchDTO{
			EventID:    u.EventID,
			EventTitle: u.EventTitle,
			EventStart: u.EventStart.Format(time.RFC3339),
			ClientName: u.Candidate.ClientName,
			Confidence: u.Candidate.Confidence.String(),
			Reason:     u.Candidate.Reason,
		})
	}

	return dto
}

// =============================================================================
// MATCH DECISIONS
// =============================================================================

// DecisionRequest confirms or rejects an uncertain match.
type DecisionRequest struct {
	EventTitle string `json:"event_title"`
	ClientName string `json:"client_name"`
}

// DecisionDTO represents a stored decision.
type DecisionDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	EventTitle string `json:"event_title"`
	ClientName string `json:"client_name"`
	Accepted   bool   `json:"accepted"`
	DecidedAt  string `json:"decided_at"`
}

func decisionDTO(d payroll.MatchDecision) DecisionDTO {
	return DecisionDTO{
		ID:         d.ID,
		EmployeeID: d.EmployeeID,
		EventTitle: d.EventTitle,
		ClientName: d.ClientName,
		Accepted:   d.Accepted,
		DecidedAt:  d.DecidedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseMoney(s, field string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: must be a decimal string", field, s)
	}
	return d, nil
}

// parsePeriod accepts RFC3339 timestamps or plain dates. A date-only end
// boundary is pushed to the last nanosecond of that day so the inclusive
// period semantics cover the whole day.
func parsePeriod(r PayrollRequest) (payroll.Period, error) {
	start, _, err := parseBoundary(r.Start)
	if err != nil {
		return payroll.Period{}, fmt.Errorf("invalid start %q: %w", r.Start, err)
	}
	end, dateOnly, err := parseBoundary(r.End)
	if err != nil {
		return payroll.Period{}, fmt.Errorf("invalid end %q: %w", r.End, err)
	}
	if dateOnly {
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return payroll.Period{Start: start, End: end}, nil
}

func parseBoundary(s string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	if t, err = time.Parse("2006-01-02", s); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("expected RFC3339 or YYYY-MM-DD")
}
