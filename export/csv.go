// Package export renders payroll reports for external consumption.
// CSV is the interchange format; the report's field names are the stable
// contract, so column headers mirror them.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/fkanellos/PayrollDesktop-sub001/payroll"
)

// WriteCSV renders a report as CSV: one row per entry, a totals row, and a
// trailing section listing unmatched events so nothing billable disappears
// silently from the export.
func WriteCSV(w io.Writer, r *payroll.PayrollReport) error {
	cw := csv.NewWriter(w)

	header := []string{
		"client", "sessions", "price", "employee_price", "company_price",
		"revenue", "employee_earnings", "company_earnings",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, e := range r.Entries {
		row := []string{
			e.ClientName,
			fmt.Sprintf("%d", e.Sessions),
			e.Price.StringFixed(2),
			e.EmployeePrice.StringFixed(2),
			e.CompanyPrice.StringFixed(2),
			e.Revenue.StringFixed(2),
			e.EmployeeEarnings.StringFixed(2),
			e.CompanyEarnings.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	totals := []string{
		"TOTAL",
		fmt.Sprintf("%d", r.TotalSessions),
		"", "", "",
		r.TotalRevenue.StringFixed(2),
		r.TotalEmployeeEarnings.StringFixed(2),
		r.TotalCompanyEarnings.StringFixed(2),
	}
	if err := cw.Write(totals); err != nil {
		return err
	}

	if len(r.UnmatchedEvents) > 0 {
		if err := cw.Write([]string{"unmatched_event", "date"}); err != nil {
			return err
		}
		for _, ev := range r.UnmatchedEvents {
			if err := cw.Write([]string{ev.Title, ev.Start.Format(time.RFC3339)}); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
