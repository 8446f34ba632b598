package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkanellos/PayrollDesktop-sub001/export"
	"github.com/fkanellos/PayrollDesktop-sub001/payroll"
)

func TestWriteCSV(t *testing.T) {
	report := &payroll.PayrollReport{
		EmployeeID:   "emp-1",
		EmployeeName: "Eleni K",
		Period:       payroll.MonthPeriod(2025, time.March, time.UTC),
		Entries: []payroll.PayrollReportEntry{{
			ClientName:       "John Doe",
			Sessions:         3,
			Price:            payroll.MustMoney("50"),
			EmployeePrice:    payroll.MustMoney("30"),
			CompanyPrice:     payroll.MustMoney("20"),
			Revenue:          payroll.MustMoney("150"),
			EmployeeEarnings: payroll.MustMoney("90"),
			CompanyEarnings:  payroll.MustMoney("60"),
		}},
		TotalSessions:         3,
		TotalRevenue:          payroll.MustMoney("150"),
		TotalEmployeeEarnings: payroll.MustMoney("90"),
		TotalCompanyEarnings:  payroll.MustMoney("60"),
		UnmatchedEvents: []payroll.CalendarEvent{{
			ID:    "e9",
			Title: "Dentist, with commas",
			Start: time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC),
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, report))

	reader := csv.NewReader(strings.NewReader(buf.String()))
	reader.FieldsPerRecord = -1 // the unmatched section is narrower
	rows, err := reader.ReadAll()
	require.NoError(t, err, "output must stay parseable CSV")
	require.Len(t, rows, 5) // header, entry, TOTAL, unmatched header, unmatched row

	assert.Equal(t, "client", rows[0][0])
	assert.Equal(t, []string{"John Doe", "3", "50.00", "30.00", "20.00", "150.00", "90.00", "60.00"}, rows[1])
	assert.Equal(t, "TOTAL", rows[2][0])
	assert.Equal(t, "150.00", rows[2][5])
	assert.Equal(t, "Dentist, with commas", rows[4][0], "titles with commas must survive quoting")
}

func TestWriteCSV_NoUnmatchedSection(t *testing.T) {
	report := &payroll.PayrollReport{
		Period: payroll.MonthPeriod(2025, time.March, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, report))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2, "just header and totals for an empty report")
}
