/*
errors.go - Centralized error types for the payroll core

PURPOSE:
  All error types in one place. The matching engine and normalizer are
  total functions and never return errors; errors here cover precondition
  violations (calculation engine) and the persistence/API boundary.

USAGE:
  Callers branch with errors.Is:

    if errors.Is(err, payroll.ErrClientNotFound) { ... 404 ... }

SEE ALSO:
  - calculator.go: Fails fast with ErrMissingEmployee / ErrInvalidPeriod
  - store.go: Store implementations return the *NotFound sentinels
*/
package payroll

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingEmployee is returned when a calculation is attempted without
	// an employee record. This is a caller bug, not a steady-state outcome.
	ErrMissingEmployee = errors.New("missing employee")

	// ErrInvalidPeriod is returned when the period is malformed (end before
	// start, or a zero boundary).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrClientNotFound is returned when a referenced client doesn't exist.
	ErrClientNotFound = errors.New("client not found")

	// ErrDecisionNotFound is returned when a referenced match decision doesn't exist.
	ErrDecisionNotFound = errors.New("match decision not found")

	// ErrDuplicateID is returned when creating a record whose ID already exists.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrPriceSplitMismatch is returned when employee + company share drifts
	// from the total price beyond tolerance.
	ErrPriceSplitMismatch = errors.New("price split does not add up to total")

	// ErrNoCalendarSource is returned when a payroll run is requested but no
	// calendar source is configured.
	ErrNoCalendarSource = errors.New("no calendar source configured")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PriceSplitError details a client whose split disagrees with its total.
type PriceSplitError struct {
	ClientName    string
	Total         decimal.Decimal
	EmployeeShare decimal.Decimal
	CompanyShare  decimal.Decimal
	Drift         decimal.Decimal
}

func (e *PriceSplitError) Error() string {
	return fmt.Sprintf("client %q: split %v + %v does not add up to %v (drift %v)",
		e.ClientName, e.EmployeeShare, e.CompanyShare, e.Total, e.Drift)
}

func (e *PriceSplitError) Unwrap() error {
	return ErrPriceSplitMismatch
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingEmployee) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrPriceSplitMismatch)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrClientNotFound) ||
		errors.Is(err, ErrDecisionNotFound)
}
