/*
store.go - Persistence interfaces for the payroll system

PURPOSE:
  Defines the boundary between the pure calculation core and storage.
  The core only ever sees snapshots: a roster, an employee record and the
  batch of prior match decisions, loaded once per calculation.

KEY INTERFACES:
  EmployeeStore: Employee records (calendar/sheet identifiers, prices)
  ClientStore:   Roster rows; ListClientsByEmployee MUST preserve a stable
                 creation order, because ambiguous matches tie-break on
                 roster order and reports must be reproducible
  DecisionStore: Confirmed/rejected title-to-client decisions; batch
                 lookup per employee so a run costs one query, not one
                 per event

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - store/memory: In-memory for tests

SEE ALSO:
  - calculator.go: Consumes the snapshots these interfaces provide
*/
package payroll

import "context"

// EmployeeStore persists employee records.
type EmployeeStore interface {
	CreateEmployee(ctx context.Context, e Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	UpdateEmployee(ctx context.Context, e Employee) error
	DeleteEmployee(ctx context.Context, id string) error
}

// ClientStore persists roster rows. ListClientsByEmployee returns clients
// in stable creation order.
type ClientStore interface {
	CreateClient(ctx context.Context, c Client) error
	GetClient(ctx context.Context, id string) (Client, error)
	ListClientsByEmployee(ctx context.Context, employeeID string) ([]Client, error)
	UpdateClient(ctx context.Context, c Client) error
	DeleteClient(ctx context.Context, id string) error
}

// DecisionStore persists match confirmations and rejections. SaveDecision
// upserts on (employee, event title): re-deciding the same title replaces
// the earlier decision.
type DecisionStore interface {
	SaveDecision(ctx context.Context, d MatchDecision) error
	ListDecisionsByEmployee(ctx context.Context, employeeID string) ([]MatchDecision, error)
	DeleteDecision(ctx context.Context, id string) error
}

// Store is the full persistence surface the application wires together.
type Store interface {
	EmployeeStore
	ClientStore
	DecisionStore
}
