/*
Package sqlite provides a SQLite-backed implementation of the payroll
storage interfaces.

PURPOSE:
  Implements payroll.EmployeeStore, payroll.ClientStore and
  payroll.DecisionStore on a single SQLite database. The same patterns
  apply to PostgreSQL with minor dialect changes.

KEY TABLES:
  employees:       Employee records with calendar/sheet identifiers
  clients:         Roster rows with decimal price splits
  match_decisions: Confirmed/rejected title-to-client decisions

ORDERING GUARANTEE:
  ListClientsByEmployee orders by rowid, i.e. creation order. The
  calculation engine tie-breaks ambiguous matches on roster order, so
  this ordering must stay stable across runs.

MONEY STORAGE:
  Prices are stored as decimal TEXT, never REAL. Parsing back through
  decimal.NewFromString keeps report math exact.

DECISION UPSERT:
  match_decisions is unique on (employee_id, event_title): re-deciding a
  title replaces the earlier decision, so repeat calculations never
  re-surface a settled uncertain match.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - payroll/store.go: Interface definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/fkanellos/PayrollDesktop-sub001/payroll"
)

// Store implements all payroll storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Compile-time interface check.
var _ payroll.Store = (*Store)(nil)

// New creates a new SQLite store at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		calendar_id TEXT,
		sheet_id TEXT,
		supervision_price TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		name TEXT NOT NULL,
		price TEXT NOT NULL,
		employee_price TEXT NOT NULL,
		company_price TEXT NOT NULL,
		pending_payment BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL,
		FOREIGN KEY (employee_id) REFERENCES employees(id) ON DELETE CASCADE
	);

	-- Roster order is creation order (rowid); see ListClientsByEmployee.
	CREATE INDEX IF NOT EXISTS idx_clients_employee
		ON clients(employee_id);

	CREATE TABLE IF NOT EXISTS match_decisions (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		event_title TEXT NOT NULL,
		client_name TEXT NOT NULL,
		accepted BOOLEAN NOT NULL,
		decided_at TEXT NOT NULL,
		UNIQUE(employee_id, event_title)
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_employee
		ON match_decisions(employee_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE STORE (payroll.EmployeeStore interface)
// =============================================================================

// CreateEmployee inserts a new employee. Fails on duplicate ID.
func (s *Store) CreateEmployee(ctx context.Context, e payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if exists, err := s.rowExists(ctx, "employees", e.ID); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("employee %s: %w", e.ID, payroll.ErrDuplicateID)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, email, phone, calendar_id, sheet_id, supervision_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Email, e.Phone, e.CalendarID, e.SheetID,
		e.SupervisionPrice.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id string) (payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, calendar_id, sheet_id, supervision_price
		FROM employees WHERE id = ?`, id)

	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return payroll.Employee{}, fmt.Errorf("employee %s: %w", id, payroll.ErrEmployeeNotFound)
	}
	return e, err
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, calendar_id, sheet_id, supervision_price
		FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []payroll.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// UpdateEmployee updates an existing employee.
func (s *Store) UpdateEmployee(ctx context.Context, e payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE employees
		SET name = ?, email = ?, phone = ?, calendar_id = ?, sheet_id = ?, supervision_price = ?
		WHERE id = ?`,
		e.Name, e.Email, e.Phone, e.CalendarID, e.SheetID,
		e.SupervisionPrice.String(), e.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, payroll.ErrEmployeeNotFound, e.ID)
}

// DeleteEmployee removes an employee and, via cascade, their roster.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, payroll.ErrEmployeeNotFound, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (payroll.Employee, error) {
	var e payroll.Employee
	var supervisionPrice string
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.CalendarID, &e.SheetID, &supervisionPrice)
	if err != nil {
		return payroll.Employee{}, err
	}
	e.SupervisionPrice = parseMoney(supervisionPrice)
	return e, nil
}

// =============================================================================
// CLIENT STORE (payroll.ClientStore interface)
// =============================================================================

// CreateClient inserts a new roster row. Mints an ID when absent and
// validates the price split before writing.
func (s *Store) CreateClient(ctx context.Context, c payroll.Client) error {
	if err := c.ValidateSplit(); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if exists, err := s.rowExists(ctx, "clients", c.ID); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("client %s: %w", c.ID, payroll.ErrDuplicateID)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, employee_id, name, price, employee_price, company_price, pending_payment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.EmployeeID, c.Name,
		c.Price.String(), c.EmployeePrice.String(), c.CompanyPrice.String(),
		c.PendingPayment,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetClient retrieves a client by ID.
func (s *Store) GetClient(ctx context.Context, id string) (payroll.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, name, price, employee_price, company_price, pending_payment
		FROM clients WHERE id = ?`, id)

	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return payroll.Client{}, fmt.Errorf("client %s: %w", id, payroll.ErrClientNotFound)
	}
	return c, err
}

// ListClientsByEmployee returns the employee's roster in creation order.
func (s *Store) ListClientsByEmployee(ctx context.Context, employeeID string) ([]payroll.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, name, price, employee_price, company_price, pending_payment
		FROM clients WHERE employee_id = ? ORDER BY rowid`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []payroll.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// UpdateClient updates an existing roster row.
func (s *Store) UpdateClient(ctx context.Context, c payroll.Client) error {
	if err := c.ValidateSplit(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE clients
		SET name = ?, price = ?, employee_price = ?, company_price = ?, pending_payment = ?
		WHERE id = ?`,
		c.Name, c.Price.String(), c.EmployeePrice.String(), c.CompanyPrice.String(),
		c.PendingPayment, c.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, payroll.ErrClientNotFound, c.ID)
}

// DeleteClient removes a roster row.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, payroll.ErrClientNotFound, id)
}

func scanClient(row scanner) (payroll.Client, error) {
	var c payroll.Client
	var price, employeePrice, companyPrice string
	err := row.Scan(&c.ID, &c.EmployeeID, &c.Name, &price, &employeePrice, &companyPrice, &c.PendingPayment)
	if err != nil {
		return payroll.Client{}, err
	}
	c.Price = parseMoney(price)
	c.EmployeePrice = parseMoney(employeePrice)
	c.CompanyPrice = parseMoney(companyPrice)
	return c, nil
}

// =============================================================================
// DECISION STORE (payroll.DecisionStore interface)
// =============================================================================

// SaveDecision upserts a decision on (employee, event title).
func (s *Store) SaveDecision(ctx context.Context, d payroll.MatchDecision) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.DecidedAt.IsZero() {
		d.DecidedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO match_decisions (id, employee_id, event_title, client_name, accepted, decided_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, event_title) DO UPDATE SET
			client_name = excluded.client_name,
			accepted = excluded.accepted,
			decided_at = excluded.decided_at`,
		d.ID, d.EmployeeID, d.EventTitle, d.ClientName, d.Accepted,
		d.DecidedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// ListDecisionsByEmployee returns all decisions for an employee in one
// query; the calculation engine consumes them as a batch.
func (s *Store) ListDecisionsByEmployee(ctx context.Context, employeeID string) ([]payroll.MatchDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, event_title, client_name, accepted, decided_at
		FROM match_decisions WHERE employee_id = ? ORDER BY rowid`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decisions []payroll.MatchDecision
	for rows.Next() {
		var d payroll.MatchDecision
		var decidedAt string
		if err := rows.Scan(&d.ID, &d.EmployeeID, &d.EventTitle, &d.ClientName, &d.Accepted, &decidedAt); err != nil {
			return nil, err
		}
		d.DecidedAt, _ = time.Parse(time.RFC3339, decidedAt)
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

// DeleteDecision removes a decision by ID.
func (s *Store) DeleteDecision(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM match_decisions WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, payroll.ErrDecisionNotFound, id)
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) rowExists(ctx context.Context, table, id string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(1) FROM %s WHERE id = ?", table), id).Scan(&n)
	return n > 0, err
}

func requireAffected(res sql.Result, notFound error, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, notFound)
	}
	return nil
}

func parseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
