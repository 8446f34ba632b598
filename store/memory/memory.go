// Package memory provides an in-memory payroll.Store for testing and dev.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fkanellos/PayrollDesktop-sub001/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu        sync.RWMutex
	employees map[string]payroll.Employee
	clients   map[string]payroll.Client
	decisions map[string]payroll.MatchDecision

	// Insertion order; the client roster must come back in creation order
	// because the calculator tie-breaks on it.
	employeeOrder []string
	clientOrder   []string
	decisionOrder []string
}

var _ payroll.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		employees: make(map[string]payroll.Employee),
		clients:   make(map[string]payroll.Client),
		decisions: make(map[string]payroll.MatchDecision),
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) CreateEmployee(_ context.Context, e payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[e.ID]; ok {
		return fmt.Errorf("employee %s: %w", e.ID, payroll.ErrDuplicateID)
	}
	s.employees[e.ID] = e
	s.employeeOrder = append(s.employeeOrder, e.ID)
	return nil
}

func (s *Store) GetEmployee(_ context.Context, id string) (payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.employees[id]
	if !ok {
		return payroll.Employee{}, fmt.Errorf("employee %s: %w", id, payroll.ErrEmployeeNotFound)
	}
	return e, nil
}

func (s *Store) ListEmployees(_ context.Context) ([]payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]payroll.Employee, 0, len(s.employeeOrder))
	for _, id := range s.employeeOrder {
		employees = append(employees, s.employees[id])
	}
	return employees, nil
}

func (s *Store) UpdateEmployee(_ context.Context, e payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[e.ID]; !ok {
		return fmt.Errorf("employee %s: %w", e.ID, payroll.ErrEmployeeNotFound)
	}
	s.employees[e.ID] = e
	return nil
}

func (s *Store) DeleteEmployee(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return fmt.Errorf("employee %s: %w", id, payroll.ErrEmployeeNotFound)
	}
	delete(s.employees, id)
	s.employeeOrder = remove(s.employeeOrder, id)

	// Cascade, matching the SQLite foreign key behavior.
	for _, cid := range append([]string(nil), s.clientOrder...) {
		if s.clients[cid].EmployeeID == id {
			delete(s.clients, cid)
			s.clientOrder = remove(s.clientOrder, cid)
		}
	}
	return nil
}

// =============================================================================
// CLIENTS
// =============================================================================

func (s *Store) CreateClient(_ context.Context, c payroll.Client) error {
	if err := c.ValidateSplit(); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[c.ID]; ok {
		return fmt.Errorf("client %s: %w", c.ID, payroll.ErrDuplicateID)
	}
	s.clients[c.ID] = c
	s.clientOrder = append(s.clientOrder, c.ID)
	return nil
}

func (s *Store) GetClient(_ context.Context, id string) (payroll.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	if !ok {
		return payroll.Client{}, fmt.Errorf("client %s: %w", id, payroll.ErrClientNotFound)
	}
	return c, nil
}

func (s *Store) ListClientsByEmployee(_ context.Context, employeeID string) ([]payroll.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var clients []payroll.Client
	for _, id := range s.clientOrder {
		if c := s.clients[id]; c.EmployeeID == employeeID {
			clients = append(clients, c)
		}
	}
	return clients, nil
}

func (s *Store) UpdateClient(_ context.Context, c payroll.Client) error {
	if err := c.ValidateSplit(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.clients[c.ID]
	if !ok {
		return fmt.Errorf("client %s: %w", c.ID, payroll.ErrClientNotFound)
	}
	c.EmployeeID = existing.EmployeeID
	s.clients[c.ID] = c
	return nil
}

func (s *Store) DeleteClient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[id]; !ok {
		return fmt.Errorf("client %s: %w", id, payroll.ErrClientNotFound)
	}
	delete(s.clients, id)
	s.clientOrder = remove(s.clientOrder, id)
	return nil
}

// =============================================================================
// DECISIONS
// =============================================================================

func (s *Store) SaveDecision(_ context.Context, d payroll.MatchDecision) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.DecidedAt.IsZero() {
		d.DecidedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Upsert on (employee, title), same contract as the SQLite store.
	for _, id := range s.decisionOrder {
		prev := s.decisions[id]
		if prev.EmployeeID == d.EmployeeID && prev.EventTitle == d.EventTitle {
			d.ID = prev.ID
			s.decisions[id] = d
			return nil
		}
	}
	s.decisions[d.ID] = d
	s.decisionOrder = append(s.decisionOrder, d.ID)
	return nil
}

func (s *Store) ListDecisionsByEmployee(_ context.Context, employeeID string) ([]payroll.MatchDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var decisions []payroll.MatchDecision
	for _, id := range s.decisionOrder {
		if d := s.decisions[id]; d.EmployeeID == employeeID {
			decisions = append(decisions, d)
		}
	}
	return decisions, nil
}

func (s *Store) DeleteDecision(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.decisions[id]; !ok {
		return fmt.Errorf("decision %s: %w", id, payroll.ErrDecisionNotFound)
	}
	delete(s.decisions, id)
	s.decisionOrder = remove(s.decisionOrder, id)
	return nil
}

func remove(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
