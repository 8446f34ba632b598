package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkanellos/PayrollDesktop-sub001/payroll"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedEmployee(t *testing.T, store *Store, id string) payroll.Employee {
	t.Helper()
	e := payroll.Employee{
		ID:               id,
		Name:             "Eleni K",
		Email:            "eleni@example.com",
		CalendarID:       "cal-" + id,
		SupervisionPrice: payroll.MustMoney("40"),
	}
	require.NoError(t, store.CreateEmployee(context.Background(), e))
	return e
}

func testClient(employeeID, name string) payroll.Client {
	return payroll.Client{
		EmployeeID:    employeeID,
		Name:          name,
		Price:         payroll.MustMoney("50"),
		EmployeePrice: payroll.MustMoney("30"),
		CompanyPrice:  payroll.MustMoney("20"),
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployeeCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := seedEmployee(t, store, "emp-1")

	got, err := store.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, e.Name, got.Name)
	assert.True(t, got.SupervisionPrice.Equal(payroll.MustMoney("40")),
		"supervision price must round-trip exactly, got %s", got.SupervisionPrice)

	got.Name = "Eleni Kanellou"
	got.SupervisionPrice = payroll.MustMoney("45.50")
	require.NoError(t, store.UpdateEmployee(ctx, got))

	updated, err := store.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Eleni Kanellou", updated.Name)
	assert.Equal(t, "45.50", updated.SupervisionPrice.StringFixed(2))

	require.NoError(t, store.DeleteEmployee(ctx, "emp-1"))
	_, err = store.GetEmployee(ctx, "emp-1")
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)
}

func TestEmployee_DuplicateID(t *testing.T) {
	store := newTestStore(t)
	seedEmployee(t, store, "emp-1")

	err := store.CreateEmployee(context.Background(), payroll.Employee{ID: "emp-1", Name: "Other"})
	assert.ErrorIs(t, err, payroll.ErrDuplicateID)
}

func TestEmployee_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetEmployee(ctx, "nope")
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)

	assert.ErrorIs(t, store.UpdateEmployee(ctx, payroll.Employee{ID: "nope"}), payroll.ErrEmployeeNotFound)
	assert.ErrorIs(t, store.DeleteEmployee(ctx, "nope"), payroll.ErrEmployeeNotFound)
}

func TestListEmployees_OrderedByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateEmployee(ctx, payroll.Employee{ID: "b", Name: "Beta"}))
	require.NoError(t, store.CreateEmployee(ctx, payroll.Employee{ID: "a", Name: "Alpha"}))

	employees, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "Alpha", employees[0].Name)
	assert.Equal(t, "Beta", employees[1].Name)
}

// =============================================================================
// CLIENTS
// =============================================================================

func TestClientCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1")

	c := testClient("emp-1", "John Doe")
	require.NoError(t, store.CreateClient(ctx, c))

	clients, err := store.ListClientsByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.NotEmpty(t, clients[0].ID, "an ID must be minted on create")
	assert.Equal(t, "50.00", clients[0].Price.StringFixed(2))

	stored := clients[0]
	stored.Price = payroll.MustMoney("55.55")
	stored.EmployeePrice = payroll.MustMoney("33.33")
	stored.CompanyPrice = payroll.MustMoney("22.22")
	require.NoError(t, store.UpdateClient(ctx, stored))

	got, err := store.GetClient(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "55.55", got.Price.StringFixed(2))
	assert.Equal(t, "33.33", got.EmployeePrice.StringFixed(2))

	require.NoError(t, store.DeleteClient(ctx, stored.ID))
	_, err = store.GetClient(ctx, stored.ID)
	assert.ErrorIs(t, err, payroll.ErrClientNotFound)
}

func TestCreateClient_RejectsBadSplit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1")

	c := testClient("emp-1", "John Doe")
	c.CompanyPrice = payroll.MustMoney("25") // 30 + 25 != 50

	err := store.CreateClient(ctx, c)
	assert.ErrorIs(t, err, payroll.ErrPriceSplitMismatch)

	clients, err := store.ListClientsByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, clients, "a rejected split must not be persisted")
}

func TestListClientsByEmployee_CreationOrder(t *testing.T) {
	// Ambiguous matches tie-break on roster order, so the listing must be
	// stable creation order, not alphabetical.
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1")

	names := []string{"Zeta Last", "Alpha First", "Mid Dle"}
	for _, name := range names {
		require.NoError(t, store.CreateClient(ctx, testClient("emp-1", name)))
	}

	for run := 0; run < 3; run++ {
		clients, err := store.ListClientsByEmployee(ctx, "emp-1")
		require.NoError(t, err)
		require.Len(t, clients, len(names))
		for i, name := range names {
			assert.Equal(t, name, clients[i].Name, "run %d, position %d", run, i)
		}
	}
}

func TestDeleteEmployee_CascadesToRoster(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1")

	require.NoError(t, store.CreateClient(ctx, testClient("emp-1", "John Doe")))
	require.NoError(t, store.DeleteEmployee(ctx, "emp-1"))

	clients, err := store.ListClientsByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, clients)
}

// =============================================================================
// DECISIONS
// =============================================================================

func TestSaveDecision_UpsertsOnEmployeeAndTitle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1")

	require.NoError(t, store.SaveDecision(ctx, payroll.MatchDecision{
		EmployeeID: "emp-1",
		EventTitle: "john 10:00",
		ClientName: "John Doe",
		Accepted:   true,
	}))

	// Re-deciding the same title flips the earlier decision in place.
	require.NoError(t, store.SaveDecision(ctx, payroll.MatchDecision{
		EmployeeID: "emp-1",
		EventTitle: "john 10:00",
		Accepted:   false,
	}))

	decisions, err := store.ListDecisionsByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, decisions, 1, "upsert must replace, not append")
	assert.False(t, decisions[0].Accepted)
	assert.False(t, decisions[0].DecidedAt.IsZero())
}

func TestDecisions_ScopedPerEmployee(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1")
	seedEmployee(t, store, "emp-2")

	for _, empID := range []string{"emp-1", "emp-2"} {
		require.NoError(t, store.SaveDecision(ctx, payroll.MatchDecision{
			EmployeeID: empID,
			EventTitle: "john 10:00",
			ClientName: "John Doe",
			Accepted:   true,
		}))
	}

	for _, empID := range []string{"emp-1", "emp-2"} {
		decisions, err := store.ListDecisionsByEmployee(ctx, empID)
		require.NoError(t, err)
		assert.Len(t, decisions, 1)
	}
}

func TestDeleteDecision(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "emp-1")

	require.NoError(t, store.SaveDecision(ctx, payroll.MatchDecision{
		EmployeeID: "emp-1",
		EventTitle: "john 10:00",
		ClientName: "John Doe",
		Accepted:   true,
	}))

	decisions, err := store.ListDecisionsByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, decisions, 1)

	require.NoError(t, store.DeleteDecision(ctx, decisions[0].ID))
	assert.ErrorIs(t, store.DeleteDecision(ctx, decisions[0].ID), payroll.ErrDecisionNotFound)
}

// =============================================================================
// INTEGRATION WITH THE CALCULATOR
// =============================================================================

func TestStore_FeedsCalculation(t *testing.T) {
	// Full round trip: persist roster and decisions, load them back, run a
	// payroll calculation on the snapshots.
	store := newTestStore(t)
	ctx := context.Background()
	emp := seedEmployee(t, store, "emp-1")

	for i, name := range []string{"John Doe", "Jane Roe"} {
		c := testClient("emp-1", name)
		c.ID = fmt.Sprintf("client-%d", i)
		require.NoError(t, store.CreateClient(ctx, c))
	}

	clients, err := store.ListClientsByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	decisions, err := store.ListDecisionsByEmployee(ctx, "emp-1")
	require.NoError(t, err)

	period := payroll.MonthPeriod(2025, 3, nil)
	report, err := payroll.NewCalculator().CalculatePayroll(payroll.CalculationInput{
		Employee:  emp,
		Clients:   clients,
		Period:    period,
		Decisions: decisions,
		Events: []payroll.CalendarEvent{
			{ID: "e1", Title: "John Doe", Start: period.Start.AddDate(0, 0, 1)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalSessions)
	assert.Equal(t, "50.00", report.TotalRevenue.StringFixed(2))
}
