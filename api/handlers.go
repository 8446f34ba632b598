/*
handlers.go - HTTP API handlers for the payroll system

PURPOSE:
  Exposes employee/client management, payroll calculation and the
  uncertain-match confirmation workflow over REST. Handlers parse and
  validate, delegate to the payroll core and the store, and serialize.

ENDPOINTS:
  Employees:
    GET    /api/employees                    List employees
    POST   /api/employees                    Create employee
    GET    /api/employees/{id}               Get employee
    PUT    /api/employees/{id}               Update employee
    DELETE /api/employees/{id}               Delete employee (cascades roster)

  Clients:
    GET    /api/employees/{id}/clients       List roster (creation order)
    POST   /api/employees/{id}/clients       Add client (price split validated)
    GET    /api/clients/{id}                 Get client
    PUT    /api/clients/{id}                 Update client
    DELETE /api/clients/{id}                 Delete client

  Payroll:
    POST   /api/employees/{id}/payroll       Calculate report (JSON)
    POST   /api/employees/{id}/payroll/csv   Calculate and export as CSV

  Match decisions:
    GET    /api/employees/{id}/decisions     List stored decisions
    POST   /api/employees/{id}/matches/confirm  Confirm an uncertain match
    POST   /api/employees/{id}/matches/reject   Reject an uncertain match
    DELETE /api/decisions/{id}               Remove a decision

CONFIRMATION LOOP:
  Confirm/reject only persists a decision; clients re-run the payroll
  endpoint afterwards and the engine reclassifies the affected events.

ERROR HANDLING:
  Errors map to status via the payroll error helpers:
  - 400: IsClientError (bad split, inverted period, duplicate, parse)
  - 404: IsNotFound
  - 503: no calendar source configured
  - 500: everything else

SEE ALSO:
  - dto.go: Request/response structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fkanellos/PayrollDesktop-sub001/export"
	"github.com/fkanellos/PayrollDesktop-sub001/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    payroll.Store
	Calendar payroll.CalendarSource
	Calc     *payroll.Calculator
}

// NewHandler creates a handler. calendar may be nil; payroll endpoints then
// respond 503 until a source is configured.
func NewHandler(store payroll.Store, calendar payroll.CalendarSource) *Handler {
	return &Handler{
		Store:    store,
		Calendar: calendar,
		Calc:     payroll.NewCalculator(),
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, employeeDTO(e))
	}
	h.writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}
	e, err := req.toDomain()
	if err != nil {
		h.writeBadRequest(w, err)
		return
	}
	if e.Name == "" {
		h.writeBadRequest(w, fmt.Errorf("name is required"))
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := h.Store.CreateEmployee(r.Context(), e); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, employeeDTO(e))
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, employeeDTO(e))
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}
	e, err := req.toDomain()
	if err != nil {
		h.writeBadRequest(w, err)
		return
	}
	e.ID = chi.URLParam(r, "id")
	if err := h.Store.UpdateEmployee(r.Context(), e); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, employeeDTO(e))
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	if _, err := h.Store.GetEmployee(r.Context(), employeeID); err != nil {
		h.writeError(w, err)
		return
	}
	clients, err := h.Store.ListClientsByEmployee(r.Context(), employeeID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	dtos := make([]ClientDTO, 0, len(clients))
	for _, c := range clients {
		dtos = append(dtos, clientDTO(c))
	}
	h.writeJSON(w, http.StatusOK, dtos)
}

// CreateClient adds a roster entry. This is also the endpoint behind the
// "add client from unmatched event" workflow: the UI posts the event title
// as the client name, and the next payroll run matches it.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	if _, err := h.Store.GetEmployee(r.Context(), employeeID); err != nil {
		h.writeError(w, err)
		return
	}

	var req ClientRequest
	if !h.decode(w, r, &req) {
		return
	}
	c, err := req.toDomain(employeeID)
	if err != nil {
		h.writeBadRequest(w, err)
		return
	}
	if c.Name == "" {
		h.writeBadRequest(w, fmt.Errorf("name is required"))
		return
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := h.Store.CreateClient(r.Context(), c); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, clientDTO(c))
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.Store.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, clientDTO(c))
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetClient(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req ClientRequest
	if !h.decode(w, r, &req) {
		return
	}
	c, err := req.toDomain(existing.EmployeeID)
	if err != nil {
		h.writeBadRequest(w, err)
		return
	}
	c.ID = id
	if err := h.Store.UpdateClient(r.Context(), c); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, clientDTO(c))
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteClient(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

func (h *Handler) CalculatePayroll(w http.ResponseWriter, r *http.Request) {
	report, err := h.runPayroll(w, r)
	if err != nil || report == nil {
		return
	}
	h.writeJSON(w, http.StatusOK, reportDTO(report))
}

func (h *Handler) ExportPayrollCSV(w http.ResponseWriter, r *http.Request) {
	report, err := h.runPayroll(w, r)
	if err != nil || report == nil {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "payroll-"+report.EmployeeID+".csv"))
	if err := export.WriteCSV(w, report); err != nil {
		// Headers are out; nothing useful left to send.
		return
	}
}

// runPayroll loads the snapshot (employee, roster, decisions, events) and
// runs the calculation engine. Writes the error response itself so both
// payroll endpoints share one path.
func (h *Handler) runPayroll(w http.ResponseWriter, r *http.Request) (*payroll.PayrollReport, error) {
	fail := func(err error) (*payroll.PayrollReport, error) {
		h.writeError(w, err)
		return nil, err
	}

	var req PayrollRequest
	if !h.decode(w, r, &req) {
		return nil, fmt.Errorf("bad request")
	}
	period, err := parsePeriod(req)
	if err != nil {
		h.writeBadRequest(w, err)
		return nil, err
	}

	ctx := r.Context()
	employee, err := h.Store.GetEmployee(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return fail(err)
	}
	clients, err := h.Store.ListClientsByEmployee(ctx, employee.ID)
	if err != nil {
		return fail(err)
	}
	decisions, err := h.Store.ListDecisionsByEmployee(ctx, employee.ID)
	if err != nil {
		return fail(err)
	}

	if h.Calendar == nil {
		return fail(payroll.ErrNoCalendarSource)
	}
	events, err := h.Calendar.Events(ctx, employee.CalendarID, period)
	if err != nil {
		return fail(fmt.Errorf("fetching events: %w", err))
	}

	report, err := h.Calc.CalculatePayroll(payroll.CalculationInput{
		Employee:    employee,
		Clients:     clients,
		Events:      events,
		Period:      period,
		Supervision: payroll.SupervisionFor(employee),
		Decisions:   decisions,
	})
	if err != nil {
		return fail(err)
	}
	return report, nil
}

// =============================================================================
// MATCH DECISION HANDLERS
// =============================================================================

func (h *Handler) ConfirmMatch(w http.ResponseWriter, r *http.Request) {
	h.saveDecision(w, r, true)
}

func (h *Handler) RejectMatch(w http.ResponseWriter, r *http.Request) {
	h.saveDecision(w, r, false)
}

func (h *Handler) saveDecision(w http.ResponseWriter, r *http.Request, accepted bool) {
	employeeID := chi.URLParam(r, "id")
	if _, err := h.Store.GetEmployee(r.Context(), employeeID); err != nil {
		h.writeError(w, err)
		return
	}

	var req DecisionRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.EventTitle == "" {
		h.writeBadRequest(w, fmt.Errorf("event_title is required"))
		return
	}
	if accepted && req.ClientName == "" {
		h.writeBadRequest(w, fmt.Errorf("client_name is required to confirm a match"))
		return
	}

	d := payroll.MatchDecision{
		EmployeeID: employeeID,
		EventTitle: req.EventTitle,
		ClientName: req.ClientName,
		Accepted:   accepted,
	}
	if err := h.Store.SaveDecision(r.Context(), d); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListDecisions(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	if _, err := h.Store.GetEmployee(r.Context(), employeeID); err != nil {
		h.writeError(w, err)
		return
	}
	decisions, err := h.Store.ListDecisionsByEmployee(r.Context(), employeeID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	dtos := make([]DecisionDTO, 0, len(decisions))
	for _, d := range decisions {
		dtos = append(dtos, decisionDTO(d))
	}
	h.writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) DeleteDecision(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteDecision(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeBadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeBadRequest(w http.ResponseWriter, err error) {
	h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case payroll.IsNotFound(err):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case payroll.IsClientError(err):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, payroll.ErrNoCalendarSource):
		h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}
