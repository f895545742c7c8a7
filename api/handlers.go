/*
handlers.go - HTTP API handlers for the care scheduling engine

PURPOSE:
  Exposes resolution, reassignment detection and balance computation
  via REST. Handles HTTP request/response, JSON serialization, and
  delegates everything else to the schedule and agency packages.

ENDPOINTS:
  Workers:
    GET    /api/workers                    List all workers
    POST   /api/workers                    Create worker
    GET    /api/workers/{id}               Get worker details
    GET    /api/workers/{id}/month/{ym}    Worker's resolved month

  Clients:
    GET    /api/clients                    List all clients
    POST   /api/clients                    Create client
    GET    /api/clients/{id}               Get client details
    GET    /api/clients/{id}/plan/{ym}     Full monthly plan (entries,
                                           reassignments, balances)

  Assignments:
    GET    /api/assignments                List all assignments
    POST   /api/assignments                Create assignment
    GET    /api/assignments/{id}           Get assignment
    PUT    /api/assignments/{id}/schedule  Replace weekly schedule
    PUT    /api/assignments/{id}/status    Lifecycle transition
    PUT    /api/assignments/{id}/worker    Reassign to another worker

  Holidays:
    GET    /api/holidays/{year}            Calendar for a year
    POST   /api/holidays                   Add a holiday
    DELETE /api/holidays/{date}            Remove a holiday
    POST   /api/holidays/{year}/defaults   Seed national defaults

  Scenarios:
    GET    /api/scenarios                  List demo scenarios
    POST   /api/scenarios/load             Load a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, bad status transitions
  - 404: Record not found
  - 503: Holiday calendar unavailable (plans are never computed
         against an assumed-empty calendar)
  - 500: Everything else

SECURITY NOTE:
  No authentication or authorization. Intended to run behind an
  agency-internal gateway.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/care-engine/agency"
	"github.com/warp/care-engine/factory"
	"github.com/warp/care-engine/schedule"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    agency.Store
	Planner  *agency.Planner
	validate *validator.Validate

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler bound to the given store.
func NewHandler(store agency.Store) *Handler {
	return &Handler{
		Store: store,
		Planner: &agency.Planner{
			Clients:     store,
			Workers:     store,
			Assignments: store,
			Calendar:    &agency.StoreCalendar{Store: store},
		},
		validate: validator.New(),
	}
}

func (h *Handler) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return h.validate.Struct(dst)
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

// ListWorkers returns all workers.
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.Store.ListWorkers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list workers", err)
		return
	}

	dtos := make([]WorkerDTO, len(workers))
	for i, wk := range workers {
		dtos[i] = toWorkerDTO(wk)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetWorker returns a single worker.
func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	id := schedule.WorkerID(chi.URLParam(r, "id"))

	wk, err := h.Store.GetWorker(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get worker", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkerDTO(wk))
}

// CreateWorker creates a new worker.
func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkerRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid worker payload", err)
		return
	}

	if req.ID == "" {
		req.ID = "w-" + uuid.NewString()
	}
	wk := agency.Worker{
		ID:     schedule.WorkerID(req.ID),
		Name:   req.Name,
		Email:  req.Email,
		Active: true,
	}
	if err := h.Store.SaveWorker(r.Context(), wk); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create worker", err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkerDTO(wk))
}

// GetWorkerMonth returns a worker's resolved calendar for one month.
// GET /api/workers/{id}/month/{ym} where ym is "2006-01".
func (h *Handler) GetWorkerMonth(w http.ResponseWriter, r *http.Request) {
	id := schedule.WorkerID(chi.URLParam(r, "id"))
	year, month, err := parseYearMonth(chi.URLParam(r, "ym"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
		return
	}

	wm, err := h.Planner.ForWorker(r.Context(), id, year, month)
	if err != nil {
		writeDomainError(w, "Failed to resolve worker month", err)
		return
	}

	dto := WorkerMonthDTO{
		WorkerID:   string(wm.WorkerID),
		Year:       wm.Year,
		Month:      int(wm.Month),
		Entries:    []DayEntryDTO{},
		Anomalies:  []AnomalyDTO{},
		TotalHours: wm.TotalHours.InexactFloat64(),
	}
	for _, e := range wm.Entries {
		dto.Entries = append(dto.Entries, toEntryDTO(e))
	}
	for _, a := range wm.Anomalies {
		dto.Anomalies = append(dto.Anomalies, toAnomalyDTO(a))
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

// ListClients returns all clients.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.ListClients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list clients", err)
		return
	}

	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = toClientDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetClient returns a single client.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id := schedule.ClientID(chi.URLParam(r, "id"))

	c, err := h.Store.GetClient(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get client", err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(c))
}

// CreateClient creates a new client.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid client payload", err)
		return
	}

	if req.ID == "" {
		req.ID = "c-" + uuid.NewString()
	}
	c := agency.Client{
		ID:           schedule.ClientID(req.ID),
		Name:         req.Name,
		MonthlyHours: decimal.NewFromFloat(req.MonthlyHours),
		Active:       true,
	}
	if err := h.Store.SaveClient(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create client", err)
		return
	}
	writeJSON(w, http.StatusCreated, toClientDTO(c))
}

// GetClientPlan returns the full monthly plan for a client.
// GET /api/clients/{id}/plan/{ym} where ym is "2006-01".
func (h *Handler) GetClientPlan(w http.ResponseWriter, r *http.Request) {
	id := schedule.ClientID(chi.URLParam(r, "id"))
	year, month, err := parseYearMonth(chi.URLParam(r, "ym"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
		return
	}

	plan, err := h.Planner.ClientMonth(r.Context(), id, year, month)
	if err != nil {
		writeDomainError(w, "Failed to build monthly plan", err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(plan))
}

// =============================================================================
// ASSIGNMENT HANDLERS
// =============================================================================

// ListAssignments returns all assignments.
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.Store.ListAssignments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assignments", err)
		return
	}

	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = toAssignmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAssignment returns a single assignment.
func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id := schedule.AssignmentID(chi.URLParam(r, "id"))

	a, err := h.Store.GetAssignment(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get assignment", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(a))
}

// CreateAssignment creates a new assignment. The worker and client must
// already exist; the schedule defaults from the assignment type when
// the request omits it.
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req CreateAssignmentRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignment payload", err)
		return
	}

	ctx := r.Context()
	if _, err := h.Store.GetWorker(ctx, schedule.WorkerID(req.WorkerID)); err != nil {
		writeDomainError(w, "Unknown worker", err)
		return
	}
	if _, err := h.Store.GetClient(ctx, schedule.ClientID(req.ClientID)); err != nil {
		writeDomainError(w, "Unknown client", err)
		return
	}

	start, err := schedule.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}
	var end *schedule.Date
	if req.EndDate != "" {
		d, err := schedule.ParseDate(req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date (use YYYY-MM-DD)", err)
			return
		}
		end = &d
	}

	a := schedule.Assignment{
		ID:        schedule.AssignmentID("a-" + uuid.NewString()),
		WorkerID:  schedule.WorkerID(req.WorkerID),
		ClientID:  schedule.ClientID(req.ClientID),
		Type:      schedule.AssignmentType(req.Type),
		StartDate: start,
		EndDate:   end,
		Status:    schedule.StatusActive,
	}

	var repairs []schedule.Anomaly
	if req.Schedule != nil {
		ws, anomalies, err := factory.FromJSON(*req.Schedule)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid schedule", err)
			return
		}
		a.Schedule = ws
		repairs = anomalies
	} else {
		a.Schedule = factory.DefaultSchedule(a.Type)
	}

	if err := h.Store.SaveAssignment(ctx, a); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create assignment", err)
		return
	}
	writeJSON(w, http.StatusCreated, assignmentWithRepairs(a, repairs))
}

// assignmentWithRepairs attaches schedule repairs performed while
// parsing the request, so callers see which day keys were defaulted.
func assignmentWithRepairs(a schedule.Assignment, repairs []schedule.Anomaly) AssignmentDTO {
	dto := toAssignmentDTO(a)
	for _, an := range repairs {
		an.AssignmentID = a.ID
		dto.Anomalies = append(dto.Anomalies, toAnomalyDTO(an))
	}
	return dto
}

// UpdateAssignmentSchedule replaces an assignment's weekly schedule.
func (h *Handler) UpdateAssignmentSchedule(w http.ResponseWriter, r *http.Request) {
	id := schedule.AssignmentID(chi.URLParam(r, "id"))

	var req UpdateScheduleRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid schedule payload", err)
		return
	}

	a, err := h.Store.GetAssignment(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get assignment", err)
		return
	}

	ws, repairs, err := factory.FromJSON(req.Schedule)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid schedule", err)
		return
	}
	a.Schedule = ws

	if err := h.Store.SaveAssignment(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assignment", err)
		return
	}
	writeJSON(w, http.StatusOK, assignmentWithRepairs(a, repairs))
}

// UpdateAssignmentStatus applies a lifecycle transition.
func (h *Handler) UpdateAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	id := schedule.AssignmentID(chi.URLParam(r, "id"))

	var req UpdateStatusRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid status payload", err)
		return
	}

	a, err := h.Store.GetAssignment(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get assignment", err)
		return
	}

	if err := a.TransitionTo(schedule.AssignmentStatus(req.Status)); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid status transition", err)
		return
	}

	if err := h.Store.SaveAssignment(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assignment", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(a))
}

// ReassignWorker moves an assignment to another worker. Future months
// resolve under the new worker; snapshots of past months are untouched.
func (h *Handler) ReassignWorker(w http.ResponseWriter, r *http.Request) {
	id := schedule.AssignmentID(chi.URLParam(r, "id"))

	var req ReassignWorkerRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid worker payload", err)
		return
	}

	ctx := r.Context()
	if _, err := h.Store.GetWorker(ctx, schedule.WorkerID(req.WorkerID)); err != nil {
		writeDomainError(w, "Unknown worker", err)
		return
	}

	a, err := h.Store.GetAssignment(ctx, id)
	if err != nil {
		writeDomainError(w, "Failed to get assignment", err)
		return
	}
	a.WorkerID = schedule.WorkerID(req.WorkerID)

	if err := h.Store.SaveAssignment(ctx, a); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assignment", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(a))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns the calendar for a year.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	holidays, err := h.Store.HolidaysForYear(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	set := schedule.NewHolidaySet(holidays)
	dtos := make([]HolidayDTO, 0, set.Len())
	for _, hol := range set.List() {
		dtos = append(dtos, toHolidayDTO(hol))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds one holiday to the calendar.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid holiday payload", err)
		return
	}

	d, err := schedule.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	scope := req.Scope
	if scope == "" {
		scope = "local"
	}

	hol := schedule.Holiday{Date: d, Name: req.Name, Scope: scope}
	if err := h.Store.SaveHoliday(r.Context(), hol); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTO(hol))
}

// DeleteHoliday removes one holiday from the calendar.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	d, err := schedule.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Store.DeleteHoliday(r.Context(), d); err != nil {
		writeDomainError(w, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SeedNationalHolidays loads the fixed national calendar for a year.
// Existing entries on the same dates are overwritten.
func (h *Handler) SeedNationalHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	seeded := agency.NationalDefaults(year)
	for _, hol := range seeded {
		if err := h.Store.SaveHoliday(r.Context(), hol); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to seed holidays", err)
			return
		}
	}

	dtos := make([]HolidayDTO, len(seeded))
	for i, hol := range seeded {
		dtos[i] = toHolidayDTO(hol)
	}
	writeJSON(w, http.StatusCreated, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

// parseYearMonth parses "2006-01" path segments.
func parseYearMonth(ym string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", ym)
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}

// writeDomainError maps domain errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case schedule.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, schedule.ErrHolidayCalendarUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Holiday calendar unavailable", err)
	case schedule.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
