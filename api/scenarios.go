/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Pre-built scenarios that populate the store with realistic agency
	data. Each scenario creates workers, clients, assignments and a
	holiday calendar that demonstrates a specific engine behaviour.

AVAILABLE SCENARIOS:

	october-holiday:   Weekday coverage plus a festivo assignment and a
	                   Monday local holiday, showing the override and
	                   the detected reassignment
	weekend-immunity:  Holiday falling on a Saturday, showing that
	                   weekend days never take the holiday override
	paused-assignment: A paused assignment dropping out of resolution
	                   mid-relationship

HOW SCENARIOS WORK:
 1. Reset the store (clear all data)
 2. Create workers and clients
 3. Create assignments with weekly schedules
 4. Seed the holiday calendar

USAGE VIA API:

	POST /api/scenarios/load
	{"id": "october-holiday"}

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Shared helpers
  - agency/holidays.go: National holiday defaults
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/warp/care-engine/agency"
	"github.com/warp/care-engine/factory"
	"github.com/warp/care-engine/schedule"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "october-holiday",
		Name:        "October Local Holiday",
		Description: "Weekday + festivo assignments with a Monday local holiday: override, reassignment and balance in one month",
	},
	{
		ID:          "weekend-immunity",
		Name:        "Weekend Holiday",
		Description: "A national holiday on a Saturday: weekend days keep their weekday key",
	},
	{
		ID:          "paused-assignment",
		Name:        "Paused Assignment",
		Description: "An assignment paused mid-relationship drops out of resolution without losing its record",
	},
}

// resetter is implemented by stores that can wipe themselves for demos.
type resetter interface {
	Reset(ctx context.Context) error
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:   h.currentScenario,
		Name: h.currentScenario,
	})
}

// LoadScenario resets the store and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	rs, ok := h.Store.(resetter)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Store does not support reset", nil)
		return
	}
	if err := rs.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ID {
	case "october-holiday":
		err = h.loadOctoberHolidayScenario(ctx)
	case "weekend-immunity":
		err = h.loadWeekendImmunityScenario(ctx)
	case "paused-assignment":
		err = h.loadPausedAssignmentScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// loadOctoberHolidayScenario builds the canonical demo month: Lucia
// covers Mondays and Wednesdays, Marta covers festivos, and the local
// fiesta on Monday 2024-10-07 moves that day from one to the other.
func (h *Handler) loadOctoberHolidayScenario(ctx context.Context) error {
	lucia := agency.Worker{ID: "w-lucia", Name: "Lucia Fernandez", Email: "lucia@example.com", Active: true}
	marta := agency.Worker{ID: "w-marta", Name: "Marta Ruiz", Email: "marta@example.com", Active: true}
	for _, wk := range []agency.Worker{lucia, marta} {
		if err := h.Store.SaveWorker(ctx, wk); err != nil {
			return err
		}
	}

	client := agency.Client{
		ID:           "c-ortega",
		Name:         "Sr. Ortega",
		MonthlyHours: decimal.NewFromInt(40),
		Active:       true,
	}
	if err := h.Store.SaveClient(ctx, client); err != nil {
		return err
	}

	weekday := schedule.NewWeeklySchedule()
	weekday.SetDay(schedule.KeyMonday, workingDay("08:00", "11:00"))
	weekday.SetDay(schedule.KeyWednesday, workingDay("08:00", "11:00"))

	festivo := schedule.NewWeeklySchedule()
	festivo.SetDay(schedule.KeyHoliday, workingDay("09:00", "11:00"))

	assignments := []schedule.Assignment{
		{
			ID:        "a-weekday",
			WorkerID:  lucia.ID,
			ClientID:  client.ID,
			Type:      schedule.TypeLaborables,
			StartDate: mustDate("2024-01-01"),
			Schedule:  weekday,
			Status:    schedule.StatusActive,
		},
		{
			ID:        "a-festivo",
			WorkerID:  marta.ID,
			ClientID:  client.ID,
			Type:      schedule.TypeFestivos,
			StartDate: mustDate("2024-01-01"),
			Schedule:  festivo,
			Status:    schedule.StatusActive,
		},
	}
	for _, a := range assignments {
		if err := h.Store.SaveAssignment(ctx, a); err != nil {
			return err
		}
	}

	for _, hol := range agency.NationalDefaults(2024) {
		if err := h.Store.SaveHoliday(ctx, hol); err != nil {
			return err
		}
	}
	return h.Store.SaveHoliday(ctx, schedule.Holiday{
		Date:  mustDate("2024-10-07"),
		Name:  "Fiesta local",
		Scope: "local",
	})
}

// loadWeekendImmunityScenario: the 2024 national calendar already has
// Fiesta Nacional on Saturday 2024-10-12; a Saturday slot keeps its
// Saturday key on that date.
func (h *Handler) loadWeekendImmunityScenario(ctx context.Context) error {
	worker := agency.Worker{ID: "w-carmen", Name: "Carmen Vidal", Active: true}
	if err := h.Store.SaveWorker(ctx, worker); err != nil {
		return err
	}

	client := agency.Client{
		ID:           "c-blanco",
		Name:         "Sra. Blanco",
		MonthlyHours: decimal.NewFromInt(20),
		Active:       true,
	}
	if err := h.Store.SaveClient(ctx, client); err != nil {
		return err
	}

	ws := schedule.NewWeeklySchedule()
	ws.SetDay(schedule.KeySaturday, workingDay("10:00", "14:00"))
	ws.SetDay(schedule.KeyHoliday, workingDay("10:00", "12:00"))

	a := schedule.Assignment{
		ID:        "a-weekend",
		WorkerID:  worker.ID,
		ClientID:  client.ID,
		Type:      schedule.TypeFlexible,
		StartDate: mustDate("2024-01-01"),
		Schedule:  ws,
		Status:    schedule.StatusActive,
	}
	if err := h.Store.SaveAssignment(ctx, a); err != nil {
		return err
	}

	for _, hol := range agency.NationalDefaults(2024) {
		if err := h.Store.SaveHoliday(ctx, hol); err != nil {
			return err
		}
	}
	return nil
}

// loadPausedAssignmentScenario: two assignments for the same client,
// one active and one paused. Only the active one resolves.
func (h *Handler) loadPausedAssignmentScenario(ctx context.Context) error {
	ana := agency.Worker{ID: "w-ana", Name: "Ana Soler", Active: true}
	ines := agency.Worker{ID: "w-ines", Name: "Ines Prat", Active: true}
	for _, wk := range []agency.Worker{ana, ines} {
		if err := h.Store.SaveWorker(ctx, wk); err != nil {
			return err
		}
	}

	client := agency.Client{
		ID:           "c-duran",
		Name:         "Sr. Duran",
		MonthlyHours: decimal.NewFromInt(30),
		Active:       true,
	}
	if err := h.Store.SaveClient(ctx, client); err != nil {
		return err
	}

	active := schedule.Assignment{
		ID:        "a-active",
		WorkerID:  ana.ID,
		ClientID:  client.ID,
		Type:      schedule.TypeLaborables,
		StartDate: mustDate("2024-01-01"),
		Schedule:  factory.DefaultSchedule(schedule.TypeLaborables),
		Status:    schedule.StatusActive,
	}
	paused := schedule.Assignment{
		ID:        "a-paused",
		WorkerID:  ines.ID,
		ClientID:  client.ID,
		Type:      schedule.TypeLaborables,
		StartDate: mustDate("2024-01-01"),
		Schedule:  factory.DefaultSchedule(schedule.TypeLaborables),
		Status:    schedule.StatusPaused,
	}
	for _, a := range []schedule.Assignment{active, paused} {
		if err := h.Store.SaveAssignment(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SCENARIO HELPERS
// =============================================================================

func workingDay(start, end string) schedule.DaySchedule {
	return schedule.DaySchedule{
		Enabled:   true,
		TimeSlots: []schedule.TimeSlot{{Start: start, End: end}},
	}
}

func mustDate(s string) schedule.Date {
	d, err := schedule.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
