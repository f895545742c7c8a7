/*
sqlite_test.go - Store tests against an in-memory database

Tests the SQLite store through the same agency.Store surface the
server uses, with a fresh :memory: database per test.
*/
package sqlite

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/care-engine/agency"
	"github.com/warp/care-engine/schedule"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testDate(t *testing.T, s string) schedule.Date {
	t.Helper()
	d, err := schedule.ParseDate(s)
	require.NoError(t, err)
	return d
}

// seedPeople inserts the worker and client the assignment foreign keys
// point at.
func seedPeople(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.SaveWorker(ctx, agency.Worker{ID: "w-1", Name: "Lucia Fernandez", Active: true}))
	require.NoError(t, s.SaveClient(ctx, agency.Client{
		ID:           "c-1",
		Name:         "Sr. Ortega",
		MonthlyHours: decimal.RequireFromString("40.5"),
		Active:       true,
	}))
}

func TestWorkerAndClientRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPeople(t, s)

	wk, err := s.GetWorker(ctx, "w-1")
	require.NoError(t, err)
	assert.Equal(t, "Lucia Fernandez", wk.Name)
	assert.True(t, wk.Active)

	c, err := s.GetClient(ctx, "c-1")
	require.NoError(t, err)
	assert.True(t, c.MonthlyHours.Equal(decimal.RequireFromString("40.5")))

	// Saving again with new values updates, not duplicates
	require.NoError(t, s.SaveWorker(ctx, agency.Worker{ID: "w-1", Name: "Lucia F.", Active: false}))
	wk, err = s.GetWorker(ctx, "w-1")
	require.NoError(t, err)
	assert.Equal(t, "Lucia F.", wk.Name)
	assert.False(t, wk.Active)

	workers, err := s.ListWorkers(ctx)
	require.NoError(t, err)
	assert.Len(t, workers, 1)
}

func TestAssignmentRoundTrip_OpenEnded(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPeople(t, s)

	// GIVEN: an open-ended assignment with Monday and holiday coverage
	ws := schedule.NewWeeklySchedule()
	ws.SetDay(schedule.KeyMonday, schedule.DaySchedule{
		Enabled:   true,
		TimeSlots: []schedule.TimeSlot{{Start: "08:00", End: "11:00"}},
	})
	ws.SetDay(schedule.KeyHoliday, schedule.DaySchedule{
		Enabled:   true,
		TimeSlots: []schedule.TimeSlot{{Start: "09:00", End: "10:00"}},
	})
	in := schedule.Assignment{
		ID:        "a-1",
		WorkerID:  "w-1",
		ClientID:  "c-1",
		Type:      schedule.TypeLaborables,
		StartDate: testDate(t, "2024-01-01"),
		Schedule:  ws,
		Status:    schedule.StatusActive,
	}
	require.NoError(t, s.SaveAssignment(ctx, in))

	// WHEN: loading it back
	out, err := s.GetAssignment(ctx, "a-1")
	require.NoError(t, err)

	// THEN: window, status and the schedule JSON survive the round trip
	assert.Equal(t, in.WorkerID, out.WorkerID)
	assert.Equal(t, in.Type, out.Type)
	assert.Equal(t, schedule.StatusActive, out.Status)
	assert.True(t, in.StartDate.Equal(out.StartDate))
	assert.Nil(t, out.EndDate)

	monday := out.Schedule.Day(schedule.KeyMonday)
	require.True(t, monday.Enabled)
	require.Len(t, monday.TimeSlots, 1)
	assert.Equal(t, "08:00", monday.TimeSlots[0].Start)
	assert.True(t, out.Schedule.Day(schedule.KeyHoliday).Enabled)
	assert.False(t, out.Schedule.Day(schedule.KeyTuesday).Enabled)
}

func TestAssignmentRoundTrip_EndDate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPeople(t, s)

	end := testDate(t, "2024-06-30")
	in := schedule.Assignment{
		ID:        "a-2",
		WorkerID:  "w-1",
		ClientID:  "c-1",
		Type:      schedule.TypeFlexible,
		StartDate: testDate(t, "2024-01-01"),
		EndDate:   &end,
		Schedule:  schedule.NewWeeklySchedule(),
		Status:    schedule.StatusPaused,
	}
	require.NoError(t, s.SaveAssignment(ctx, in))

	out, err := s.GetAssignment(ctx, "a-2")
	require.NoError(t, err)
	require.NotNil(t, out.EndDate)
	assert.True(t, end.Equal(*out.EndDate))
	assert.Equal(t, schedule.StatusPaused, out.Status)

	// Clearing the end date persists as NULL
	in.EndDate = nil
	require.NoError(t, s.SaveAssignment(ctx, in))
	out, err = s.GetAssignment(ctx, "a-2")
	require.NoError(t, err)
	assert.Nil(t, out.EndDate)
}

func TestGetAssignment_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetAssignment(context.Background(), "a-missing")
	assert.ErrorIs(t, err, schedule.ErrAssignmentNotFound)
}

func TestAssignmentsForClient_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPeople(t, s)
	require.NoError(t, s.SaveClient(ctx, agency.Client{ID: "c-2", Name: "Sra. Blanco", MonthlyHours: decimal.NewFromInt(20), Active: true}))

	for _, a := range []schedule.Assignment{
		{ID: "a-1", WorkerID: "w-1", ClientID: "c-1", Type: schedule.TypeFlexible, StartDate: testDate(t, "2024-01-01"), Schedule: schedule.NewWeeklySchedule(), Status: schedule.StatusActive},
		{ID: "a-2", WorkerID: "w-1", ClientID: "c-2", Type: schedule.TypeFlexible, StartDate: testDate(t, "2024-01-01"), Schedule: schedule.NewWeeklySchedule(), Status: schedule.StatusActive},
	} {
		require.NoError(t, s.SaveAssignment(ctx, a))
	}

	forClient, err := s.AssignmentsForClient(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, forClient, 1)
	assert.Equal(t, schedule.AssignmentID("a-1"), forClient[0].ID)

	forWorker, err := s.AssignmentsForWorker(ctx, "w-1")
	require.NoError(t, err)
	assert.Len(t, forWorker, 2)
}

func TestHolidaysForYear_FiltersByYear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, h := range []schedule.Holiday{
		{Date: testDate(t, "2024-10-07"), Name: "Fiesta local", Scope: "local"},
		{Date: testDate(t, "2024-12-25"), Name: "Navidad", Scope: "national"},
		{Date: testDate(t, "2025-01-01"), Name: "Año Nuevo", Scope: "national"},
	} {
		require.NoError(t, s.SaveHoliday(ctx, h))
	}

	got, err := s.HolidaysForYear(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Ordered by date
	assert.Equal(t, "Fiesta local", got[0].Name)
	assert.Equal(t, "Navidad", got[1].Name)

	got, err = s.HolidaysForYear(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Año Nuevo", got[0].Name)

	// Saving the same date again overwrites
	require.NoError(t, s.SaveHoliday(ctx, schedule.Holiday{Date: testDate(t, "2024-10-07"), Name: "Fiesta mayor", Scope: "local"}))
	got, err = s.HolidaysForYear(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Fiesta mayor", got[0].Name)

	require.NoError(t, s.DeleteHoliday(ctx, testDate(t, "2024-10-07")))
	got, err = s.HolidaysForYear(ctx, 2024)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestBalanceSnapshot_Upserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := schedule.MonthlyBalance{
		WorkerID:        "w-1",
		ClientID:        "c-1",
		Year:            2024,
		Month:           10,
		ContractedHours: decimal.NewFromInt(40),
		ScheduledHours:  decimal.NewFromInt(38),
		Balance:         decimal.NewFromInt(-2),
	}
	require.NoError(t, s.SaveBalanceSnapshot(ctx, b))

	// Re-running the snapshot job overwrites the same (worker, client,
	// year, month) row instead of accumulating duplicates
	b.ScheduledHours = decimal.NewFromInt(41)
	b.Balance = decimal.NewFromInt(1)
	require.NoError(t, s.SaveBalanceSnapshot(ctx, b))

	var count int
	var scheduled string
	require.NoError(t, s.db.QueryRow(
		`SELECT COUNT(*), MAX(scheduled_hours) FROM balance_snapshots WHERE worker_id = 'w-1' AND client_id = 'c-1'`).
		Scan(&count, &scheduled))
	assert.Equal(t, 1, count)
	assert.Equal(t, "41", scheduled)
}

func TestReassignmentSnapshot_Upserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := schedule.ReassignmentRecord{
		Date:             testDate(t, "2024-10-07"),
		ClientID:         "c-1",
		ExpectedWorkerID: schedule.NoWorker,
		ActualWorkerID:   "w-2",
		Reason:           schedule.ReasonHolidayAddedCoverage,
	}
	require.NoError(t, s.SaveReassignmentSnapshot(ctx, r))
	require.NoError(t, s.SaveReassignmentSnapshot(ctx, r))

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM reassignment_snapshots`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestReset_ClearsEverything(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPeople(t, s)
	require.NoError(t, s.SaveHoliday(ctx, schedule.Holiday{Date: testDate(t, "2024-10-07"), Name: "Fiesta local", Scope: "local"}))

	require.NoError(t, s.Reset(ctx))

	workers, err := s.ListWorkers(ctx)
	require.NoError(t, err)
	assert.Empty(t, workers)
	holidays, err := s.HolidaysForYear(ctx, 2024)
	require.NoError(t, err)
	assert.Empty(t, holidays)
}
