package agency_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/care-engine/agency"
	memstore "github.com/warp/care-engine/agency/store"
	"github.com/warp/care-engine/schedule"
)

// =============================================================================
// TEST FIXTURE
// =============================================================================

// seedOctober2024 sets up the canonical demo month: client c-1 with a
// weekday worker and a festivo worker, and Oct 7 2024 (a Monday) as a
// holiday.
func seedOctober2024(t *testing.T) (*agency.Planner, *memstore.Memory) {
	t.Helper()
	ctx := context.Background()
	mem := memstore.NewMemory()

	require.NoError(t, mem.SaveWorker(ctx, agency.Worker{ID: "w-1", Name: "Lucia", Active: true}))
	require.NoError(t, mem.SaveWorker(ctx, agency.Worker{ID: "w-2", Name: "Marta", Active: true}))
	require.NoError(t, mem.SaveClient(ctx, agency.Client{
		ID: "c-1", Name: "Sr. Ortega", MonthlyHours: decimal.NewFromInt(10), Active: true,
	}))

	weekday := schedule.NewWeeklySchedule()
	weekday.Monday = schedule.DaySchedule{Enabled: true, TimeSlots: []schedule.TimeSlot{{Start: "08:00", End: "11:00"}}}
	require.NoError(t, mem.SaveAssignment(ctx, schedule.Assignment{
		ID: "a-1", WorkerID: "w-1", ClientID: "c-1",
		Type:      schedule.TypeLaborables,
		StartDate: schedule.NewDate(2024, time.January, 1),
		Schedule:  weekday,
		Status:    schedule.StatusActive,
	}))

	festivo := schedule.NewWeeklySchedule()
	festivo.Holiday = schedule.DaySchedule{Enabled: true, TimeSlots: []schedule.TimeSlot{{Start: "09:00", End: "10:00"}}}
	require.NoError(t, mem.SaveAssignment(ctx, schedule.Assignment{
		ID: "a-2", WorkerID: "w-2", ClientID: "c-1",
		Type:      schedule.TypeFestivos,
		StartDate: schedule.NewDate(2024, time.January, 1),
		Schedule:  festivo,
		Status:    schedule.StatusActive,
	}))

	require.NoError(t, mem.SaveHoliday(ctx, schedule.Holiday{
		Date: schedule.NewDate(2024, time.October, 7), Name: "Fiesta local", Scope: "local",
	}))

	planner := &agency.Planner{
		Clients:     mem,
		Workers:     mem,
		Assignments: mem,
		Calendar:    &agency.StoreCalendar{Store: mem},
	}
	return planner, mem
}

// =============================================================================
// CLIENT MONTH
// =============================================================================

func TestClientMonth_EndToEnd(t *testing.T) {
	planner, _ := seedOctober2024(t)

	plan, err := planner.ClientMonth(context.Background(), "c-1", 2024, time.October)
	require.NoError(t, err)

	// Four Mondays from w-1 (3h each) plus the holiday hour from w-2
	require.Len(t, plan.Entries, 5)
	assert.True(t, plan.ScheduledHours.Equal(decimal.NewFromInt(13)))

	// 13 scheduled vs 10 contracted
	assert.True(t, plan.Balance.Equal(decimal.NewFromInt(3)))

	// Entries are merged in date order
	for i := 1; i < len(plan.Entries); i++ {
		assert.False(t, plan.Entries[i].Date.Before(plan.Entries[i-1].Date))
	}

	// The holiday redirected coverage: w-2 gained Oct 7
	require.Len(t, plan.Reassignments, 1)
	assert.Equal(t, schedule.WorkerID("w-2"), plan.Reassignments[0].ActualWorkerID)

	// Per-worker balances, both measured against the client contract
	require.Len(t, plan.Balances, 2)
	assert.Equal(t, schedule.WorkerID("w-1"), plan.Balances[0].WorkerID)
	assert.True(t, plan.Balances[0].ScheduledHours.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, schedule.WorkerID("w-2"), plan.Balances[1].WorkerID)
	assert.True(t, plan.Balances[1].ScheduledHours.Equal(decimal.NewFromInt(1)))

	// The month's holidays ride along for the calendar view
	require.Len(t, plan.Holidays, 1)
	assert.Equal(t, "Fiesta local", plan.Holidays[0].Name)
}

func TestClientMonth_UnknownClient(t *testing.T) {
	planner, _ := seedOctober2024(t)

	_, err := planner.ClientMonth(context.Background(), "c-404", 2024, time.October)
	assert.ErrorIs(t, err, schedule.ErrClientNotFound)
}

func TestClientMonth_CalendarFailureAbortsThePlan(t *testing.T) {
	// GIVEN: a holiday source that is down
	planner, _ := seedOctober2024(t)
	planner.Calendar = &agency.StoreCalendar{Store: failingHolidayStore{}}

	// WHEN/THEN: no plan, and the failure is typed - callers must not
	// render anything as if no holidays existed
	_, err := planner.ClientMonth(context.Background(), "c-1", 2024, time.October)
	assert.ErrorIs(t, err, schedule.ErrHolidayCalendarUnavailable)
}

type failingHolidayStore struct{}

func (failingHolidayStore) SaveHoliday(context.Context, schedule.Holiday) error { return nil }
func (failingHolidayStore) DeleteHoliday(context.Context, schedule.Date) error  { return nil }
func (failingHolidayStore) HolidaysForYear(context.Context, int) ([]schedule.Holiday, error) {
	return nil, errors.New("source timeout")
}

// =============================================================================
// WORKER MONTH
// =============================================================================

func TestForWorker_TotalsAcrossAssignments(t *testing.T) {
	planner, _ := seedOctober2024(t)

	wm, err := planner.ForWorker(context.Background(), "w-1", 2024, time.October)
	require.NoError(t, err)
	assert.Len(t, wm.Entries, 4)
	assert.True(t, wm.TotalHours.Equal(decimal.NewFromInt(12)))

	_, err = planner.ForWorker(context.Background(), "w-404", 2024, time.October)
	assert.ErrorIs(t, err, schedule.ErrWorkerNotFound)
}

// =============================================================================
// NATIONAL DEFAULTS
// =============================================================================

func TestNationalDefaults(t *testing.T) {
	hs := agency.NationalDefaults(2024)
	require.Len(t, hs, 9)
	assert.True(t, hs[0].Date.Equal(schedule.NewDate(2024, time.January, 1)))
	assert.True(t, hs[len(hs)-1].Date.Equal(schedule.NewDate(2024, time.December, 25)))
	for _, h := range hs {
		assert.Equal(t, "national", h.Scope)
		assert.Equal(t, 2024, h.Date.Year())
	}
}
