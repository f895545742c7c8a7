package schedule_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/care-engine/schedule"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) schedule.Date {
	return schedule.NewDate(year, month, day)
}

func slot(start, end string) schedule.TimeSlot {
	return schedule.TimeSlot{Start: start, End: end}
}

func enabledDay(slots ...schedule.TimeSlot) schedule.DaySchedule {
	return schedule.DaySchedule{Enabled: true, TimeSlots: slots}
}

func holidaysOn(dates ...schedule.Date) schedule.HolidaySet {
	hs := make([]schedule.Holiday, len(dates))
	for i, d := range dates {
		hs[i] = schedule.Holiday{Date: d, Name: "synthetic", Scope: "national"}
	}
	return schedule.NewHolidaySet(hs)
}

// mondayAssignment covers Mondays 08:00-11:00 starting 2024-01-01,
// open-ended, holiday schedule disabled.
func mondayAssignment() schedule.Assignment {
	ws := schedule.NewWeeklySchedule()
	ws.Monday = enabledDay(slot("08:00", "11:00"))
	return schedule.Assignment{
		ID:        "a-1",
		WorkerID:  "w-1",
		ClientID:  "c-1",
		Type:      schedule.TypeLaborables,
		StartDate: date(2024, time.January, 1),
		Schedule:  ws,
		Status:    schedule.StatusActive,
	}
}

func hoursOf(res schedule.Resolution, d schedule.Date) decimal.Decimal {
	for _, e := range res.Entries {
		if e.Date.Equal(d) {
			return e.Hours
		}
	}
	return decimal.NewFromInt(-1)
}

// =============================================================================
// MONTH EXPANSION
// =============================================================================

func TestResolveMonth_MondayPattern_NoOverride(t *testing.T) {
	// GIVEN: Mondays 08:00-11:00, holiday schedule disabled
	// WHEN: resolving October 2024 with a synthetic Monday holiday (Oct 7)
	// THEN: every Monday emits 3 hours, including the holiday - no
	//       override can fire when the holiday schedule is disabled
	a := mondayAssignment()
	holidays := holidaysOn(date(2024, time.October, 7))

	res := schedule.ResolveMonth(a, 2024, time.October, holidays)

	require.Len(t, res.Entries, 4) // Oct 7, 14, 21, 28
	for _, e := range res.Entries {
		assert.Equal(t, time.Monday, e.Date.Weekday())
		assert.Equal(t, schedule.KeyMonday, e.EffectiveKey)
		assert.True(t, decimal.NewFromInt(3).Equal(e.Hours), "entry %s: got %s", e.Date, e.Hours)
	}
	assert.True(t, hoursOf(res, date(2024, time.October, 7)).Equal(decimal.NewFromInt(3)))
}

func TestResolveMonth_HolidayOverrideTakesPrecedence(t *testing.T) {
	// GIVEN: same Monday assignment, but holiday schedule enabled 09:00-10:00
	// WHEN: resolving October 2024 with Oct 7 as a holiday
	// THEN: Oct 7 uses the holiday slots (1h), other Mondays keep 3h
	a := mondayAssignment()
	a.Schedule.Holiday = enabledDay(slot("09:00", "10:00"))
	holidays := holidaysOn(date(2024, time.October, 7))

	res := schedule.ResolveMonth(a, 2024, time.October, holidays)

	require.Len(t, res.Entries, 4)
	assert.True(t, hoursOf(res, date(2024, time.October, 7)).Equal(decimal.NewFromInt(1)))
	assert.True(t, hoursOf(res, date(2024, time.October, 14)).Equal(decimal.NewFromInt(3)))

	for _, e := range res.Entries {
		if e.Date.Equal(date(2024, time.October, 7)) {
			assert.Equal(t, schedule.KeyHoliday, e.EffectiveKey)
			assert.True(t, e.IsHoliday)
			assert.Equal(t, []schedule.TimeSlot{slot("09:00", "10:00")}, e.Slots)
		}
	}
}

func TestResolveMonth_WeekendHolidayImmunity(t *testing.T) {
	// GIVEN: Saturdays 10:00-12:00 plus an enabled holiday schedule
	// WHEN: a holiday falls on a Saturday (Oct 12 2024)
	// THEN: the saturday schedule governs unchanged; the holiday key
	//       never fires on weekends
	ws := schedule.NewWeeklySchedule()
	ws.Saturday = enabledDay(slot("10:00", "12:00"))
	ws.Holiday = enabledDay(slot("09:00", "10:00"))
	a := schedule.Assignment{
		ID: "a-2", WorkerID: "w-2", ClientID: "c-1",
		StartDate: date(2024, time.January, 1),
		Schedule:  ws,
		Status:    schedule.StatusActive,
	}
	holidays := holidaysOn(date(2024, time.October, 12)) // a Saturday

	res := schedule.ResolveMonth(a, 2024, time.October, holidays)

	entry := func() *schedule.ResolvedDayEntry {
		for i := range res.Entries {
			if res.Entries[i].Date.Equal(date(2024, time.October, 12)) {
				return &res.Entries[i]
			}
		}
		return nil
	}()
	require.NotNil(t, entry)
	assert.Equal(t, schedule.KeySaturday, entry.EffectiveKey)
	assert.True(t, entry.IsHoliday)
	assert.True(t, entry.IsWeekend)
	assert.True(t, entry.Hours.Equal(decimal.NewFromInt(2)))
}

func TestResolveMonth_DisabledDaysEmitNothing(t *testing.T) {
	a := mondayAssignment()
	res := schedule.ResolveMonth(a, 2024, time.October, schedule.NoHolidays())
	for _, e := range res.Entries {
		assert.Equal(t, time.Monday, e.Date.Weekday())
	}
	assert.Len(t, res.Entries, 4)
}

// =============================================================================
// ACTIVE WINDOW
// =============================================================================

func TestResolveMonth_WindowBoundsAreInclusive(t *testing.T) {
	// GIVEN: assignment covering exactly Oct 7 through Oct 21
	a := mondayAssignment()
	a.StartDate = date(2024, time.October, 7)
	end := date(2024, time.October, 21)
	a.EndDate = &end

	res := schedule.ResolveMonth(a, 2024, time.October, schedule.NoHolidays())

	// THEN: both boundary Mondays emit; Oct 28 is past the end date
	require.Len(t, res.Entries, 3)
	assert.True(t, res.Entries[0].Date.Equal(date(2024, time.October, 7)))
	assert.True(t, res.Entries[2].Date.Equal(date(2024, time.October, 21)))
}

func TestResolveMonth_InvertedWindowNeverActive(t *testing.T) {
	a := mondayAssignment()
	a.StartDate = date(2024, time.October, 20)
	end := date(2024, time.October, 1)
	a.EndDate = &end

	res := schedule.ResolveMonth(a, 2024, time.October, schedule.NoHolidays())

	assert.Empty(t, res.Entries)
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, schedule.AnomalyInvertedWindow, res.Anomalies[0].Code)
}

func TestResolveMonth_StatusGatesResolution(t *testing.T) {
	for _, status := range []schedule.AssignmentStatus{
		schedule.StatusPaused, schedule.StatusCompleted, schedule.StatusCancelled,
	} {
		a := mondayAssignment()
		a.Status = status
		res := schedule.ResolveMonth(a, 2024, time.October, schedule.NoHolidays())
		assert.Empty(t, res.Entries, "status %s must not resolve", status)
	}
}

// =============================================================================
// TOTALITY AND PURITY
// =============================================================================

func TestResolveMonth_InvalidSlotBecomesZeroHourAnomaly(t *testing.T) {
	// GIVEN: a Monday with one valid slot and one inverted slot
	a := mondayAssignment()
	a.Schedule.Monday = enabledDay(slot("08:00", "11:00"), slot("10:00", "09:00"))
	end := date(2024, time.October, 7)
	a.StartDate = date(2024, time.October, 7)
	a.EndDate = &end

	res := schedule.ResolveMonth(a, 2024, time.October, schedule.NoHolidays())

	// THEN: the day still emits, the inverted slot contributes nothing,
	// and the drop is counted as an anomaly instead of raised
	require.Len(t, res.Entries, 1)
	assert.True(t, res.Entries[0].Hours.Equal(decimal.NewFromInt(3)))
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, schedule.AnomalyInvalidSlot, res.Anomalies[0].Code)
}

func TestResolveMonth_Idempotent(t *testing.T) {
	a := mondayAssignment()
	a.Schedule.Holiday = enabledDay(slot("09:00", "10:00"))
	holidays := holidaysOn(date(2024, time.October, 7))

	first := schedule.ResolveMonth(a, 2024, time.October, holidays)
	second := schedule.ResolveMonth(a, 2024, time.October, holidays)

	assert.Equal(t, first, second)
}
