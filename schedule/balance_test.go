package schedule_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/care-engine/schedule"
)

func entry(d schedule.Date, worker schedule.WorkerID, client schedule.ClientID, hours int64) schedule.ResolvedDayEntry {
	return schedule.ResolvedDayEntry{
		Date:     d,
		WorkerID: worker,
		ClientID: client,
		Hours:    decimal.NewFromInt(hours),
	}
}

func TestComputeBalance_SignCorrectness(t *testing.T) {
	entries := []schedule.ResolvedDayEntry{
		entry(date(2024, time.October, 7), "w-1", "c-1", 3),
		entry(date(2024, time.October, 14), "w-1", "c-1", 3),
		entry(date(2024, time.October, 21), "w-1", "c-1", 3),
		entry(date(2024, time.October, 28), "w-1", "c-1", 3),
	}

	// 12 scheduled vs 10 contracted -> +2 (over-scheduled)
	over := schedule.ComputeBalance("c-1", "w-1", 2024, time.October, decimal.NewFromInt(10), entries)
	assert.True(t, over.ScheduledHours.Equal(decimal.NewFromInt(12)))
	assert.True(t, over.Balance.Equal(decimal.NewFromInt(2)))

	// 12 scheduled vs 14 contracted -> -2 (under-scheduled), not clamped
	under := schedule.ComputeBalance("c-1", "w-1", 2024, time.October, decimal.NewFromInt(14), entries)
	assert.True(t, under.Balance.Equal(decimal.NewFromInt(-2)))
}

func TestComputeBalance_FiltersToThePair(t *testing.T) {
	entries := []schedule.ResolvedDayEntry{
		entry(date(2024, time.October, 7), "w-1", "c-1", 3),
		entry(date(2024, time.October, 7), "w-2", "c-1", 1), // other worker
		entry(date(2024, time.October, 7), "w-1", "c-2", 5), // other client
	}

	b := schedule.ComputeBalance("c-1", "w-1", 2024, time.October, decimal.Zero, entries)
	assert.True(t, b.ScheduledHours.Equal(decimal.NewFromInt(3)))
}

func TestComputeBalance_EmptyMonth(t *testing.T) {
	b := schedule.ComputeBalance("c-1", "w-1", 2024, time.October, decimal.NewFromInt(10), nil)
	assert.True(t, b.ScheduledHours.IsZero())
	assert.True(t, b.Balance.Equal(decimal.NewFromInt(-10)))
}

func TestTransitionTo(t *testing.T) {
	a := mondayAssignment()

	assert.NoError(t, a.TransitionTo(schedule.StatusPaused))
	assert.NoError(t, a.TransitionTo(schedule.StatusActive))
	assert.NoError(t, a.TransitionTo(schedule.StatusCancelled))

	err := a.TransitionTo(schedule.StatusActive)
	assert.ErrorIs(t, err, schedule.ErrInvalidStatusTransition)
	assert.Equal(t, schedule.StatusCancelled, a.Status)
}
