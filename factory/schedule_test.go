package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/care-engine/factory"
	"github.com/warp/care-engine/schedule"
)

func TestParseSchedule_FullWeek(t *testing.T) {
	raw := []byte(`{
		"monday":    {"enabled": true,  "time_slots": [{"start": "08:00", "end": "11:00"}]},
		"tuesday":   {"enabled": false, "time_slots": []},
		"wednesday": {"enabled": false, "time_slots": []},
		"thursday":  {"enabled": false, "time_slots": []},
		"friday":    {"enabled": false, "time_slots": []},
		"saturday":  {"enabled": false, "time_slots": []},
		"sunday":    {"enabled": false, "time_slots": []},
		"holiday":   {"enabled": true,  "time_slots": [{"start": "09:00", "end": "10:00"}]}
	}`)

	ws, anomalies, err := factory.ParseSchedule(raw)
	require.NoError(t, err)
	assert.Empty(t, anomalies)
	assert.True(t, ws.Monday.Enabled)
	assert.Equal(t, []schedule.TimeSlot{{Start: "08:00", End: "11:00"}}, ws.Monday.TimeSlots)
	assert.True(t, ws.Holiday.Enabled)
	assert.False(t, ws.Tuesday.Enabled)
}

func TestParseSchedule_MissingKeysRepairedToDisabled(t *testing.T) {
	// Only monday present: the other 7 keys are repaired, not rejected
	raw := []byte(`{"monday": {"enabled": true, "time_slots": [{"start": "08:00", "end": "11:00"}]}}`)

	ws, anomalies, err := factory.ParseSchedule(raw)
	require.NoError(t, err)
	assert.Len(t, anomalies, 7)
	for _, a := range anomalies {
		assert.Equal(t, schedule.AnomalyRepairedDay, a.Code)
	}
	assert.True(t, ws.Monday.Enabled)
	assert.False(t, ws.Holiday.Enabled)
	assert.Empty(t, ws.Holiday.TimeSlots)
}

func TestParseSchedule_MalformedJSONIsAnError(t *testing.T) {
	_, _, err := factory.ParseSchedule([]byte(`{"monday": `))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	ws := factory.DefaultSchedule(schedule.TypeLaborables)
	raw, err := factory.MarshalSchedule(ws)
	require.NoError(t, err)

	back, anomalies, err := factory.ParseSchedule(raw)
	require.NoError(t, err)
	assert.Empty(t, anomalies) // rendering always writes all 8 keys
	assert.Equal(t, schedule.WeekHours(ws).String(), schedule.WeekHours(back).String())
}

func TestDefaultSchedule_TypeIntent(t *testing.T) {
	laborables := factory.DefaultSchedule(schedule.TypeLaborables)
	assert.True(t, laborables.Monday.Enabled)
	assert.True(t, laborables.Friday.Enabled)
	assert.False(t, laborables.Saturday.Enabled)
	assert.False(t, laborables.Holiday.Enabled)

	festivos := factory.DefaultSchedule(schedule.TypeFestivos)
	assert.False(t, festivos.Monday.Enabled)
	assert.True(t, festivos.Saturday.Enabled)
	assert.True(t, festivos.Sunday.Enabled)
	assert.True(t, festivos.Holiday.Enabled)

	flexible := factory.DefaultSchedule(schedule.TypeFlexible)
	for _, key := range schedule.AllDayKeys {
		assert.True(t, flexible.Day(key).Enabled, "key %s", key)
	}

	unknown := factory.DefaultSchedule(schedule.AssignmentType("weird"))
	assert.True(t, schedule.WeekHours(unknown).IsZero())
}
