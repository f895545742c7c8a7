/*
Package factory converts JSON schedule definitions to WeeklySchedule values.

PURPOSE:
  Weekly schedules arrive as JSON - from the API, from the database, from
  seed scenarios. This package is the single place where that JSON is
  parsed, repaired and rendered back, so day-presence checks never leak
  into handlers or stores.

JSON SCHEMA:
  {
    "monday":  {"enabled": true, "time_slots": [{"start": "08:00", "end": "11:00"}]},
    "tuesday": {"enabled": false, "time_slots": []},
    ...
    "sunday":  {"enabled": false, "time_slots": []},
    "holiday": {"enabled": true, "time_slots": [{"start": "09:00", "end": "10:00"}]}
  }

REPAIR RULE:
  All 8 day keys should be present. A missing key is repaired to a
  disabled day with no slots, and the repair is reported as an anomaly -
  never as an error, because one sloppy record must not block parsing.

DEFAULTS:
  DefaultSchedule seeds a new assignment's form from its declared type.
  The type is intent only: once saved, the enabled flags are the sole
  authority on which days produce hours.

SEE ALSO:
  - schedule/weekly.go: the parsed representation
  - store/sqlite: persists schedules as this JSON
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/care-engine/schedule"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// SlotJSON is the wire form of one time slot.
type SlotJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayJSON is the wire form of one day schedule.
type DayJSON struct {
	Enabled   bool       `json:"enabled"`
	TimeSlots []SlotJSON `json:"time_slots"`
}

// ScheduleJSON is the wire form of a weekly schedule. Day fields are
// pointers so a missing key is distinguishable from a disabled day.
type ScheduleJSON struct {
	Monday    *DayJSON `json:"monday"`
	Tuesday   *DayJSON `json:"tuesday"`
	Wednesday *DayJSON `json:"wednesday"`
	Thursday  *DayJSON `json:"thursday"`
	Friday    *DayJSON `json:"friday"`
	Saturday  *DayJSON `json:"saturday"`
	Sunday    *DayJSON `json:"sunday"`
	Holiday   *DayJSON `json:"holiday"`
}

func (sj *ScheduleJSON) day(key schedule.DayKey) *DayJSON {
	switch key {
	case schedule.KeyMonday:
		return sj.Monday
	case schedule.KeyTuesday:
		return sj.Tuesday
	case schedule.KeyWednesday:
		return sj.Wednesday
	case schedule.KeyThursday:
		return sj.Thursday
	case schedule.KeyFriday:
		return sj.Friday
	case schedule.KeySaturday:
		return sj.Saturday
	case schedule.KeySunday:
		return sj.Sunday
	default:
		return sj.Holiday
	}
}

// =============================================================================
// PARSING
// =============================================================================

// ParseSchedule decodes schedule JSON. Missing day keys are repaired to
// disabled days and reported as anomalies; only malformed JSON itself
// is an error.
func ParseSchedule(raw []byte) (schedule.WeeklySchedule, []schedule.Anomaly, error) {
	var sj ScheduleJSON
	if err := json.Unmarshal(raw, &sj); err != nil {
		return schedule.WeeklySchedule{}, nil, fmt.Errorf("schedule json: %w", err)
	}
	return FromJSON(sj)
}

// FromJSON converts an already-decoded ScheduleJSON, applying the same
// repair rule as ParseSchedule.
func FromJSON(sj ScheduleJSON) (schedule.WeeklySchedule, []schedule.Anomaly, error) {
	ws := schedule.NewWeeklySchedule()
	var anomalies []schedule.Anomaly

	for _, key := range schedule.AllDayKeys {
		dj := sj.day(key)
		if dj == nil {
			anomalies = append(anomalies, schedule.Anomaly{
				Code:   schedule.AnomalyRepairedDay,
				Detail: fmt.Sprintf("day %q missing, repaired to disabled", key),
			})
			continue
		}
		day := schedule.DaySchedule{Enabled: dj.Enabled}
		for _, s := range dj.TimeSlots {
			day.TimeSlots = append(day.TimeSlots, schedule.TimeSlot{Start: s.Start, End: s.End})
		}
		ws.SetDay(key, day)
	}
	return ws, anomalies, nil
}

// =============================================================================
// RENDERING
// =============================================================================

// ToJSON renders a weekly schedule with all 8 keys always present.
func ToJSON(ws schedule.WeeklySchedule) ScheduleJSON {
	var sj ScheduleJSON
	set := func(dst **DayJSON, day schedule.DaySchedule) {
		dj := &DayJSON{Enabled: day.Enabled, TimeSlots: []SlotJSON{}}
		for _, s := range day.TimeSlots {
			dj.TimeSlots = append(dj.TimeSlots, SlotJSON{Start: s.Start, End: s.End})
		}
		*dst = dj
	}
	set(&sj.Monday, ws.Monday)
	set(&sj.Tuesday, ws.Tuesday)
	set(&sj.Wednesday, ws.Wednesday)
	set(&sj.Thursday, ws.Thursday)
	set(&sj.Friday, ws.Friday)
	set(&sj.Saturday, ws.Saturday)
	set(&sj.Sunday, ws.Sunday)
	set(&sj.Holiday, ws.Holiday)
	return sj
}

// MarshalSchedule renders a weekly schedule to JSON bytes.
func MarshalSchedule(ws schedule.WeeklySchedule) ([]byte, error) {
	return json.Marshal(ToJSON(ws))
}

// =============================================================================
// DEFAULTS - Seed a new assignment's schedule from its declared type
// =============================================================================

var defaultSlot = schedule.TimeSlot{Start: "08:00", End: "12:00"}

// DefaultSchedule builds the initial schedule for an assignment type.
// This is initialization only; the resolver never consults the type.
func DefaultSchedule(t schedule.AssignmentType) schedule.WeeklySchedule {
	ws := schedule.NewWeeklySchedule()
	on := schedule.DaySchedule{Enabled: true, TimeSlots: []schedule.TimeSlot{defaultSlot}}

	switch t {
	case schedule.TypeLaborables:
		for _, key := range []schedule.DayKey{
			schedule.KeyMonday, schedule.KeyTuesday, schedule.KeyWednesday,
			schedule.KeyThursday, schedule.KeyFriday,
		} {
			ws.SetDay(key, on)
		}
	case schedule.TypeFestivos:
		ws.Saturday = on
		ws.Sunday = on
		ws.Holiday = on
	case schedule.TypeFlexible:
		for _, key := range schedule.AllDayKeys {
			ws.SetDay(key, on)
		}
	}
	return ws
}
