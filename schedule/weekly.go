/*
weekly.go - The recurring weekly schedule attached to an assignment

PURPOSE:
  Models the 8-key weekly pattern: one DaySchedule per weekday plus a
  distinguished "holiday" schedule. The holiday schedule is used only
  when a public holiday lands on a weekday (Mon-Fri) and the holiday
  schedule is enabled; weekends are never overridden.

WHY A FIXED STRUCT AND NOT A MAP:
  All 8 day definitions must always be present. A struct with 8 named
  fields makes that a compile-time property; a missing day in incoming
  JSON simply decodes to the zero value, which is already the safe
  repair (disabled, no slots). Presence checks never leak to call sites.

SEE ALSO:
  - resolver.go: picks the effective day key per calendar date
  - factory/schedule.go: JSON parsing and per-type defaults
*/
package schedule

import "time"

// =============================================================================
// DAY KEYS
// =============================================================================

// DayKey names one of the 8 schedule slots of a week.
type DayKey string

const (
	KeyMonday    DayKey = "monday"
	KeyTuesday   DayKey = "tuesday"
	KeyWednesday DayKey = "wednesday"
	KeyThursday  DayKey = "thursday"
	KeyFriday    DayKey = "friday"
	KeySaturday  DayKey = "saturday"
	KeySunday    DayKey = "sunday"
	KeyHoliday   DayKey = "holiday"
)

// WeekdayKeys lists the 7 weekday keys in calendar order.
var WeekdayKeys = []DayKey{
	KeyMonday, KeyTuesday, KeyWednesday, KeyThursday,
	KeyFriday, KeySaturday, KeySunday,
}

// AllDayKeys lists all 8 keys, holiday last.
var AllDayKeys = append(append([]DayKey{}, WeekdayKeys...), KeyHoliday)

// KeyForWeekday maps a time.Weekday to its schedule key.
func KeyForWeekday(wd time.Weekday) DayKey {
	switch wd {
	case time.Monday:
		return KeyMonday
	case time.Tuesday:
		return KeyTuesday
	case time.Wednesday:
		return KeyWednesday
	case time.Thursday:
		return KeyThursday
	case time.Friday:
		return KeyFriday
	case time.Saturday:
		return KeySaturday
	default:
		return KeySunday
	}
}

// =============================================================================
// DAY SCHEDULE
// =============================================================================

// DaySchedule is one day's configuration. A disabled day contributes
// zero hours regardless of its slot contents.
type DaySchedule struct {
	Enabled   bool
	TimeSlots []TimeSlot
}

// =============================================================================
// WEEKLY SCHEDULE
// =============================================================================

// WeeklySchedule is the full recurring pattern: 7 weekdays plus the
// holiday schedule. The zero value is a valid, fully disabled week.
type WeeklySchedule struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
	Holiday   DaySchedule
}

// NewWeeklySchedule returns a complete, fully disabled week.
func NewWeeklySchedule() WeeklySchedule {
	return WeeklySchedule{}
}

// Day returns the schedule stored under a key.
func (ws WeeklySchedule) Day(key DayKey) DaySchedule {
	switch key {
	case KeyMonday:
		return ws.Monday
	case KeyTuesday:
		return ws.Tuesday
	case KeyWednesday:
		return ws.Wednesday
	case KeyThursday:
		return ws.Thursday
	case KeyFriday:
		return ws.Friday
	case KeySaturday:
		return ws.Saturday
	case KeySunday:
		return ws.Sunday
	default:
		return ws.Holiday
	}
}

// SetDay replaces the schedule stored under a key.
func (ws *WeeklySchedule) SetDay(key DayKey, day DaySchedule) {
	switch key {
	case KeyMonday:
		ws.Monday = day
	case KeyTuesday:
		ws.Tuesday = day
	case KeyWednesday:
		ws.Wednesday = day
	case KeyThursday:
		ws.Thursday = day
	case KeyFriday:
		ws.Friday = day
	case KeySaturday:
		ws.Saturday = day
	case KeySunday:
		ws.Sunday = day
	case KeyHoliday:
		ws.Holiday = day
	}
}

// DayForWeekday returns the plain weekday schedule for a date's weekday,
// ignoring any holiday override.
func (ws WeeklySchedule) DayForWeekday(wd time.Weekday) DaySchedule {
	return ws.Day(KeyForWeekday(wd))
}
