/*
holidays.go - Holiday calendar providers

PURPOSE:
  Two schedule.HolidayCalendar implementations:

  StoreCalendar:  reads the year's holidays from a HolidayStore. This is
                  what the server uses; the calendar the coordinators
                  maintain in the database is authoritative.

  NationalDefaults: the fixed-date national holidays used to seed a
                  fresh calendar year. Movable feasts (Easter-linked
                  days) and regional holidays are not generated - those
                  are entered per year by the coordinators.

FAILURE RULE:
  A provider that cannot answer returns a HolidayCalendarError. It never
  returns an empty calendar instead, because "no holidays" is a valid
  answer that changes resolution results.
*/
package agency

import (
	"context"
	"time"

	"github.com/warp/care-engine/schedule"
)

// =============================================================================
// STORE-BACKED CALENDAR
// =============================================================================

// StoreCalendar serves holidays from the persistent calendar.
type StoreCalendar struct {
	Store HolidayStore
}

func (c *StoreCalendar) Holidays(ctx context.Context, year int) ([]schedule.Holiday, error) {
	hs, err := c.Store.HolidaysForYear(ctx, year)
	if err != nil {
		return nil, &schedule.HolidayCalendarError{Year: year, Err: err}
	}
	return hs, nil
}

var _ schedule.HolidayCalendar = (*StoreCalendar)(nil)

// =============================================================================
// NATIONAL DEFAULTS
// =============================================================================

// fixedNationalDays are the Spanish national holidays that fall on the
// same date every year.
var fixedNationalDays = []struct {
	Month time.Month
	Day   int
	Name  string
}{
	{time.January, 1, "Año Nuevo"},
	{time.January, 6, "Epifanía del Señor"},
	{time.May, 1, "Fiesta del Trabajo"},
	{time.August, 15, "Asunción de la Virgen"},
	{time.October, 12, "Fiesta Nacional de España"},
	{time.November, 1, "Todos los Santos"},
	{time.December, 6, "Día de la Constitución"},
	{time.December, 8, "Inmaculada Concepción"},
	{time.December, 25, "Natividad del Señor"},
}

// NationalDefaults returns the fixed-date national holidays of a year,
// ordered by date. Used to seed the stored calendar.
func NationalDefaults(year int) []schedule.Holiday {
	out := make([]schedule.Holiday, len(fixedNationalDays))
	for i, d := range fixedNationalDays {
		out[i] = schedule.Holiday{
			Date:  schedule.NewDate(year, d.Month, d.Day),
			Name:  d.Name,
			Scope: "national",
		}
	}
	return out
}

// StaticCalendar serves a fixed, in-memory holiday list. Used in tests
// and demo scenarios.
type StaticCalendar struct {
	ByYear map[int][]schedule.Holiday
}

func (c *StaticCalendar) Holidays(_ context.Context, year int) ([]schedule.Holiday, error) {
	return c.ByYear[year], nil
}

var _ schedule.HolidayCalendar = (*StaticCalendar)(nil)
