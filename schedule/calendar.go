package schedule

import (
	"context"
	"sort"
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar point
// =============================================================================

// Date is a calendar day. The wrapped time is always UTC midnight so
// Dates are safe map keys and comparisons never depend on wall clocks.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary time to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "2006-01-02" date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string { return d.t.Format("2006-01-02") }

// DaysInMonth returns the number of calendar days in a month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthDays returns every calendar day of a month in order.
func MonthDays(year int, month time.Month) []Date {
	n := DaysInMonth(year, month)
	days := make([]Date, n)
	for i := 0; i < n; i++ {
		days[i] = NewDate(year, month, i+1)
	}
	return days
}

// =============================================================================
// HOLIDAY CALENDAR - Public holidays for a year
// =============================================================================

// Holiday is one public holiday. Immutable once fetched for a year.
type Holiday struct {
	Date  Date
	Name  string
	Scope string // e.g. "national", "regional", "local"
}

// HolidaySet is the fetched holiday calendar of one year, indexed for
// per-day lookup during resolution.
type HolidaySet struct {
	byDate map[Date]Holiday
}

func NewHolidaySet(holidays []Holiday) HolidaySet {
	byDate := make(map[Date]Holiday, len(holidays))
	for _, h := range holidays {
		byDate[h.Date] = h
	}
	return HolidaySet{byDate: byDate}
}

// NoHolidays is the empty set, used for counterfactual resolution.
func NoHolidays() HolidaySet {
	return HolidaySet{}
}

func (hs HolidaySet) Contains(d Date) bool {
	_, ok := hs.byDate[d]
	return ok
}

func (hs HolidaySet) Get(d Date) (Holiday, bool) {
	h, ok := hs.byDate[d]
	return h, ok
}

func (hs HolidaySet) Len() int { return len(hs.byDate) }

// List returns the holidays ordered by date.
func (hs HolidaySet) List() []Holiday {
	out := make([]Holiday, 0, len(hs.byDate))
	for _, h := range hs.byDate {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// HolidayCalendar supplies the public holidays of a year. Implementations
// do I/O (database, remote source); the engine only ever sees the
// resulting HolidaySet. A failed lookup must surface as an error to the
// caller - resolving with an empty calendar would silently suppress
// legitimate holiday overrides.
type HolidayCalendar interface {
	Holidays(ctx context.Context, year int) ([]Holiday, error)
}
