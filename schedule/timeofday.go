package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// TIME OF DAY - Wall-clock "HH:MM" values
// =============================================================================

// Times of day arrive as "HH:MM" 24-hour strings and are compared as
// same-day wall-clock values. No timezone conversion ever happens here.

type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a "HH:MM" 24-hour string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("time of day %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("time of day %q: bad hour: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("time of day %q: bad minute: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q: out of range", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// MinutesFromMidnight positions the time within the day for comparison
// and duration arithmetic.
func (t TimeOfDay) MinutesFromMidnight() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.MinutesFromMidnight() < other.MinutesFromMidnight()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// =============================================================================
// TIME SLOT - One continuous service window within a day
// =============================================================================

// TimeSlot keeps the wire format: start and end as "HH:MM" strings.
// End is always same-day. A slot whose end is not strictly after its
// start is invalid and contributes zero hours, never negative.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// minutes returns the slot duration in minutes.
// ok is false when either time fails to parse or end <= start.
func (s TimeSlot) minutes() (int, bool) {
	start, err := ParseTimeOfDay(s.Start)
	if err != nil {
		return 0, false
	}
	end, err := ParseTimeOfDay(s.End)
	if err != nil {
		return 0, false
	}
	d := end.MinutesFromMidnight() - start.MinutesFromMidnight()
	if d <= 0 {
		return 0, false
	}
	return d, true
}

// Valid reports whether the slot parses and has positive duration.
func (s TimeSlot) Valid() bool {
	_, ok := s.minutes()
	return ok
}

func (s TimeSlot) String() string {
	return s.Start + "-" + s.End
}
