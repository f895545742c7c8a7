/*
hours.go - Hour aggregation with a strict no-garbage policy

PURPOSE:
  Sums time-slot durations into day, week and month totals.

RULES:
  - A slot that fails to parse, or whose end is not after its start,
    contributes exactly 0. Nothing here ever returns a negative or
    non-finite number.
  - Intermediate sums stay at full decimal precision. Rounding (half-up,
    2 decimals) happens once, on the final aggregate, so per-slot
    rounding error cannot compound.
  - WeekHours sums all 8 day keys including the holiday schedule. It is
    a full-week estimate for forms and dashboards, not a statement about
    any particular month; months are measured via MonthHours over
    resolved entries.
*/
package schedule

import "github.com/shopspring/decimal"

var minutesPerHour = decimal.NewFromInt(60)

// SlotHours returns the slot duration in hours, or zero for an invalid
// slot. Use TimeSlot.Valid to distinguish "zero-length" from "invalid".
func SlotHours(slot TimeSlot) decimal.Decimal {
	mins, ok := slot.minutes()
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(mins)).Div(minutesPerHour)
}

// DayHours sums the valid slots of a day. A disabled day is zero no
// matter what its slots say.
func DayHours(day DaySchedule) decimal.Decimal {
	if !day.Enabled {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, slot := range day.TimeSlots {
		total = total.Add(SlotHours(slot))
	}
	return total
}

// WeekHours sums all 8 day schedules of a week, holiday included,
// rounded to 2 decimals. This is the number a schedule form shows as
// "weekly hours" while the user edits.
func WeekHours(ws WeeklySchedule) decimal.Decimal {
	total := decimal.Zero
	for _, key := range AllDayKeys {
		total = total.Add(DayHours(ws.Day(key)))
	}
	return RoundHours(total)
}

// MonthHours sums the hours of resolved entries, rounded to 2 decimals.
func MonthHours(entries []ResolvedDayEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Hours)
	}
	return RoundHours(total)
}

// RoundHours applies the single, final rounding step: half-up to 2
// decimal places.
func RoundHours(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
