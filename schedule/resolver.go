/*
resolver.go - Weekly schedule to monthly calendar expansion

PURPOSE:
  The single place where "which schedule applies to this date" is
  decided. Calendar views, balance reports and reassignment detection
  all consume ResolveMonth output; none of them re-derive the holiday
  override rule on their own.

THE EFFECTIVE KEY RULE, per calendar day d:
  1. holiday that lands on Mon-Fri, and the assignment's holiday
     schedule is enabled      -> the holiday schedule applies
  2. anything else            -> the plain weekday schedule applies

  Consequences worth spelling out:
  - A holiday on a weekend never activates the holiday schedule; the
    saturday/sunday entry governs unchanged.
  - A weekday holiday with holiday.Enabled=false falls back to the
    normal weekday schedule. That is "no override", which is different
    from "no service".

EMIT POLICY:
  Sparse. A day produces an entry only when the effective day schedule
  is enabled and the date falls inside the assignment's active window.
  An enabled day whose slots are all invalid still emits (zero hours)
  so its anomalies stay attributable to a date.

TOTALITY:
  Resolution never fails. Malformed slots become zero-hour anomalies;
  an inverted assignment window resolves to no entries plus an anomaly.
*/
package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ResolveMonth expands one assignment against one calendar month.
// The holiday set is the already-fetched calendar for the year; pass
// NoHolidays() to resolve the plain recurring pattern.
//
// Pure: same inputs always produce the same Resolution, and nothing is
// mutated, so concurrent calls for different months or clients need no
// coordination.
func ResolveMonth(a Assignment, year int, month time.Month, holidays HolidaySet) Resolution {
	res := Resolution{AssignmentID: a.ID}

	if !a.Resolvable() {
		return res
	}
	if a.EndDate != nil && a.EndDate.Before(a.StartDate) {
		res.Anomalies = append(res.Anomalies, Anomaly{
			Code:         AnomalyInvertedWindow,
			AssignmentID: a.ID,
			Detail:       fmt.Sprintf("end %s before start %s", a.EndDate, a.StartDate),
		})
		return res
	}

	for _, d := range MonthDays(year, month) {
		if !a.ActiveOn(d) {
			continue
		}

		isHoliday := holidays.Contains(d)
		isWeekend := d.IsWeekend()

		key := KeyForWeekday(d.Weekday())
		if isHoliday && !isWeekend && a.Schedule.Holiday.Enabled {
			key = KeyHoliday
		}

		day := a.Schedule.Day(key)
		if !day.Enabled {
			continue
		}

		total := decimal.Zero
		for _, slot := range day.TimeSlots {
			if !slot.Valid() {
				res.Anomalies = append(res.Anomalies, Anomaly{
					Code:         AnomalyInvalidSlot,
					AssignmentID: a.ID,
					Date:         d,
					Detail:       fmt.Sprintf("slot %s dropped", slot),
				})
				continue
			}
			total = total.Add(SlotHours(slot))
		}

		res.Entries = append(res.Entries, ResolvedDayEntry{
			Date:         d,
			AssignmentID: a.ID,
			WorkerID:     a.WorkerID,
			ClientID:     a.ClientID,
			IsHoliday:    isHoliday,
			IsWeekend:    isWeekend,
			EffectiveKey: key,
			Hours:        total,
			Slots:        day.TimeSlots,
		})
	}

	return res
}

// ResolveMonthPlain resolves the recurring pattern as if the month had
// no holidays at all. This is the counterfactual side of reassignment
// detection.
func ResolveMonthPlain(a Assignment, year int, month time.Month) Resolution {
	return ResolveMonth(a, year, month, NoHolidays())
}
