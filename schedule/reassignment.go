/*
reassignment.go - Holiday-driven coverage change detection

PURPOSE:
  A client is often served by different workers on different day kinds:
  a "laborables" worker Mon-Fri and a "festivos" worker on weekends and
  holidays. When a public holiday lands on a weekday, the holiday
  override can change which of the client's assignments fire that day,
  so the set of covering workers shifts relative to the plain weekday
  pattern. Operations needs those dates surfaced: they affect both who
  shows up at the client's door and whose monthly balance the hours land
  on.

HOW:
  Resolve every assignment of the client twice - once holiday-aware,
  once against an empty holiday calendar (the counterfactual) - and diff
  the (assignment, worker) coverage sets on each weekday holiday.

PAIRING RULE:
  A date can lose and gain several workers at once when more than two
  assignments overlap. Workers that lost coverage and workers that
  gained it are each sorted, then paired positionally; a side without a
  counterpart pairs with NoWorker. This yields one deterministic record
  per changed worker, and collapses to a single record in the common
  one-change case.
*/
package schedule

import (
	"sort"
	"time"
)

// coverage identifies one assignment providing service on a date.
type coverage struct {
	AssignmentID AssignmentID
	WorkerID     WorkerID
}

// DetectReassignments compares holiday-aware and plain-pattern coverage
// for one client's assignments over a month. Records come back ordered
// by date, then by worker.
//
// A month with no weekday holidays always yields nil. So does a date
// where both passes agree - including the "no service either way" case
// and the flexible-assignment case where the same worker covers the day
// regardless.
func DetectReassignments(clientID ClientID, assignments []Assignment, year int, month time.Month, holidays HolidaySet) []ReassignmentRecord {
	actual := make(map[Date]map[coverage]bool)
	expected := make(map[Date]map[coverage]bool)

	for _, a := range assignments {
		if a.ClientID != clientID {
			continue
		}
		collectCoverage(actual, ResolveMonth(a, year, month, holidays))
		collectCoverage(expected, ResolveMonthPlain(a, year, month))
	}

	var records []ReassignmentRecord
	for _, d := range MonthDays(year, month) {
		if !holidays.Contains(d) || d.IsWeekend() {
			continue
		}
		records = append(records, diffDay(d, clientID, expected[d], actual[d])...)
	}
	return records
}

func collectCoverage(into map[Date]map[coverage]bool, res Resolution) {
	for _, e := range res.Entries {
		day := into[e.Date]
		if day == nil {
			day = make(map[coverage]bool)
			into[e.Date] = day
		}
		day[coverage{AssignmentID: e.AssignmentID, WorkerID: e.WorkerID}] = true
	}
}

// diffDay turns the coverage-set difference of one date into records.
func diffDay(d Date, clientID ClientID, expected, actual map[coverage]bool) []ReassignmentRecord {
	var lost, gained []WorkerID
	for c := range expected {
		if !actual[c] {
			lost = append(lost, c.WorkerID)
		}
	}
	for c := range actual {
		if !expected[c] {
			gained = append(gained, c.WorkerID)
		}
	}
	if len(lost) == 0 && len(gained) == 0 {
		return nil
	}

	sort.Slice(lost, func(i, j int) bool { return lost[i] < lost[j] })
	sort.Slice(gained, func(i, j int) bool { return gained[i] < gained[j] })

	n := len(lost)
	if len(gained) > n {
		n = len(gained)
	}

	records := make([]ReassignmentRecord, 0, n)
	for i := 0; i < n; i++ {
		rec := ReassignmentRecord{
			Date:             d,
			ClientID:         clientID,
			ExpectedWorkerID: NoWorker,
			ActualWorkerID:   NoWorker,
		}
		if i < len(lost) {
			rec.ExpectedWorkerID = lost[i]
		}
		if i < len(gained) {
			rec.ActualWorkerID = gained[i]
		}
		switch {
		case rec.ExpectedWorkerID == NoWorker:
			rec.Reason = ReasonHolidayAddedCoverage
		case rec.ActualWorkerID == NoWorker:
			rec.Reason = ReasonHolidayRemovedCoverage
		default:
			rec.Reason = ReasonHolidayChangedWorker
		}
		records = append(records, rec)
	}
	return records
}
