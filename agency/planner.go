/*
planner.go - Monthly plan orchestration

PURPOSE:
  The one place that wires the I/O boundary to the pure engine. A plan
  request fetches the client, their assignments and the year's holiday
  calendar, then hands plain data to the schedule package: resolve each
  assignment, merge the entries, diff holiday coverage, balance hours
  against the contract. Nothing below this layer does I/O; nothing in
  this layer re-derives engine rules.

FAILURE BEHAVIOUR:
  A holiday calendar failure aborts the whole plan with a typed error.
  Results computed against a silently-empty calendar would look
  authoritative while missing every holiday override, so partial results
  are never returned.
*/
package agency

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/care-engine/schedule"
)

// Planner computes monthly plans. Safe for concurrent use: every call
// fetches its own inputs and computes on the stack.
type Planner struct {
	Clients     ClientStore
	Workers     WorkerStore
	Assignments AssignmentStore
	Calendar    schedule.HolidayCalendar
}

// MonthlyPlan is the full computed view of one client's month: the
// concrete calendar, the holiday-driven coverage changes, and the
// hours balance per worker and in total. Read-only; recomputed on
// every request.
type MonthlyPlan struct {
	ClientID schedule.ClientID
	Year     int
	Month    time.Month

	Entries       []schedule.ResolvedDayEntry
	Reassignments []schedule.ReassignmentRecord
	Balances      []schedule.MonthlyBalance
	Holidays      []schedule.Holiday
	Anomalies     []schedule.Anomaly

	ContractedHours decimal.Decimal
	ScheduledHours  decimal.Decimal
	Balance         decimal.Decimal
}

// ClientMonth builds the plan for one client and month.
func (p *Planner) ClientMonth(ctx context.Context, clientID schedule.ClientID, year int, month time.Month) (*MonthlyPlan, error) {
	client, err := p.Clients.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	assignments, err := p.Assignments.AssignmentsForClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	holidays, err := p.fetchHolidays(ctx, year)
	if err != nil {
		return nil, err
	}

	plan := &MonthlyPlan{
		ClientID:        clientID,
		Year:            year,
		Month:           month,
		ContractedHours: client.MonthlyHours,
	}

	workers := make(map[schedule.WorkerID]bool)
	for _, a := range assignments {
		res := schedule.ResolveMonth(a, year, month, holidays)
		plan.Entries = append(plan.Entries, res.Entries...)
		plan.Anomalies = append(plan.Anomalies, res.Anomalies...)
		if len(res.Entries) > 0 {
			workers[a.WorkerID] = true
		}
	}
	sortEntries(plan.Entries)

	plan.Reassignments = schedule.DetectReassignments(clientID, assignments, year, month, holidays)

	for _, id := range sortedWorkers(workers) {
		plan.Balances = append(plan.Balances,
			schedule.ComputeBalance(clientID, id, year, month, client.MonthlyHours, plan.Entries))
	}

	plan.ScheduledHours = schedule.MonthHours(plan.Entries)
	plan.Balance = plan.ScheduledHours.Sub(client.MonthlyHours)

	for _, h := range holidays.List() {
		if h.Date.Year() == year && h.Date.Month() == month {
			plan.Holidays = append(plan.Holidays, h)
		}
	}

	return plan, nil
}

// WorkerMonth is a worker's concrete calendar for one month across all
// of their assignments.
type WorkerMonth struct {
	WorkerID schedule.WorkerID
	Year     int
	Month    time.Month

	Entries   []schedule.ResolvedDayEntry
	Anomalies []schedule.Anomaly

	TotalHours decimal.Decimal
}

// ForWorker builds the month view for one worker.
func (p *Planner) ForWorker(ctx context.Context, workerID schedule.WorkerID, year int, month time.Month) (*WorkerMonth, error) {
	if _, err := p.Workers.GetWorker(ctx, workerID); err != nil {
		return nil, err
	}

	assignments, err := p.Assignments.AssignmentsForWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}

	holidays, err := p.fetchHolidays(ctx, year)
	if err != nil {
		return nil, err
	}

	wm := &WorkerMonth{WorkerID: workerID, Year: year, Month: month}
	for _, a := range assignments {
		res := schedule.ResolveMonth(a, year, month, holidays)
		wm.Entries = append(wm.Entries, res.Entries...)
		wm.Anomalies = append(wm.Anomalies, res.Anomalies...)
	}
	sortEntries(wm.Entries)
	wm.TotalHours = schedule.MonthHours(wm.Entries)
	return wm, nil
}

func (p *Planner) fetchHolidays(ctx context.Context, year int) (schedule.HolidaySet, error) {
	hs, err := p.Calendar.Holidays(ctx, year)
	if err != nil {
		// Never degrade to an empty calendar; see package comment.
		return schedule.HolidaySet{}, err
	}
	return schedule.NewHolidaySet(hs), nil
}

func sortEntries(entries []schedule.ResolvedDayEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].AssignmentID < entries[j].AssignmentID
	})
}

func sortedWorkers(set map[schedule.WorkerID]bool) []schedule.WorkerID {
	out := make([]schedule.WorkerID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
