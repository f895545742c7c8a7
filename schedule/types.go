/*
Package schedule is the core scheduling engine for the care agency.

PURPOSE:
  Turns recurring weekly care schedules into concrete monthly calendars.
  Everything a calendar view, a balance report, or a reassignment card
  shows is derived here, from three inputs:
  - an Assignment (worker + client + weekly schedule + active window)
  - a calendar month
  - the public holidays of the year

KEY CONCEPTS IN THIS FILE (types.go):
  - Assignment: a recurring worker-to-client care relationship
  - ResolvedDayEntry: one concrete day of service, produced by ResolveMonth
  - ReassignmentRecord: a detected holiday-driven coverage change
  - MonthlyBalance: scheduled vs contracted hours for a worker/client pair
  - Anomaly: a non-fatal data problem repaired during resolution

DESIGN PRINCIPLES:
  1. Purity: resolution, detection and balance math are pure functions
     over already-fetched data. Same inputs, same outputs, no I/O.
  2. Precision: hour arithmetic uses decimal.Decimal; rounding happens
     once, at the final aggregate.
  3. Derived data is never a source of truth: entries, records and
     balances are recomputed on demand, never read back as inputs.
  4. Bad data degrades, it does not abort: a malformed slot or schedule
     is repaired to a safe default and surfaced as an Anomaly.

SEE ALSO:
  - resolver.go: weekly schedule -> monthly calendar expansion
  - reassignment.go: holiday coverage diffing
  - balance.go: scheduled vs contracted hours
  - hours.go: slot/day/week/month hour sums
*/
package schedule

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type WorkerID string
type ClientID string
type AssignmentID string

// NoWorker is the sentinel for "no coverage on this side" in a
// ReassignmentRecord.
const NoWorker WorkerID = ""

// =============================================================================
// ASSIGNMENT - Recurring care relationship between a worker and a client
// =============================================================================

// AssignmentType is a declared intent label. It drives default schedule
// construction only; which days actually produce hours is always decided
// by the WeeklySchedule enabled flags.
type AssignmentType string

const (
	TypeLaborables AssignmentType = "laborables" // weekday-only intent
	TypeFestivos   AssignmentType = "festivos"   // weekend + holiday intent
	TypeFlexible   AssignmentType = "flexible"   // all days
)

// AssignmentStatus gates whether an assignment participates in resolution.
// Assignments are never deleted on the resolution path; they move through
// soft statuses instead.
type AssignmentStatus string

const (
	StatusActive    AssignmentStatus = "active"
	StatusPaused    AssignmentStatus = "paused"
	StatusCompleted AssignmentStatus = "completed"
	StatusCancelled AssignmentStatus = "cancelled"
)

// Assignment links one worker to one client with a weekly recurring
// schedule. The assignment exclusively owns its schedule.
type Assignment struct {
	ID       AssignmentID
	WorkerID WorkerID
	ClientID ClientID
	Type     AssignmentType

	// Active window, both bounds inclusive. EndDate nil = open-ended.
	StartDate Date
	EndDate   *Date

	Schedule WeeklySchedule
	Status   AssignmentStatus
}

// ActiveOn reports whether the assignment covers the given date.
// An inverted window (end before start) is never active.
func (a Assignment) ActiveOn(d Date) bool {
	if d.Before(a.StartDate) {
		return false
	}
	if a.EndDate != nil && d.After(*a.EndDate) {
		return false
	}
	return true
}

// Resolvable reports whether the assignment should be considered for
// month resolution at all.
func (a Assignment) Resolvable() bool {
	return a.Status == StatusActive
}

// validTransitions encodes the soft lifecycle: assignments pause and
// resume, finish, or get cancelled. Completed and cancelled are terminal.
var validTransitions = map[AssignmentStatus][]AssignmentStatus{
	StatusActive: {StatusPaused, StatusCompleted, StatusCancelled},
	StatusPaused: {StatusActive, StatusCompleted, StatusCancelled},
}

// TransitionTo moves the assignment to a new status, rejecting moves
// the lifecycle does not allow.
func (a *Assignment) TransitionTo(to AssignmentStatus) error {
	for _, allowed := range validTransitions[a.Status] {
		if allowed == to {
			a.Status = to
			return nil
		}
	}
	return &StatusTransitionError{AssignmentID: a.ID, From: a.Status, To: to}
}

// =============================================================================
// RESOLVED DAY ENTRY - One concrete day of service
// =============================================================================

// ResolvedDayEntry is the output unit of ResolveMonth: one (assignment,
// calendar day) pair where the effective day schedule is enabled.
type ResolvedDayEntry struct {
	Date         Date
	AssignmentID AssignmentID
	WorkerID     WorkerID
	ClientID     ClientID

	IsHoliday bool
	IsWeekend bool

	// EffectiveKey is the day key whose slots produced this entry.
	// KeyHoliday means the holiday override fired.
	EffectiveKey DayKey

	Hours decimal.Decimal
	Slots []TimeSlot
}

// =============================================================================
// REASSIGNMENT RECORD - Holiday-driven coverage change
// =============================================================================

type ReassignmentReason string

const (
	ReasonHolidayAddedCoverage   ReassignmentReason = "holiday_added_coverage"
	ReasonHolidayRemovedCoverage ReassignmentReason = "holiday_removed_coverage"
	ReasonHolidayChangedWorker   ReassignmentReason = "holiday_changed_worker"
)

// ReassignmentRecord marks a date where applying the holiday override
// changed which worker covers a client, relative to the plain weekday
// pattern. ExpectedWorkerID is taken from the no-holiday counterfactual,
// ActualWorkerID from the holiday-aware resolution; NoWorker on either
// side means that side had no coverage.
type ReassignmentRecord struct {
	Date             Date
	ClientID         ClientID
	ExpectedWorkerID WorkerID
	ActualWorkerID   WorkerID
	Reason           ReassignmentReason
}

// =============================================================================
// MONTHLY BALANCE - Scheduled vs contracted hours
// =============================================================================

// MonthlyBalance compares scheduled service hours against a client's
// contracted monthly hours for one worker/client pair and month.
// Positive = over-scheduled, negative = under-scheduled. Both are valid
// states, not errors; the balance is never clamped.
type MonthlyBalance struct {
	WorkerID WorkerID
	ClientID ClientID
	Year     int
	Month    int

	ContractedHours decimal.Decimal
	ScheduledHours  decimal.Decimal
	Balance         decimal.Decimal
}

// =============================================================================
// ANOMALY - Non-fatal data problems surfaced alongside results
// =============================================================================

type AnomalyCode string

const (
	// AnomalyInvalidSlot: a slot failed to parse or has end <= start.
	// The slot contributed zero hours.
	AnomalyInvalidSlot AnomalyCode = "invalid_slot"

	// AnomalyRepairedDay: a day definition was missing and was repaired
	// to disabled with no slots.
	AnomalyRepairedDay AnomalyCode = "repaired_day"

	// AnomalyInvertedWindow: assignment end date precedes start date;
	// the assignment was treated as never active.
	AnomalyInvertedWindow AnomalyCode = "inverted_window"
)

// Anomaly records one recoverable data problem found while computing a
// result. Anomalies ride alongside the computed value so callers (and
// tests) can count them instead of parsing logs.
type Anomaly struct {
	Code         AnomalyCode
	AssignmentID AssignmentID
	Date         Date   // zero when not tied to a specific day
	Detail       string
}

// Resolution is the full output of resolving one assignment for one
// month: the concrete entries plus any anomalies repaired on the way.
type Resolution struct {
	AssignmentID AssignmentID
	Entries      []ResolvedDayEntry
	Anomalies    []Anomaly
}

// TotalHours sums entry hours at full precision and rounds the final
// aggregate to two decimals.
func (r Resolution) TotalHours() decimal.Decimal {
	return MonthHours(r.Entries)
}
