/*
errors.go - Centralized error types for the scheduling engine

PURPOSE:
  All hard failures of the engine's boundary in one place. Note what is
  NOT here: malformed slots, missing day definitions and inverted
  assignment windows are not errors - they are repaired with safe
  defaults and reported as Anomaly values, because one bad record must
  never abort a whole month's resolution.

  Hard errors are reserved for the collaborators: a holiday calendar or
  record store that cannot answer. Those must propagate, because
  computing "with no holidays" when the calendar is down would silently
  drop legitimate holiday overrides and present wrong results as
  authoritative.

USAGE:
  if errors.Is(err, schedule.ErrHolidayCalendarUnavailable) {
      // do not render the plan; tell the user the calendar is down
  }
*/
package schedule

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrHolidayCalendarUnavailable is returned when the holiday source
	// for a year cannot be fetched. Callers must treat this as "do not
	// show results", never as "resolve with zero holidays".
	ErrHolidayCalendarUnavailable = errors.New("holiday calendar unavailable")

	// ErrWorkerNotFound is returned when a referenced worker does not exist.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrClientNotFound is returned when a referenced client does not exist.
	ErrClientNotFound = errors.New("client not found")

	// ErrAssignmentNotFound is returned when a referenced assignment does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrInvalidStatusTransition is returned for a lifecycle change the
	// status machine does not allow (e.g. reactivating a cancelled
	// assignment).
	ErrInvalidStatusTransition = errors.New("invalid assignment status transition")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// HolidayCalendarError wraps a provider failure with the year that was
// being fetched.
type HolidayCalendarError struct {
	Year int
	Err  error
}

func (e *HolidayCalendarError) Error() string {
	return fmt.Sprintf("holiday calendar for %d: %v", e.Year, e.Err)
}

func (e *HolidayCalendarError) Unwrap() error { return ErrHolidayCalendarUnavailable }

// StatusTransitionError reports a rejected lifecycle change.
type StatusTransitionError struct {
	AssignmentID AssignmentID
	From, To     AssignmentStatus
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("assignment %s: cannot move from %s to %s", e.AssignmentID, e.From, e.To)
}

func (e *StatusTransitionError) Unwrap() error { return ErrInvalidStatusTransition }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWorkerNotFound) ||
		errors.Is(err, ErrClientNotFound) ||
		errors.Is(err, ErrAssignmentNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidStatusTransition) || IsNotFound(err)
}
