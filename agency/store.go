/*
store.go - Persistence interfaces for agency records

PURPOSE:
  The boundary between domain logic and the database. The planner and
  the API depend on these interfaces only; SQLite and in-memory
  implementations both satisfy them.

DERIVED DATA RULE:
  Assignments, workers, clients and holidays are sources of truth.
  Balance and reassignment snapshots are NOT: SnapshotStore is
  write-and-display only. Nothing in this repository reads a snapshot
  back as input to a computation - every plan is recomputed from the
  sources.

IMPLEMENTATIONS:
  - store/sqlite: production store
  - agency/store: in-memory, for tests and dev
*/
package agency

import (
	"context"

	"github.com/warp/care-engine/schedule"
)

// WorkerStore persists worker records.
type WorkerStore interface {
	SaveWorker(ctx context.Context, w Worker) error
	GetWorker(ctx context.Context, id schedule.WorkerID) (Worker, error)
	ListWorkers(ctx context.Context) ([]Worker, error)
}

// ClientStore persists client records.
type ClientStore interface {
	SaveClient(ctx context.Context, c Client) error
	GetClient(ctx context.Context, id schedule.ClientID) (Client, error)
	ListClients(ctx context.Context) ([]Client, error)
}

// AssignmentStore persists assignments. There is no delete: assignments
// leave service through status changes only.
type AssignmentStore interface {
	SaveAssignment(ctx context.Context, a schedule.Assignment) error
	GetAssignment(ctx context.Context, id schedule.AssignmentID) (schedule.Assignment, error)
	ListAssignments(ctx context.Context) ([]schedule.Assignment, error)

	// AssignmentsForClient returns every assignment of a client,
	// regardless of status. Callers filter by Resolvable.
	AssignmentsForClient(ctx context.Context, id schedule.ClientID) ([]schedule.Assignment, error)

	// AssignmentsForWorker returns every assignment of a worker.
	AssignmentsForWorker(ctx context.Context, id schedule.WorkerID) ([]schedule.Assignment, error)
}

// HolidayStore persists the holiday calendar.
type HolidayStore interface {
	SaveHoliday(ctx context.Context, h schedule.Holiday) error
	DeleteHoliday(ctx context.Context, d schedule.Date) error
	HolidaysForYear(ctx context.Context, year int) ([]schedule.Holiday, error)
}

// SnapshotStore records computed monthly results for display and audit.
// Write-only from the domain's point of view; snapshots never feed back
// into planning.
type SnapshotStore interface {
	SaveBalanceSnapshot(ctx context.Context, b schedule.MonthlyBalance) error
	SaveReassignmentSnapshot(ctx context.Context, r schedule.ReassignmentRecord) error
}

// Store aggregates everything the server needs.
type Store interface {
	WorkerStore
	ClientStore
	AssignmentStore
	HolidayStore
	SnapshotStore
}
