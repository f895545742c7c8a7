/*
Package sqlite provides the SQLite-backed agency.Store.

PURPOSE:
  Persists the sources of truth (workers, clients, assignments,
  holidays) and the display-only snapshot tables. The same SQL shapes
  port to PostgreSQL with minor dialect changes.

KEY TABLES:
  workers:                Care worker records
  clients:                Client records with contracted monthly hours
  assignments:            Worker-to-client assignments; the weekly
                          schedule is stored as the factory JSON form
  holidays:               The maintained public-holiday calendar
  balance_snapshots:      Computed monthly balances, written by the
                          snapshot job, read only by reporting
  reassignment_snapshots: Detected coverage changes, same rule

SOFT LIFECYCLE:
  assignments has no DELETE path. Assignments leave service by status
  update only, so historical months always re-resolve faithfully.

SNAPSHOT CONTRACT:
  Snapshot tables are never consulted when computing a plan. They exist
  so a dashboard can show "as of the last run" without recomputing, and
  they are fully rebuildable.

WAL MODE:
  Opened with WAL and foreign keys on, same as any small service that
  wants concurrent readers.

USAGE:
  st, err := sqlite.New("./data/agency.db")
  if err != nil { log.Fatal(err) }
  defer st.Close()

SEE ALSO:
  - agency/store.go: interface definitions
  - agency/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/care-engine/agency"
	"github.com/warp/care-engine/factory"
	"github.com/warp/care-engine/schedule"
)

// Store implements agency.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ agency.Store = (*Store)(nil)

// New creates a SQLite store. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schemaSQL := `
	CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		monthly_hours TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS assignments (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id),
		client_id TEXT NOT NULL REFERENCES clients(id),
		assignment_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT,
		schedule_json TEXT NOT NULL,
		status TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_client
		ON assignments(client_id);
	CREATE INDEX IF NOT EXISTS idx_assignments_worker
		ON assignments(worker_id);
	CREATE INDEX IF NOT EXISTS idx_assignments_status
		ON assignments(status);

	CREATE TABLE IF NOT EXISTS holidays (
		date TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		scope TEXT NOT NULL DEFAULT 'national'
	);

	-- Display-only snapshots. Rebuildable; never inputs to planning.
	CREATE TABLE IF NOT EXISTS balance_snapshots (
		worker_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		contracted_hours TEXT NOT NULL,
		scheduled_hours TEXT NOT NULL,
		balance TEXT NOT NULL,
		computed_at TEXT NOT NULL,
		PRIMARY KEY (worker_id, client_id, year, month)
	);

	CREATE TABLE IF NOT EXISTS reassignment_snapshots (
		date TEXT NOT NULL,
		client_id TEXT NOT NULL,
		expected_worker_id TEXT NOT NULL,
		actual_worker_id TEXT NOT NULL,
		reason TEXT NOT NULL,
		computed_at TEXT NOT NULL,
		PRIMARY KEY (date, client_id, expected_worker_id, actual_worker_id)
	);
	`
	_, err := s.db.Exec(schemaSQL)
	return err
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// =============================================================================
// WORKERS
// =============================================================================

func (s *Store) SaveWorker(ctx context.Context, w agency.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workers (id, name, email, active, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, email=excluded.email, active=excluded.active`,
		string(w.ID), w.Name, w.Email, boolToInt(w.Active), now())
	if err != nil {
		return fmt.Errorf("save worker %s: %w", w.ID, err)
	}
	return nil
}

func (s *Store) GetWorker(ctx context.Context, id schedule.WorkerID) (agency.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var w agency.Worker
	var active int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, active FROM workers WHERE id = ?`, string(id)).
		Scan(&w.ID, &w.Name, &w.Email, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return agency.Worker{}, schedule.ErrWorkerNotFound
	}
	if err != nil {
		return agency.Worker{}, fmt.Errorf("get worker %s: %w", id, err)
	}
	w.Active = active != 0
	return w, nil
}

func (s *Store) ListWorkers(ctx context.Context) ([]agency.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, active FROM workers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	defer rows.Close()

	var out []agency.Worker
	for rows.Next() {
		var w agency.Worker
		var active int
		if err := rows.Scan(&w.ID, &w.Name, &w.Email, &active); err != nil {
			return nil, err
		}
		w.Active = active != 0
		out = append(out, w)
	}
	return out, rows.Err()
}

// =============================================================================
// CLIENTS
// =============================================================================

func (s *Store) SaveClient(ctx context.Context, c agency.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, monthly_hours, active, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, monthly_hours=excluded.monthly_hours, active=excluded.active`,
		string(c.ID), c.Name, c.MonthlyHours.String(), boolToInt(c.Active), now())
	if err != nil {
		return fmt.Errorf("save client %s: %w", c.ID, err)
	}
	return nil
}

func (s *Store) GetClient(ctx context.Context, id schedule.ClientID) (agency.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c agency.Client
	var hours string
	var active int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, monthly_hours, active FROM clients WHERE id = ?`, string(id)).
		Scan(&c.ID, &c.Name, &hours, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return agency.Client{}, schedule.ErrClientNotFound
	}
	if err != nil {
		return agency.Client{}, fmt.Errorf("get client %s: %w", id, err)
	}
	c.MonthlyHours = parseDecimal(hours)
	c.Active = active != 0
	return c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]agency.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, monthly_hours, active FROM clients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []agency.Client
	for rows.Next() {
		var c agency.Client
		var hours string
		var active int
		if err := rows.Scan(&c.ID, &c.Name, &hours, &active); err != nil {
			return nil, err
		}
		c.MonthlyHours = parseDecimal(hours)
		c.Active = active != 0
		out = append(out, c)
	}
	return out, rows.Err()
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

func (s *Store) SaveAssignment(ctx context.Context, a schedule.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scheduleJSON, err := factory.MarshalSchedule(a.Schedule)
	if err != nil {
		return fmt.Errorf("save assignment %s: %w", a.ID, err)
	}

	var endDate any
	if a.EndDate != nil {
		endDate = a.EndDate.String()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO assignments (id, worker_id, client_id, assignment_type, start_date, end_date, schedule_json, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			worker_id=excluded.worker_id,
			assignment_type=excluded.assignment_type,
			start_date=excluded.start_date,
			end_date=excluded.end_date,
			schedule_json=excluded.schedule_json,
			status=excluded.status,
			updated_at=excluded.updated_at`,
		string(a.ID), string(a.WorkerID), string(a.ClientID), string(a.Type),
		a.StartDate.String(), endDate, string(scheduleJSON), string(a.Status), now())
	if err != nil {
		return fmt.Errorf("save assignment %s: %w", a.ID, err)
	}
	return nil
}

const assignmentColumns = `id, worker_id, client_id, assignment_type, start_date, end_date, schedule_json, status`

func (s *Store) GetAssignment(ctx context.Context, id schedule.AssignmentID) (schedule.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE id = ?`, string(id))
	a, err := scanAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return schedule.Assignment{}, schedule.ErrAssignmentNotFound
	}
	return a, err
}

func (s *Store) ListAssignments(ctx context.Context) ([]schedule.Assignment, error) {
	return s.queryAssignments(ctx,
		`SELECT `+assignmentColumns+` FROM assignments ORDER BY id`)
}

func (s *Store) AssignmentsForClient(ctx context.Context, id schedule.ClientID) ([]schedule.Assignment, error) {
	return s.queryAssignments(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE client_id = ? ORDER BY id`, string(id))
}

func (s *Store) AssignmentsForWorker(ctx context.Context, id schedule.WorkerID) ([]schedule.Assignment, error) {
	return s.queryAssignments(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE worker_id = ? ORDER BY id`, string(id))
}

func (s *Store) queryAssignments(ctx context.Context, query string, args ...any) ([]schedule.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var out []schedule.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (schedule.Assignment, error) {
	var a schedule.Assignment
	var start string
	var end sql.NullString
	var scheduleJSON string

	err := row.Scan(&a.ID, &a.WorkerID, &a.ClientID, &a.Type, &start, &end, &scheduleJSON, &a.Status)
	if err != nil {
		return schedule.Assignment{}, err
	}

	a.StartDate, err = schedule.ParseDate(start)
	if err != nil {
		return schedule.Assignment{}, fmt.Errorf("assignment %s: bad start date: %w", a.ID, err)
	}
	if end.Valid {
		d, err := schedule.ParseDate(end.String)
		if err != nil {
			return schedule.Assignment{}, fmt.Errorf("assignment %s: bad end date: %w", a.ID, err)
		}
		a.EndDate = &d
	}

	// Missing day keys in stored JSON repair to disabled here, same as
	// on the API path. Rows written through SaveAssignment always carry
	// all 8 keys, so a repair means the row was edited by hand.
	ws, repairs, err := factory.ParseSchedule([]byte(scheduleJSON))
	if err != nil {
		return schedule.Assignment{}, fmt.Errorf("assignment %s: bad schedule: %w", a.ID, err)
	}
	for _, an := range repairs {
		log.Printf("[Store] assignment %s: %s", a.ID, an.Detail)
	}
	a.Schedule = ws
	return a, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) SaveHoliday(ctx context.Context, h schedule.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (date, name, scope) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET name=excluded.name, scope=excluded.scope`,
		h.Date.String(), h.Name, h.Scope)
	if err != nil {
		return fmt.Errorf("save holiday %s: %w", h.Date, err)
	}
	return nil
}

func (s *Store) DeleteHoliday(ctx context.Context, d schedule.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE date = ?`, d.String())
	if err != nil {
		return fmt.Errorf("delete holiday %s: %w", d, err)
	}
	return nil
}

func (s *Store) HolidaysForYear(ctx context.Context, year int) ([]schedule.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, name, scope FROM holidays WHERE substr(date, 1, 4) = ? ORDER BY date`,
		fmt.Sprintf("%04d", year))
	if err != nil {
		return nil, fmt.Errorf("holidays for %d: %w", year, err)
	}
	defer rows.Close()

	var out []schedule.Holiday
	for rows.Next() {
		var dateStr string
		var h schedule.Holiday
		if err := rows.Scan(&dateStr, &h.Name, &h.Scope); err != nil {
			return nil, err
		}
		h.Date, err = schedule.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", dateStr, err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

func (s *Store) SaveBalanceSnapshot(ctx context.Context, b schedule.MonthlyBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO balance_snapshots (worker_id, client_id, year, month, contracted_hours, scheduled_hours, balance, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(worker_id, client_id, year, month) DO UPDATE SET
			contracted_hours=excluded.contracted_hours,
			scheduled_hours=excluded.scheduled_hours,
			balance=excluded.balance,
			computed_at=excluded.computed_at`,
		string(b.WorkerID), string(b.ClientID), b.Year, b.Month,
		b.ContractedHours.String(), b.ScheduledHours.String(), b.Balance.String(), now())
	if err != nil {
		return fmt.Errorf("save balance snapshot: %w", err)
	}
	return nil
}

func (s *Store) SaveReassignmentSnapshot(ctx context.Context, r schedule.ReassignmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reassignment_snapshots (date, client_id, expected_worker_id, actual_worker_id, reason, computed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, client_id, expected_worker_id, actual_worker_id) DO UPDATE SET
			reason=excluded.reason,
			computed_at=excluded.computed_at`,
		r.Date.String(), string(r.ClientID), string(r.ExpectedWorkerID),
		string(r.ActualWorkerID), string(r.Reason), now())
	if err != nil {
		return fmt.Errorf("save reassignment snapshot: %w", err)
	}
	return nil
}

// =============================================================================
// RESET
// =============================================================================

// Reset clears all data. Used by demo scenario loading.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"reassignment_snapshots", "balance_snapshots", "assignments", "holidays", "clients", "workers"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseDecimal reads a stored decimal column; values were written by
// decimal.String, so a failure means a corrupted row and zero is the
// safe display value.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
