// Package store provides an in-memory agency.Store for tests and dev.
package store

import (
	"context"
	"sync"

	"github.com/warp/care-engine/agency"
	"github.com/warp/care-engine/schedule"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu            sync.RWMutex
	workers       map[schedule.WorkerID]agency.Worker
	clients       map[schedule.ClientID]agency.Client
	assignments   map[schedule.AssignmentID]schedule.Assignment
	holidays      map[schedule.Date]schedule.Holiday
	balances      []schedule.MonthlyBalance
	reassignments []schedule.ReassignmentRecord
}

func NewMemory() *Memory {
	return &Memory{
		workers:     make(map[schedule.WorkerID]agency.Worker),
		clients:     make(map[schedule.ClientID]agency.Client),
		assignments: make(map[schedule.AssignmentID]schedule.Assignment),
		holidays:    make(map[schedule.Date]schedule.Holiday),
	}
}

var _ agency.Store = (*Memory)(nil)

// =============================================================================
// WORKERS
// =============================================================================

func (m *Memory) SaveWorker(_ context.Context, w agency.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers[w.ID] = w
	return nil
}

func (m *Memory) GetWorker(_ context.Context, id schedule.WorkerID) (agency.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workers[id]
	if !ok {
		return agency.Worker{}, schedule.ErrWorkerNotFound
	}
	return w, nil
}

func (m *Memory) ListWorkers(_ context.Context) ([]agency.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]agency.Worker, 0, len(m.workers))
	for _, w := range m.workers {
		out = append(out, w)
	}
	return out, nil
}

// =============================================================================
// CLIENTS
// =============================================================================

func (m *Memory) SaveClient(_ context.Context, c agency.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[c.ID] = c
	return nil
}

func (m *Memory) GetClient(_ context.Context, id schedule.ClientID) (agency.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	if !ok {
		return agency.Client{}, schedule.ErrClientNotFound
	}
	return c, nil
}

func (m *Memory) ListClients(_ context.Context) ([]agency.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]agency.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	return out, nil
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

func (m *Memory) SaveAssignment(_ context.Context, a schedule.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[a.ID] = a
	return nil
}

func (m *Memory) GetAssignment(_ context.Context, id schedule.AssignmentID) (schedule.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assignments[id]
	if !ok {
		return schedule.Assignment{}, schedule.ErrAssignmentNotFound
	}
	return a, nil
}

func (m *Memory) ListAssignments(_ context.Context) ([]schedule.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]schedule.Assignment, 0, len(m.assignments))
	for _, a := range m.assignments {
		out = append(out, a)
	}
	return out, nil
}

func (m *Memory) AssignmentsForClient(_ context.Context, id schedule.ClientID) ([]schedule.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []schedule.Assignment
	for _, a := range m.assignments {
		if a.ClientID == id {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Memory) AssignmentsForWorker(_ context.Context, id schedule.WorkerID) ([]schedule.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []schedule.Assignment
	for _, a := range m.assignments {
		if a.WorkerID == id {
			out = append(out, a)
		}
	}
	return out, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (m *Memory) SaveHoliday(_ context.Context, h schedule.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.Date] = h
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, d schedule.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.holidays, d)
	return nil
}

func (m *Memory) HolidaysForYear(_ context.Context, year int) ([]schedule.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []schedule.Holiday
	for _, h := range m.holidays {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	return out, nil
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

func (m *Memory) SaveBalanceSnapshot(_ context.Context, b schedule.MonthlyBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances = append(m.balances, b)
	return nil
}

func (m *Memory) SaveReassignmentSnapshot(_ context.Context, r schedule.ReassignmentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reassignments = append(m.reassignments, r)
	return nil
}

// BalanceSnapshots returns the recorded balance snapshots (test hook).
func (m *Memory) BalanceSnapshots() []schedule.MonthlyBalance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]schedule.MonthlyBalance, len(m.balances))
	copy(out, m.balances)
	return out
}

// ReassignmentSnapshots returns the recorded reassignment snapshots (test hook).
func (m *Memory) ReassignmentSnapshots() []schedule.ReassignmentRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]schedule.ReassignmentRecord, len(m.reassignments))
	copy(out, m.reassignments)
	return out
}

// =============================================================================
// RESET
// =============================================================================

// Reset clears all data. Used by demo scenario loading.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers = make(map[schedule.WorkerID]agency.Worker)
	m.clients = make(map[schedule.ClientID]agency.Client)
	m.assignments = make(map[schedule.AssignmentID]schedule.Assignment)
	m.holidays = make(map[schedule.Date]schedule.Holiday)
	m.balances = nil
	m.reassignments = nil
	return nil
}
