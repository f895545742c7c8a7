/*
snapshot.go - Automated month-end snapshot job

PURPOSE:
  Periodically recomputes the previous month's plan for every client
  and writes the resulting balances and reassignment records to the
  snapshot tables for display and audit.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Always snapshots the PREVIOUS calendar month (the last closed one)
  - Snapshots are upserts: re-running overwrites with freshly computed
    values, so a corrected holiday calendar corrects the snapshot
  - Snapshots are never read back as inputs; every plan is recomputed
    from assignments and the calendar

FAILURE BEHAVIOUR:
  A holiday calendar failure skips the affected client and leaves its
  previous snapshot untouched. Nothing is ever written from a plan
  computed against an assumed-empty calendar.

USAGE:
  job := NewSnapshotJob(store, handler)
  job.Start()
  // ... later
  job.Stop()

SEE ALSO:
  - agency/store.go: SnapshotStore (write-only from the domain)
  - agency/planner.go: ClientMonth
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/care-engine/agency"
	"github.com/warp/care-engine/schedule"
)

// SnapshotJob writes month-end balance and reassignment snapshots.
type SnapshotJob struct {
	Store         agency.Store
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSnapshotJob creates a new snapshot job.
func NewSnapshotJob(store agency.Store, handler *Handler) *SnapshotJob {
	return &SnapshotJob{
		Store:         store,
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the job.
func (sj *SnapshotJob) Start() {
	sj.mu.Lock()
	defer sj.mu.Unlock()

	if !sj.Enabled {
		log.Println("[Snapshot] Disabled, not starting")
		return
	}

	sj.ticker = time.NewTicker(sj.CheckInterval)
	sj.wg.Add(1)

	go sj.run()

	log.Printf("[Snapshot] Started with check interval: %v", sj.CheckInterval)
}

// Stop stops the job.
func (sj *SnapshotJob) Stop() {
	sj.mu.Lock()
	defer sj.mu.Unlock()

	if sj.ticker != nil {
		sj.ticker.Stop()
		close(sj.stop)
		sj.wg.Wait()
		log.Println("[Snapshot] Stopped")
	}
}

func (sj *SnapshotJob) run() {
	defer sj.wg.Done()

	// Run immediately on start
	sj.snapshotPreviousMonth()

	for {
		select {
		case <-sj.ticker.C:
			sj.snapshotPreviousMonth()
		case <-sj.stop:
			return
		}
	}
}

// RunNow triggers an immediate snapshot pass (for testing/admin).
func (sj *SnapshotJob) RunNow() {
	sj.snapshotPreviousMonth()
}

func (sj *SnapshotJob) snapshotPreviousMonth() {
	ctx := context.Background()
	year, month := previousMonth(time.Now())

	clients, err := sj.Store.ListClients(ctx)
	if err != nil {
		log.Printf("[Snapshot] Error listing clients: %v", err)
		return
	}

	written := 0
	for _, c := range clients {
		n, err := sj.snapshotClient(ctx, c.ID, year, month)
		if err != nil {
			log.Printf("[Snapshot] Skipping client %s: %v", c.ID, err)
			continue
		}
		written += n
	}

	if written > 0 {
		log.Printf("[Snapshot] %d-%02d: wrote %d records", year, month, written)
	}
}

func (sj *SnapshotJob) snapshotClient(ctx context.Context, id schedule.ClientID, year int, month time.Month) (int, error) {
	plan, err := sj.Handler.Planner.ClientMonth(ctx, id, year, month)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, b := range plan.Balances {
		if err := sj.Store.SaveBalanceSnapshot(ctx, b); err != nil {
			return written, err
		}
		written++
	}
	for _, r := range plan.Reassignments {
		if err := sj.Store.SaveReassignmentSnapshot(ctx, r); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// previousMonth returns the last fully closed calendar month.
func previousMonth(now time.Time) (int, time.Month) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, 0, -1)
	return prev.Year(), prev.Month()
}
