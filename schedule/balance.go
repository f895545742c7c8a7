/*
balance.go - Scheduled vs contracted monthly hours

PURPOSE:
  Answers "how do this worker's scheduled hours for this client compare
  to what the client contracted this month?". Positive balance means
  over-scheduled, negative under-scheduled; both are meaningful
  operational states and neither is clamped.

NO STATE:
  ComputeBalance is a pure function of its inputs and is recomputed on
  every request. There is no persisted "current balance" here; anything
  written to a snapshot table is a read-only copy taken by a caller,
  never an input to a later computation.
*/
package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComputeBalance builds the monthly balance for one worker/client pair
// from already-resolved entries. Entries belonging to other pairs are
// filtered out, so callers may pass a client's full merged month.
func ComputeBalance(clientID ClientID, workerID WorkerID, year int, month time.Month, contractedHours decimal.Decimal, entries []ResolvedDayEntry) MonthlyBalance {
	var pair []ResolvedDayEntry
	for _, e := range entries {
		if e.ClientID == clientID && e.WorkerID == workerID {
			pair = append(pair, e)
		}
	}

	scheduled := MonthHours(pair)
	return MonthlyBalance{
		WorkerID:        workerID,
		ClientID:        clientID,
		Year:            year,
		Month:           int(month),
		ContractedHours: contractedHours,
		ScheduledHours:  scheduled,
		Balance:         scheduled.Sub(contractedHours),
	}
}
