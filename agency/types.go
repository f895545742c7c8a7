// Package agency implements the home-care agency domain on top of the
// scheduling engine: worker and client records, assignment lifecycle,
// holiday calendars and monthly planning.
package agency

import (
	"github.com/shopspring/decimal"

	"github.com/warp/care-engine/schedule"
)

// =============================================================================
// AGENCY RECORDS
// =============================================================================

// Worker is a care worker employed by the agency.
type Worker struct {
	ID     schedule.WorkerID
	Name   string
	Email  string
	Active bool
}

// Client is a person receiving care. MonthlyHours is the contracted
// service volume their plan is balanced against.
type Client struct {
	ID           schedule.ClientID
	Name         string
	MonthlyHours decimal.Decimal
	Active       bool
}
