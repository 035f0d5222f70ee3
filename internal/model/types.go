package model

import (
	"time"

	"github.com/google/uuid"

	universalis "github.com/RikuPy/xivuniversalis"
)

// Snapshot is one item's market board state as captured by a poll cycle.
type Snapshot struct {
	RunID     uuid.UUID                   // Poll cycle that captured this snapshot
	Scope     string                      // World, datacenter or region queried
	FetchedAt time.Time                   // When the gatherer received the response
	Results   *universalis.ListingResults // Listings and sale history for one item
}
