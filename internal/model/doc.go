// Package model defines shared data types used between the poller and
// the writers.
//
// Conventions:
//   - Prices: int64 gil
//   - Timestamps: time.Time in UTC, stored as µs since epoch
//   - IDs: int item/world ids as assigned by the game, uuid.UUID for poll runs
package model
