// Package writer persists polled market board snapshots to PostgreSQL.
//
// Snapshots are consumed from a buffered channel, accumulated into
// batches, and flushed either when the batch fills or on a ticker.
// Inserts use ON CONFLICT DO NOTHING so re-polling an unchanged board is
// harmless.
package writer
