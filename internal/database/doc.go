// Package database provides connection pool management for the gatherer's
// PostgreSQL storage: listing and sale snapshots captured from the
// Universalis market board.
package database
