// Package market tracks which item ids the remote service considers
// tradeable. The gatherer uses it to drop configured items that can
// never produce listings instead of polling them forever.
package market

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	universalis "github.com/RikuPy/xivuniversalis"
)

// Config holds registry configuration.
type Config struct {
	ReconcileInterval time.Duration // How often to re-fetch the marketable set
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReconcileInterval: 6 * time.Hour,
	}
}

// ItemSource provides the marketable item id set.
type ItemSource interface {
	GetMarketableItemIDs(ctx context.Context) ([]int, error)
}

// Registry holds the marketable item id set, synced from the API.
type Registry struct {
	cfg    Config
	source ItemSource
	logger *slog.Logger

	mu         sync.RWMutex
	marketable map[int]bool
	syncedAt   time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ ItemSource = (*universalis.Client)(nil)

// NewRegistry creates a new Registry.
func NewRegistry(cfg Config, source ItemSource, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		cfg:        cfg,
		source:     source,
		logger:     logger,
		marketable: make(map[int]bool),
	}
}

// Start performs the initial sync (blocking) and begins background
// reconciliation.
func (r *Registry) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	if err := r.sync(r.ctx); err != nil {
		r.cancel()
		return fmt.Errorf("initial marketable sync: %w", err)
	}

	r.wg.Add(1)
	go r.reconcileLoop()

	return nil
}

// Stop shuts down background reconciliation.
func (r *Registry) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsMarketable reports whether an item can appear on the market board.
func (r *Registry) IsMarketable(itemID int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.marketable[itemID]
}

// Filter returns the subset of ids the remote service tracks, preserving
// order.
func (r *Registry) Filter(itemIDs []int) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int, 0, len(itemIDs))
	for _, id := range itemIDs {
		if r.marketable[id] {
			out = append(out, id)
		}
	}
	return out
}

// Size returns the number of marketable items currently known.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.marketable)
}

// SyncedAt returns when the marketable set was last fetched
// successfully. Zero before the first sync.
func (r *Registry) SyncedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.syncedAt
}

func (r *Registry) reconcileLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if err := r.sync(r.ctx); err != nil {
				// Keep serving the previous set; the next tick retries.
				r.logger.Error("marketable reconcile failed", "error", err)
			}
		}
	}
}

func (r *Registry) sync(ctx context.Context) error {
	start := time.Now()

	ids, err := r.source.GetMarketableItemIDs(ctx)
	if err != nil {
		return err
	}

	marketable := make(map[int]bool, len(ids))
	for _, id := range ids {
		marketable[id] = true
	}

	r.mu.Lock()
	r.marketable = marketable
	r.syncedAt = time.Now()
	r.mu.Unlock()

	r.logger.Info("marketable set synced",
		"items", len(ids),
		"duration", time.Since(start),
	)
	return nil
}
