package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	universalis "github.com/RikuPy/xivuniversalis"
	"github.com/RikuPy/xivuniversalis/internal/config"
	"github.com/RikuPy/xivuniversalis/internal/model"
)

// chunkSize is how many item ids go into one listings request.
const chunkSize = 50

// SnapshotHandler receives fetched snapshots.
type SnapshotHandler interface {
	HandleSnapshot(snapshot model.Snapshot) error
}

// SnapshotHandlerFunc is a function adapter for SnapshotHandler.
type SnapshotHandlerFunc func(model.Snapshot) error

func (f SnapshotHandlerFunc) HandleSnapshot(s model.Snapshot) error {
	return f(s)
}

// Poller periodically fetches market board snapshots via the API.
type Poller struct {
	cfg     config.PollerConfig
	client  *universalis.Client
	handler SnapshotHandler
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg config.PollerConfig, client *universalis.Client, handler SnapshotHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:     cfg,
		client:  client,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("market poller started",
		"scope", p.cfg.Scope,
		"items", len(p.cfg.ItemIDs),
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("market poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.pollAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollAll()
		}
	}
}

// pollAll fetches one snapshot per configured item, chunked into batch
// requests running concurrently up to the configured limit.
func (p *Poller) pollAll() {
	runID := uuid.New()
	start := time.Now()

	opts := universalis.ListingOptions{
		ListingLimit: p.cfg.ListingLimit,
		HistoryLimit: p.cfg.HistoryLimit,
	}

	var (
		mu        sync.Mutex
		snapshots int
	)

	g, ctx := errgroup.WithContext(p.ctx)
	g.SetLimit(p.cfg.Concurrency)

	for _, ids := range chunk(p.cfg.ItemIDs, chunkSize) {
		g.Go(func() error {
			results, err := p.client.GetListingsForItems(ctx, ids, p.cfg.Scope, opts)
			if err != nil {
				p.logger.Error("poll chunk failed",
					"run_id", runID,
					"scope", p.cfg.Scope,
					"items", len(ids),
					"error", err,
				)
				// One failed chunk should not abort the cycle.
				return nil
			}

			fetchedAt := time.Now().UTC()
			for _, r := range results {
				snapshot := model.Snapshot{
					RunID:     runID,
					Scope:     p.cfg.Scope,
					FetchedAt: fetchedAt,
					Results:   r,
				}
				if err := p.handler.HandleSnapshot(snapshot); err != nil {
					p.logger.Error("snapshot handler failed",
						"run_id", runID,
						"item_id", r.ItemID,
						"error", err,
					)
					continue
				}
				mu.Lock()
				snapshots++
				mu.Unlock()
			}
			return nil
		})
	}

	g.Wait()

	p.logger.Info("poll cycle complete",
		"run_id", runID,
		"snapshots", snapshots,
		"duration", time.Since(start),
	)
}

// chunk splits ids into slices of at most size elements.
func chunk(ids []int, size int) [][]int {
	if size < 1 {
		size = 1
	}
	chunks := make([][]int, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
