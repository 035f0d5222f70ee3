package writer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RikuPy/xivuniversalis/internal/config"
	"github.com/RikuPy/xivuniversalis/internal/model"
)

// Metrics counts writer activity.
type Metrics struct {
	Inserts   int64 // Rows inserted
	Conflicts int64 // Rows skipped as already present
	Flushes   int64 // Flush operations
	Errors    int64 // Failed flushes
}

// listingRow is one active listing ready for insert.
type listingRow struct {
	RunID        uuid.UUID
	ItemID       int
	ListingID    int64
	Scope        string
	WorldID      int
	WorldName    string
	PricePerUnit int64
	Quantity     int
	TotalPrice   int64
	Tax          int64
	HQ           bool
	RetainerName string
	UpdatedAt    int64 // µs since epoch
	FetchedAt    int64 // µs since epoch
}

// saleRow is one sale history entry ready for insert.
type saleRow struct {
	RunID        uuid.UUID
	ItemID       int
	Scope        string
	WorldID      int
	WorldName    string
	PricePerUnit int64
	Quantity     int
	TotalPrice   int64
	HQ           bool
	BuyerName    string
	SoldAt       int64 // µs since epoch
	FetchedAt    int64 // µs since epoch
}

// batchSender is the slice of pgxpool.Pool the writer needs.
type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

var _ batchSender = (*pgxpool.Pool)(nil)

// SnapshotWriter consumes snapshots and writes listing and sale rows.
type SnapshotWriter struct {
	cfg    config.WriterConfig
	logger *slog.Logger

	input chan model.Snapshot
	db    batchSender

	listingBatch []listingRow
	saleBatch    []saleRow
	batchMu      sync.Mutex
	flushTicker  *time.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics Metrics
}

// NewSnapshotWriter creates a new SnapshotWriter.
func NewSnapshotWriter(cfg config.WriterConfig, db batchSender, logger *slog.Logger) *SnapshotWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotWriter{
		cfg:          cfg,
		db:           db,
		logger:       logger,
		input:        make(chan model.Snapshot, cfg.BufferSize),
		listingBatch: make([]listingRow, 0, cfg.BatchSize),
		saleBatch:    make([]saleRow, 0, cfg.BatchSize),
	}
}

// Enqueue hands a snapshot to the writer. It blocks while the buffer is
// full and reports false once the writer has been stopped. Must not be
// called before Start.
func (w *SnapshotWriter) Enqueue(snapshot model.Snapshot) bool {
	select {
	case w.input <- snapshot:
		return true
	case <-w.ctx.Done():
		return false
	}
}

// Start begins consuming snapshots and writing to the database.
func (w *SnapshotWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("snapshot writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer, drains queued snapshots and
// flushes what remains. The final database writes run on ctx, not the
// lifecycle context, which is already canceled at this point.
func (w *SnapshotWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping snapshot writer")

	if w.cancel != nil {
		w.cancel()
	}
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("snapshot writer stop timed out")
		return ctx.Err()
	}

	w.drain(ctx)
	w.flush(ctx)
	w.logger.Info("snapshot writer stopped")
	return nil
}

// drain empties the input buffer after the loops have exited so
// snapshots enqueued during shutdown are not lost.
func (w *SnapshotWriter) drain(ctx context.Context) {
	for {
		select {
		case snapshot := <-w.input:
			w.handleSnapshot(ctx, snapshot)
		default:
			return
		}
	}
}

// Stats returns current metrics.
func (w *SnapshotWriter) Stats() Metrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// consumeLoop reads snapshots from the input buffer and accumulates
// batches.
func (w *SnapshotWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case snapshot := <-w.input:
			w.handleSnapshot(w.ctx, snapshot)
		}
	}
}

// flushLoop periodically flushes the batches.
func (w *SnapshotWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush(w.ctx)
		}
	}
}

// handleSnapshot transforms a snapshot and adds its rows to the batches.
func (w *SnapshotWriter) handleSnapshot(ctx context.Context, snapshot model.Snapshot) {
	listings, sales := transform(snapshot)

	w.batchMu.Lock()
	w.listingBatch = append(w.listingBatch, listings...)
	w.saleBatch = append(w.saleBatch, sales...)
	shouldFlush := len(w.listingBatch) >= w.cfg.BatchSize || len(w.saleBatch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush(ctx)
	}
}

// transform converts one snapshot into insertable rows.
func transform(snapshot model.Snapshot) ([]listingRow, []saleRow) {
	fetchedAt := snapshot.FetchedAt.UnixMicro()
	results := snapshot.Results

	listings := make([]listingRow, 0, len(results.Active))
	for _, l := range results.Active {
		listings = append(listings, listingRow{
			RunID:        snapshot.RunID,
			ItemID:       results.ItemID,
			ListingID:    l.ListingID,
			Scope:        snapshot.Scope,
			WorldID:      l.WorldID,
			WorldName:    l.WorldName,
			PricePerUnit: l.PricePerUnit,
			Quantity:     l.Quantity,
			TotalPrice:   l.TotalPrice,
			Tax:          l.Tax,
			HQ:           l.HQ,
			RetainerName: l.RetainerName,
			UpdatedAt:    l.UpdatedAt.UnixMicro(),
			FetchedAt:    fetchedAt,
		})
	}

	sales := make([]saleRow, 0, len(results.SaleHistory))
	for _, s := range results.SaleHistory {
		sales = append(sales, saleRow{
			RunID:        snapshot.RunID,
			ItemID:       s.ItemID,
			Scope:        snapshot.Scope,
			WorldID:      s.WorldID,
			WorldName:    s.WorldName,
			PricePerUnit: s.PricePerUnit,
			Quantity:     s.Quantity,
			TotalPrice:   s.TotalPrice,
			HQ:           s.HQ,
			BuyerName:    s.BuyerName,
			SoldAt:       s.SoldAt.UnixMicro(),
			FetchedAt:    fetchedAt,
		})
	}

	return listings, sales
}

// flush writes the current batches to the database.
func (w *SnapshotWriter) flush(ctx context.Context) {
	w.batchMu.Lock()
	if len(w.listingBatch) == 0 && len(w.saleBatch) == 0 {
		w.batchMu.Unlock()
		return
	}

	listings := w.listingBatch
	sales := w.saleBatch
	w.listingBatch = make([]listingRow, 0, w.cfg.BatchSize)
	w.saleBatch = make([]saleRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(ctx, listings, sales)
	if err != nil {
		w.logger.Error("batch insert failed",
			"error", err,
			"listings", len(listings),
			"sales", len(sales),
		)
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	total := len(listings) + len(sales)
	w.batchMu.Lock()
	w.metrics.Inserts += int64(total - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed snapshots",
		"listings", len(listings),
		"sales", len(sales),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *SnapshotWriter) batchInsert(ctx context.Context, listings []listingRow, sales []saleRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range listings {
		batch.Queue(`
			INSERT INTO listings (run_id, item_id, listing_id, scope, world_id, world_name,
				price_per_unit, quantity, total_price, tax, hq, retainer_name, updated_at, fetched_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (item_id, listing_id, updated_at) DO NOTHING
		`, r.RunID, r.ItemID, r.ListingID, r.Scope, r.WorldID, r.WorldName,
			r.PricePerUnit, r.Quantity, r.TotalPrice, r.Tax, r.HQ, r.RetainerName, r.UpdatedAt, r.FetchedAt)
	}
	for _, r := range sales {
		batch.Queue(`
			INSERT INTO sales (run_id, item_id, scope, world_id, world_name,
				price_per_unit, quantity, total_price, hq, buyer_name, sold_at, fetched_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (item_id, world_id, sold_at, buyer_name) DO NOTHING
		`, r.RunID, r.ItemID, r.Scope, r.WorldID, r.WorldName,
			r.PricePerUnit, r.Quantity, r.TotalPrice, r.HQ, r.BuyerName, r.SoldAt, r.FetchedAt)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range len(listings) + len(sales) {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
