package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ongfinanzas/internal/amqp"
	"ongfinanzas/internal/core"
	"ongfinanzas/internal/log"
	"ongfinanzas/internal/sheets"
)

// BalanceSource yields the balance of every visible rubro. *storage.Store satisfies it.
type BalanceSource interface {
	ListBalances(ctx context.Context) ([]core.RubroBalance, error)
}

// Config holds the worker's scheduling parameters.
type Config struct {
	// Interval between full resyncs (default: 5m)
	Interval time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{Interval: 5 * time.Minute}
}

// BalanceSyncWorker rewrites the exported balance table whenever the ledger
// changes, and periodically as a backstop for lost events.
type BalanceSyncWorker struct {
	source BalanceSource
	writer sheets.BalanceWriter
	config Config
	logger *log.Logger

	// Serializes rewrites; events and ticks may race.
	syncMu sync.Mutex

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewBalanceSyncWorker(source BalanceSource, writer sheets.BalanceWriter, config Config) *BalanceSyncWorker {
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	return &BalanceSyncWorker{
		source: source,
		writer: writer,
		config: config,
		logger: log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker),
	}
}

// WithLogger replaces the worker's logger.
func (w *BalanceSyncWorker) WithLogger(l *log.Logger) *BalanceSyncWorker {
	w.logger = l.WithComponent(log.ComponentWorker)
	return w
}

// HandleLedgerEvent resyncs the balance table for events that can move a balance.
func (w *BalanceSyncWorker) HandleLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error {
	if !event.AffectsBalances() {
		w.logger.DebugContext(ctx, "Ledger event does not affect balances, skipping",
			log.FieldEventID, event.ID, log.FieldEntity, event.Entity, log.FieldAction, event.Action)
		return nil
	}
	w.logger.InfoContext(ctx, "Processing ledger event",
		log.FieldEventID, event.ID,
		log.FieldEntity, event.Entity,
		log.FieldEntityID, event.EntityID,
		log.FieldAction, event.Action)
	return w.SyncBalances(ctx)
}

// SyncBalances reads every visible balance and replaces the exported table.
func (w *BalanceSyncWorker) SyncBalances(ctx context.Context) error {
	w.syncMu.Lock()
	defer w.syncMu.Unlock()

	start := time.Now()
	rows, err := w.source.ListBalances(ctx)
	if err != nil {
		return fmt.Errorf("list balances: %w", err)
	}
	snapshot := sheets.Snapshot{GeneratedAt: time.Now(), Rows: rows}
	if err := w.writer.WriteBalances(ctx, snapshot); err != nil {
		return fmt.Errorf("write balances: %w", err)
	}

	w.logger.InfoContext(ctx, "Balances synced",
		log.FieldOperation, log.OpSync,
		log.FieldRows, len(rows),
		log.FieldDurationHuman, time.Since(start).String())
	return nil
}

// Start runs a sync immediately and then every Interval until Stop or ctx ends.
// Returns an error if already running.
func (w *BalanceSyncWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("balance sync worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	go w.runLoop(ctx, stopCh, doneCh)

	w.logger.InfoContext(ctx, "Balance sync worker started", "interval", w.config.Interval.String())
	return nil
}

// Stop signals the loop and waits for it to finish or for ctx to expire.
func (w *BalanceSyncWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	stopCh, doneCh := w.stopCh, w.doneCh
	w.running = false
	w.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		w.logger.InfoContext(ctx, "Balance sync worker stopped")
		return nil
	case <-ctx.Done():
		w.logger.WarnContext(ctx, "Balance sync worker stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the periodic loop is active
func (w *BalanceSyncWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *BalanceSyncWorker) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	w.syncLogged(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.syncLogged(ctx)
		}
	}
}

func (w *BalanceSyncWorker) syncLogged(ctx context.Context) {
	if err := w.SyncBalances(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Periodic balance sync failed", log.FieldError, err)
	}
}
