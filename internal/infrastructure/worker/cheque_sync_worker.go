package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/port"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/service"
)

// ChequeSyncWorker periodically retries unsynced cheques. The ledger machine
// is offline for most of the day, so the worker probes connectivity once per
// cycle and skips the batch entirely when the gateway is down.
type ChequeSyncWorker struct {
	chequeRepo    port.ChequeRepository
	chequeService service.ChequeService
	gateway       port.LedgerGateway
	logger        *zap.Logger

	pollInterval time.Duration
	batchSize    int

	mu        sync.RWMutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewChequeSyncWorker creates a new cheque sync worker
func NewChequeSyncWorker(
	chequeRepo port.ChequeRepository,
	chequeService service.ChequeService,
	gateway port.LedgerGateway,
	pollInterval time.Duration,
	batchSize int,
	logger *zap.Logger,
) *ChequeSyncWorker {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Minute
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &ChequeSyncWorker{
		chequeRepo:    chequeRepo,
		chequeService: chequeService,
		gateway:       gateway,
		logger:        logger,
		pollInterval:  pollInterval,
		batchSize:     batchSize,
	}
}

// Start starts the sync loop
func (w *ChequeSyncWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("cheque sync worker is already running")
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.isRunning = true

	w.logger.Info("ChequeSyncWorker started",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Int("batch_size", w.batchSize))

	go w.syncLoop()

	return nil
}

// Stop stops the sync loop
func (w *ChequeSyncWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isRunning {
		return nil
	}

	w.isRunning = false
	if w.cancel != nil {
		w.cancel()
	}

	w.logger.Info("ChequeSyncWorker stopped")
	return nil
}

// Name returns the worker name for identification
func (w *ChequeSyncWorker) Name() string {
	return "ChequeSyncWorker"
}

func (w *ChequeSyncWorker) syncLoop() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Sync immediately on start
	w.syncBatch()

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Debug("Sync loop context cancelled")
			return

		case <-ticker.C:
			w.syncBatch()
		}
	}
}

func (w *ChequeSyncWorker) syncBatch() {
	ctx, cancel := context.WithTimeout(w.ctx, w.pollInterval)
	defer cancel()

	if !w.gateway.CheckConnection(ctx) {
		w.logger.Debug("Ledger gateway offline, skipping cheque sync cycle")
		return
	}

	cheques, err := w.chequeRepo.ListUnsynced(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("Failed to list unsynced cheques", zap.Error(err))
		return
	}
	if len(cheques) == 0 {
		return
	}

	syncedCount := 0
	for _, c := range cheques {
		state, err := w.chequeService.TrySync(ctx, c.ID)
		if err != nil {
			w.logger.Error("Cheque sync attempt errored",
				zap.Int64("cheque_id", c.ID),
				zap.Error(err))
			continue
		}
		if state.Cheque.Synced() {
			syncedCount++
		}
	}

	w.logger.Info("Cheque sync cycle completed",
		zap.Int("attempted", len(cheques)),
		zap.Int("synced", syncedCount))
}
