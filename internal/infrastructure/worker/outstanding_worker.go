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

// OutstandingRefreshWorker refreshes the outstanding-bill cache from the
// ledger on a timer. A failed refresh leaves the previous snapshot in place.
type OutstandingRefreshWorker struct {
	outstandingService service.OutstandingService
	gateway            port.LedgerGateway
	logger             *zap.Logger

	refreshInterval time.Duration

	mu        sync.RWMutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewOutstandingRefreshWorker creates a new outstanding refresh worker
func NewOutstandingRefreshWorker(
	outstandingService service.OutstandingService,
	gateway port.LedgerGateway,
	refreshInterval time.Duration,
	logger *zap.Logger,
) *OutstandingRefreshWorker {
	if refreshInterval <= 0 {
		refreshInterval = 30 * time.Minute
	}
	return &OutstandingRefreshWorker{
		outstandingService: outstandingService,
		gateway:            gateway,
		logger:             logger,
		refreshInterval:    refreshInterval,
	}
}

// Start starts the refresh loop
func (w *OutstandingRefreshWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("outstanding refresh worker is already running")
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.isRunning = true

	w.logger.Info("OutstandingRefreshWorker started",
		zap.Duration("refresh_interval", w.refreshInterval))

	go w.refreshLoop()

	return nil
}

// Stop stops the refresh loop
func (w *OutstandingRefreshWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isRunning {
		return nil
	}

	w.isRunning = false
	if w.cancel != nil {
		w.cancel()
	}

	w.logger.Info("OutstandingRefreshWorker stopped")
	return nil
}

// Name returns the worker name for identification
func (w *OutstandingRefreshWorker) Name() string {
	return "OutstandingRefreshWorker"
}

func (w *OutstandingRefreshWorker) refreshLoop() {
	ticker := time.NewTicker(w.refreshInterval)
	defer ticker.Stop()

	// Refresh immediately on start
	w.refresh()

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Debug("Refresh loop context cancelled")
			return

		case <-ticker.C:
			w.refresh()
		}
	}
}

func (w *OutstandingRefreshWorker) refresh() {
	ctx, cancel := context.WithTimeout(w.ctx, w.refreshInterval)
	defer cancel()

	if !w.gateway.CheckConnection(ctx) {
		w.logger.Debug("Ledger gateway offline, keeping previous outstanding snapshot")
		return
	}

	result, err := w.outstandingService.SyncFromLedger(ctx)
	if err != nil {
		w.logger.Warn("Outstanding refresh failed, previous snapshot retained", zap.Error(err))
		return
	}

	w.logger.Info("Outstanding cache refreshed",
		zap.Int("party_count", result.PartyCount),
		zap.Int("bill_count", result.BillCount))
}
