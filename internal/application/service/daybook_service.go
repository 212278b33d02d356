package service

import (
	"context"
	"time"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/port"
)

// DaybookService exposes the read-only per-party per-day payment rollup for
// dashboard consumption. Pure aggregation, no state transitions.
type DaybookService interface {
	Rollup(ctx context.Context, day time.Time, partyName string) ([]*port.DaybookRow, error)
}

type daybookServiceImpl struct {
	daybookRepo port.DaybookRepository
	logger      Logger
}

// NewDaybookService creates a new DaybookService
func NewDaybookService(daybookRepo port.DaybookRepository, logger Logger) DaybookService {
	return &daybookServiceImpl{
		daybookRepo: daybookRepo,
		logger:      logger,
	}
}

// Rollup aggregates recorded payments for the given day, optionally
// filtered to one party.
func (s *daybookServiceImpl) Rollup(ctx context.Context, day time.Time, partyName string) ([]*port.DaybookRow, error) {
	return s.daybookRepo.Rollup(ctx, day, partyName)
}
