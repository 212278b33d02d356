package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/dispatcher"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/port"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/event"
)

// SyncResult reports how much the outstanding cache absorbed.
type SyncResult struct {
	PartyCount int `json:"synced_party_count"`
	BillCount  int `json:"synced_bill_count"`
}

// BucketTotal is one ageing bucket's accumulated closing balance.
type BucketTotal struct {
	Bucket    string          `json:"bucket"`
	Total     decimal.Decimal `json:"total"`
	BillCount int             `json:"bill_count"`
}

// AgeingSummary is the bucketed receivable position.
type AgeingSummary struct {
	Buckets    []BucketTotal   `json:"buckets"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// OutstandingService derives receivable-position reports from the cached
// ledger balances. Read-mostly: the only mutation is the full cache swap.
type OutstandingService interface {
	// SyncFromLedger pulls the full bill-wise allocation set and replaces
	// the local cache atomically relative to readers.
	SyncFromLedger(ctx context.Context) (*SyncResult, error)

	// AgeingSummary groups cached bills by bucket. overdueOnly keeps only
	// bills past their credit period.
	AgeingSummary(ctx context.Context, overdueOnly bool) (*AgeingSummary, error)

	// List returns the cached snapshot.
	List(ctx context.Context) ([]*entity.OutstandingBill, error)
}

type outstandingServiceImpl struct {
	outstandingRepo port.OutstandingRepository
	gateway         port.LedgerGateway
	events          dispatcher.Dispatcher
	logger          Logger
}

// NewOutstandingService creates a new OutstandingService
func NewOutstandingService(
	outstandingRepo port.OutstandingRepository,
	gateway port.LedgerGateway,
	events dispatcher.Dispatcher,
	logger Logger,
) OutstandingService {
	return &outstandingServiceImpl{
		outstandingRepo: outstandingRepo,
		gateway:         gateway,
		events:          events,
		logger:          logger,
	}
}

// SyncFromLedger flattens party->bills and swaps the whole cache in one
// transaction. Unlike cheque sync this is a gateway-facing operation by
// definition, so gateway unavailability propagates to the caller.
func (s *outstandingServiceImpl) SyncFromLedger(ctx context.Context) (*SyncResult, error) {
	parties, err := s.gateway.GetBillAllocations(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	bills := make([]*entity.OutstandingBill, 0, len(parties))
	for _, party := range parties {
		for _, b := range party.Bills {
			bills = append(bills, &entity.OutstandingBill{
				PartyName:      party.PartyName,
				BillName:       b.BillName,
				BillDate:       b.BillDate,
				ClosingBalance: b.ClosingBalance,
				CreditPeriod:   b.CreditPeriod,
				AgeingDays:     b.AgeingDays,
				Bucket:         entity.AgeingBucket(b.AgeingDays),
				SyncedAt:       now,
			})
		}
	}

	if err := s.outstandingRepo.ReplaceAll(ctx, bills); err != nil {
		return nil, err
	}

	result := &SyncResult{
		PartyCount: len(parties),
		BillCount:  len(bills),
	}

	s.logger.Info("Outstanding cache refreshed",
		"party_count", result.PartyCount,
		"bill_count", result.BillCount)

	if s.events != nil {
		s.events.DispatchAsync(ctx, event.OutstandingSynced{
			Meta:       event.NewMeta(),
			PartyCount: result.PartyCount,
			BillCount:  result.BillCount,
		})
	}
	return result, nil
}

// bucketOrder fixes the report ordering regardless of map iteration.
var bucketOrder = []string{
	entity.Bucket0To30,
	entity.Bucket30To60,
	entity.Bucket60To90,
	entity.Bucket90Plus,
}

// AgeingSummary sums closing balances per bucket over the cached snapshot.
func (s *outstandingServiceImpl) AgeingSummary(ctx context.Context, overdueOnly bool) (*AgeingSummary, error) {
	bills, err := s.outstandingRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*BucketTotal, len(bucketOrder))
	for _, bucket := range bucketOrder {
		totals[bucket] = &BucketTotal{Bucket: bucket, Total: decimal.Zero}
	}

	grand := decimal.Zero
	for _, bill := range bills {
		if overdueOnly && !bill.Overdue() {
			continue
		}
		bucket := totals[entity.AgeingBucket(bill.AgeingDays)]
		bucket.Total = bucket.Total.Add(bill.ClosingBalance)
		bucket.BillCount++
		grand = grand.Add(bill.ClosingBalance)
	}

	summary := &AgeingSummary{GrandTotal: grand}
	for _, bucket := range bucketOrder {
		summary.Buckets = append(summary.Buckets, *totals[bucket])
	}
	return summary, nil
}

// List returns the cached snapshot.
func (s *outstandingServiceImpl) List(ctx context.Context) ([]*entity.OutstandingBill, error) {
	return s.outstandingRepo.List(ctx)
}
