package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/dispatcher"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/port"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/errs"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/event"
)

// MatchDateTolerance widens the match window by one calendar day on each
// side of the declared bill date: wallet settlements commonly land a day
// before or after the bill is keyed.
const MatchDateTolerance = 24 * time.Hour

// IngestWalletTransactionRequest carries one externally-captured wallet payment.
type IngestWalletTransactionRequest struct {
	TraceID string
	Amount  decimal.Decimal
	TxnDate time.Time
	Issuer  string
}

// WalletMatcherService ingests wallet transactions and binds them to bills.
// Matching is greedy and at-most-once: the first bill to claim a transaction
// wins, later callers get no match, and a matched transaction can never be
// re-linked.
type WalletMatcherService interface {
	Ingest(ctx context.Context, req IngestWalletTransactionRequest) (*entity.WalletTransaction, error)

	// FindMatch returns the best unclaimed transaction of exactly amount
	// within the date window, or nil when none qualifies. Ties break by
	// earliest transaction time.
	FindMatch(ctx context.Context, amount decimal.Decimal, date time.Time) (*entity.WalletTransaction, error)

	// Link binds a transaction to a bill. Linking an already-matched
	// transaction fails with errs.ErrAlreadyMatched.
	Link(ctx context.Context, transactionID string, descriptor entity.BillDescriptor) error

	// MatchAndLink combines FindMatch and Link; a nil result means no
	// unclaimed transaction qualified.
	MatchAndLink(ctx context.Context, amount decimal.Decimal, descriptor entity.BillDescriptor) (*entity.WalletTransaction, error)

	ListUnmatched(ctx context.Context, limit int) ([]*entity.WalletTransaction, error)
}

type walletMatcherImpl struct {
	walletRepo port.WalletRepository
	events     dispatcher.Dispatcher
	logger     Logger
}

// NewWalletMatcherService creates a new WalletMatcherService
func NewWalletMatcherService(walletRepo port.WalletRepository, events dispatcher.Dispatcher, logger Logger) WalletMatcherService {
	return &walletMatcherImpl{
		walletRepo: walletRepo,
		events:     events,
		logger:     logger,
	}
}

// Ingest stores an externally-captured transaction. Re-posting the same
// trace ID returns the stored record unchanged.
func (s *walletMatcherImpl) Ingest(ctx context.Context, req IngestWalletTransactionRequest) (*entity.WalletTransaction, error) {
	if req.TraceID == "" {
		return nil, errs.Validation("trace_id", "is required")
	}
	if !req.Amount.IsPositive() {
		return nil, errs.Validation("amount", "must be positive")
	}
	if req.TxnDate.IsZero() {
		return nil, errs.Validation("txn_date", "is required")
	}

	existing, err := s.walletRepo.GetByTraceID(ctx, req.TraceID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	txn := &entity.WalletTransaction{
		ID:      uuid.NewString(),
		TraceID: req.TraceID,
		Amount:  req.Amount,
		TxnDate: req.TxnDate,
		Issuer:  req.Issuer,
	}
	if err := s.walletRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	s.logger.Info("Wallet transaction ingested",
		"transaction_id", txn.ID,
		"trace_id", txn.TraceID,
		"amount", txn.Amount.String())

	return txn, nil
}

// FindMatch searches unmatched transactions for an exact-amount candidate.
func (s *walletMatcherImpl) FindMatch(ctx context.Context, amount decimal.Decimal, date time.Time) (*entity.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, errs.Validation("amount", "must be positive")
	}

	from := date.Add(-MatchDateTolerance)
	to := date.Add(MatchDateTolerance)

	candidates, err := s.walletRepo.FindUnmatched(ctx, amount, from, to)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	// Repository orders earliest first.
	return candidates[0], nil
}

// Link binds the transaction to the bill and stamps the composite label.
func (s *walletMatcherImpl) Link(ctx context.Context, transactionID string, descriptor entity.BillDescriptor) error {
	txn, err := s.walletRepo.GetByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn == nil {
		return errs.NotFound("wallet transaction", transactionID)
	}
	if txn.Matched {
		return errs.ErrAlreadyMatched
	}

	if err := s.walletRepo.MarkMatched(ctx, transactionID, descriptor.Label(), time.Now()); err != nil {
		return err
	}

	s.logger.Info("Wallet transaction matched",
		"transaction_id", transactionID,
		"voucher_number", descriptor.VoucherNumber)

	if s.events != nil {
		s.events.DispatchAsync(ctx, event.WalletMatched{
			Meta:          event.NewMeta(),
			TransactionID: transactionID,
			VoucherNumber: descriptor.VoucherNumber,
		})
	}
	return nil
}

// MatchAndLink finds and claims a transaction for the bill in one step.
// When two bills race for the same transaction the loser retries once on the
// next candidate; running out of candidates is a no-match, not an error.
func (s *walletMatcherImpl) MatchAndLink(ctx context.Context, amount decimal.Decimal, descriptor entity.BillDescriptor) (*entity.WalletTransaction, error) {
	for attempt := 0; attempt < 2; attempt++ {
		txn, err := s.FindMatch(ctx, amount, descriptor.BillDate)
		if err != nil {
			return nil, err
		}
		if txn == nil {
			return nil, nil
		}

		err = s.Link(ctx, txn.ID, descriptor)
		if errors.Is(err, errs.ErrAlreadyMatched) {
			// First writer won; look for another candidate.
			continue
		}
		if err != nil {
			return nil, err
		}
		return s.walletRepo.GetByID(ctx, txn.ID)
	}
	return nil, nil
}

// ListUnmatched returns unclaimed transactions for operator review.
func (s *walletMatcherImpl) ListUnmatched(ctx context.Context, limit int) ([]*entity.WalletTransaction, error) {
	return s.walletRepo.ListUnmatched(ctx, limit)
}
