package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/dispatcher"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/port"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/errs"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/event"
)

// ChequeEntry is one cheque attached to a payment-record request.
type ChequeEntry struct {
	BankID    int64
	Amount    decimal.Decimal
	Number    string
	Date      *time.Time
	Narration string
}

// RecordPaymentRequest carries a full payment-record call. ChequeTotal is
// only honored when Cheques is empty; created cheques override it.
type RecordPaymentRequest struct {
	VoucherNumber string
	PartyName     string
	Company       string
	BillAmount    decimal.Decimal
	BillDate      time.Time

	Cash        decimal.Decimal
	Wallet      decimal.Decimal
	ChequeTotal decimal.Decimal
	Discount    decimal.Decimal
	EWallet     decimal.Decimal
	BankDeposit decimal.Decimal
	Notes       string

	Cheques []ChequeEntry

	// ExpectedVersion enables the optimistic-concurrency guard when strict
	// versioning is configured. Nil skips the check.
	ExpectedVersion *int64
}

// RecordPaymentResult is the caller-facing outcome. The payment always
// commits when validation passes; cheque sync failures and a missing wallet
// match are degraded-success details, not errors.
type RecordPaymentResult struct {
	Payment        *entity.BillPayment       `json:"payment"`
	CreatedCheques []*ChequeState            `json:"created_cheques,omitempty"`
	WalletMatch    *entity.WalletTransaction `json:"wallet_match,omitempty"`
}

// PaymentServiceConfig is the injected configuration for the payment ledger.
type PaymentServiceConfig struct {
	// CompanyName stamps wallet match labels and defaults Company on requests.
	CompanyName string

	// StrictVersioning enables the optimistic-concurrency guard on upsert.
	StrictVersioning bool
}

// PaymentService owns the bill payment aggregate.
type PaymentService interface {
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*RecordPaymentResult, error)
	GetPayment(ctx context.Context, voucherNumber string) (*entity.BillPayment, error)
	ListPartialPayments(ctx context.Context) ([]*entity.BillPayment, error)
}

type paymentServiceImpl struct {
	paymentRepo port.PaymentRepository
	cheques     ChequeService
	matcher     WalletMatcherService
	events      dispatcher.Dispatcher
	cfg         PaymentServiceConfig
	logger      Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo port.PaymentRepository,
	cheques ChequeService,
	matcher WalletMatcherService,
	events dispatcher.Dispatcher,
	cfg PaymentServiceConfig,
	logger Logger,
) PaymentService {
	return &paymentServiceImpl{
		paymentRepo: paymentRepo,
		cheques:     cheques,
		matcher:     matcher,
		events:      events,
		cfg:         cfg,
		logger:      logger,
	}
}

// RecordPayment validates the request, creates and links any attached
// cheques (with opportunistic ledger sync), attempts a wallet auto-match,
// then upserts the aggregate and emits payment-recorded. Cheque creation and
// linking commit before the aggregate upsert, which commits before the event.
func (s *paymentServiceImpl) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*RecordPaymentResult, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	company := req.Company
	if company == "" {
		company = s.cfg.CompanyName
	}

	existing, err := s.paymentRepo.GetByVoucherNumber(ctx, req.VoucherNumber)
	if err != nil {
		return nil, err
	}
	if s.cfg.StrictVersioning && req.ExpectedVersion != nil && existing != nil &&
		existing.Version != *req.ExpectedVersion {
		return nil, errs.ErrVersionMismatch
	}

	result := &RecordPaymentResult{}

	chequeTotal := req.ChequeTotal
	if len(req.Cheques) > 0 {
		// Created cheque amounts override any separately-supplied total.
		chequeTotal = decimal.Zero
		for _, entry := range req.Cheques {
			state, err := s.attachCheque(ctx, req, entry)
			if err != nil {
				return nil, err
			}
			result.CreatedCheques = append(result.CreatedCheques, state)
			chequeTotal = chequeTotal.Add(entry.Amount)
		}
	}

	if req.Wallet.IsPositive() && s.matcher != nil {
		match, err := s.matcher.MatchAndLink(ctx, req.Wallet, entity.BillDescriptor{
			VoucherNumber: req.VoucherNumber,
			PartyName:     req.PartyName,
			Company:       company,
			BillDate:      req.BillDate,
		})
		if err != nil {
			// Auto-matching is best-effort and must not abort the write.
			s.logger.Error("Wallet auto-match failed",
				"voucher_number", req.VoucherNumber,
				"error", err)
		} else {
			result.WalletMatch = match
		}
	}

	payment := &entity.BillPayment{
		VoucherNumber: req.VoucherNumber,
		PartyName:     req.PartyName,
		Company:       company,
		BillAmount:    req.BillAmount,
		BillDate:      req.BillDate,
		Cash:          req.Cash,
		Wallet:        req.Wallet,
		ChequeTotal:   chequeTotal,
		Discount:      req.Discount,
		EWallet:       req.EWallet,
		BankDeposit:   req.BankDeposit,
		Notes:         req.Notes,
	}
	payment.Recompute()

	if err := s.paymentRepo.Upsert(ctx, payment); err != nil {
		return nil, err
	}
	result.Payment = payment

	s.logger.Info("Payment recorded",
		"voucher_number", payment.VoucherNumber,
		"party", payment.PartyName,
		"total_paid", payment.TotalPaid.String(),
		"balance_due", payment.BalanceDue.String(),
		"status", string(payment.Status))

	if s.events != nil {
		s.events.DispatchAsync(ctx, event.PaymentRecorded{
			Meta:          event.NewMeta(),
			VoucherNumber: payment.VoucherNumber,
			PartyName:     payment.PartyName,
			TotalPaid:     payment.TotalPaid,
			BalanceDue:    payment.BalanceDue,
			Status:        payment.Status,
		})
	}

	return result, nil
}

// GetPayment returns the aggregate for a voucher number.
func (s *paymentServiceImpl) GetPayment(ctx context.Context, voucherNumber string) (*entity.BillPayment, error) {
	if voucherNumber == "" {
		return nil, errs.Validation("voucher_number", "is required")
	}
	payment, err := s.paymentRepo.GetByVoucherNumber(ctx, voucherNumber)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, errs.NotFound("payment", voucherNumber)
	}
	return payment, nil
}

// ListPartialPayments returns all bills with a balance still due.
func (s *paymentServiceImpl) ListPartialPayments(ctx context.Context) ([]*entity.BillPayment, error) {
	return s.paymentRepo.ListPartial(ctx)
}

func (s *paymentServiceImpl) validate(req RecordPaymentRequest) error {
	if req.VoucherNumber == "" {
		return errs.Validation("voucher_number", "is required")
	}
	if req.PartyName == "" {
		return errs.Validation("party_name", "is required")
	}
	if !req.BillAmount.IsPositive() {
		return errs.Validation("bill_amount", "must be positive")
	}
	for _, amount := range []decimal.Decimal{
		req.Cash, req.Wallet, req.ChequeTotal, req.Discount, req.EWallet, req.BankDeposit,
	} {
		if amount.IsNegative() {
			return errs.Validation("instrument amount", "cannot be negative")
		}
	}
	for _, entry := range req.Cheques {
		if !entry.Amount.IsPositive() {
			return errs.Validation("cheque amount", "must be positive")
		}
	}
	return nil
}

// attachCheque creates one cheque, links it to the bill for its own amount,
// and lets the cheque service make its opportunistic sync attempt. Gateway
// failure shows up in the returned state, never as an error.
func (s *paymentServiceImpl) attachCheque(ctx context.Context, req RecordPaymentRequest, entry ChequeEntry) (*ChequeState, error) {
	state, err := s.cheques.CreateCheque(ctx, CreateChequeRequest{
		PartyName: req.PartyName,
		BankID:    entry.BankID,
		Amount:    entry.Amount,
		Number:    entry.Number,
		Date:      entry.Date,
		Narration: entry.Narration,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.cheques.LinkChequeToBill(ctx, state.Cheque.ID, nil, req.VoucherNumber, req.BillAmount, entry.Amount); err != nil {
		return nil, err
	}
	return state, nil
}
