package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/errs"
)

// mockChequeService implements ChequeService
type mockChequeService struct {
	createChequeFunc func(ctx context.Context, req CreateChequeRequest) (*ChequeState, error)
	linkFunc         func(ctx context.Context, chequeID int64, billID *int64, voucherNumber string, billAmount, allocated decimal.Decimal) (*entity.ChequeBillLink, error)
}

func (m *mockChequeService) CreateCheque(ctx context.Context, req CreateChequeRequest) (*ChequeState, error) {
	if m.createChequeFunc != nil {
		return m.createChequeFunc(ctx, req)
	}
	return &ChequeState{
		Cheque: &entity.Cheque{
			ID:        1,
			PartyName: req.PartyName,
			Amount:    req.Amount,
			Date:      req.Date,
		},
		NeedsDateConfirm: req.Date == nil,
	}, nil
}

func (m *mockChequeService) LinkChequeToBill(ctx context.Context, chequeID int64, billID *int64, voucherNumber string, billAmount, allocated decimal.Decimal) (*entity.ChequeBillLink, error) {
	if m.linkFunc != nil {
		return m.linkFunc(ctx, chequeID, billID, voucherNumber, billAmount, allocated)
	}
	return &entity.ChequeBillLink{ChequeID: chequeID, VoucherNumber: voucherNumber, Allocated: allocated}, nil
}

func (m *mockChequeService) UpdateChequeDate(ctx context.Context, chequeID int64, date time.Time) (*ChequeState, error) {
	return nil, nil
}

func (m *mockChequeService) GetCheque(ctx context.Context, chequeID int64) (*ChequeState, error) {
	return nil, nil
}

func (m *mockChequeService) RetrySync(ctx context.Context, chequeID int64) (*ChequeState, error) {
	return nil, nil
}

func (m *mockChequeService) TrySync(ctx context.Context, chequeID int64) (*ChequeState, error) {
	return nil, nil
}

// mockMatcher implements WalletMatcherService
type mockMatcher struct {
	matchAndLinkFunc func(ctx context.Context, amount decimal.Decimal, descriptor entity.BillDescriptor) (*entity.WalletTransaction, error)
}

func (m *mockMatcher) Ingest(ctx context.Context, req IngestWalletTransactionRequest) (*entity.WalletTransaction, error) {
	return nil, nil
}

func (m *mockMatcher) FindMatch(ctx context.Context, amount decimal.Decimal, date time.Time) (*entity.WalletTransaction, error) {
	return nil, nil
}

func (m *mockMatcher) Link(ctx context.Context, transactionID string, descriptor entity.BillDescriptor) error {
	return nil
}

func (m *mockMatcher) MatchAndLink(ctx context.Context, amount decimal.Decimal, descriptor entity.BillDescriptor) (*entity.WalletTransaction, error) {
	if m.matchAndLinkFunc != nil {
		return m.matchAndLinkFunc(ctx, amount, descriptor)
	}
	return nil, nil
}

func (m *mockMatcher) ListUnmatched(ctx context.Context, limit int) ([]*entity.WalletTransaction, error) {
	return nil, nil
}

func newPaymentService(repo *mockPaymentRepo, cheques ChequeService, matcher WalletMatcherService, cfg PaymentServiceConfig) PaymentService {
	if cfg.CompanyName == "" {
		cfg.CompanyName = "Saroj Traders"
	}
	return NewPaymentService(repo, cheques, matcher, nil, cfg, &mockLogger{})
}

func baseRequest() RecordPaymentRequest {
	return RecordPaymentRequest{
		VoucherNumber: "KTM-2082-00045",
		PartyName:     "Hamro Kirana",
		BillAmount:    dec("1000"),
		BillDate:      time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestPaymentService_RecordPayment_Validation(t *testing.T) {
	svc := newPaymentService(&mockPaymentRepo{}, &mockChequeService{}, &mockMatcher{}, PaymentServiceConfig{})

	tests := []struct {
		name   string
		mutate func(req *RecordPaymentRequest)
	}{
		{"missing voucher number", func(req *RecordPaymentRequest) { req.VoucherNumber = "" }},
		{"missing party", func(req *RecordPaymentRequest) { req.PartyName = "" }},
		{"zero bill amount", func(req *RecordPaymentRequest) { req.BillAmount = decimal.Zero }},
		{"negative instrument", func(req *RecordPaymentRequest) { req.Discount = dec("-5") }},
		{"zero cheque entry", func(req *RecordPaymentRequest) {
			req.Cheques = []ChequeEntry{{Amount: decimal.Zero}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(&req)
			_, err := svc.RecordPayment(context.Background(), req)
			if !errs.IsValidation(err) {
				t.Errorf("RecordPayment() error = %v, want validation error", err)
			}
		})
	}
}

func TestPaymentService_RecordPayment_DerivesStatus(t *testing.T) {
	var stored *entity.BillPayment
	repo := &mockPaymentRepo{
		upsertFunc: func(ctx context.Context, payment *entity.BillPayment) error {
			stored = payment
			return nil
		},
	}
	svc := newPaymentService(repo, &mockChequeService{}, &mockMatcher{}, PaymentServiceConfig{})

	req := baseRequest()
	req.Cash = dec("400")
	req.Wallet = dec("600")

	result, err := svc.RecordPayment(context.Background(), req)
	if err != nil {
		t.Fatalf("RecordPayment() error = %v", err)
	}

	if stored == nil {
		t.Fatal("Upsert was not called")
	}
	if stored.Status != entity.PaymentStatusPaid {
		t.Errorf("Status = %s, want paid", stored.Status)
	}
	if got := stored.BalanceDue.String(); got != "0" {
		t.Errorf("BalanceDue = %s, want 0", got)
	}
	if result.Payment.Company != "Saroj Traders" {
		t.Errorf("Company = %q, want configured default", result.Payment.Company)
	}
}

func TestPaymentService_RecordPayment_WalletMatchBestEffort(t *testing.T) {
	t.Run("match attached to result", func(t *testing.T) {
		matched := &entity.WalletTransaction{ID: "txn-1", Amount: dec("600"), Matched: true}
		var gotDescriptor entity.BillDescriptor
		matcher := &mockMatcher{
			matchAndLinkFunc: func(ctx context.Context, amount decimal.Decimal, descriptor entity.BillDescriptor) (*entity.WalletTransaction, error) {
				gotDescriptor = descriptor
				return matched, nil
			},
		}
		svc := newPaymentService(&mockPaymentRepo{}, &mockChequeService{}, matcher, PaymentServiceConfig{})

		req := baseRequest()
		req.Cash = dec("400")
		req.Wallet = dec("600")

		result, err := svc.RecordPayment(context.Background(), req)
		if err != nil {
			t.Fatalf("RecordPayment() error = %v", err)
		}
		if result.WalletMatch == nil || result.WalletMatch.ID != "txn-1" {
			t.Errorf("WalletMatch = %v, want txn-1", result.WalletMatch)
		}
		if gotDescriptor.VoucherNumber != req.VoucherNumber {
			t.Errorf("descriptor voucher = %q, want %q", gotDescriptor.VoucherNumber, req.VoucherNumber)
		}
	})

	t.Run("matcher failure does not abort the write", func(t *testing.T) {
		var stored *entity.BillPayment
		repo := &mockPaymentRepo{
			upsertFunc: func(ctx context.Context, payment *entity.BillPayment) error {
				stored = payment
				return nil
			},
		}
		matcher := &mockMatcher{
			matchAndLinkFunc: func(ctx context.Context, amount decimal.Decimal, descriptor entity.BillDescriptor) (*entity.WalletTransaction, error) {
				return nil, errors.New("wallet store down")
			},
		}
		svc := newPaymentService(repo, &mockChequeService{}, matcher, PaymentServiceConfig{})

		req := baseRequest()
		req.Wallet = dec("600")

		result, err := svc.RecordPayment(context.Background(), req)
		if err != nil {
			t.Fatalf("RecordPayment() error = %v, want success", err)
		}
		if stored == nil {
			t.Fatal("payment was not stored")
		}
		if result.WalletMatch != nil {
			t.Errorf("WalletMatch = %v, want nil", result.WalletMatch)
		}
	})

	t.Run("no wallet amount skips matching", func(t *testing.T) {
		called := false
		matcher := &mockMatcher{
			matchAndLinkFunc: func(ctx context.Context, amount decimal.Decimal, descriptor entity.BillDescriptor) (*entity.WalletTransaction, error) {
				called = true
				return nil, nil
			},
		}
		svc := newPaymentService(&mockPaymentRepo{}, &mockChequeService{}, matcher, PaymentServiceConfig{})

		req := baseRequest()
		req.Cash = dec("1000")

		if _, err := svc.RecordPayment(context.Background(), req); err != nil {
			t.Fatalf("RecordPayment() error = %v", err)
		}
		if called {
			t.Error("matcher was invoked with no wallet amount")
		}
	})
}

func TestPaymentService_RecordPayment_ChequeEntriesOverrideTotal(t *testing.T) {
	var stored *entity.BillPayment
	repo := &mockPaymentRepo{
		upsertFunc: func(ctx context.Context, payment *entity.BillPayment) error {
			stored = payment
			return nil
		},
	}
	var linkedVouchers []string
	cheques := &mockChequeService{
		linkFunc: func(ctx context.Context, chequeID int64, billID *int64, voucherNumber string, billAmount, allocated decimal.Decimal) (*entity.ChequeBillLink, error) {
			linkedVouchers = append(linkedVouchers, voucherNumber)
			return &entity.ChequeBillLink{ChequeID: chequeID, VoucherNumber: voucherNumber, Allocated: allocated}, nil
		},
	}
	svc := newPaymentService(repo, cheques, &mockMatcher{}, PaymentServiceConfig{})

	req := baseRequest()
	// A stale supplied total is ignored once actual cheques are attached.
	req.ChequeTotal = dec("999")
	req.Cheques = []ChequeEntry{
		{Amount: dec("300"), Number: "001234"},
		{Amount: dec("200"), Number: "001235"},
	}

	result, err := svc.RecordPayment(context.Background(), req)
	if err != nil {
		t.Fatalf("RecordPayment() error = %v", err)
	}

	if got := stored.ChequeTotal.String(); got != "500" {
		t.Errorf("ChequeTotal = %s, want 500", got)
	}
	if len(result.CreatedCheques) != 2 {
		t.Errorf("CreatedCheques = %d, want 2", len(result.CreatedCheques))
	}
	if len(linkedVouchers) != 2 {
		t.Fatalf("links created = %d, want 2", len(linkedVouchers))
	}
	for _, v := range linkedVouchers {
		if v != req.VoucherNumber {
			t.Errorf("linked voucher = %q, want %q", v, req.VoucherNumber)
		}
	}
	if got := stored.BalanceDue.String(); got != "500" {
		t.Errorf("BalanceDue = %s, want 500", got)
	}
	if stored.Status != entity.PaymentStatusPartial {
		t.Errorf("Status = %s, want partial", stored.Status)
	}
}

func TestPaymentService_RecordPayment_VersionGuard(t *testing.T) {
	existing := &entity.BillPayment{VoucherNumber: "KTM-2082-00045", Version: 3}
	repo := &mockPaymentRepo{
		getByVoucherFunc: func(ctx context.Context, voucherNumber string) (*entity.BillPayment, error) {
			return existing, nil
		},
	}

	t.Run("stale version rejected under strict mode", func(t *testing.T) {
		svc := newPaymentService(repo, &mockChequeService{}, &mockMatcher{}, PaymentServiceConfig{StrictVersioning: true})

		req := baseRequest()
		stale := int64(2)
		req.ExpectedVersion = &stale

		_, err := svc.RecordPayment(context.Background(), req)
		if !errors.Is(err, errs.ErrVersionMismatch) {
			t.Errorf("RecordPayment() error = %v, want ErrVersionMismatch", err)
		}
	})

	t.Run("current version passes", func(t *testing.T) {
		svc := newPaymentService(repo, &mockChequeService{}, &mockMatcher{}, PaymentServiceConfig{StrictVersioning: true})

		req := baseRequest()
		current := int64(3)
		req.ExpectedVersion = &current

		if _, err := svc.RecordPayment(context.Background(), req); err != nil {
			t.Errorf("RecordPayment() error = %v", err)
		}
	})

	t.Run("guard off ignores stale version", func(t *testing.T) {
		svc := newPaymentService(repo, &mockChequeService{}, &mockMatcher{}, PaymentServiceConfig{})

		req := baseRequest()
		stale := int64(2)
		req.ExpectedVersion = &stale

		if _, err := svc.RecordPayment(context.Background(), req); err != nil {
			t.Errorf("RecordPayment() error = %v", err)
		}
	})
}

func TestPaymentService_GetPayment(t *testing.T) {
	t.Run("missing voucher", func(t *testing.T) {
		svc := newPaymentService(&mockPaymentRepo{}, &mockChequeService{}, &mockMatcher{}, PaymentServiceConfig{})
		_, err := svc.GetPayment(context.Background(), "KTM-2082-99999")
		if !errs.IsNotFound(err) {
			t.Errorf("GetPayment() error = %v, want not found", err)
		}
	})

	t.Run("empty voucher number", func(t *testing.T) {
		svc := newPaymentService(&mockPaymentRepo{}, &mockChequeService{}, &mockMatcher{}, PaymentServiceConfig{})
		_, err := svc.GetPayment(context.Background(), "")
		if !errs.IsValidation(err) {
			t.Errorf("GetPayment() error = %v, want validation error", err)
		}
	})
}
