package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/port"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
)

// mockLogger implements Logger with no-op methods
type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// mockPaymentRepo implements port.PaymentRepository
type mockPaymentRepo struct {
	upsertFunc       func(ctx context.Context, payment *entity.BillPayment) error
	getByVoucherFunc func(ctx context.Context, voucherNumber string) (*entity.BillPayment, error)
	listPartialFunc  func(ctx context.Context) ([]*entity.BillPayment, error)
}

func (m *mockPaymentRepo) Upsert(ctx context.Context, payment *entity.BillPayment) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, payment)
	}
	payment.ID = 1
	payment.Version = 1
	return nil
}

func (m *mockPaymentRepo) GetByVoucherNumber(ctx context.Context, voucherNumber string) (*entity.BillPayment, error) {
	if m.getByVoucherFunc != nil {
		return m.getByVoucherFunc(ctx, voucherNumber)
	}
	return nil, nil
}

func (m *mockPaymentRepo) ListPartial(ctx context.Context) ([]*entity.BillPayment, error) {
	if m.listPartialFunc != nil {
		return m.listPartialFunc(ctx)
	}
	return nil, nil
}

// mockChequeRepo implements port.ChequeRepository
type mockChequeRepo struct {
	createFunc         func(ctx context.Context, cheque *entity.Cheque) error
	getByIDFunc        func(ctx context.Context, id int64) (*entity.Cheque, error)
	updateFunc         func(ctx context.Context, cheque *entity.Cheque) error
	listUnsyncedFunc   func(ctx context.Context, limit int) ([]*entity.Cheque, error)
	createLinkFunc     func(ctx context.Context, link *entity.ChequeBillLink) error
	getLinksFunc       func(ctx context.Context, chequeID int64) ([]*entity.ChequeBillLink, error)
	allocatedTotalFunc func(ctx context.Context, chequeID int64) (decimal.Decimal, error)
}

func (m *mockChequeRepo) Create(ctx context.Context, cheque *entity.Cheque) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, cheque)
	}
	cheque.ID = 1
	return nil
}

func (m *mockChequeRepo) GetByID(ctx context.Context, id int64) (*entity.Cheque, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockChequeRepo) Update(ctx context.Context, cheque *entity.Cheque) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, cheque)
	}
	return nil
}

func (m *mockChequeRepo) ListUnsynced(ctx context.Context, limit int) ([]*entity.Cheque, error) {
	if m.listUnsyncedFunc != nil {
		return m.listUnsyncedFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockChequeRepo) CreateLink(ctx context.Context, link *entity.ChequeBillLink) error {
	if m.createLinkFunc != nil {
		return m.createLinkFunc(ctx, link)
	}
	link.ID = 1
	return nil
}

func (m *mockChequeRepo) GetLinksByCheque(ctx context.Context, chequeID int64) ([]*entity.ChequeBillLink, error) {
	if m.getLinksFunc != nil {
		return m.getLinksFunc(ctx, chequeID)
	}
	return nil, nil
}

func (m *mockChequeRepo) AllocatedTotal(ctx context.Context, chequeID int64) (decimal.Decimal, error) {
	if m.allocatedTotalFunc != nil {
		return m.allocatedTotalFunc(ctx, chequeID)
	}
	return decimal.Zero, nil
}

// mockWalletRepo implements port.WalletRepository
type mockWalletRepo struct {
	createFunc        func(ctx context.Context, txn *entity.WalletTransaction) error
	getByIDFunc       func(ctx context.Context, id string) (*entity.WalletTransaction, error)
	getByTraceIDFunc  func(ctx context.Context, traceID string) (*entity.WalletTransaction, error)
	findUnmatchedFunc func(ctx context.Context, amount decimal.Decimal, from, to time.Time) ([]*entity.WalletTransaction, error)
	markMatchedFunc   func(ctx context.Context, id string, billRef string, matchedAt time.Time) error
	listUnmatchedFunc func(ctx context.Context, limit int) ([]*entity.WalletTransaction, error)
}

func (m *mockWalletRepo) Create(ctx context.Context, txn *entity.WalletTransaction) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, txn)
	}
	return nil
}

func (m *mockWalletRepo) GetByID(ctx context.Context, id string) (*entity.WalletTransaction, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockWalletRepo) GetByTraceID(ctx context.Context, traceID string) (*entity.WalletTransaction, error) {
	if m.getByTraceIDFunc != nil {
		return m.getByTraceIDFunc(ctx, traceID)
	}
	return nil, nil
}

func (m *mockWalletRepo) FindUnmatched(ctx context.Context, amount decimal.Decimal, from, to time.Time) ([]*entity.WalletTransaction, error) {
	if m.findUnmatchedFunc != nil {
		return m.findUnmatchedFunc(ctx, amount, from, to)
	}
	return nil, nil
}

func (m *mockWalletRepo) MarkMatched(ctx context.Context, id string, billRef string, matchedAt time.Time) error {
	if m.markMatchedFunc != nil {
		return m.markMatchedFunc(ctx, id, billRef, matchedAt)
	}
	return nil
}

func (m *mockWalletRepo) ListUnmatched(ctx context.Context, limit int) ([]*entity.WalletTransaction, error) {
	if m.listUnmatchedFunc != nil {
		return m.listUnmatchedFunc(ctx, limit)
	}
	return nil, nil
}

// mockBankRepo implements port.BankRepository
type mockBankRepo struct {
	createFunc         func(ctx context.Context, bank *entity.Bank) error
	getByIDFunc        func(ctx context.Context, id int64) (*entity.Bank, error)
	getByShortNameFunc func(ctx context.Context, shortName string) (*entity.Bank, error)
	listFunc           func(ctx context.Context) ([]*entity.Bank, error)
}

func (m *mockBankRepo) Create(ctx context.Context, bank *entity.Bank) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, bank)
	}
	bank.ID = 1
	return nil
}

func (m *mockBankRepo) GetByID(ctx context.Context, id int64) (*entity.Bank, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Bank{ID: id, ShortName: "NABIL", LedgerName: "Nabil Bank"}, nil
}

func (m *mockBankRepo) GetByShortName(ctx context.Context, shortName string) (*entity.Bank, error) {
	if m.getByShortNameFunc != nil {
		return m.getByShortNameFunc(ctx, shortName)
	}
	return nil, nil
}

func (m *mockBankRepo) List(ctx context.Context) ([]*entity.Bank, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

// mockOutstandingRepo implements port.OutstandingRepository
type mockOutstandingRepo struct {
	replaceAllFunc func(ctx context.Context, bills []*entity.OutstandingBill) error
	listFunc       func(ctx context.Context) ([]*entity.OutstandingBill, error)
}

func (m *mockOutstandingRepo) ReplaceAll(ctx context.Context, bills []*entity.OutstandingBill) error {
	if m.replaceAllFunc != nil {
		return m.replaceAllFunc(ctx, bills)
	}
	return nil
}

func (m *mockOutstandingRepo) List(ctx context.Context) ([]*entity.OutstandingBill, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

// mockGateway implements port.LedgerGateway. Defaults model a reachable
// gateway that accepts every push.
type mockGateway struct {
	checkConnectionFunc    func(ctx context.Context) bool
	pushChequeFunc         func(ctx context.Context, push port.ChequePush) (*port.PushResult, error)
	getBillAllocationsFunc func(ctx context.Context) ([]port.PartyAllocations, error)
}

func (m *mockGateway) CheckConnection(ctx context.Context) bool {
	if m.checkConnectionFunc != nil {
		return m.checkConnectionFunc(ctx)
	}
	return true
}

func (m *mockGateway) PushCheque(ctx context.Context, push port.ChequePush) (*port.PushResult, error) {
	if m.pushChequeFunc != nil {
		return m.pushChequeFunc(ctx, push)
	}
	return &port.PushResult{Success: true, VoucherID: "Cheque Received/1"}, nil
}

func (m *mockGateway) GetBillAllocations(ctx context.Context) ([]port.PartyAllocations, error) {
	if m.getBillAllocationsFunc != nil {
		return m.getBillAllocationsFunc(ctx)
	}
	return nil, nil
}
