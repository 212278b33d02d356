package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
)

// PaymentRepository defines persistence operations for BillPayment.
// The aggregate is keyed by voucher number; Upsert replaces the prior
// decomposition and bumps the version counter.
type PaymentRepository interface {
	Upsert(ctx context.Context, payment *entity.BillPayment) error
	GetByVoucherNumber(ctx context.Context, voucherNumber string) (*entity.BillPayment, error)
	ListPartial(ctx context.Context) ([]*entity.BillPayment, error)
}

// ChequeRepository defines persistence operations for Cheque and its bill links
type ChequeRepository interface {
	Create(ctx context.Context, cheque *entity.Cheque) error
	GetByID(ctx context.Context, id int64) (*entity.Cheque, error)
	Update(ctx context.Context, cheque *entity.Cheque) error

	// ListUnsynced returns cheques with a confirmed date that the ledger
	// has not accepted yet, oldest first.
	ListUnsynced(ctx context.Context, limit int) ([]*entity.Cheque, error)

	CreateLink(ctx context.Context, link *entity.ChequeBillLink) error
	GetLinksByCheque(ctx context.Context, chequeID int64) ([]*entity.ChequeBillLink, error)

	// AllocatedTotal returns the sum of a cheque's allocations across links.
	AllocatedTotal(ctx context.Context, chequeID int64) (decimal.Decimal, error)
}

// WalletRepository defines persistence operations for WalletTransaction
type WalletRepository interface {
	Create(ctx context.Context, txn *entity.WalletTransaction) error
	GetByID(ctx context.Context, id string) (*entity.WalletTransaction, error)
	GetByTraceID(ctx context.Context, traceID string) (*entity.WalletTransaction, error)

	// FindUnmatched returns unmatched transactions of exactly the given
	// amount dated within [from, to], earliest first.
	FindUnmatched(ctx context.Context, amount decimal.Decimal, from, to time.Time) ([]*entity.WalletTransaction, error)

	// MarkMatched binds the transaction to a bill. It must fail if the
	// transaction is already matched, not overwrite.
	MarkMatched(ctx context.Context, id string, billRef string, matchedAt time.Time) error

	ListUnmatched(ctx context.Context, limit int) ([]*entity.WalletTransaction, error)
}

// OutstandingRepository defines persistence operations for the
// OutstandingBill cache. The cache is disposable: ReplaceAll swaps the whole
// set in one transaction so readers never observe a partially-cleared cache.
type OutstandingRepository interface {
	ReplaceAll(ctx context.Context, bills []*entity.OutstandingBill) error
	List(ctx context.Context) ([]*entity.OutstandingBill, error)
}

// BankRepository defines persistence operations for bank short-name mappings
type BankRepository interface {
	Create(ctx context.Context, bank *entity.Bank) error
	GetByID(ctx context.Context, id int64) (*entity.Bank, error)
	GetByShortName(ctx context.Context, shortName string) (*entity.Bank, error)
	List(ctx context.Context) ([]*entity.Bank, error)
}

// DaybookRow is a per-party, per-day rollup of recorded payments.
type DaybookRow struct {
	Date        string          `json:"date"`
	PartyName   string          `json:"party_name"`
	BillCount   int             `json:"bill_count"`
	Cash        decimal.Decimal `json:"cash"`
	Wallet      decimal.Decimal `json:"wallet"`
	ChequeTotal decimal.Decimal `json:"cheque_total"`
	Discount    decimal.Decimal `json:"discount"`
	EWallet     decimal.Decimal `json:"e_wallet"`
	BankDeposit decimal.Decimal `json:"bank_deposit"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	BalanceDue  decimal.Decimal `json:"balance_due"`
}

// DaybookRepository defines the read-only columnar rollup query
type DaybookRepository interface {
	Rollup(ctx context.Context, day time.Time, partyName string) ([]*DaybookRow, error)
}
