package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the derived completeness state of a bill payment.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
)

// BillPayment is the authoritative decomposition of a bill's declared amount
// into payment instruments. There is exactly one record per voucher number;
// recording again replaces the previous decomposition (upsert, not append).
type BillPayment struct {
	ID            int64           `json:"id"`
	VoucherNumber string          `json:"voucher_number"`
	PartyName     string          `json:"party_name"`
	Company       string          `json:"company"`
	BillAmount    decimal.Decimal `json:"bill_amount"`
	BillDate      time.Time       `json:"bill_date"`

	Cash        decimal.Decimal `json:"cash"`
	Wallet      decimal.Decimal `json:"wallet"`
	ChequeTotal decimal.Decimal `json:"cheque_total"`
	Discount    decimal.Decimal `json:"discount"`
	EWallet     decimal.Decimal `json:"e_wallet"`
	BankDeposit decimal.Decimal `json:"bank_deposit"`
	Notes       string          `json:"notes"`

	TotalPaid  decimal.Decimal `json:"total_paid"`
	BalanceDue decimal.Decimal `json:"balance_due"`
	Status     PaymentStatus   `json:"status"`

	// Version supports the optional optimistic-concurrency guard on upsert.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Recompute derives TotalPaid, BalanceDue and Status from the instrument
// amounts. BalanceDue may go negative on overpayment; status is paid exactly
// when nothing remains due.
func (p *BillPayment) Recompute() {
	p.TotalPaid = p.Cash.
		Add(p.Wallet).
		Add(p.ChequeTotal).
		Add(p.Discount).
		Add(p.EWallet).
		Add(p.BankDeposit)
	p.BalanceDue = p.BillAmount.Sub(p.TotalPaid)

	if p.BalanceDue.LessThanOrEqual(decimal.Zero) {
		p.Status = PaymentStatusPaid
	} else {
		p.Status = PaymentStatusPartial
	}
}
