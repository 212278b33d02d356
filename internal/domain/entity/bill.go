package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill identifies a sale transaction created by the billing workflow.
// A bill is represented in the external ledger by its voucher number,
// unique per party and date. Bills are never physically deleted.
type Bill struct {
	ID            int64           `json:"id"`
	VoucherNumber string          `json:"voucher_number"`
	PartyName     string          `json:"party_name"`
	Amount        decimal.Decimal `json:"amount"`
	VoucherDate   time.Time       `json:"voucher_date"`
	Deleted       bool            `json:"deleted"`
	CreatedAt     time.Time       `json:"created_at"`
}
