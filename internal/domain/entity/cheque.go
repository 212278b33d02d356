package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChequeSyncStatus tracks how far a cheque has travelled toward the
// external ledger.
type ChequeSyncStatus string

const (
	ChequeSyncPending ChequeSyncStatus = "PENDING"
	ChequeSyncFailed  ChequeSyncStatus = "FAILED"
	ChequeSynced      ChequeSyncStatus = "SYNCED"
)

// Cheque is a cheque received from a party. The date is optional at creation;
// until one is confirmed the cheque cannot be pushed to the ledger.
type Cheque struct {
	ID         int64            `json:"id"`
	PartyName  string           `json:"party_name"`
	BankID     int64            `json:"bank_id"`
	Amount     decimal.Decimal  `json:"amount"`
	Number     string           `json:"cheque_number"`
	Date       *time.Time       `json:"cheque_date,omitempty"`
	Narration  string           `json:"narration"`
	SyncStatus ChequeSyncStatus `json:"sync_status"`
	// LedgerVoucherID is set once the gateway accepts the cheque.
	LedgerVoucherID string    `json:"ledger_voucher_id,omitempty"`
	SyncError       string    `json:"sync_error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NeedsDateConfirm reports whether the cheque still lacks a confirmed date.
// Surfaced to callers so the UI can prompt for it without treating the
// missing date as an error.
func (c *Cheque) NeedsDateConfirm() bool {
	return c.Date == nil
}

// Synced reports whether the cheque has been accepted by the ledger gateway.
func (c *Cheque) Synced() bool {
	return c.SyncStatus == ChequeSynced && c.LedgerVoucherID != ""
}

// ChequeBillLink associates a cheque with a bill. It is an association
// record, not ownership: a cheque may be split across bills or kept
// unallocated entirely.
type ChequeBillLink struct {
	ID            int64           `json:"id"`
	ChequeID      int64           `json:"cheque_id"`
	BillID        *int64          `json:"bill_id,omitempty"`
	VoucherNumber string          `json:"voucher_number"`
	BillAmount    decimal.Decimal `json:"bill_amount"`
	Allocated     decimal.Decimal `json:"allocated"`
	CreatedAt     time.Time       `json:"created_at"`
}
