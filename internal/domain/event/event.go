// Package event defines the typed domain events published on the in-process
// dispatcher. Subscribers assert on concrete event structs, not on loosely
// typed payload maps.
package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/entity"
)

// Event is a typed domain event.
type Event interface {
	// EventType returns the event's type for dispatcher routing.
	EventType() Type

	// OccurredAt returns when the event was raised.
	OccurredAt() time.Time
}

// Meta carries the fields common to every event.
type Meta struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMeta creates event metadata with a fresh ID and the current time.
func NewMeta() Meta {
	return Meta{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
	}
}

// OccurredAt returns when the event was raised.
func (m Meta) OccurredAt() time.Time { return m.Timestamp }

// PaymentRecorded is emitted after a bill payment aggregate is committed.
// Delivery is fire-and-forget; subscribers observing it are guaranteed the
// aggregate is already stored.
type PaymentRecorded struct {
	Meta
	VoucherNumber string               `json:"voucher_number"`
	PartyName     string               `json:"party_name"`
	TotalPaid     decimal.Decimal      `json:"total_paid"`
	BalanceDue    decimal.Decimal      `json:"balance_due"`
	Status        entity.PaymentStatus `json:"status"`
}

// EventType returns the event's type.
func (PaymentRecorded) EventType() Type { return TypePaymentRecorded }

// ChequeSynced is emitted when the ledger gateway accepts a cheque.
type ChequeSynced struct {
	Meta
	ChequeID        int64  `json:"cheque_id"`
	LedgerVoucherID string `json:"ledger_voucher_id"`
}

// EventType returns the event's type.
func (ChequeSynced) EventType() Type { return TypeChequeSynced }

// ChequeSyncFailed is emitted when an opportunistic sync attempt is deferred.
type ChequeSyncFailed struct {
	Meta
	ChequeID int64  `json:"cheque_id"`
	Reason   string `json:"reason"`
}

// EventType returns the event's type.
func (ChequeSyncFailed) EventType() Type { return TypeChequeSyncFailed }

// WalletMatched is emitted when an ingested wallet transaction binds to a bill.
type WalletMatched struct {
	Meta
	TransactionID string `json:"transaction_id"`
	VoucherNumber string `json:"voucher_number"`
}

// EventType returns the event's type.
func (WalletMatched) EventType() Type { return TypeWalletMatched }

// OutstandingSynced is emitted after a full outstanding-cache refresh.
type OutstandingSynced struct {
	Meta
	PartyCount int `json:"party_count"`
	BillCount  int `json:"bill_count"`
}

// EventType returns the event's type.
func (OutstandingSynced) EventType() Type { return TypeOutstandingSynced }
