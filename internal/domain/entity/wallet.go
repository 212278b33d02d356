package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletTransaction is an externally-captured wallet payment (Fonepay feed).
// The ingestion feed creates it; only the matcher mutates it, and only once:
// a transaction binds to at most one bill for the life of the record.
type WalletTransaction struct {
	ID        string          `json:"id"`
	TraceID   string          `json:"trace_id"`
	Amount    decimal.Decimal `json:"amount"`
	TxnDate   time.Time       `json:"txn_date"`
	Issuer    string          `json:"issuer"`
	Matched   bool            `json:"matched"`
	BillRef   string          `json:"bill_ref,omitempty"`
	MatchedAt *time.Time      `json:"matched_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// BillDescriptor identifies the bill side of a wallet match. Label is the
// human-readable composite stored on the transaction.
type BillDescriptor struct {
	VoucherNumber string
	PartyName     string
	Company       string
	BillDate      time.Time
}

// Label renders the composite "company | voucherNumber | billDate" tag.
func (d BillDescriptor) Label() string {
	return d.Company + " | " + d.VoucherNumber + " | " + d.BillDate.Format("2006-01-02")
}
