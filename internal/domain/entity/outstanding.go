package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ageing bucket labels. Boundaries are half-open: a bill aged exactly 30
// days falls in "30-60".
const (
	Bucket0To30  = "0-30"
	Bucket30To60 = "30-60"
	Bucket60To90 = "60-90"
	Bucket90Plus = "90+"
)

// AgeingBucket classifies an ageing in days into its bucket.
func AgeingBucket(ageingDays int) string {
	switch {
	case ageingDays < 30:
		return Bucket0To30
	case ageingDays < 60:
		return Bucket30To60
	case ageingDays < 90:
		return Bucket60To90
	default:
		return Bucket90Plus
	}
}

// OutstandingBill is a cached snapshot of the external ledger's bill-wise
// closing balance. The ledger is the source of truth; the whole set is
// replaced on every sync.
type OutstandingBill struct {
	ID             int64           `json:"id"`
	PartyName      string          `json:"party_name"`
	BillName       string          `json:"bill_name"`
	BillDate       time.Time       `json:"bill_date"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	CreditPeriod   int             `json:"credit_period"`
	AgeingDays     int             `json:"ageing_days"`
	Bucket         string          `json:"bucket"`
	SyncedAt       time.Time       `json:"synced_at"`
}

// Overdue reports whether the bill has aged past its credit period.
func (b *OutstandingBill) Overdue() bool {
	return b.AgeingDays > b.CreditPeriod
}
