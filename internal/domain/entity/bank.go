package entity

import "time"

// Bank maps a bank's short name (as keyed on cheques) to its full ledger
// name. Short names are unique; duplicates surface as a conflict.
type Bank struct {
	ID         int64     `json:"id"`
	ShortName  string    `json:"short_name"`
	LedgerName string    `json:"ledger_name"`
	CreatedAt  time.Time `json:"created_at"`
}
