package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ChequePush carries the cheque details pushed to the ledger gateway.
type ChequePush struct {
	PartyName  string
	BankLedger string
	Amount     decimal.Decimal
	Number     string
	Date       time.Time
	Narration  string
	TargetBook string
}

// PushResult is the gateway's answer to a cheque push.
type PushResult struct {
	Success   bool
	VoucherID string
	Error     string
}

// LedgerBill is one bill-wise allocation row reported by the ledger.
type LedgerBill struct {
	BillName       string
	BillDate       time.Time
	ClosingBalance decimal.Decimal
	CreditPeriod   int
	AgeingDays     int
}

// PartyAllocations groups a party's bill-wise allocations.
type PartyAllocations struct {
	PartyName string
	Bills     []LedgerBill
}

// LedgerGateway is the external accounting system's API boundary. It may be
// intermittently unreachable; every method call is bounded by the context
// deadline and a transport failure surfaces as errs.ErrGatewayUnavailable.
type LedgerGateway interface {
	// CheckConnection reports whether the gateway is reachable. Cheap,
	// timeout-bounded; a timeout means not connected.
	CheckConnection(ctx context.Context) bool

	// PushCheque pushes a cheque entry into the target book.
	PushCheque(ctx context.Context, push ChequePush) (*PushResult, error)

	// GetBillAllocations pulls the full bill-wise allocation set.
	GetBillAllocations(ctx context.Context) ([]PartyAllocations, error)
}
