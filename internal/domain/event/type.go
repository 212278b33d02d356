package event

// Type identifies the type of domain event
type Type string

const (
	TypePaymentRecorded   Type = "payment.recorded"
	TypeChequeSynced      Type = "cheque.synced"
	TypeChequeSyncFailed  Type = "cheque.sync_failed"
	TypeWalletMatched     Type = "wallet.matched"
	TypeOutstandingSynced Type = "outstanding.synced"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypePaymentRecorded,
		TypeChequeSynced,
		TypeChequeSyncFailed,
		TypeWalletMatched,
		TypeOutstandingSynced:
		return true
	default:
		return false
	}
}
