package cheque

// Trigger represents an event that can cause a lifecycle transition
type Trigger string

const (
	TriggerConfirmDate Trigger = "CONFIRM_DATE"
	TriggerSyncOK      Trigger = "SYNC_OK"
	TriggerSyncFail    Trigger = "SYNC_FAIL"
	TriggerRetry       Trigger = "RETRY"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
