package cheque

import "errors"

var (
	// ErrInvalidTransition is returned when a lifecycle transition is not allowed
	ErrInvalidTransition = errors.New("invalid lifecycle transition")

	// ErrInvalidState is returned when a state is not valid
	ErrInvalidState = errors.New("invalid lifecycle state")
)
