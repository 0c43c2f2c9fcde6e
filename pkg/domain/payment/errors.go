package payment

import "errors"

// Domain errors for the payment flow.
var (
	// ErrSetupFailed is returned when login, callback building or
	// redirect-URL creation fails before the user reached the banking app.
	ErrSetupFailed = errors.New("payment setup failed")
	// ErrVerifyFailed is returned when a status check fails for a reason
	// other than token expiry.
	ErrVerifyFailed = errors.New("payment verification failed")
	// ErrAlreadySettled is returned when an operation targets a
	// transaction that already observed a terminal status.
	ErrAlreadySettled = errors.New("transaction already settled")
	// ErrNotFound is returned when no flow is tracked for the given id.
	ErrNotFound = errors.New("payment transaction not found")
	// ErrNotReady is returned when a hand-off is reported for a flow that
	// is not in the READY state.
	ErrNotReady = errors.New("payment transaction not ready for redirect")
)
