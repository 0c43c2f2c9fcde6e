package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the gateway-reported status of a payment transaction.
type Status string

const (
	// StatusUnknown is the default when the gateway response shape
	// doesn't match expectations.
	StatusUnknown Status = "UNKNOWN"
	// StatusPending indicates the transaction has not finished yet.
	StatusPending Status = "PENDING"
	// StatusSuccess indicates the transfer completed.
	StatusSuccess Status = "SUCCESS"
	// StatusFailed indicates the gateway rejected or lost the transfer.
	StatusFailed Status = "FAILED"
	// StatusCancelled indicates the user backed out in the banking app.
	StatusCancelled Status = "CANCELLED"
)

// Terminal reports whether no further state change is expected.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus maps a raw gateway status string onto a Status.
// Unrecognized values map to StatusUnknown, never an error.
func ParseStatus(raw string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending
	case StatusSuccess:
		return StatusSuccess
	case StatusFailed:
		return StatusFailed
	case StatusCancelled:
		return StatusCancelled
	}
	return StatusUnknown
}

// State is the coordinator-side lifecycle state of a payment attempt.
type State string

const (
	// StateCreated means the attempt exists but setup has not finished.
	StateCreated State = "CREATED"
	// StateReady means the redirect URL is available and the user has
	// not been handed off to the banking app yet.
	StateReady State = "READY"
	// StateAwaitingResult means the hand-off happened and status
	// observation is running.
	StateAwaitingResult State = "AWAITING_RESULT"
	// StateSettled means a terminal status was observed.
	StateSettled State = "SETTLED"
	// StateAborted means setup failed before the user ever reached the
	// banking app.
	StateAborted State = "ABORTED"
)

// Transaction is one user-initiated payment attempt. The id is generated
// client-side; a retry after failure is a brand-new Transaction.
type Transaction struct {
	ID            string
	DisplayAmount float64
	GatewayAmount int64
	Currency      string
	Status        Status
	Recipient     string
	FinishedAt    string
	CreatedAt     time.Time
}

// NewTransactionID returns a globally unique attempt id: millisecond
// timestamp plus a random suffix, matching the ids the gateway already
// accepts from the mobile clients.
func NewTransactionID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%d%s", time.Now().UnixMilli(), suffix)
}
