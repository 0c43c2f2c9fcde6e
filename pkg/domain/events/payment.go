package events

import (
	"time"

	"github.com/laokitchen/payflow/pkg/domain/payment"
)

// Event type identifiers published on the bus.
const (
	EventTypePaymentCompleted = "payment.completed"
	EventTypePaymentFailed    = "payment.failed"
	EventTypePaymentPending   = "payment.pending"
	EventTypePaymentTimedOut  = "payment.timed_out"
)

// PaymentCompleted is published exactly once per transaction when either
// observation channel reports SUCCESS.
type PaymentCompleted struct {
	TransactionID string
	Amount        float64
	Currency      string
	Recipient     string
	FinishedAt    string
}

func (PaymentCompleted) Type() string { return EventTypePaymentCompleted }

// PaymentFailed is published exactly once per transaction when the gateway
// reports FAILED or CANCELLED. The transaction stays abandoned; a retry is
// a new transaction.
type PaymentFailed struct {
	TransactionID string
	Status        payment.Status
	Reason        string
}

func (PaymentFailed) Type() string { return EventTypePaymentFailed }

// PaymentPending is informational; the poll and deep-link channels keep
// running after it.
type PaymentPending struct {
	TransactionID string
}

func (PaymentPending) Type() string { return EventTypePaymentPending }

// PaymentTimedOut is published when the bounded poller exhausts its total
// wait without observing a terminal status. The deep-link channel stays
// usable afterwards.
type PaymentTimedOut struct {
	TransactionID string
	Elapsed       time.Duration
}

func (PaymentTimedOut) Type() string { return EventTypePaymentTimedOut }
