// Package dto holds the data-transfer shapes crossing the repository
// boundary.
package dto

import (
	"time"

	"github.com/laokitchen/payflow/pkg/domain/payment"
)

// TransactionCreate is the write shape used when an attempt is registered.
type TransactionCreate struct {
	ID            string
	DisplayAmount float64
	GatewayAmount int64
	Currency      string
	Status        payment.Status
}

// TransactionUpdate carries the fields a terminal observation may change.
type TransactionUpdate struct {
	Status     payment.Status
	Recipient  string
	FinishedAt string
}

// TransactionRead is the read shape returned from the ledger.
type TransactionRead struct {
	ID            string
	DisplayAmount float64
	GatewayAmount int64
	Currency      string
	Status        payment.Status
	Recipient     string
	FinishedAt    string
	CreatedAt     time.Time
}
