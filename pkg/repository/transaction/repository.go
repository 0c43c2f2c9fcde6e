// Package transaction defines the ledger contract for payment-attempt
// bookkeeping. Writes on the payment critical path are best-effort: the
// coordinator never blocks on them.
package transaction

import (
	"context"

	"github.com/laokitchen/payflow/pkg/dto"
)

// Repository persists payment attempts and their outcomes.
type Repository interface {
	Create(ctx context.Context, create dto.TransactionCreate) error
	Update(ctx context.Context, id string, update dto.TransactionUpdate) error
	Get(ctx context.Context, id string) (*dto.TransactionRead, error)
}
