// Package transaction is the gorm-backed implementation of the ledger.
package transaction

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/laokitchen/payflow/pkg/domain/payment"
	"github.com/laokitchen/payflow/pkg/dto"
	repo "github.com/laokitchen/payflow/pkg/repository/transaction"
)

type repository struct {
	db *gorm.DB
}

// New creates a transaction ledger backed by the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Create implements transaction.Repository.
func (r *repository) Create(ctx context.Context, create dto.TransactionCreate) error {
	tx := Transaction{
		ID:            create.ID,
		DisplayAmount: create.DisplayAmount,
		GatewayAmount: create.GatewayAmount,
		Currency:      create.Currency,
		Status:        string(create.Status),
	}
	return r.db.WithContext(ctx).Create(&tx).Error
}

// Update implements transaction.Repository.
func (r *repository) Update(ctx context.Context, id string, update dto.TransactionUpdate) error {
	updates := map[string]any{"status": string(update.Status)}
	if update.Recipient != "" {
		updates["recipient"] = update.Recipient
	}
	if update.FinishedAt != "" {
		updates["finished_at"] = update.FinishedAt
	}
	return r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Get implements transaction.Repository.
func (r *repository) Get(ctx context.Context, id string) (*dto.TransactionRead, error) {
	var tx Transaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &dto.TransactionRead{
		ID:            tx.ID,
		DisplayAmount: tx.DisplayAmount,
		GatewayAmount: tx.GatewayAmount,
		Currency:      tx.Currency,
		Status:        payment.ParseStatus(tx.Status),
		Recipient:     tx.Recipient,
		FinishedAt:    tx.FinishedAt,
		CreatedAt:     tx.CreatedAt,
	}, nil
}
