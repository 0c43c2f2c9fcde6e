package transaction

import (
	"gorm.io/gorm"
)

// Transaction is the persisted record of one payment attempt.
type Transaction struct {
	gorm.Model
	ID            string  `gorm:"type:varchar(64);primary_key"`
	DisplayAmount float64 `gorm:"type:decimal(20,8)"`
	GatewayAmount int64
	Currency      string `gorm:"type:varchar(8);not null;default:'LAK'"`
	Status        string `gorm:"type:varchar(32);not null;default:'PENDING'"`
	Recipient     string `gorm:"type:varchar(128)"`
	FinishedAt    string `gorm:"type:varchar(64);column:finished_at"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "payment_transactions"
}
