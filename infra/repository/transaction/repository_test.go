package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/laokitchen/payflow/pkg/domain/payment"
	"github.com/laokitchen/payflow/pkg/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "payment_transactions" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("X1"))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), dto.TransactionCreate{
		ID:            "X1",
		DisplayAmount: 10,
		GatewayAmount: 215000,
		Currency:      "LAK",
		Status:        payment.StatusPending,
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "payment_transactions" (.+) RETURNING "id"`).
		WillReturnError(errors.New("create error"))
	mock.ExpectRollback()

	err = repo.Create(context.Background(), dto.TransactionCreate{ID: "X2"})
	require.Error(t, err)
}

func TestRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payment_transactions" SET (.+) WHERE id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), "X1", dto.TransactionUpdate{
		Status:     payment.StatusSuccess,
		Recipient:  "Lao Kitchen",
		FinishedAt: "2024-01-01T00:00:00Z",
	})
	require.NoError(t, err)
}

func TestRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "display_amount", "gateway_amount", "currency",
		"status", "recipient", "finished_at", "created_at",
	}).AddRow("X1", 10.0, int64(215000), "LAK", "SUCCESS", "Lao Kitchen", "2024-01-01T00:00:00Z", now)
	mock.ExpectQuery(`SELECT \* FROM "payment_transactions" WHERE id = \$1 (.+)`).
		WithArgs("X1", 1).
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "X1")
	require.NoError(t, err)
	assert.Equal(t, "X1", got.ID)
	assert.Equal(t, payment.StatusSuccess, got.Status)
	assert.Equal(t, int64(215000), got.GatewayAmount)
	assert.Equal(t, "Lao Kitchen", got.Recipient)
}

func TestRepository_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectQuery(`SELECT \* FROM "payment_transactions" WHERE id = \$1 (.+)`).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, payment.ErrNotFound)
}
