package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/supplyoffice/backend/internal/domain/inventory"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

func newMockItemRepo(t *testing.T) (*GormItemRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:                 mockDB,
		DriverName:           "postgres",
		PreferSimpleProtocol: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewGormItemRepository(db), mock
}

func lockedItem(t *testing.T) *inventory.Item {
	t.Helper()
	item, err := inventory.NewItem("National Bookstore", "Bond Paper A4", "Stock Room 1", "ream", 50, decimal.NewFromInt(220), "")
	require.NoError(t, err)
	require.NoError(t, item.Deduct(10))
	return item
}

func TestGormItemRepository_SaveWithLock(t *testing.T) {
	t.Run("updates row when version matches", func(t *testing.T) {
		repo, mock := newMockItemRepo(t)
		item := lockedItem(t)

		mock.ExpectExec(`UPDATE "inventory_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), item)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when version moved on", func(t *testing.T) {
		repo, mock := newMockItemRepo(t)
		item := lockedItem(t)

		mock.ExpectExec(`UPDATE "inventory_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), item)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock := newMockItemRepo(t)
		item := lockedItem(t)

		dbErr := errors.New("connection reset")
		mock.ExpectExec(`UPDATE "inventory_items" SET`).
			WillReturnError(dbErr)

		err := repo.SaveWithLock(context.Background(), item)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormItemRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := newMockItemRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "inventory_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	item, err := repo.FindByID(context.Background(), lockedItem(t).ID)
	assert.Nil(t, item)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
