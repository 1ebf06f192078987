package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dryRunDB renders SQL without a server
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=pos dbname=pos sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)
	return db
}

func TestItemsAreReadInEntryOrder(t *testing.T) {
	db := dryRunDB(t)
	txnID := uuid.New()

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var items []entity.TransactionItem
		return tx.Where("transaction_id = ?", txnID).Scopes(inEntryOrder).Find(&items)
	})
	assert.Contains(t, sql, "ORDER BY position ASC")
	assert.NotContains(t, sql, "created_at")

	sql = db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var items []entity.DeliveryBatchItem
		return tx.Scopes(inEntryOrder).Find(&items)
	})
	assert.Contains(t, sql, "ORDER BY position ASC")
}
