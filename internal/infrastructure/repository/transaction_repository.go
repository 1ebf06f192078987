package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/internal/domain/enum"
	domainRepo "github.com/sangkips/posdelivery-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	if err := GetDB(ctx, r.db).Create(txn).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := GetDB(ctx, r.db).
		Preload("Customer").
		First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &txn, nil
}

// inEntryOrder sorts line and batch items the way they were entered. Items
// of one insert share a created_at, so that column cannot order them.
func inEntryOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *transactionRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := GetDB(ctx, r.db).
		Preload("Customer").
		Preload("Items", inEntryOrder).
		Preload("Batches", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Batches.Items", inEntryOrder).
		Preload("Refunds", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction details: %w", err)
	}
	return &txn, nil
}

func (r *transactionRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock transaction: %w", err)
	}
	return &txn, nil
}

func (r *transactionRepository) ListItems(ctx context.Context, transactionID uuid.UUID) ([]entity.TransactionItem, error) {
	var items []entity.TransactionItem
	err := GetDB(ctx, r.db).
		Where("transaction_id = ?", transactionID).
		Scopes(inEntryOrder).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list transaction items: %w", err)
	}
	return items, nil
}

func (r *transactionRepository) List(ctx context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	var txns []entity.Transaction
	var total int64

	query := GetDB(ctx, r.db).Model(&entity.Transaction{})

	if params.Search != "" {
		query = query.Where("number ILIKE ?", "%"+params.Search+"%")
	}
	if params.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *params.PaymentStatus)
	}
	if params.DeliveryStatus != nil {
		query = query.Where("delivery_status = ?", *params.DeliveryStatus)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at < ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	sortOrder := "DESC"
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order("created_at " + sortOrder).
		Find(&txns).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}

	return txns, total, nil
}

func (r *transactionRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from, to enum.PaymentStatus, at time.Time) (bool, error) {
	updates := map[string]interface{}{"payment_status": to}
	switch to {
	case enum.PaymentStatusPaid:
		updates["paid_at"] = at
	case enum.PaymentStatusCancelled:
		updates["cancelled_at"] = at
	}

	res := GetDB(ctx, r.db).Model(&entity.Transaction{}).
		Where("id = ? AND payment_status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("update payment status: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *transactionRepository) MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := GetDB(ctx, r.db).Model(&entity.Transaction{}).
		Where("id = ? AND delivery_status = ?", id, enum.DeliveryStatusPending).
		Updates(map[string]interface{}{
			"delivery_status": enum.DeliveryStatusDelivered,
			"delivered_at":    at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("mark delivered: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Delete removes the transaction; line items, batches and refunds go with it
// through ON DELETE CASCADE.
func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := GetDB(ctx, r.db).Delete(&entity.Transaction{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}
