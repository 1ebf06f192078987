package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	domainRepo "github.com/sangkips/posdelivery-api/internal/domain/repository"
	"gorm.io/gorm"
)

type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository creates a new delivery batch repository
func NewDeliveryRepository(db *gorm.DB) domainRepo.DeliveryRepository {
	return &deliveryRepository{db: db}
}

// CreateBatch relies on GORM's association save to insert the items in the
// same statement group; callers wrap it in RunInTx together with the row lock.
func (r *deliveryRepository) CreateBatch(ctx context.Context, batch *entity.DeliveryBatch) error {
	if err := GetDB(ctx, r.db).Create(batch).Error; err != nil {
		return fmt.Errorf("create delivery batch: %w", err)
	}
	return nil
}

func (r *deliveryRepository) CountBatches(ctx context.Context, transactionID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&entity.DeliveryBatch{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count delivery batches: %w", err)
	}
	return count, nil
}

func (r *deliveryRepository) ListBatches(ctx context.Context, transactionID uuid.UUID) ([]entity.DeliveryBatch, error) {
	var batches []entity.DeliveryBatch
	err := GetDB(ctx, r.db).
		Preload("Items", inEntryOrder).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC, batch_number ASC").
		Find(&batches).Error
	if err != nil {
		return nil, fmt.Errorf("list delivery batches: %w", err)
	}
	return batches, nil
}

func (r *deliveryRepository) ListDeliveredItems(ctx context.Context, transactionID uuid.UUID) ([]entity.DeliveryBatchItem, error) {
	var items []entity.DeliveryBatchItem
	err := GetDB(ctx, r.db).
		Joins("JOIN delivery_batches ON delivery_batches.id = delivery_batch_items.batch_id").
		Where("delivery_batches.transaction_id = ?", transactionID).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list delivered items: %w", err)
	}
	return items, nil
}

func (r *deliveryRepository) GetBatch(ctx context.Context, id uuid.UUID) (*entity.DeliveryBatch, error) {
	var batch entity.DeliveryBatch
	err := GetDB(ctx, r.db).Preload("Items", inEntryOrder).First(&batch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get delivery batch: %w", err)
	}
	return &batch, nil
}
