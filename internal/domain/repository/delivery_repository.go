package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
)

// DeliveryRepository defines the interface for delivery batch data operations
type DeliveryRepository interface {
	// CreateBatch inserts the batch and all of its items
	CreateBatch(ctx context.Context, batch *entity.DeliveryBatch) error
	CountBatches(ctx context.Context, transactionID uuid.UUID) (int64, error)
	// ListBatches returns every batch of a transaction with items, oldest first
	ListBatches(ctx context.Context, transactionID uuid.UUID) ([]entity.DeliveryBatch, error)
	// ListDeliveredItems returns every batch item recorded against a transaction
	ListDeliveredItems(ctx context.Context, transactionID uuid.UUID) ([]entity.DeliveryBatchItem, error)
	GetBatch(ctx context.Context, id uuid.UUID) (*entity.DeliveryBatch, error)
}
