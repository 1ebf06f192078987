package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// RefundRepository defines the interface for refund data operations
type RefundRepository interface {
	Create(ctx context.Context, refund *entity.Refund) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Refund, error)
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]entity.Refund, error)
	// SumByTransaction is the total already refunded for a transaction
	SumByTransaction(ctx context.Context, transactionID uuid.UUID) (decimal.Decimal, error)
}
