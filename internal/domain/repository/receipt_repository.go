package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
)

// ReceiptRepository assembles typed receipt view models from stored rows.
// Each method returns nil, nil when the source record does not exist.
type ReceiptRepository interface {
	// TransactionReceipt builds a sale or payment receipt
	TransactionReceipt(ctx context.Context, transactionID uuid.UUID, kind entity.ReceiptKind) (*entity.Receipt, error)
	DeliveryNote(ctx context.Context, batchID uuid.UUID) (*entity.Receipt, error)
	RefundReceipt(ctx context.Context, refundID uuid.UUID) (*entity.Receipt, error)
}
