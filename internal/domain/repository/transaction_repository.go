package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/internal/domain/enum"
	"github.com/sangkips/posdelivery-api/pkg/pagination"
)

// TransactionRepository defines the interface for sales transaction data operations
type TransactionRepository interface {
	// Create inserts the transaction together with its line items
	Create(ctx context.Context, txn *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	// GetWithDetails preloads customer, items, delivery batches with items and refunds
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	// LockByID reads the row with SELECT ... FOR UPDATE. Only meaningful inside RunInTx.
	LockByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	ListItems(ctx context.Context, transactionID uuid.UUID) ([]entity.TransactionItem, error)
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
	// UpdatePaymentStatus moves payment status from -> to and reports whether a row changed
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from, to enum.PaymentStatus, at time.Time) (bool, error)
	// MarkDelivered flips a pending delivery to delivered and reports whether a row changed
	MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionFilterParams contains filtering parameters for transaction queries
type TransactionFilterParams struct {
	Pagination     *pagination.PaginationParams
	Search         string
	PaymentStatus  *enum.PaymentStatus
	DeliveryStatus *enum.DeliveryStatus
	CustomerID     *uuid.UUID
	StartDate      *time.Time
	EndDate        *time.Time
	SortOrder      string
}
