package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/internal/domain/enum"
	"github.com/sangkips/posdelivery-api/internal/domain/repository"
	"github.com/sangkips/posdelivery-api/internal/domain/session"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/cache"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/realtime"
	"github.com/sangkips/posdelivery-api/pkg/apperror"
	"github.com/sangkips/posdelivery-api/pkg/pagination"
	"github.com/sangkips/posdelivery-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// TransactionService handles sales transactions and their status changes
type TransactionService struct {
	txManager    repository.TransactionManager
	txnRepo      repository.TransactionRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	notify       notifier
	now          func() time.Time
	log          zerolog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	txManager repository.TransactionManager,
	txnRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	events realtime.Broadcaster,
	stats cache.StatsCache,
	log zerolog.Logger,
) *TransactionService {
	log = log.With().Str("service", "transaction").Logger()
	return &TransactionService{
		txManager:    txManager,
		txnRepo:      txnRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		notify:       newNotifier(events, stats, log),
		now:          time.Now,
		log:          log,
	}
}

// TransactionItemInput represents an item in a sale
type TransactionItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateTransactionInput represents the checkout input
type CreateTransactionInput struct {
	CustomerID *uuid.UUID
	Items      []TransactionItemInput
	QRPayload  *string
	Notes      *string
}

// Create checks out a sale. Prices come from the product catalogue at the
// time of the call and are copied onto the line items.
func (s *TransactionService) Create(ctx context.Context, sess session.Session, input *CreateTransactionInput) (*entity.Transaction, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewFieldError("items", "at least one item is required")
	}

	var fieldErrors []apperror.FieldError
	productIDs := make([]uuid.UUID, 0, len(input.Items))
	for i, item := range input.Items {
		if item.ProductID == uuid.Nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("items[%d].product_id", i), Message: "product is required"})
		}
		if item.Quantity <= 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "quantity must be greater than zero"})
		}
		productIDs = append(productIDs, item.ProductID)
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	// Batch fetch all products in one query
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	now := s.now()
	txn := &entity.Transaction{
		Number:         utils.GenerateDocumentNo(utils.PrefixTransaction, now),
		CustomerID:     input.CustomerID,
		PaymentStatus:  enum.PaymentStatusPending,
		DeliveryStatus: enum.DeliveryStatusPending,
		QRPayload:      trimmed(input.QRPayload),
		Notes:          trimmed(input.Notes),
		CreatedBy:      sess.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	total := decimal.Zero
	for i, item := range input.Items {
		product, ok := productMap[item.ProductID]
		if !ok {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("items[%d].product_id", i), Message: "product not found"})
			continue
		}
		if !product.IsActive {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("items[%d].product_id", i), Message: product.Name + " is not available for sale"})
			continue
		}
		productID := product.ID
		subtotal := entity.LineSubtotal(item.Quantity, product.UnitPrice)
		txn.Items = append(txn.Items, entity.TransactionItem{
			Position:    len(txn.Items),
			ProductID:   &productID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.UnitPrice,
			Subtotal:    subtotal,
		})
		total = total.Add(subtotal)
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}
	txn.TotalAmount = total

	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("transaction_id", txn.ID.String()).
		Str("number", txn.Number).
		Str("total", txn.TotalAmount.StringFixed(2)).
		Msg("transaction created")
	s.notify.publish(ctx, realtime.EventTransactionCreated, txn.ID, map[string]string{"number": txn.Number})

	return txn, nil
}

// Get returns a transaction with items, customer, batches and refunds
func (s *TransactionService) Get(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, err := s.txnRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// List returns a page of transactions matching the filter
func (s *TransactionService) List(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	// EndDate is exclusive
	if params.StartDate != nil && params.EndDate != nil && !params.EndDate.After(*params.StartDate) {
		return nil, apperror.NewFieldError("end_date", "end_date must not be before start_date")
	}

	txns, total, err := s.txnRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(txns, pag), nil
}

// MarkPaid moves a pending transaction to paid
func (s *TransactionService) MarkPaid(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return s.changePayment(ctx, id, enum.PaymentStatusPaid, realtime.EventTransactionPaid)
}

// Cancel moves a pending transaction to cancelled
func (s *TransactionService) Cancel(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return s.changePayment(ctx, id, enum.PaymentStatusCancelled, realtime.EventTransactionCancelled)
}

func (s *TransactionService) changePayment(ctx context.Context, id uuid.UUID, to enum.PaymentStatus, event string) (*entity.Transaction, error) {
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	if !txn.PaymentStatus.CanTransitionTo(to) {
		return nil, apperror.NewConflictError(fmt.Sprintf("Cannot change payment status from %s to %s", txn.PaymentStatus, to))
	}

	at := s.now()
	changed, err := s.txnRepo.UpdatePaymentStatus(ctx, id, txn.PaymentStatus, to, at)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, apperror.NewConflictError("Payment status was changed by another request")
	}

	txn.PaymentStatus = to
	switch to {
	case enum.PaymentStatusPaid:
		txn.PaidAt = &at
	case enum.PaymentStatusCancelled:
		txn.CancelledAt = &at
	}

	s.log.Info().Str("transaction_id", id.String()).Str("payment_status", to.String()).Msg("payment status changed")
	s.notify.publish(ctx, event, id, map[string]string{"payment_status": to.String()})

	return txn, nil
}

// MarkDelivered flips the delivery status by hand, for goods handed over
// without recording batches.
func (s *TransactionService) MarkDelivered(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	if txn.PaymentStatus == enum.PaymentStatusCancelled {
		return nil, apperror.NewConflictError("Cannot deliver a cancelled transaction")
	}
	if !txn.DeliveryStatus.CanTransitionTo(enum.DeliveryStatusDelivered) {
		return nil, apperror.NewConflictError("Transaction is already delivered")
	}

	at := s.now()
	changed, err := s.txnRepo.MarkDelivered(ctx, id, at)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, apperror.NewConflictError("Transaction is already delivered")
	}

	txn.DeliveryStatus = enum.DeliveryStatusDelivered
	txn.DeliveredAt = &at

	s.log.Info().Str("transaction_id", id.String()).Msg("transaction marked delivered")
	s.notify.publish(ctx, realtime.EventTransactionDelivered, id, nil)

	return txn, nil
}

// Delete removes a transaction and everything recorded against it. Admin only.
func (s *TransactionService) Delete(ctx context.Context, sess session.Session, id uuid.UUID) error {
	if !sess.IsAdmin() {
		return apperror.NewForbiddenError("Only administrators can delete transactions")
	}

	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if txn == nil {
		return apperror.NewNotFoundError("Transaction")
	}

	if err := s.txnRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Warn().Str("transaction_id", id.String()).Str("by", sess.Email).Msg("transaction deleted")
	s.notify.invalidate(ctx)
	return nil
}

// trimmed returns nil for nil or blank strings
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
