package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/internal/domain/enum"
	"github.com/sangkips/posdelivery-api/internal/domain/reconciliation"
	"github.com/sangkips/posdelivery-api/internal/domain/repository"
	"github.com/sangkips/posdelivery-api/internal/domain/session"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/cache"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/realtime"
	"github.com/sangkips/posdelivery-api/pkg/apperror"
	"github.com/sangkips/posdelivery-api/pkg/utils"
)

// DeliveryService records delivery batches against transactions and keeps
// the delivery status in step with what has shipped.
type DeliveryService struct {
	txManager    repository.TransactionManager
	txnRepo      repository.TransactionRepository
	deliveryRepo repository.DeliveryRepository
	notify       notifier
	mode         reconciliation.Mode
	now          func() time.Time
	log          zerolog.Logger
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(
	txManager repository.TransactionManager,
	txnRepo repository.TransactionRepository,
	deliveryRepo repository.DeliveryRepository,
	events realtime.Broadcaster,
	stats cache.StatsCache,
	mode reconciliation.Mode,
	log zerolog.Logger,
) *DeliveryService {
	log = log.With().Str("service", "delivery").Logger()
	return &DeliveryService{
		txManager:    txManager,
		txnRepo:      txnRepo,
		deliveryRepo: deliveryRepo,
		notify:       newNotifier(events, stats, log),
		mode:         mode,
		now:          time.Now,
		log:          log,
	}
}

// BatchItemInput asks for Quantity units of one line item. Zero means the
// line is not part of this batch.
type BatchItemInput struct {
	LineItemID uuid.UUID
	Quantity   int
}

// CreateBatchInput represents the create delivery batch input
type CreateBatchInput struct {
	TransactionID uuid.UUID
	Items         []BatchItemInput
	Notes         *string
}

// CreateBatchResult is the stored batch plus the delivery state after it
type CreateBatchResult struct {
	Batch *entity.DeliveryBatch `json:"batch"`
	// Delivered is true when this batch moved the transaction to delivered
	Delivered bool                          `json:"delivered"`
	Complete  bool                          `json:"complete"`
	Progress  []reconciliation.LineProgress `json:"progress"`
}

// CreateBatch validates the requested quantities against what is still
// outstanding and stores the batch. The parent transaction row stays locked
// until commit so concurrent batches for the same transaction serialize.
func (s *DeliveryService) CreateBatch(ctx context.Context, sess session.Session, input *CreateBatchInput) (*CreateBatchResult, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewFieldError("items", reconciliation.ErrNothingSelected.Error())
	}

	var (
		result  *CreateBatchResult
		txnID   = input.TransactionID
		flipped bool
	)

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		txn, err := s.txnRepo.LockByID(txCtx, txnID)
		if err != nil {
			return err
		}
		if txn == nil {
			return apperror.NewNotFoundError("Transaction")
		}
		if txn.PaymentStatus == enum.PaymentStatusCancelled {
			return apperror.NewConflictError("Cannot deliver a cancelled transaction")
		}

		ledger, lines, _, err := s.loadLedger(txCtx, txnID)
		if err != nil {
			return err
		}

		selections := make([]reconciliation.Selection, len(input.Items))
		for i, it := range input.Items {
			selections[i] = reconciliation.Selection{LineID: it.LineItemID, Quantity: it.Quantity}
		}
		if err := ledger.Validate(selections); err != nil {
			return selectionError(err)
		}

		existing, err := s.deliveryRepo.CountBatches(txCtx, txnID)
		if err != nil {
			return err
		}

		now := s.now()
		batch := &entity.DeliveryBatch{
			TransactionID: txnID,
			BatchNumber:   utils.DeliveryBatchNo(now, existing),
			Notes:         input.Notes,
			CreatedAt:     now,
		}
		if !sess.IsZero() {
			createdBy := sess.UserID
			batch.CreatedBy = &createdBy
		}
		for _, sel := range selections {
			if sel.Quantity == 0 {
				continue
			}
			line := lines[sel.LineID]
			batch.Items = append(batch.Items, entity.DeliveryBatchItem{
				Position:    len(batch.Items),
				LineItemID:  line.ID,
				ProductName: line.ProductName,
				Quantity:    sel.Quantity,
				UnitPrice:   line.UnitPrice,
				Subtotal:    entity.LineSubtotal(sel.Quantity, line.UnitPrice),
			})
		}

		if err := s.deliveryRepo.CreateBatch(txCtx, batch); err != nil {
			return err
		}

		next := ledger.Apply(selections)
		complete := next.IsComplete(s.mode)
		if complete {
			flipped, err = s.txnRepo.MarkDelivered(txCtx, txnID, now)
			if err != nil {
				return err
			}
		}

		result = &CreateBatchResult{
			Batch:     batch,
			Delivered: flipped,
			Complete:  complete,
			Progress:  next.Progress(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("transaction_id", txnID.String()).
		Str("batch_number", result.Batch.BatchNumber).
		Int("units", result.Batch.TotalQuantity()).
		Bool("delivered", flipped).
		Msg("delivery batch created")

	s.notify.publish(ctx, realtime.EventBatchCreated, txnID, result.Batch)
	if flipped {
		s.notify.publish(ctx, realtime.EventTransactionDelivered, txnID, nil)
	}

	return result, nil
}

// ListBatches returns every batch of a transaction with its items
func (s *DeliveryService) ListBatches(ctx context.Context, transactionID uuid.UUID) ([]entity.DeliveryBatch, error) {
	txn, err := s.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return s.deliveryRepo.ListBatches(ctx, transactionID)
}

// GetBatch returns a single batch with its items
func (s *DeliveryService) GetBatch(ctx context.Context, id uuid.UUID) (*entity.DeliveryBatch, error) {
	batch, err := s.deliveryRepo.GetBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, apperror.NewNotFoundError("Delivery batch")
	}
	return batch, nil
}

// DeliveryProgress is the delivery screen of one transaction
type DeliveryProgress struct {
	TransactionID  uuid.UUID                           `json:"transaction_id"`
	DeliveryStatus enum.DeliveryStatus                 `json:"delivery_status"`
	Mode           reconciliation.Mode                 `json:"mode"`
	Complete       bool                                `json:"complete"`
	OrderedTotal   int                                 `json:"ordered_total"`
	DeliveredTotal int                                 `json:"delivered_total"`
	Lines          []reconciliation.LineProgress       `json:"lines"`
	Violations     []*reconciliation.OverDeliveryError `json:"violations,omitempty"`
	// ByProduct merges lines sharing a product name, as printed on reports
	ByProduct reconciliation.ProductSummary `json:"by_product"`
}

// Progress reports ordered, delivered and remaining units per line.
// Stored over-deliveries are listed as violations and logged.
func (s *DeliveryService) Progress(ctx context.Context, transactionID uuid.UUID) (*DeliveryProgress, error) {
	txn, err := s.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}

	ledger, _, byProduct, err := s.loadLedger(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	violations := ledger.Violations()
	for _, v := range violations {
		s.log.Warn().
			Str("transaction_id", transactionID.String()).
			Str("line_item_id", v.LineID.String()).
			Int("ordered", v.Ordered).
			Int("delivered", v.Delivered).
			Msg("stored deliveries exceed ordered quantity")
	}

	return &DeliveryProgress{
		TransactionID:  transactionID,
		DeliveryStatus: txn.DeliveryStatus,
		Mode:           s.mode,
		Complete:       ledger.IsComplete(s.mode),
		OrderedTotal:   ledger.OrderedTotal(),
		DeliveredTotal: ledger.DeliveredTotal(),
		Lines:          ledger.Progress(),
		Violations:     violations,
		ByProduct:      byProduct,
	}, nil
}

func (s *DeliveryService) loadLedger(ctx context.Context, transactionID uuid.UUID) (*reconciliation.Ledger, map[uuid.UUID]entity.TransactionItem, reconciliation.ProductSummary, error) {
	items, err := s.txnRepo.ListItems(ctx, transactionID)
	if err != nil {
		return nil, nil, reconciliation.ProductSummary{}, err
	}
	delivered, err := s.deliveryRepo.ListDeliveredItems(ctx, transactionID)
	if err != nil {
		return nil, nil, reconciliation.ProductSummary{}, err
	}

	lines := make(map[uuid.UUID]entity.TransactionItem, len(items))
	ordered := make([]reconciliation.OrderedLine, len(items))
	orderedByName := make([]reconciliation.ProductQuantity, len(items))
	for i, it := range items {
		lines[it.ID] = it
		ordered[i] = reconciliation.OrderedLine{LineID: it.ID, ProductName: it.ProductName, Quantity: it.Quantity}
		orderedByName[i] = reconciliation.ProductQuantity{ProductName: it.ProductName, Quantity: it.Quantity}
	}
	shipped := make([]reconciliation.DeliveredLine, len(delivered))
	shippedByName := make([]reconciliation.ProductQuantity, len(delivered))
	for i, d := range delivered {
		shipped[i] = reconciliation.DeliveredLine{LineID: d.LineItemID, Quantity: d.Quantity}
		shippedByName[i] = reconciliation.ProductQuantity{ProductName: d.ProductName, Quantity: d.Quantity}
	}

	byProduct := reconciliation.SummarizeByProduct(orderedByName, shippedByName)
	return reconciliation.NewLedger(ordered, shipped), lines, byProduct, nil
}

// selectionError maps ledger validation failures to field errors on the request
func selectionError(err error) error {
	if errors.Is(err, reconciliation.ErrNothingSelected) {
		return apperror.NewFieldError("items", err.Error())
	}
	var verr *reconciliation.ValidationError
	if errors.As(err, &verr) {
		fields := make([]apperror.FieldError, 0, len(verr.Problems))
		for _, p := range verr.Problems {
			fields = append(fields, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].%s", p.Index, p.Field),
				Message: p.Message,
			})
		}
		return apperror.NewValidationError(fields)
	}
	return err
}
