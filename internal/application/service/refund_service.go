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
	"github.com/sangkips/posdelivery-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// RefundService records money returned on paid transactions
type RefundService struct {
	txManager  repository.TransactionManager
	txnRepo    repository.TransactionRepository
	refundRepo repository.RefundRepository
	notify     notifier
	now        func() time.Time
	log        zerolog.Logger
}

// NewRefundService creates a new refund service
func NewRefundService(
	txManager repository.TransactionManager,
	txnRepo repository.TransactionRepository,
	refundRepo repository.RefundRepository,
	events realtime.Broadcaster,
	stats cache.StatsCache,
	log zerolog.Logger,
) *RefundService {
	log = log.With().Str("service", "refund").Logger()
	return &RefundService{
		txManager:  txManager,
		txnRepo:    txnRepo,
		refundRepo: refundRepo,
		notify:     newNotifier(events, stats, log),
		now:        time.Now,
		log:        log,
	}
}

// CreateRefundInput represents the create refund input
type CreateRefundInput struct {
	Amount        decimal.Decimal
	Reason        string
	BankName      *string
	AccountNumber *string
	AccountHolder *string
}

// Create refunds part of a paid transaction. The running total of refunds
// never exceeds the transaction amount; the parent row is locked so two
// refunds cannot both pass the check.
func (s *RefundService) Create(ctx context.Context, sess session.Session, transactionID uuid.UUID, input *CreateRefundInput) (*entity.Refund, error) {
	var fieldErrors []apperror.FieldError
	amount := input.Amount.Round(2)
	if !amount.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "amount", Message: "amount must be greater than zero"})
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "reason", Message: "reason is required"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	var refund *entity.Refund
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		txn, err := s.txnRepo.LockByID(txCtx, transactionID)
		if err != nil {
			return err
		}
		if txn == nil {
			return apperror.NewNotFoundError("Transaction")
		}
		if txn.PaymentStatus != enum.PaymentStatusPaid {
			return apperror.NewConflictError("Only paid transactions can be refunded")
		}

		refunded, err := s.refundRepo.SumByTransaction(txCtx, transactionID)
		if err != nil {
			return err
		}
		available := txn.TotalAmount.Sub(refunded)
		if amount.GreaterThan(available) {
			return apperror.NewFieldError("amount",
				fmt.Sprintf("amount %s exceeds refundable balance %s", amount.StringFixed(2), available.StringFixed(2)))
		}

		now := s.now()
		refund = &entity.Refund{
			TransactionID: transactionID,
			RefundNumber:  utils.GenerateDocumentNo(utils.PrefixRefund, now),
			Amount:        amount,
			Reason:        reason,
			BankName:      trimmed(input.BankName),
			AccountNumber: trimmed(input.AccountNumber),
			AccountHolder: trimmed(input.AccountHolder),
			Status:        enum.RefundStatusProcessed,
			CreatedBy:     sess.UserID,
			CreatedAt:     now,
		}
		return s.refundRepo.Create(txCtx, refund)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("transaction_id", transactionID.String()).
		Str("refund_number", refund.RefundNumber).
		Str("amount", refund.Amount.StringFixed(2)).
		Msg("refund created")
	s.notify.publish(ctx, realtime.EventRefundCreated, transactionID, refund)

	return refund, nil
}

// ListByTransaction returns the refunds of a transaction, oldest first
func (s *RefundService) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]entity.Refund, error) {
	txn, err := s.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return s.refundRepo.ListByTransaction(ctx, transactionID)
}

// Get retrieves a refund by ID
func (s *RefundService) Get(ctx context.Context, id uuid.UUID) (*entity.Refund, error) {
	refund, err := s.refundRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if refund == nil {
		return nil, apperror.NewNotFoundError("Refund")
	}
	return refund, nil
}
