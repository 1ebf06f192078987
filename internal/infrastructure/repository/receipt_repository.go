package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	domainRepo "github.com/sangkips/posdelivery-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a repository that assembles receipt view models
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) TransactionReceipt(ctx context.Context, transactionID uuid.UUID, kind entity.ReceiptKind) (*entity.Receipt, error) {
	txn, err := r.loadTransaction(ctx, transactionID, true)
	if err != nil || txn == nil {
		return nil, err
	}

	refunded, err := r.refundedTotal(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	receipt, err := r.base(ctx, kind)
	if err != nil {
		return nil, err
	}

	receipt.Number = txn.Number
	receipt.IssuedAt = txn.CreatedAt
	if kind == entity.ReceiptKindPayment && txn.PaidAt != nil {
		receipt.IssuedAt = *txn.PaidAt
	}
	receipt.Customer = receiptCustomer(txn.Customer)
	receipt.PaymentStatus = txn.PaymentStatus.String()
	receipt.DeliveryStatus = txn.DeliveryStatus.String()
	receipt.Notes = deref(txn.Notes)
	receipt.QRPayload = deref(txn.QRPayload)
	receipt.Items = make([]entity.ReceiptItem, 0, len(txn.Items))
	for _, it := range txn.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      it.ProductName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Subtotal,
		})
	}
	receipt.Totals = entity.ReceiptTotals{
		Total:    txn.TotalAmount,
		Refunded: refunded,
		Net:      txn.TotalAmount.Sub(refunded),
	}

	return receipt, nil
}

func (r *receiptRepository) DeliveryNote(ctx context.Context, batchID uuid.UUID) (*entity.Receipt, error) {
	var batch entity.DeliveryBatch
	err := GetDB(ctx, r.db).Preload("Items", inEntryOrder).First(&batch, "id = ?", batchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load delivery batch: %w", err)
	}

	txn, err := r.loadTransaction(ctx, batch.TransactionID, false)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, fmt.Errorf("delivery batch %s has no transaction", batch.ID)
	}

	receipt, err := r.base(ctx, entity.ReceiptKindDeliveryNote)
	if err != nil {
		return nil, err
	}

	receipt.Number = batch.BatchNumber
	receipt.Reference = txn.Number
	receipt.IssuedAt = batch.CreatedAt
	receipt.Customer = receiptCustomer(txn.Customer)
	receipt.DeliveryStatus = txn.DeliveryStatus.String()
	receipt.Notes = deref(batch.Notes)
	receipt.Items = make([]entity.ReceiptItem, 0, len(batch.Items))
	for _, it := range batch.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      it.ProductName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Subtotal,
		})
	}
	value := batch.TotalValue()
	receipt.Totals = entity.ReceiptTotals{Total: value, Refunded: decimal.Zero, Net: value}

	return receipt, nil
}

func (r *receiptRepository) RefundReceipt(ctx context.Context, refundID uuid.UUID) (*entity.Receipt, error) {
	var refund entity.Refund
	err := GetDB(ctx, r.db).First(&refund, "id = ?", refundID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load refund: %w", err)
	}

	txn, err := r.loadTransaction(ctx, refund.TransactionID, false)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, fmt.Errorf("refund %s has no transaction", refund.ID)
	}

	refunded, err := r.refundedTotal(ctx, refund.TransactionID)
	if err != nil {
		return nil, err
	}

	receipt, err := r.base(ctx, entity.ReceiptKindRefund)
	if err != nil {
		return nil, err
	}

	receipt.Number = refund.RefundNumber
	receipt.Reference = txn.Number
	receipt.IssuedAt = refund.CreatedAt
	receipt.Customer = receiptCustomer(txn.Customer)
	receipt.PaymentStatus = txn.PaymentStatus.String()
	receipt.Reason = refund.Reason
	receipt.Items = []entity.ReceiptItem{{
		Name:      "Refund " + txn.Number,
		Quantity:  1,
		UnitPrice: refund.Amount,
		Total:     refund.Amount,
	}}
	receipt.Totals = entity.ReceiptTotals{
		Total:    txn.TotalAmount,
		Refunded: refunded,
		Net:      txn.TotalAmount.Sub(refunded),
	}
	if refund.BankName != nil || refund.AccountNumber != nil {
		receipt.Notes = fmt.Sprintf("Transfer to %s %s a/n %s",
			deref(refund.BankName), deref(refund.AccountNumber), deref(refund.AccountHolder))
	}

	return receipt, nil
}

// base fills header, footer and currency from the business settings,
// falling back to defaults when the row has not been saved yet.
func (r *receiptRepository) base(ctx context.Context, kind entity.ReceiptKind) (*entity.Receipt, error) {
	var settings entity.BusinessSettings
	err := GetDB(ctx, r.db).First(&settings, "id = ?", entity.BusinessSettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = *entity.DefaultBusinessSettings()
	} else if err != nil {
		return nil, fmt.Errorf("load business settings: %w", err)
	}

	return &entity.Receipt{
		Kind: kind,
		Header: entity.ReceiptHeader{
			StoreName:    settings.DisplayName,
			Address:      deref(settings.Address),
			Phone:        deref(settings.ContactPhone),
			LogoURL:      deref(settings.LogoURL),
			SignatureURL: deref(settings.SignatureURL),
		},
		Footer:   deref(settings.ReceiptFooter),
		Currency: settings.Currency,
	}, nil
}

func (r *receiptRepository) loadTransaction(ctx context.Context, id uuid.UUID, withItems bool) (*entity.Transaction, error) {
	var txn entity.Transaction
	query := GetDB(ctx, r.db).Preload("Customer")
	if withItems {
		query = query.Preload("Items", inEntryOrder)
	}
	err := query.First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load transaction: %w", err)
	}
	return &txn, nil
}

func (r *receiptRepository) refundedTotal(ctx context.Context, transactionID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := GetDB(ctx, r.db).Model(&entity.Refund{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("transaction_id = ?", transactionID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum refunds: %w", err)
	}
	return row.Total, nil
}

func receiptCustomer(c *entity.Customer) *entity.ReceiptCustomer {
	if c == nil {
		return nil
	}
	return &entity.ReceiptCustomer{
		Name:    c.Name,
		Phone:   c.Phone,
		Address: deref(c.Address),
		Rank:    c.Rank.String(),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
