package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/internal/domain/repository"
	"github.com/sangkips/posdelivery-api/pkg/apperror"
	"github.com/sangkips/posdelivery-api/pkg/printer"
	"github.com/shopspring/decimal"
)

// ReceiptService builds receipt view models and prints them on the
// configured thermal printer.
type ReceiptService struct {
	receiptRepo repository.ReceiptRepository
	printer     printer.Printer
	paperWidth  int
	log         zerolog.Logger
}

// NewReceiptService creates a new receipt service. A nil printer is
// replaced with the null printer.
func NewReceiptService(receiptRepo repository.ReceiptRepository, p printer.Printer, paperWidth int, log zerolog.Logger) *ReceiptService {
	if p == nil {
		p = printer.NewNullPrinter()
	}
	return &ReceiptService{
		receiptRepo: receiptRepo,
		printer:     p,
		paperWidth:  paperWidth,
		log:         log.With().Str("service", "receipt").Logger(),
	}
}

// PrinterStatus describes the configured printer
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status
func (s *ReceiptService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Type() != printer.TypeNone,
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printer.Type(),
	}
}

// TransactionReceipt builds the sale receipt, or the payment receipt for a
// paid transaction when kind is payment.
func (s *ReceiptService) TransactionReceipt(ctx context.Context, id uuid.UUID, kind entity.ReceiptKind) (*entity.Receipt, error) {
	if kind == "" {
		kind = entity.ReceiptKindSale
	}
	if kind != entity.ReceiptKindSale && kind != entity.ReceiptKindPayment {
		return nil, apperror.NewFieldError("kind", "kind must be sale or payment")
	}

	receipt, err := s.receiptRepo.TransactionReceipt(ctx, id, kind)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	if kind == entity.ReceiptKindPayment && receipt.PaymentStatus != "paid" {
		return nil, apperror.NewConflictError("Transaction has not been paid")
	}
	return receipt, nil
}

// DeliveryNote builds the delivery note of one batch
func (s *ReceiptService) DeliveryNote(ctx context.Context, batchID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.DeliveryNote(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Delivery batch")
	}
	return receipt, nil
}

// RefundReceipt builds the receipt of one refund
func (s *ReceiptService) RefundReceipt(ctx context.Context, refundID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.RefundReceipt(ctx, refundID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Refund")
	}
	return receipt, nil
}

// Print sends the receipt to the printer. The receipt is returned either
// way so callers can show it when printing fails.
func (s *ReceiptService) Print(ctx context.Context, receipt *entity.Receipt) error {
	data := FormatReceipt(receipt, s.paperWidth)
	if err := s.printer.Print(ctx, data); err != nil {
		s.log.Error().Err(err).Str("number", receipt.Number).Str("kind", string(receipt.Kind)).Msg("print receipt")
		return apperror.NewAppError(503, fmt.Sprintf("Failed to print receipt: %v", err))
	}
	s.log.Info().Str("number", receipt.Number).Str("kind", string(receipt.Kind)).Str("printer", s.printer.Type()).Msg("receipt printed")
	return nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if r.Header.Address != "" {
		doc.Wrap(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	doc.LineFeed().
		SetBold(true).
		Text(r.Title()).
		SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('-')

	// Document info
	doc.KeyValue("No:", r.Number)
	if r.Reference != "" {
		doc.KeyValue("Ref:", r.Reference)
	}
	doc.KeyValue("Date:", r.IssuedAt.Format("2006-01-02 15:04"))
	if r.Customer != nil {
		doc.KeyValue("Customer:", r.Customer.Name)
		if r.Customer.Phone != "" {
			doc.KeyValue("Phone:", r.Customer.Phone)
		}
	}
	if r.PaymentStatus != "" {
		doc.KeyValue("Payment:", r.PaymentStatus)
	}
	if r.DeliveryStatus != "" && r.Kind == entity.ReceiptKindDeliveryNote {
		doc.KeyValue("Delivery:", r.DeliveryStatus)
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, money(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", money(item.UnitPrice))
		}
	}

	doc.Separator('-')

	// Totals
	switch r.Kind {
	case entity.ReceiptKindRefund:
		doc.SetBold(true).
			KeyValue("REFUNDED:", money(r.Items[0].Total)).
			SetBold(false).
			KeyValue("Sale total:", money(r.Totals.Total)).
			KeyValue("Total refunded:", money(r.Totals.Refunded)).
			KeyValue("Net:", money(r.Totals.Net))
		if r.Reason != "" {
			doc.Wrap("Reason: " + r.Reason)
		}
	case entity.ReceiptKindDeliveryNote:
		units := 0
		for _, item := range r.Items {
			units += item.Quantity
		}
		doc.KeyValue("Units:", fmt.Sprintf("%d", units)).
			SetBold(true).
			KeyValue("Value:", money(r.Totals.Total)).
			SetBold(false)
	default:
		doc.SetBold(true).
			KeyValue("TOTAL "+r.Currency+":", money(r.Totals.Total)).
			SetBold(false)
		if r.Totals.Refunded.IsPositive() {
			doc.KeyValue("Refunded:", money(r.Totals.Refunded)).
				KeyValue("Net:", money(r.Totals.Net))
		}
	}

	if r.Notes != "" {
		doc.Separator('-').Wrap(r.Notes)
	}

	if r.QRPayload != "" {
		doc.SetAlign(printer.AlignCenter).
			LineFeed().
			QRCode(r.QRPayload, 6).
			SetAlign(printer.AlignLeft)
	}

	if r.Kind == entity.ReceiptKindDeliveryNote {
		doc.LineFeed().
			Text("Received by:").
			FeedLines(2).
			Text("________________")
	}

	// Footer
	footer := r.Footer
	if footer == "" {
		footer = "Thank you for your business!"
	}
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Wrap(footer).
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
