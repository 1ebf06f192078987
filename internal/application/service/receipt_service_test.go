package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/pkg/apperror"
	"github.com/sangkips/posdelivery-api/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReceiptRepo struct {
	receipt *entity.Receipt
}

func (r *stubReceiptRepo) TransactionReceipt(_ context.Context, _ uuid.UUID, kind entity.ReceiptKind) (*entity.Receipt, error) {
	if r.receipt == nil {
		return nil, nil
	}
	out := *r.receipt
	out.Kind = kind
	return &out, nil
}

func (r *stubReceiptRepo) DeliveryNote(context.Context, uuid.UUID) (*entity.Receipt, error) {
	return r.receipt, nil
}

func (r *stubReceiptRepo) RefundReceipt(context.Context, uuid.UUID) (*entity.Receipt, error) {
	return r.receipt, nil
}

type capturePrinter struct {
	data []byte
	err  error
}

func (p *capturePrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.data = append([]byte(nil), data...)
	return nil
}

func (p *capturePrinter) IsConnected(context.Context) bool { return p.err == nil }

func (p *capturePrinter) Type() string { return printer.TypeNetwork }

func sampleReceipt() *entity.Receipt {
	return &entity.Receipt{
		Kind:     entity.ReceiptKindSale,
		Header:   entity.ReceiptHeader{StoreName: "Toko Maju", Phone: "0812-000"},
		Number:   "TRX-20260305-AB12CD34",
		IssuedAt: time.Date(2026, 3, 5, 10, 15, 0, 0, time.UTC),
		Customer: &entity.ReceiptCustomer{Name: "Warung Sari"},
		Items: []entity.ReceiptItem{
			{Name: "Rice 5kg", Quantity: 2, UnitPrice: decimal.RequireFromString("12.5"), Total: decimal.NewFromInt(25)},
		},
		Totals: entity.ReceiptTotals{
			Total:    decimal.NewFromInt(25),
			Refunded: decimal.NewFromInt(5),
			Net:      decimal.NewFromInt(20),
		},
		PaymentStatus: "pending",
		QRPayload:     "TRX|TRX-20260305-AB12CD34|25.00",
		Currency:      "IDR",
	}
}

func TestFormatReceipt(t *testing.T) {
	out := FormatReceipt(sampleReceipt(), printer.Width58mm)

	for _, want := range []string{"Toko Maju", "SALES RECEIPT", "TRX-20260305-AB12CD34", "2x Rice 5kg", "25.00", "@ 12.50 each", "Refunded:", "20.00", "Thank you"} {
		assert.True(t, bytes.Contains(out, []byte(want)), "missing %q", want)
	}
	assert.True(t, bytes.Contains(out, []byte("TRX|TRX-20260305-AB12CD34|25.00")), "qr payload stored")
	assert.True(t, bytes.HasSuffix(out, []byte{printer.GS, 'V', 0x01}), "ends with cut")
}

func TestFormatDeliveryNote(t *testing.T) {
	r := sampleReceipt()
	r.Kind = entity.ReceiptKindDeliveryNote
	r.QRPayload = ""

	out := FormatReceipt(r, printer.Width58mm)
	assert.True(t, bytes.Contains(out, []byte("DELIVERY NOTE")))
	assert.True(t, bytes.Contains(out, []byte("Received by:")))
	assert.False(t, bytes.Contains(out, []byte{printer.GS, '(', 'k'}))
}

func TestTransactionReceiptKinds(t *testing.T) {
	svc := NewReceiptService(&stubReceiptRepo{receipt: sampleReceipt()}, nil, 0, zerolog.Nop())
	ctx := context.Background()

	r, err := svc.TransactionReceipt(ctx, uuid.New(), "")
	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptKindSale, r.Kind)

	_, err = svc.TransactionReceipt(ctx, uuid.New(), entity.ReceiptKindPayment)
	assert.True(t, apperror.HasCode(err, http.StatusConflict), "pending has no payment receipt")

	_, err = svc.TransactionReceipt(ctx, uuid.New(), entity.ReceiptKindRefund)
	assert.True(t, apperror.HasCode(err, http.StatusUnprocessableEntity))

	missing := NewReceiptService(&stubReceiptRepo{}, nil, 0, zerolog.Nop())
	_, err = missing.DeliveryNote(ctx, uuid.New())
	assert.True(t, apperror.HasCode(err, http.StatusNotFound))
	_, err = missing.RefundReceipt(ctx, uuid.New())
	assert.True(t, apperror.HasCode(err, http.StatusNotFound))
}

func TestPrintReceipt(t *testing.T) {
	p := &capturePrinter{}
	svc := NewReceiptService(&stubReceiptRepo{}, p, printer.Width80mm, zerolog.Nop())

	require.NoError(t, svc.Print(context.Background(), sampleReceipt()))
	assert.NotEmpty(t, p.data)

	status := svc.GetStatus(context.Background())
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)

	p.err = errors.New("connection refused")
	err := svc.Print(context.Background(), sampleReceipt())
	assert.True(t, apperror.HasCode(err, http.StatusServiceUnavailable))
}
