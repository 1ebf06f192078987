package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/domain/enum"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/realtime"
	"github.com/sangkips/posdelivery-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRefundFixture() (*memStore, *recordingBroadcaster, *RefundService) {
	db := newMemStore()
	events := &recordingBroadcaster{}
	svc := NewRefundService(&fakeTxManager{}, &memTransactionRepo{db: db}, &memRefundRepo{db: db}, events, newMemStatsCache(), zerolog.Nop())
	return db, events, svc
}

func TestRefundRequiresPaidTransaction(t *testing.T) {
	db, _, svc := newRefundFixture()
	txn, _ := db.seedTransaction(10)

	_, err := svc.Create(context.Background(), staff, txn.ID, &CreateRefundInput{Amount: decimal.NewFromInt(5), Reason: "damaged"})
	assert.True(t, apperror.HasCode(err, http.StatusConflict))

	db.setPayment(txn.ID, enum.PaymentStatusCancelled)
	_, err = svc.Create(context.Background(), staff, txn.ID, &CreateRefundInput{Amount: decimal.NewFromInt(5), Reason: "damaged"})
	assert.True(t, apperror.HasCode(err, http.StatusConflict))

	_, err = svc.Create(context.Background(), staff, uuid.New(), &CreateRefundInput{Amount: decimal.NewFromInt(5), Reason: "damaged"})
	assert.True(t, apperror.HasCode(err, http.StatusNotFound))
}

func TestRefundsNeverExceedTotal(t *testing.T) {
	db, events, svc := newRefundFixture()
	txn, _ := db.seedTransaction(10) // 100.00
	db.setPayment(txn.ID, enum.PaymentStatusPaid)
	ctx := context.Background()

	bank := "First Bank"
	first, err := svc.Create(ctx, staff, txn.ID, &CreateRefundInput{Amount: decimal.NewFromInt(60), Reason: " short delivery ", BankName: &bank})
	require.NoError(t, err)
	assert.Equal(t, "short delivery", first.Reason)
	assert.Equal(t, enum.RefundStatusProcessed, first.Status)
	require.NotNil(t, first.BankName)

	_, err = svc.Create(ctx, staff, txn.ID, &CreateRefundInput{Amount: decimal.RequireFromString("40.01"), Reason: "more"})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	assert.Equal(t, "amount", appErr.Errors[0].Field)
	assert.Contains(t, appErr.Errors[0].Message, "40.00")

	_, err = svc.Create(ctx, staff, txn.ID, &CreateRefundInput{Amount: decimal.NewFromInt(40), Reason: "rest"})
	require.NoError(t, err)

	refunds, err := svc.ListByTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Len(t, refunds, 2)
	assert.Equal(t, 2, events.count(realtime.EventRefundCreated))

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.RefundNumber, got.RefundNumber)
}

func TestRefundValidatesInput(t *testing.T) {
	db, _, svc := newRefundFixture()
	txn, _ := db.seedTransaction(1)

	_, err := svc.Create(context.Background(), staff, txn.ID, &CreateRefundInput{Amount: decimal.Zero, Reason: "  "})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	require.Len(t, appErr.Errors, 2)
	assert.Equal(t, "amount", appErr.Errors[0].Field)
	assert.Equal(t, "reason", appErr.Errors[1].Field)
}
