package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/internal/domain/enum"
	"github.com/sangkips/posdelivery-api/internal/domain/repository"
	"github.com/sangkips/posdelivery-api/internal/domain/session"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/realtime"
	"github.com/sangkips/posdelivery-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceSuite struct {
	suite.Suite
	db     *memStore
	events *recordingBroadcaster
	svc    *TransactionService
	rice   entity.Product
	oil    entity.Product
}

func (s *TransactionServiceSuite) SetupTest() {
	s.db = newMemStore()
	s.events = &recordingBroadcaster{}
	s.svc = NewTransactionService(
		&fakeTxManager{},
		&memTransactionRepo{db: s.db},
		&memProductRepo{db: s.db},
		&memCustomerRepo{db: s.db},
		s.events,
		newMemStatsCache(),
		zerolog.Nop(),
	)
	s.svc.now = func() time.Time { return time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC) }

	s.rice = entity.Product{ID: uuid.New(), Name: "Rice 5kg", UnitPrice: decimal.RequireFromString("12.50"), IsActive: true}
	s.oil = entity.Product{ID: uuid.New(), Name: "Cooking Oil", UnitPrice: decimal.RequireFromString("3.25"), IsActive: false}
	s.db.products[s.rice.ID] = s.rice
	s.db.products[s.oil.ID] = s.oil
}

func TestTransactionServiceSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceSuite))
}

func (s *TransactionServiceSuite) create() *entity.Transaction {
	txn, err := s.svc.Create(context.Background(), staff, &CreateTransactionInput{
		Items: []TransactionItemInput{{ProductID: s.rice.ID, Quantity: 3}},
	})
	s.Require().NoError(err)
	return txn
}

func (s *TransactionServiceSuite) TestCreateCapturesCatalogPrice() {
	txn := s.create()

	s.True(strings.HasPrefix(txn.Number, "TRX-20260305-"))
	s.Equal("37.50", txn.TotalAmount.StringFixed(2))
	s.Equal(enum.PaymentStatusPending, txn.PaymentStatus)
	s.Equal(enum.DeliveryStatusPending, txn.DeliveryStatus)
	s.Equal(staff.UserID, txn.CreatedBy)
	s.Require().Len(txn.Items, 1)
	s.Equal("Rice 5kg", txn.Items[0].ProductName)
	s.Equal("12.50", txn.Items[0].UnitPrice.StringFixed(2))
	s.Equal(1, s.events.count(realtime.EventTransactionCreated))

	// later price changes do not touch the sale
	s.rice.UnitPrice = decimal.NewFromInt(99)
	s.db.products[s.rice.ID] = s.rice
	stored, err := s.svc.Get(context.Background(), txn.ID)
	s.Require().NoError(err)
	s.Equal("12.50", stored.Items[0].UnitPrice.StringFixed(2))
}

func (s *TransactionServiceSuite) TestCreateNumbersLinesInRequestOrder() {
	sugar := entity.Product{ID: uuid.New(), Name: "Sugar 1kg", UnitPrice: decimal.RequireFromString("2.00"), IsActive: true}
	s.db.products[sugar.ID] = sugar

	txn, err := s.svc.Create(context.Background(), staff, &CreateTransactionInput{
		Items: []TransactionItemInput{
			{ProductID: sugar.ID, Quantity: 1},
			{ProductID: s.rice.ID, Quantity: 2},
			{ProductID: sugar.ID, Quantity: 4},
		},
	})
	s.Require().NoError(err)

	s.Require().Len(txn.Items, 3)
	for i, item := range txn.Items {
		s.Equal(i, item.Position)
	}
	s.Equal("Rice 5kg", txn.Items[1].ProductName)
}

func (s *TransactionServiceSuite) TestCreateValidatesItems() {
	_, err := s.svc.Create(context.Background(), staff, &CreateTransactionInput{
		Items: []TransactionItemInput{
			{ProductID: s.rice.ID, Quantity: 0},
			{ProductID: uuid.Nil, Quantity: 1},
		},
	})
	s.Require().Error(err)
	appErr := apperror.GetAppError(err)
	s.Equal(http.StatusUnprocessableEntity, appErr.Code)
	s.Len(appErr.Errors, 2)
	s.Equal("items[0].quantity", appErr.Errors[0].Field)
	s.Equal("items[1].product_id", appErr.Errors[1].Field)
}

func (s *TransactionServiceSuite) TestCreateRejectsInactiveAndUnknownProducts() {
	_, err := s.svc.Create(context.Background(), staff, &CreateTransactionInput{
		Items: []TransactionItemInput{
			{ProductID: s.rice.ID, Quantity: 1},
			{ProductID: s.oil.ID, Quantity: 1},
			{ProductID: uuid.New(), Quantity: 1},
		},
	})
	s.Require().Error(err)
	appErr := apperror.GetAppError(err)
	s.Require().Len(appErr.Errors, 2)
	s.Equal("items[1].product_id", appErr.Errors[0].Field)
	s.Contains(appErr.Errors[0].Message, "not available")
	s.Equal("items[2].product_id", appErr.Errors[1].Field)
	s.Empty(s.db.txns)
}

func (s *TransactionServiceSuite) TestCreateRequiresKnownCustomer() {
	missing := uuid.New()
	_, err := s.svc.Create(context.Background(), staff, &CreateTransactionInput{
		CustomerID: &missing,
		Items:      []TransactionItemInput{{ProductID: s.rice.ID, Quantity: 1}},
	})
	s.True(apperror.HasCode(err, http.StatusNotFound))
}

func (s *TransactionServiceSuite) TestPaymentTransitions() {
	ctx := context.Background()

	paid := s.create()
	got, err := s.svc.MarkPaid(ctx, paid.ID)
	s.Require().NoError(err)
	s.Equal(enum.PaymentStatusPaid, got.PaymentStatus)
	s.NotNil(got.PaidAt)

	_, err = s.svc.MarkPaid(ctx, paid.ID)
	s.True(apperror.HasCode(err, http.StatusConflict), "paid twice")
	_, err = s.svc.Cancel(ctx, paid.ID)
	s.True(apperror.HasCode(err, http.StatusConflict), "paid cannot be cancelled")

	cancelled := s.create()
	_, err = s.svc.Cancel(ctx, cancelled.ID)
	s.Require().NoError(err)
	_, err = s.svc.MarkPaid(ctx, cancelled.ID)
	s.True(apperror.HasCode(err, http.StatusConflict), "cancelled cannot be paid")

	_, err = s.svc.MarkPaid(ctx, uuid.New())
	s.True(apperror.HasCode(err, http.StatusNotFound))

	s.Equal(1, s.events.count(realtime.EventTransactionPaid))
	s.Equal(1, s.events.count(realtime.EventTransactionCancelled))
}

func (s *TransactionServiceSuite) TestMarkDelivered() {
	ctx := context.Background()

	txn := s.create()
	got, err := s.svc.MarkDelivered(ctx, txn.ID)
	s.Require().NoError(err)
	s.Equal(enum.DeliveryStatusDelivered, got.DeliveryStatus)

	_, err = s.svc.MarkDelivered(ctx, txn.ID)
	s.True(apperror.HasCode(err, http.StatusConflict))

	cancelled := s.create()
	_, err = s.svc.Cancel(ctx, cancelled.ID)
	s.Require().NoError(err)
	_, err = s.svc.MarkDelivered(ctx, cancelled.ID)
	s.True(apperror.HasCode(err, http.StatusConflict))
}

func (s *TransactionServiceSuite) TestDeleteIsAdminOnly() {
	ctx := context.Background()
	txn := s.create()

	err := s.svc.Delete(ctx, staff, txn.ID)
	s.True(apperror.HasCode(err, http.StatusForbidden))

	admin := session.Session{UserID: uuid.New(), Roles: []string{session.RoleAdmin, session.RoleStaff}}
	s.Require().NoError(s.svc.Delete(ctx, admin, txn.ID))

	_, err = s.svc.Get(ctx, txn.ID)
	s.True(apperror.HasCode(err, http.StatusNotFound))
}

func TestListRejectsInvertedDateRange(t *testing.T) {
	db := newMemStore()
	svc := NewTransactionService(&fakeTxManager{}, &memTransactionRepo{db: db}, &memProductRepo{db: db}, &memCustomerRepo{db: db}, nil, nil, zerolog.Nop())

	start := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)
	_, err := svc.List(context.Background(), &repository.TransactionFilterParams{StartDate: &start, EndDate: &end})
	require.Error(t, err)
	assert.Equal(t, "end_date", apperror.GetAppError(err).Errors[0].Field)

	result, err := svc.List(context.Background(), &repository.TransactionFilterParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, 1, result.Pagination.CurrentPage)
}
