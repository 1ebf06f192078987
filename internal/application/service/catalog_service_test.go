package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/internal/domain/enum"
	"github.com/sangkips/posdelivery-api/internal/domain/session"
	"github.com/sangkips/posdelivery-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProductCreateValidatesAndRounds(t *testing.T) {
	svc := NewProductService(&memProductRepo{db: newMemStore()})
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, &ProductInput{Name: "  ", UnitPrice: decimal.NewFromInt(-1)})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	assert.Len(t, appErr.Errors, 2)

	product, err := svc.CreateProduct(ctx, &ProductInput{
		Name:        " Widget ",
		Description: strPtr("   "),
		UnitPrice:   decimal.RequireFromString("12.345"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget", product.Name)
	assert.Nil(t, product.Description)
	assert.Equal(t, "12.35", product.UnitPrice.StringFixed(2))
	assert.True(t, product.IsActive)
}

func TestProductSetActiveAndDelete(t *testing.T) {
	db := newMemStore()
	svc := NewProductService(&memProductRepo{db: db})
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, &ProductInput{Name: "Widget", UnitPrice: decimal.NewFromInt(5)})
	require.NoError(t, err)

	updated, err := svc.SetActive(ctx, product.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	staffSess := session.Session{UserID: uuid.New(), Roles: []string{session.RoleStaff}}
	err = svc.DeleteProduct(ctx, staffSess, product.ID)
	assert.Equal(t, http.StatusForbidden, apperror.GetAppError(err).Code)

	adminSess := session.Session{UserID: uuid.New(), Roles: []string{session.RoleAdmin}}
	require.NoError(t, svc.DeleteProduct(ctx, adminSess, product.ID))
	_, err = svc.GetProduct(ctx, product.ID)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestCustomerRankValidation(t *testing.T) {
	svc := NewCustomerService(&memCustomerRepo{db: newMemStore()})
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, &CustomerInput{Name: "Ana", Phone: "0812"})
	require.NoError(t, err)
	assert.Equal(t, enum.CustomerRankStandard, customer.Rank)

	customer, err = svc.UpdateCustomer(ctx, customer.ID, &CustomerInput{Name: "Ana", Phone: "0812", Rank: "Gold"})
	require.NoError(t, err)
	assert.Equal(t, enum.CustomerRankGold, customer.Rank)

	_, err = svc.CreateCustomer(ctx, &CustomerInput{Name: "", Phone: "", Rank: "diamond"})
	require.Error(t, err)
	fields := map[string]bool{}
	for _, fe := range apperror.GetAppError(err).Errors {
		fields[fe.Field] = true
	}
	assert.Equal(t, map[string]bool{"name": true, "phone": true, "rank": true}, fields)
}

func TestCustomerUpdateUnknown(t *testing.T) {
	svc := NewCustomerService(&memCustomerRepo{db: newMemStore()})

	_, err := svc.UpdateCustomer(context.Background(), uuid.New(), &CustomerInput{Name: "Ana", Phone: "0812"})
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

type memSettingsRepo struct {
	saved *entity.BusinessSettings
	saves int
}

func (r *memSettingsRepo) Get(context.Context) (*entity.BusinessSettings, error) {
	if r.saved == nil {
		return nil, nil
	}
	out := *r.saved
	return &out, nil
}

func (r *memSettingsRepo) Save(_ context.Context, settings *entity.BusinessSettings) error {
	out := *settings
	r.saved = &out
	r.saves++
	return nil
}

func TestSettingsCreatesDefaultsOnce(t *testing.T) {
	repo := &memSettingsRepo{}
	svc := NewSettingsService(repo)
	ctx := context.Background()

	first, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultBusinessSettings().DisplayName, first.DisplayName)

	_, err = svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.saves)
}

func TestSettingsPartialUpdate(t *testing.T) {
	repo := &memSettingsRepo{}
	svc := NewSettingsService(repo)
	ctx := context.Background()

	settings, err := svc.UpdateSettings(ctx, &UpdateSettingsInput{
		DisplayName:   strPtr("Corner Shop"),
		Currency:      strPtr("usd"),
		ReceiptFooter: strPtr("See you soon"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop", settings.DisplayName)
	assert.Equal(t, "USD", settings.Currency)
	require.NotNil(t, settings.ReceiptFooter)

	settings, err = svc.UpdateSettings(ctx, &UpdateSettingsInput{ReceiptFooter: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop", settings.DisplayName, "untouched fields survive")
	assert.Nil(t, settings.ReceiptFooter, "empty string clears")

	_, err = svc.UpdateSettings(ctx, &UpdateSettingsInput{Currency: strPtr("dollars")})
	require.Error(t, err)
	assert.Equal(t, "currency", apperror.GetAppError(err).Errors[0].Field)

	_, err = svc.UpdateSettings(ctx, &UpdateSettingsInput{DisplayName: strPtr(" ")})
	require.Error(t, err)
	assert.Equal(t, "display_name", apperror.GetAppError(err).Errors[0].Field)
}
