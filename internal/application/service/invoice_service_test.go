package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/internal/domain/session"
	"github.com/sangkips/posdelivery-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvoiceFixture() (*memInvoiceRepo, *memBucket, *InvoiceService) {
	repo := newMemInvoiceRepo()
	bucket := newMemBucket()
	return repo, bucket, NewInvoiceService(repo, bucket, 1024, zerolog.Nop())
}

func createInvoice(t *testing.T, svc *InvoiceService) *entity.Invoice {
	t.Helper()
	ref := "PO-7781"
	invoice, err := svc.Create(context.Background(), staff, &CreateInvoiceInput{
		InvoiceNumber:   "INV-001",
		ReferenceNumber: &ref,
		CustomerName:    "Warung Sari",
		Amount:          decimal.RequireFromString("150.5"),
	})
	require.NoError(t, err)
	return invoice
}

func TestCreateInvoice(t *testing.T) {
	_, _, svc := newInvoiceFixture()
	invoice := createInvoice(t, svc)

	assert.Equal(t, "INVOICE|INV-001|PO-7781|150.50", invoice.QRPayload)
	assert.Equal(t, staff.UserID, invoice.CreatedBy)

	_, err := svc.Create(context.Background(), staff, &CreateInvoiceInput{InvoiceNumber: "INV-001", CustomerName: "Other"})
	assert.True(t, apperror.HasCode(err, http.StatusConflict))

	generated, err := svc.Create(context.Background(), staff, &CreateInvoiceInput{CustomerName: "Toko Maju"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(generated.InvoiceNumber, "INV-"))

	_, err = svc.Create(context.Background(), staff, &CreateInvoiceInput{Amount: decimal.NewFromInt(-1)})
	require.Error(t, err)
	assert.Len(t, apperror.GetAppError(err).Errors, 2)
}

func TestAttachFileReplacesPrevious(t *testing.T) {
	repo, bucket, svc := newInvoiceFixture()
	invoice := createInvoice(t, svc)
	ctx := context.Background()

	first, err := svc.AttachFile(ctx, invoice.ID, &AttachFileInput{FileName: "scan.pdf", Size: 4, Content: strings.NewReader("%PDF")})
	require.NoError(t, err)
	wantKey := "invoices/" + invoice.ID.String() + "/scan.pdf"
	require.NotNil(t, first.FileKey)
	assert.Equal(t, wantKey, *first.FileKey)
	assert.Equal(t, "/files/"+wantKey, *first.FileURL)

	_, err = svc.AttachFile(ctx, invoice.ID, &AttachFileInput{FileName: `C:\scans\photo.JPG`, Size: 3, Content: strings.NewReader("jpg")})
	require.NoError(t, err)

	stored, _ := repo.GetByID(ctx, invoice.ID)
	assert.Equal(t, "invoices/"+invoice.ID.String()+"/photo.JPG", *stored.FileKey)
	assert.Equal(t, []string{wantKey}, bucket.deleted)
}

func TestAttachFileValidation(t *testing.T) {
	_, bucket, svc := newInvoiceFixture()
	invoice := createInvoice(t, svc)
	ctx := context.Background()

	for name, input := range map[string]*AttachFileInput{
		"executable": {FileName: "run.exe", Size: 1, Content: strings.NewReader("x")},
		"dotfile":    {FileName: ".pdf", Size: 1, Content: strings.NewReader("x")},
		"too large":  {FileName: "big.pdf", Size: 2048, Content: strings.NewReader("x")},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.AttachFile(ctx, invoice.ID, input)
			require.Error(t, err)
			assert.Equal(t, "file", apperror.GetAppError(err).Errors[0].Field)
		})
	}
	assert.Empty(t, bucket.objects)

	_, err := svc.AttachFile(ctx, uuid.New(), &AttachFileInput{FileName: "a.pdf", Content: strings.NewReader("x")})
	assert.True(t, apperror.HasCode(err, http.StatusNotFound))
}

func TestDeleteInvoiceRemovesFile(t *testing.T) {
	_, bucket, svc := newInvoiceFixture()
	invoice := createInvoice(t, svc)
	ctx := context.Background()

	_, err := svc.AttachFile(ctx, invoice.ID, &AttachFileInput{FileName: "scan.pdf", Size: 4, Content: strings.NewReader("%PDF")})
	require.NoError(t, err)

	assert.True(t, apperror.HasCode(svc.Delete(ctx, staff, invoice.ID), http.StatusForbidden))

	admin := session.Session{UserID: uuid.New(), Roles: []string{session.RoleAdmin}}
	require.NoError(t, svc.Delete(ctx, admin, invoice.ID))
	assert.Empty(t, bucket.objects)

	_, err = svc.Get(ctx, invoice.ID)
	assert.True(t, apperror.HasCode(err, http.StatusNotFound))
}
