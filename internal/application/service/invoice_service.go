package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/internal/domain/repository"
	"github.com/sangkips/posdelivery-api/internal/domain/session"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/storage"
	"github.com/sangkips/posdelivery-api/pkg/apperror"
	"github.com/sangkips/posdelivery-api/pkg/pagination"
	"github.com/sangkips/posdelivery-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// allowedInvoiceFiles lists the extensions accepted for invoice scans
var allowedInvoiceFiles = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// InvoiceService manages standalone invoices and their scanned files
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	bucket      storage.Bucket
	maxFileSize int64
	now         func() time.Time
	log         zerolog.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repository.InvoiceRepository, bucket storage.Bucket, maxFileSize int64, log zerolog.Logger) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		bucket:      bucket,
		maxFileSize: maxFileSize,
		now:         time.Now,
		log:         log.With().Str("service", "invoice").Logger(),
	}
}

// CreateInvoiceInput represents the create invoice input. An empty number
// is generated.
type CreateInvoiceInput struct {
	InvoiceNumber   string
	ReferenceNumber *string
	CustomerName    string
	CustomerCode    *string
	Amount          decimal.Decimal
	QRPayload       *string
	Notes           *string
}

// Create stores a new invoice
func (s *InvoiceService) Create(ctx context.Context, sess session.Session, input *CreateInvoiceInput) (*entity.Invoice, error) {
	var fieldErrors []apperror.FieldError
	customerName := strings.TrimSpace(input.CustomerName)
	if customerName == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "customer_name", Message: "customer name is required"})
	}
	if input.Amount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "amount", Message: "amount cannot be negative"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	number := strings.TrimSpace(input.InvoiceNumber)
	if number == "" {
		number = utils.GenerateDocumentNo(utils.PrefixInvoice, s.now())
	} else {
		existing, err := s.invoiceRepo.GetByNumber(ctx, number)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError(fmt.Sprintf("Invoice %s already exists", number))
		}
	}

	invoice := &entity.Invoice{
		InvoiceNumber:   number,
		ReferenceNumber: trimmed(input.ReferenceNumber),
		CustomerName:    customerName,
		CustomerCode:    trimmed(input.CustomerCode),
		Amount:          input.Amount.Round(2),
		Notes:           trimmed(input.Notes),
		CreatedBy:       sess.UserID,
	}
	if qr := trimmed(input.QRPayload); qr != nil {
		invoice.QRPayload = *qr
	} else {
		invoice.QRPayload = invoice.DefaultQRPayload()
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.log.Info().Str("invoice_number", invoice.InvoiceNumber).Msg("invoice created")
	return invoice, nil
}

// Get retrieves an invoice by ID
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// List searches invoices by number, reference or customer
func (s *InvoiceService) List(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Invoice], error) {
	invoices, total, err := s.invoiceRepo.List(ctx, params, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// Delete removes an invoice and its stored file. Admin only.
func (s *InvoiceService) Delete(ctx context.Context, sess session.Session, id uuid.UUID) error {
	if !sess.IsAdmin() {
		return apperror.NewForbiddenError("Only administrators can delete invoices")
	}

	invoice, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}

	if invoice.FileKey != nil {
		if err := s.bucket.Delete(ctx, *invoice.FileKey); err != nil {
			// the retention job removes it later
			s.log.Warn().Err(err).Str("key", *invoice.FileKey).Msg("delete invoice file")
		}
	}
	return nil
}

// AttachFileInput is an uploaded invoice scan
type AttachFileInput struct {
	FileName string
	Size     int64
	Content  io.Reader
}

// AttachFile stores the upload under invoices/<id>/ and records its URL,
// replacing any previous file.
func (s *InvoiceService) AttachFile(ctx context.Context, id uuid.UUID, input *AttachFileInput) (*entity.Invoice, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := path.Base(strings.ReplaceAll(input.FileName, "\\", "/"))
	ext := strings.ToLower(path.Ext(name))
	if strings.HasPrefix(name, ".") || name == "/" || !allowedInvoiceFiles[ext] {
		return nil, apperror.NewFieldError("file", "file must be a PDF, PNG or JPEG")
	}
	if s.maxFileSize > 0 && input.Size > s.maxFileSize {
		return nil, apperror.NewFieldError("file", fmt.Sprintf("file exceeds the %d byte limit", s.maxFileSize))
	}

	key := fmt.Sprintf("invoices/%s/%s", invoice.ID, name)
	url, err := s.bucket.Put(ctx, key, input.Content)
	if err != nil {
		return nil, apperror.NewInternalError("store invoice file", err)
	}

	previous := invoice.FileKey
	invoice.FileURL = &url
	invoice.FileKey = &key
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	if previous != nil && *previous != key {
		if err := s.bucket.Delete(ctx, *previous); err != nil {
			s.log.Warn().Err(err).Str("key", *previous).Msg("delete replaced invoice file")
		}
	}

	s.log.Info().Str("invoice_number", invoice.InvoiceNumber).Str("key", key).Msg("invoice file attached")
	return invoice, nil
}
