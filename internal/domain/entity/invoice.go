package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is a standalone billing document. It is not linked to transactions.
type Invoice struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber   string          `gorm:"size:50;uniqueIndex;not null" json:"invoice_number"`
	ReferenceNumber *string         `gorm:"size:100;index" json:"reference_number,omitempty"`
	CustomerName    string          `gorm:"size:255;not null" json:"customer_name"`
	CustomerCode    *string         `gorm:"size:100" json:"customer_code,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`
	FileURL         *string         `gorm:"size:500" json:"file_url,omitempty"`
	FileKey         *string         `gorm:"size:500" json:"-"`
	QRPayload       string          `gorm:"type:text;not null" json:"qr_payload"`
	Notes           *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy       uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID and fills the default QR payload
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.QRPayload == "" {
		i.QRPayload = i.DefaultQRPayload()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// DefaultQRPayload encodes number, reference and amount, pipe separated
func (i *Invoice) DefaultQRPayload() string {
	ref := ""
	if i.ReferenceNumber != nil {
		ref = *i.ReferenceNumber
	}
	return strings.Join([]string{"INVOICE", i.InvoiceNumber, ref, i.Amount.StringFixed(2)}, "|")
}
