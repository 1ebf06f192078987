package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posdelivery-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Refund returns part or all of a paid transaction's amount to the customer
type Refund struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID         `gorm:"type:uuid;not null;index" json:"transaction_id"`
	RefundNumber  string            `gorm:"size:50;uniqueIndex;not null" json:"refund_number"`
	Amount        decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Reason        string            `gorm:"type:text;not null" json:"reason"`
	BankName      *string           `gorm:"size:255" json:"bank_name,omitempty"`
	AccountNumber *string           `gorm:"size:100" json:"account_number,omitempty"`
	AccountHolder *string           `gorm:"size:255" json:"account_holder,omitempty"`
	Status        enum.RefundStatus `gorm:"size:20;not null;default:'processed'" json:"status"`
	CreatedBy     uuid.UUID         `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt     time.Time         `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new refund
func (r *Refund) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = enum.RefundStatusProcessed
	}
	return nil
}

// TableName returns the table name for the Refund model
func (Refund) TableName() string {
	return "refunds"
}
