package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posdelivery-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is a single sale. Its amount never changes after checkout;
// only the payment and delivery status fields move.
type Transaction struct {
	ID             uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	Number         string              `gorm:"size:50;uniqueIndex;not null" json:"number"`
	CustomerID     *uuid.UUID          `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	TotalAmount    decimal.Decimal     `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	PaymentStatus  enum.PaymentStatus  `gorm:"size:20;not null;default:'pending';index" json:"payment_status"`
	DeliveryStatus enum.DeliveryStatus `gorm:"size:20;not null;default:'pending';index" json:"delivery_status"`
	QRPayload      *string             `gorm:"type:text" json:"qr_payload,omitempty"`
	Notes          *string             `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy      uuid.UUID           `gorm:"type:uuid;not null;index" json:"created_by"`
	PaidAt         *time.Time          `json:"paid_at,omitempty"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	DeliveredAt    *time.Time          `json:"delivered_at,omitempty"`
	CreatedAt      time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`

	// Relationships
	Customer *Customer         `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL" json:"customer,omitempty"`
	Items    []TransactionItem `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Batches  []DeliveryBatch   `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"delivery_batches,omitempty"`
	Refunds  []Refund          `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"refunds,omitempty"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionItem is one line of a sale. Product name and price are captured
// at checkout; ProductID is kept for reporting and becomes NULL if the
// product is later deleted.
type TransactionItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     *uuid.UUID      `gorm:"type:uuid;index" json:"product_id,omitempty"`
	ProductName   string          `gorm:"size:255;not null" json:"product_name"`
	Quantity      int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"subtotal"`
	// Position is the line's index in the checkout request
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"-"`
}

// BeforeCreate generates a UUID and derives the subtotal
func (i *TransactionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	i.Subtotal = LineSubtotal(i.Quantity, i.UnitPrice)
	return nil
}

// TableName returns the table name for the TransactionItem model
func (TransactionItem) TableName() string {
	return "transaction_items"
}

// LineSubtotal is quantity x unit price, rounded to cents
func LineSubtotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
