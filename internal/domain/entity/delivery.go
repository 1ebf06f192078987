package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeliveryBatch is one physical delivery against a transaction. Batches are
// written once, together with their items, and never edited.
type DeliveryBatch struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_delivery_batches_txn_number,priority:1" json:"transaction_id"`
	BatchNumber   string     `gorm:"size:50;not null;uniqueIndex:idx_delivery_batches_txn_number,priority:2" json:"batch_number"`
	Notes         *string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy     *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`

	Items []DeliveryBatchItem `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE" json:"items"`
}

// BeforeCreate generates a UUID before creating a new batch
func (b *DeliveryBatch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DeliveryBatch model
func (DeliveryBatch) TableName() string {
	return "delivery_batches"
}

// TotalQuantity is the number of units shipped in this batch
func (b *DeliveryBatch) TotalQuantity() int {
	total := 0
	for _, it := range b.Items {
		total += it.Quantity
	}
	return total
}

// TotalValue is the value of the goods shipped in this batch
func (b *DeliveryBatch) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, it := range b.Items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// DeliveryBatchItem records how many units of one line item shipped in a batch.
// LineItemID is the join key back to the order; ProductName is for display.
type DeliveryBatchItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BatchID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"batch_id"`
	LineItemID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"line_item_id"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	Quantity    int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"subtotal"`
	Position    int             `gorm:"not null;default:0" json:"position"`
	CreatedAt   time.Time       `json:"created_at"`

	LineItem *TransactionItem `gorm:"foreignKey:LineItemID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate generates a UUID and derives the subtotal
func (i *DeliveryBatchItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	i.Subtotal = LineSubtotal(i.Quantity, i.UnitPrice)
	return nil
}

// TableName returns the table name for the DeliveryBatchItem model
func (DeliveryBatchItem) TableName() string {
	return "delivery_batch_items"
}
