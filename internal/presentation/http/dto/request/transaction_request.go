package request

import "github.com/google/uuid"

// TransactionItemRequest is one product on a checkout
type TransactionItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CreateTransactionRequest is the checkout body
type CreateTransactionRequest struct {
	CustomerID *uuid.UUID               `json:"customer_id"`
	Items      []TransactionItemRequest `json:"items"`
	QRPayload  *string                  `json:"qr_payload"`
	Notes      *string                  `json:"notes"`
}

// TransactionFilterRequest represents transaction filter parameters.
// Dates are YYYY-MM-DD.
type TransactionFilterRequest struct {
	Search         string `form:"search"`
	PaymentStatus  string `form:"payment_status" binding:"omitempty,oneof=pending paid cancelled"`
	DeliveryStatus string `form:"delivery_status" binding:"omitempty,oneof=pending delivered"`
	CustomerID     string `form:"customer_id" binding:"omitempty,uuid"`
	StartDate      string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate        string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	SortOrder      string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Page           int    `form:"page"`
	PerPage        int    `form:"per_page"`
}

// ReceiptQuery selects which transaction receipt to build
type ReceiptQuery struct {
	Kind string `form:"kind" binding:"omitempty,oneof=sale payment"`
}
