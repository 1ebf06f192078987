package request

import "github.com/shopspring/decimal"

// CreateInvoiceRequest represents a standalone invoice. An empty number is generated.
type CreateInvoiceRequest struct {
	InvoiceNumber   string          `json:"invoice_number" binding:"max=50"`
	ReferenceNumber *string         `json:"reference_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerCode    *string         `json:"customer_code"`
	Amount          decimal.Decimal `json:"amount" swaggertype:"string" example:"150.00"`
	QRPayload       *string         `json:"qr_payload"`
	Notes           *string         `json:"notes"`
}
