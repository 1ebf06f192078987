package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptKind tells the renderer which template to use
type ReceiptKind string

const (
	ReceiptKindSale         ReceiptKind = "sale"
	ReceiptKindPayment      ReceiptKind = "payment"
	ReceiptKindDeliveryNote ReceiptKind = "delivery_note"
	ReceiptKindRefund       ReceiptKind = "refund"
)

// ReceiptHeader holds the business branding printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName    string `json:"store_name"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
	SignatureURL string `json:"signature_url,omitempty"`
}

// ReceiptCustomer is the customer block of a receipt
type ReceiptCustomer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Rank    string `json:"rank,omitempty"`
}

// ReceiptItem represents a single line on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// ReceiptTotals groups the money lines at the bottom of a receipt
type ReceiptTotals struct {
	Total    decimal.Decimal `json:"total"`
	Refunded decimal.Decimal `json:"refunded"`
	Net      decimal.Decimal `json:"net"`
}

// Receipt is the typed view model every renderer consumes. It is assembled
// by the data-access layer from transaction, batch, refund and settings rows
// and is never stored.
type Receipt struct {
	Kind           ReceiptKind      `json:"kind"`
	Header         ReceiptHeader    `json:"header"`
	Number         string           `json:"number"`
	Reference      string           `json:"reference,omitempty"`
	IssuedAt       time.Time        `json:"issued_at"`
	Customer       *ReceiptCustomer `json:"customer,omitempty"`
	Items          []ReceiptItem    `json:"items"`
	Totals         ReceiptTotals    `json:"totals"`
	PaymentStatus  string           `json:"payment_status,omitempty"`
	DeliveryStatus string           `json:"delivery_status,omitempty"`
	Reason         string           `json:"reason,omitempty"`
	QRPayload      string           `json:"qr_payload,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	Footer         string           `json:"footer,omitempty"`
	Currency       string           `json:"currency"`
}

// Title is the heading printed under the store header
func (r *Receipt) Title() string {
	switch r.Kind {
	case ReceiptKindPayment:
		return "PAYMENT RECEIPT"
	case ReceiptKindDeliveryNote:
		return "DELIVERY NOTE"
	case ReceiptKindRefund:
		return "REFUND RECEIPT"
	default:
		return "SALES RECEIPT"
	}
}
