package request

import "github.com/shopspring/decimal"

// CreateRefundRequest returns money on a paid transaction
type CreateRefundRequest struct {
	Amount        decimal.Decimal `json:"amount" swaggertype:"string" example:"25.00"`
	Reason        string          `json:"reason"`
	BankName      *string         `json:"bank_name"`
	AccountNumber *string         `json:"account_number"`
	AccountHolder *string         `json:"account_holder"`
}
