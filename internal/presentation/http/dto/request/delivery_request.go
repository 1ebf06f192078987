package request

import "github.com/google/uuid"

// BatchItemRequest asks for quantity units of one line item
type BatchItemRequest struct {
	LineItemID uuid.UUID `json:"line_item_id"`
	Quantity   int       `json:"quantity"`
}

// CreateBatchRequest records one delivery against a transaction
type CreateBatchRequest struct {
	Items []BatchItemRequest `json:"items"`
	Notes *string            `json:"notes"`
}
