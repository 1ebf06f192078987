package request

import "github.com/shopspring/decimal"

// ProductRequest is the body for creating or replacing a product
type ProductRequest struct {
	Name        string          `json:"name" binding:"required,min=2,max=255"`
	Description *string         `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string" example:"12.50"`
}

// SetActiveRequest toggles whether a product can be sold
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}
