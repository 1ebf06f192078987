package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesSummary holds headline numbers for the dashboard
type SalesSummary struct {
	GrossRevenue       decimal.Decimal `json:"gross_revenue"`
	RefundedAmount     decimal.Decimal `json:"refunded_amount"`
	NetRevenue         decimal.Decimal `json:"net_revenue"`
	TransactionCount   int64           `json:"transaction_count"`
	PendingPayment     int64           `json:"pending_payment"`
	Paid               int64           `json:"paid"`
	Cancelled          int64           `json:"cancelled"`
	PendingDelivery    int64           `json:"pending_delivery"`
	Delivered          int64           `json:"delivered"`
	CustomerCount      int64           `json:"customer_count"`
	ActiveProductCount int64           `json:"active_product_count"`
}

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductName  string          `json:"product_name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// TopCustomerResult represents a customer's spending data
type TopCustomerResult struct {
	CustomerID       uuid.UUID       `json:"customer_id"`
	CustomerName     string          `json:"customer_name"`
	Rank             string          `json:"rank"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
	TransactionCount int             `json:"transaction_count"`
}

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date             time.Time       `json:"date"`
	Revenue          decimal.Decimal `json:"revenue"`
	TransactionCount int             `json:"transaction_count"`
}

// AnalyticsRepository defines interface for analytics/aggregation queries.
// Revenue only counts paid transactions.
type AnalyticsRepository interface {
	GetSalesSummary(ctx context.Context) (*SalesSummary, error)
	GetTopProducts(ctx context.Context, limit int) ([]TopProductResult, error)
	GetTopCustomers(ctx context.Context, limit int) ([]TopCustomerResult, error)
	// GetDailySales returns one row per day with paid sales for the last N days
	GetDailySales(ctx context.Context, days int) ([]DailySalesResult, error)
}
