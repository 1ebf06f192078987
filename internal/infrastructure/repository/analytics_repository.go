package repository

import (
	"context"
	"fmt"

	"github.com/sangkips/posdelivery-api/internal/domain/enum"
	domainRepo "github.com/sangkips/posdelivery-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetSalesSummary(ctx context.Context) (*domainRepo.SalesSummary, error) {
	var summary domainRepo.SalesSummary
	db := GetDB(ctx, r.db)

	err := db.Raw(`
		SELECT
			COALESCE(SUM(total_amount) FILTER (WHERE payment_status = @paid), 0) AS gross_revenue,
			COUNT(*) AS transaction_count,
			COUNT(*) FILTER (WHERE payment_status = @pending) AS pending_payment,
			COUNT(*) FILTER (WHERE payment_status = @paid) AS paid,
			COUNT(*) FILTER (WHERE payment_status = @cancelled) AS cancelled,
			COUNT(*) FILTER (WHERE delivery_status = @undelivered AND payment_status <> @cancelled) AS pending_delivery,
			COUNT(*) FILTER (WHERE delivery_status = @delivered) AS delivered
		FROM transactions
	`, map[string]interface{}{
		"paid":        enum.PaymentStatusPaid,
		"pending":     enum.PaymentStatusPending,
		"cancelled":   enum.PaymentStatusCancelled,
		"undelivered": enum.DeliveryStatusPending,
		"delivered":   enum.DeliveryStatusDelivered,
	}).Scan(&summary).Error
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}

	var refunded struct {
		Total decimal.Decimal
	}
	err = db.Raw(`
		SELECT COALESCE(SUM(rf.amount), 0) AS total
		FROM refunds rf
		JOIN transactions t ON t.id = rf.transaction_id
		WHERE t.payment_status = ?
	`, enum.PaymentStatusPaid).Scan(&refunded).Error
	if err != nil {
		return nil, fmt.Errorf("refund total: %w", err)
	}
	summary.RefundedAmount = refunded.Total

	if err := db.Raw(`SELECT COUNT(*) FROM customers`).Scan(&summary.CustomerCount).Error; err != nil {
		return nil, fmt.Errorf("customer count: %w", err)
	}
	if err := db.Raw(`SELECT COUNT(*) FROM products WHERE is_active`).Scan(&summary.ActiveProductCount).Error; err != nil {
		return nil, fmt.Errorf("product count: %w", err)
	}

	summary.NetRevenue = summary.GrossRevenue.Sub(summary.RefundedAmount)
	return &summary, nil
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	err := GetDB(ctx, r.db).Raw(`
		SELECT
			ti.product_name AS product_name,
			COALESCE(SUM(ti.quantity), 0) AS quantity_sold,
			COALESCE(SUM(ti.subtotal), 0) AS revenue
		FROM transaction_items ti
		JOIN transactions t ON t.id = ti.transaction_id
		WHERE t.payment_status = ?
		GROUP BY ti.product_name
		ORDER BY quantity_sold DESC, revenue DESC
		LIMIT ?
	`, enum.PaymentStatusPaid, limit).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	return results, nil
}

func (r *analyticsRepository) GetTopCustomers(ctx context.Context, limit int) ([]domainRepo.TopCustomerResult, error) {
	var results []domainRepo.TopCustomerResult

	err := GetDB(ctx, r.db).Raw(`
		SELECT
			c.id AS customer_id,
			c.name AS customer_name,
			c.rank AS rank,
			COALESCE(SUM(t.total_amount), 0) AS total_spent,
			COUNT(t.id) AS transaction_count
		FROM customers c
		JOIN transactions t ON t.customer_id = c.id
		WHERE t.payment_status = ?
		GROUP BY c.id, c.name, c.rank
		ORDER BY total_spent DESC
		LIMIT ?
	`, enum.PaymentStatusPaid, limit).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}

	return results, nil
}

func (r *analyticsRepository) GetDailySales(ctx context.Context, days int) ([]domainRepo.DailySalesResult, error) {
	var results []domainRepo.DailySalesResult

	err := GetDB(ctx, r.db).Raw(`
		SELECT
			d::date AS date,
			COALESCE(SUM(t.total_amount), 0) AS revenue,
			COUNT(t.id) AS transaction_count
		FROM generate_series(CURRENT_DATE - (? - 1) * INTERVAL '1 day', CURRENT_DATE, INTERVAL '1 day') AS d
		LEFT JOIN transactions t
			ON t.created_at::date = d::date AND t.payment_status = ?
		GROUP BY d
		ORDER BY d
	`, days, enum.PaymentStatusPaid).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}

	return results, nil
}
