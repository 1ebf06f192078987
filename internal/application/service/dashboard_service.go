package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/domain/repository"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/cache"
)

const (
	defaultSalesDays = 30
	maxSalesDays     = 366
	defaultTopLimit  = 5
	maxTopLimit      = 50
)

// DashboardService provides dashboard statistics. Results are cached for
// ttl and dropped whenever a sale, payment, delivery or refund is written.
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	stats         cache.StatsCache
	ttl           time.Duration
	log           zerolog.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(analyticsRepo repository.AnalyticsRepository, stats cache.StatsCache, ttl time.Duration, log zerolog.Logger) *DashboardService {
	if stats == nil {
		stats = cache.NoopStatsCache{}
	}
	return &DashboardService{
		analyticsRepo: analyticsRepo,
		stats:         stats,
		ttl:           ttl,
		log:           log.With().Str("service", "dashboard").Logger(),
	}
}

// GetStats returns revenue and status counts
func (s *DashboardService) GetStats(ctx context.Context) (*repository.SalesSummary, error) {
	return cached(ctx, s, "summary", func() (*repository.SalesSummary, error) {
		return s.analyticsRepo.GetSalesSummary(ctx)
	})
}

// GetDailySales returns paid revenue per day for the last days days
func (s *DashboardService) GetDailySales(ctx context.Context, days int) ([]repository.DailySalesResult, error) {
	days = clamp(days, defaultSalesDays, maxSalesDays)
	return cached(ctx, s, fmt.Sprintf("daily:%d", days), func() ([]repository.DailySalesResult, error) {
		return s.analyticsRepo.GetDailySales(ctx, days)
	})
}

// GetTopProducts returns the best sellers by quantity
func (s *DashboardService) GetTopProducts(ctx context.Context, limit int) ([]repository.TopProductResult, error) {
	limit = clamp(limit, defaultTopLimit, maxTopLimit)
	return cached(ctx, s, fmt.Sprintf("top-products:%d", limit), func() ([]repository.TopProductResult, error) {
		return s.analyticsRepo.GetTopProducts(ctx, limit)
	})
}

// GetTopCustomers returns the customers with the highest paid revenue
func (s *DashboardService) GetTopCustomers(ctx context.Context, limit int) ([]repository.TopCustomerResult, error) {
	limit = clamp(limit, defaultTopLimit, maxTopLimit)
	return cached(ctx, s, fmt.Sprintf("top-customers:%d", limit), func() ([]repository.TopCustomerResult, error) {
		return s.analyticsRepo.GetTopCustomers(ctx, limit)
	})
}

// cached serves key from the stats cache, computing and storing it on a miss.
// Cache failures are logged and fall through to the database.
func cached[T any](ctx context.Context, s *DashboardService, key string, fetch func() (T, error)) (T, error) {
	var out T
	hit, err := s.stats.Get(ctx, key, &out)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("read dashboard cache")
	} else if hit {
		return out, nil
	}

	out, err = fetch()
	if err != nil {
		return out, err
	}

	if err := s.stats.Set(ctx, key, out, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("write dashboard cache")
	}
	return out, nil
}

func clamp(v, def, upper int) int {
	if v <= 0 {
		return def
	}
	if v > upper {
		return upper
	}
	return v
}
