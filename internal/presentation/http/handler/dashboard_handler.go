package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/posdelivery-api/internal/application/service"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats handles getting dashboard statistics
// @Summary Dashboard statistics
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}

// GetDailySales returns paid revenue per day
// @Summary Daily sales
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param days query int false "Number of days (default 30)"
// @Success 200 {object} response.APIResponse
// @Router /dashboard/sales [get]
func (h *DashboardHandler) GetDailySales(c *gin.Context) {
	sales, err := h.dashboardService.GetDailySales(c.Request.Context(), intQuery(c, "days"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Daily sales retrieved successfully", sales)
}

// GetTopProducts returns the best selling products
// @Summary Top products
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of products (default 5)"
// @Success 200 {object} response.APIResponse
// @Router /dashboard/top-products [get]
func (h *DashboardHandler) GetTopProducts(c *gin.Context) {
	products, err := h.dashboardService.GetTopProducts(c.Request.Context(), intQuery(c, "limit"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Top products retrieved successfully", products)
}

// GetTopCustomers returns the customers with the most paid revenue
// @Summary Top customers
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of customers (default 5)"
// @Success 200 {object} response.APIResponse
// @Router /dashboard/top-customers [get]
func (h *DashboardHandler) GetTopCustomers(c *gin.Context) {
	customers, err := h.dashboardService.GetTopCustomers(c.Request.Context(), intQuery(c, "limit"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Top customers retrieved successfully", customers)
}

// intQuery returns 0 for a missing or malformed value; the service applies defaults
func intQuery(c *gin.Context, name string) int {
	v, _ := strconv.Atoi(c.Query(name))
	return v
}
