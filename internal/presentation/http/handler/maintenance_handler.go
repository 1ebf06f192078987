package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/application/service"
)

// MaintenanceHandler triggers housekeeping jobs
type MaintenanceHandler struct {
	cleanupService *service.CleanupService
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(cleanupService *service.CleanupService) *MaintenanceHandler {
	return &MaintenanceHandler{cleanupService: cleanupService}
}

// Cleanup deletes stored files older than the retention window. The result
// is returned as is so external schedulers can read the counts directly.
// @Summary Run retention cleanup
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Param X-Cleanup-Token header string false "Scheduler token"
// @Success 200 {object} service.CleanupResult
// @Failure 500 {object} map[string]string
// @Router /maintenance/cleanup [post]
func (h *MaintenanceHandler) Cleanup(c *gin.Context) {
	result, err := h.cleanupService.Run(c.Request.Context())
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("cleanup failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Cleanup failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
