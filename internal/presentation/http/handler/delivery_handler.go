package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/posdelivery-api/internal/application/service"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/dto/request"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/dto/response"
)

// DeliveryHandler handles delivery batches and progress
type DeliveryHandler struct {
	deliveryService *service.DeliveryService
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(deliveryService *service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// Progress reports ordered, delivered and remaining units per line
// @Summary Delivery progress
// @Tags deliveries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /transactions/{id}/delivery [get]
func (h *DeliveryHandler) Progress(c *gin.Context) {
	id, ok := uuidParam(c, "id", "transaction")
	if !ok {
		return
	}

	progress, err := h.deliveryService.Progress(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery progress retrieved successfully", progress)
}

// ListBatches lists the batches recorded against a transaction
// @Summary List delivery batches
// @Tags deliveries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.APIResponse
// @Router /transactions/{id}/delivery-batches [get]
func (h *DeliveryHandler) ListBatches(c *gin.Context) {
	id, ok := uuidParam(c, "id", "transaction")
	if !ok {
		return
	}

	batches, err := h.deliveryService.ListBatches(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery batches retrieved successfully", batches)
}

// CreateBatch records a delivery of some or all outstanding units
// @Summary Create delivery batch
// @Description Quantities of 0 leave a line out of the batch. Each quantity must not exceed what is still outstanding.
// @Tags deliveries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body request.CreateBatchRequest true "Batch"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /transactions/{id}/delivery-batches [post]
func (h *DeliveryHandler) CreateBatch(c *gin.Context) {
	id, ok := uuidParam(c, "id", "transaction")
	if !ok {
		return
	}

	var req request.CreateBatchRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]service.BatchItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.BatchItemInput{LineItemID: it.LineItemID, Quantity: it.Quantity}
	}

	result, err := h.deliveryService.CreateBatch(c.Request.Context(), currentSession(c), &service.CreateBatchInput{
		TransactionID: id,
		Items:         items,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Delivery batch created successfully", result)
}

// GetBatch returns a single batch with its items
// @Summary Get delivery batch
// @Tags deliveries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Batch ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /delivery-batches/{id} [get]
func (h *DeliveryHandler) GetBatch(c *gin.Context) {
	id, ok := uuidParam(c, "id", "batch")
	if !ok {
		return
	}

	batch, err := h.deliveryService.GetBatch(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery batch retrieved successfully", batch)
}
