package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/posdelivery-api/internal/application/service"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/dto/request"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/dto/response"
)

// RefundHandler handles refunds on paid transactions
type RefundHandler struct {
	refundService *service.RefundService
}

// NewRefundHandler creates a new refund handler
func NewRefundHandler(refundService *service.RefundService) *RefundHandler {
	return &RefundHandler{refundService: refundService}
}

// List lists the refunds of a transaction
// @Summary List refunds
// @Tags refunds
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.APIResponse
// @Router /transactions/{id}/refunds [get]
func (h *RefundHandler) List(c *gin.Context) {
	id, ok := uuidParam(c, "id", "transaction")
	if !ok {
		return
	}

	refunds, err := h.refundService.ListByTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Refunds retrieved successfully", refunds)
}

// Create refunds part of a paid transaction
// @Summary Create refund
// @Tags refunds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body request.CreateRefundRequest true "Refund"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /transactions/{id}/refunds [post]
func (h *RefundHandler) Create(c *gin.Context) {
	id, ok := uuidParam(c, "id", "transaction")
	if !ok {
		return
	}

	var req request.CreateRefundRequest
	if !bindJSON(c, &req) {
		return
	}

	refund, err := h.refundService.Create(c.Request.Context(), currentSession(c), id, &service.CreateRefundInput{
		Amount:        req.Amount,
		Reason:        req.Reason,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountHolder: req.AccountHolder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Refund created successfully", refund)
}

// Get returns a refund
// @Summary Get refund
// @Tags refunds
// @Produce json
// @Security BearerAuth
// @Param id path string true "Refund ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /refunds/{id} [get]
func (h *RefundHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id", "refund")
	if !ok {
		return
	}

	refund, err := h.refundService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Refund retrieved successfully", refund)
}
