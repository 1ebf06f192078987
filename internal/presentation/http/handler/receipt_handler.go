package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/posdelivery-api/internal/application/service"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/dto/request"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/dto/response"
)

// ReceiptHandler serves receipt view models and prints them
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// PrinterStatus returns the current printer connection status
// @Summary Printer status
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /printer/status [get]
func (h *ReceiptHandler) PrinterStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.receiptService.GetStatus(c.Request.Context()))
}

// Transaction returns the sale or payment receipt of a transaction
// @Summary Transaction receipt
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param kind query string false "sale (default) or payment"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /transactions/{id}/receipt [get]
func (h *ReceiptHandler) Transaction(c *gin.Context) {
	receipt, ok := h.transactionReceipt(c)
	if !ok {
		return
	}
	response.OK(c, "Receipt retrieved successfully", receipt)
}

// PrintTransaction prints the sale or payment receipt of a transaction
// @Summary Print transaction receipt
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param kind query string false "sale (default) or payment"
// @Success 200 {object} response.APIResponse
// @Router /transactions/{id}/print [post]
func (h *ReceiptHandler) PrintTransaction(c *gin.Context) {
	receipt, ok := h.transactionReceipt(c)
	if !ok {
		return
	}
	h.print(c, receipt)
}

// DeliveryNote returns the delivery note of a batch
// @Summary Delivery note
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Batch ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /delivery-batches/{id}/receipt [get]
func (h *ReceiptHandler) DeliveryNote(c *gin.Context) {
	receipt, ok := h.load(c, "batch", h.receiptService.DeliveryNote)
	if !ok {
		return
	}
	response.OK(c, "Delivery note retrieved successfully", receipt)
}

// PrintDeliveryNote prints the delivery note of a batch
// @Summary Print delivery note
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Batch ID"
// @Success 200 {object} response.APIResponse
// @Router /delivery-batches/{id}/print [post]
func (h *ReceiptHandler) PrintDeliveryNote(c *gin.Context) {
	receipt, ok := h.load(c, "batch", h.receiptService.DeliveryNote)
	if !ok {
		return
	}
	h.print(c, receipt)
}

// Refund returns the receipt of a refund
// @Summary Refund receipt
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Refund ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /refunds/{id}/receipt [get]
func (h *ReceiptHandler) Refund(c *gin.Context) {
	receipt, ok := h.load(c, "refund", h.receiptService.RefundReceipt)
	if !ok {
		return
	}
	response.OK(c, "Refund receipt retrieved successfully", receipt)
}

func (h *ReceiptHandler) transactionReceipt(c *gin.Context) (*entity.Receipt, bool) {
	id, ok := uuidParam(c, "id", "transaction")
	if !ok {
		return nil, false
	}

	var query request.ReceiptQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid receipt kind. Use 'sale' or 'payment'")
		return nil, false
	}

	receipt, err := h.receiptService.TransactionReceipt(c.Request.Context(), id, entity.ReceiptKind(query.Kind))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return receipt, true
}

func (h *ReceiptHandler) load(c *gin.Context, resource string, fn func(context.Context, uuid.UUID) (*entity.Receipt, error)) (*entity.Receipt, bool) {
	id, ok := uuidParam(c, "id", resource)
	if !ok {
		return nil, false
	}

	receipt, err := fn(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return receipt, true
}

// print returns the receipt even when the printer fails so the cashier can
// show it on screen.
func (h *ReceiptHandler) print(c *gin.Context, receipt *entity.Receipt) {
	if err := h.receiptService.Print(c.Request.Context(), receipt); err != nil {
		response.OK(c, "Receipt generated but printing failed", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
	})
}
