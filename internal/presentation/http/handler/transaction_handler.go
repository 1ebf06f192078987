package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/posdelivery-api/internal/application/service"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/internal/domain/enum"
	"github.com/sangkips/posdelivery-api/internal/domain/repository"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/dto/request"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/dto/response"
	"github.com/sangkips/posdelivery-api/pkg/pagination"
)

// TransactionHandler handles checkout and transaction status endpoints
type TransactionHandler struct {
	txnService *service.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(txnService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{txnService: txnService}
}

// List handles listing transactions
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param search query string false "Number search"
// @Param payment_status query string false "pending, paid or cancelled"
// @Param delivery_status query string false "pending or delivered"
// @Param customer_id query string false "Customer ID"
// @Param start_date query string false "YYYY-MM-DD, inclusive"
// @Param end_date query string false "YYYY-MM-DD, inclusive"
// @Param sort_order query string false "asc or desc"
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Success 200 {object} response.APIResponse
// @Router /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	var filter request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: pagination.FromQuery(c),
		Search:     filter.Search,
		SortOrder:  filter.SortOrder,
	}
	if filter.PaymentStatus != "" {
		status := enum.PaymentStatus(filter.PaymentStatus)
		params.PaymentStatus = &status
	}
	if filter.DeliveryStatus != "" {
		status := enum.DeliveryStatus(filter.DeliveryStatus)
		params.DeliveryStatus = &status
	}
	if filter.CustomerID != "" {
		id := uuid.MustParse(filter.CustomerID)
		params.CustomerID = &id
	}
	if filter.StartDate != "" {
		start, _ := time.Parse(time.DateOnly, filter.StartDate)
		params.StartDate = &start
	}
	if filter.EndDate != "" {
		end, _ := time.Parse(time.DateOnly, filter.EndDate)
		end = end.AddDate(0, 0, 1)
		params.EndDate = &end
	}

	result, err := h.txnService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}

// Create handles checkout
// @Summary Create transaction
// @Description Checks out a sale. Prices are taken from the product catalogue. Send Idempotency-Key to make retries safe.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body request.CreateTransactionRequest true "Sale"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req request.CreateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]service.TransactionItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.TransactionItemInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	txn, err := h.txnService.Create(c.Request.Context(), currentSession(c), &service.CreateTransactionInput{
		CustomerID: req.CustomerID,
		Items:      items,
		QRPayload:  req.QRPayload,
		Notes:      req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction created successfully", txn)
}

// Get handles getting a transaction with items, batches and refunds
// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id", "transaction")
	if !ok {
		return
	}

	txn, err := h.txnService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", txn)
}

// Pay marks a pending transaction as paid
// @Summary Mark paid
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /transactions/{id}/pay [post]
func (h *TransactionHandler) Pay(c *gin.Context) {
	h.transition(c, h.txnService.MarkPaid, "Transaction marked as paid")
}

// Cancel cancels a pending transaction
// @Summary Cancel transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /transactions/{id}/cancel [post]
func (h *TransactionHandler) Cancel(c *gin.Context) {
	h.transition(c, h.txnService.Cancel, "Transaction cancelled")
}

// Deliver marks a transaction delivered without recording batches
// @Summary Mark delivered
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /transactions/{id}/deliver [post]
func (h *TransactionHandler) Deliver(c *gin.Context) {
	h.transition(c, h.txnService.MarkDelivered, "Transaction marked as delivered")
}

// Delete handles deleting a transaction
// @Summary Delete transaction
// @Tags transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id", "transaction")
	if !ok {
		return
	}

	if err := h.txnService.Delete(c.Request.Context(), currentSession(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction deleted successfully", nil)
}

func (h *TransactionHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*entity.Transaction, error), message string) {
	id, ok := uuidParam(c, "id", "transaction")
	if !ok {
		return
	}

	txn, err := fn(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, message, txn)
}
