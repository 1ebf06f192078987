package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/posdelivery-api/internal/application/service"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/dto/request"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/dto/response"
	"github.com/sangkips/posdelivery-api/pkg/pagination"
)

// InvoiceHandler handles standalone invoices
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List handles listing invoices
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param search query string false "Invoice number, reference or customer"
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Success 200 {object} response.APIResponse
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	result, err := h.invoiceService.List(c.Request.Context(), pagination.FromQuery(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Invoices retrieved successfully", result)
}

// Create handles creating an invoice
// @Summary Create invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.CreateInvoiceRequest true "Invoice"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), currentSession(c), &service.CreateInvoiceInput{
		InvoiceNumber:   req.InvoiceNumber,
		ReferenceNumber: req.ReferenceNumber,
		CustomerName:    req.CustomerName,
		CustomerCode:    req.CustomerCode,
		Amount:          req.Amount,
		QRPayload:       req.QRPayload,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// Get handles getting an invoice
// @Summary Get invoice
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// AttachFile uploads the scanned invoice
// @Summary Upload invoice file
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Param file formData file true "PDF, PNG or JPEG"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /invoices/{id}/file [post]
func (h *InvoiceHandler) AttachFile(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invoice")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "A file is required in the 'file' field")
		return
	}
	file, err := header.Open()
	if err != nil {
		response.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer file.Close()

	invoice, err := h.invoiceService.AttachFile(c.Request.Context(), id, &service.AttachFileInput{
		FileName: header.Filename,
		Size:     header.Size,
		Content:  file,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice file uploaded successfully", invoice)
}

// Delete handles deleting an invoice
// @Summary Delete invoice
// @Tags invoices
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 204
// @Failure 403 {object} response.APIResponse
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invoice")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), currentSession(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
