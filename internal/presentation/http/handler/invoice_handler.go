package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tienda-api/internal/application/service"
	"github.com/sangkips/tienda-api/internal/domain/enum"
	"github.com/sangkips/tienda-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tienda-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tienda-api/pkg/pagination"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List handles listing invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	input := &service.ListInvoicesInput{
		Pagination:  &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		ProductCode: filter.ProductCode,
		ClientID:    filter.ClientID,
		EmployeeID:  filter.EmployeeID,
		Search:      filter.Search,
		SortOrder:   filter.SortOrder,
	}
	if filter.Status != "" {
		status, err := enum.ParseInvoiceStatus(filter.Status)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		input.Status = &status
	}
	if filter.Type != "" {
		invoiceType, err := enum.ParseInvoiceType(filter.Type)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		input.Type = &invoiceType
	}
	var ok bool
	if input.From, ok = dateQuery(c, "from"); !ok {
		return
	}
	if input.To, ok = dateQuery(c, "to"); !ok {
		return
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Invoices retrieved successfully", result)
}

// Create handles creating an invoice. Stock is debited in the same transaction.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), &service.CreateInvoiceInput{
		ProductCode: req.ProductCode,
		Quantity:    req.Quantity,
		EmployeeID:  req.EmployeeID,
		ClientID:    req.ClientID,
		Type:        enum.InvoiceType(req.Type),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// Get handles getting a single invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	number, ok := invoiceNumber(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Update handles editing an ACTIVE invoice, including status changes
func (h *InvoiceHandler) Update(c *gin.Context) {
	number, ok := invoiceNumber(c)
	if !ok {
		return
	}

	var req request.UpdateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	input := &service.UpdateInvoiceInput{
		ProductCode: req.ProductCode,
		Quantity:    req.Quantity,
		ClientID:    req.ClientID,
		EmployeeID:  req.EmployeeID,
	}
	if req.Status != nil {
		status := enum.InvoiceStatus(*req.Status)
		input.Status = &status
	}
	if req.Type != nil {
		invoiceType := enum.InvoiceType(*req.Type)
		input.Type = &invoiceType
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), number, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}

// Movements handles listing the stock movements of an invoice
func (h *InvoiceHandler) Movements(c *gin.Context) {
	number, ok := invoiceNumber(c)
	if !ok {
		return
	}

	movements, err := h.invoiceService.ListMovements(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock movements retrieved successfully", movements)
}

// Void moves an ACTIVE invoice to VOIDED
func (h *InvoiceHandler) Void(c *gin.Context) {
	number, ok := invoiceNumber(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.VoidInvoice(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice voided successfully", invoice)
}

// Return moves an ACTIVE invoice to RETURNED
func (h *InvoiceHandler) Return(c *gin.Context) {
	number, ok := invoiceNumber(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.ReturnInvoice(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice returned successfully", invoice)
}

// VoidBatch voids several invoices; the summary reports every item
func (h *InvoiceHandler) VoidBatch(c *gin.Context) {
	h.batch(c, h.invoiceService.VoidInvoices)
}

// ReturnBatch returns several invoices; the summary reports every item
func (h *InvoiceHandler) ReturnBatch(c *gin.Context) {
	h.batch(c, h.invoiceService.ReturnInvoices)
}

func (h *InvoiceHandler) batch(c *gin.Context, run func(ctx context.Context, numbers []uint) (*service.BatchResult, error)) {
	var req request.BatchInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := run(c.Request.Context(), req.Numbers)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result.Message, result)
}
