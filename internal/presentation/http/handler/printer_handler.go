package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tienda-api/internal/application/service"
	"github.com/sangkips/tienda-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint()
	if err != nil {
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{"receipt": receipt})
}

// PrintInvoiceReceipt prints the receipt of an invoice. A printer failure still
// returns the receipt, with a warning.
func (h *PrinterHandler) PrintInvoiceReceipt(c *gin.Context) {
	number, ok := invoiceNumber(c)
	if !ok {
		return
	}

	receipt, err := h.printerService.PrintInvoiceReceipt(c.Request.Context(), number)
	if err != nil {
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice receipt printed successfully", gin.H{"receipt": receipt})
}
