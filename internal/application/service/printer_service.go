package service

import (
	"context"
	"fmt"

	"github.com/sangkips/tienda-api/internal/domain/entity"
	"github.com/sangkips/tienda-api/internal/domain/enum"
	"github.com/sangkips/tienda-api/internal/logger"
	"github.com/sangkips/tienda-api/pkg/printer"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer  printer.Printer
	invoices *InvoiceService
	header   entity.ReceiptHeader
	log      *zap.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, invoices *InvoiceService, header entity.ReceiptHeader, log *zap.Logger) *PrinterService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PrinterService{
		printer:  p,
		invoices: invoices,
		header:   header,
		log:      log.Named("printer"),
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Type() != "none",
		Connected:  s.printer.IsConnected(),
		Type:       s.printer.Type(),
	}
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint() (*entity.Receipt, error) {
	price := decimal.RequireFromString("10.00")
	receipt := &entity.Receipt{
		Header:      s.header,
		Date:        "TEST",
		Client:      "Consumidor final",
		InvoiceType: enum.InvoiceTypeFinalConsumer.String(),
		Status:      enum.InvoiceStatusActive.String(),
		Items: []entity.ReceiptItem{
			{Code: "TEST", Name: "Test item", Quantity: 1, UnitPrice: price, Total: price},
		},
		Subtotal: price,
		TaxRate:  decimal.Zero,
		Tax:      decimal.Zero,
		Total:    price,
	}

	if err := s.printer.Print(FormatReceipt(receipt)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// PrintInvoiceReceipt builds the receipt of an invoice and prints it. When the
// printer fails the receipt is still returned together with the error.
func (s *PrinterService) PrintInvoiceReceipt(ctx context.Context, number uint) (*entity.Receipt, error) {
	invoice, err := s.invoices.GetInvoice(ctx, number)
	if err != nil {
		return nil, err
	}

	receipt := BuildReceipt(invoice, s.header, s.invoices.TaxRate())
	if err := s.printer.Print(FormatReceipt(receipt)); err != nil {
		logger.WithContext(ctx, s.log).Warn("receipt not printed", zap.Uint("number", number), zap.Error(err))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// BuildReceipt composes the printable view of an invoice.
func BuildReceipt(invoice *entity.Invoice, header entity.ReceiptHeader, taxRate decimal.Decimal) *entity.Receipt {
	receipt := &entity.Receipt{
		Header:        header,
		InvoiceNumber: invoice.Number,
		Date:          invoice.IssuedAt.Format("2006-01-02 15:04"),
		Client:        invoice.ClientName(),
		InvoiceType:   invoice.Type.String(),
		Status:        invoice.Status.String(),
		Subtotal:      invoice.Subtotal,
		TaxRate:       taxRate,
		Tax:           invoice.Tax,
		Total:         invoice.Total,
	}
	if invoice.ClientID != nil {
		receipt.ClientID = *invoice.ClientID
	}
	if invoice.Employee != nil {
		receipt.Cashier = invoice.Employee.FullName()
	}

	item := entity.ReceiptItem{
		Code:     invoice.ProductCode,
		Name:     invoice.ProductCode,
		Quantity: invoice.Quantity,
		Total:    invoice.Subtotal,
	}
	if invoice.Quantity > 0 {
		item.UnitPrice = invoice.Subtotal.Div(decimal.NewFromInt(int64(invoice.Quantity))).Round(2)
	}
	if invoice.Product != nil {
		item.Name = invoice.Product.Name
	}
	receipt.Items = []entity.ReceiptItem{item}

	return receipt
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(32) // 58mm paper = 32 chars

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.RUC != "" {
		doc.TextF("RUC: %s", r.Header.RUC)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Factura:", fmt.Sprintf("%06d", r.InvoiceNumber)).
		KeyValue("Fecha:", r.Date).
		KeyValue("Cliente:", r.Client)
	if r.ClientID != "" {
		doc.KeyValue("Cedula:", r.ClientID)
	}
	if r.Cashier != "" {
		doc.KeyValue("Cajero:", r.Cashier)
	}
	if r.Status != enum.InvoiceStatusActive.String() {
		doc.SetBold(true).KeyValue("Estado:", r.Status).SetBold(false)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, item.Total.StringFixed(2))
		if item.Quantity > 1 {
			doc.TextF("  @ %s c/u", item.UnitPrice.StringFixed(2))
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", r.Subtotal.StringFixed(2)).
		KeyValue(fmt.Sprintf("IVA %s%%:", r.TaxRate.Mul(decimal.NewFromInt(100)).String()), r.Tax.StringFixed(2)).
		SetBold(true).
		KeyValue("TOTAL:", r.Total.StringFixed(2)).
		SetBold(false)

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Gracias por su compra").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
