package service

import (
	"context"
	"time"

	"github.com/sangkips/tienda-api/internal/domain/entity"
	"github.com/sangkips/tienda-api/internal/domain/enum"
	"github.com/sangkips/tienda-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReportService builds read-only summaries over invoices and stock
type ReportService struct {
	invoices          repository.InvoiceRepository
	products          repository.ProductRepository
	lowStockThreshold int
}

// NewReportService creates a new report service
func NewReportService(invoices repository.InvoiceRepository, products repository.ProductRepository, lowStockThreshold int) *ReportService {
	return &ReportService{invoices: invoices, products: products, lowStockThreshold: lowStockThreshold}
}

// SalesSummary aggregates invoices by status and lists products running low
type SalesSummary struct {
	From              *time.Time                 `json:"from,omitempty"`
	To                *time.Time                 `json:"to,omitempty"`
	ByStatus          []repository.StatusSummary `json:"by_status"`
	NetSales          decimal.Decimal            `json:"net_sales"`
	InvoiceCount      int64                      `json:"invoice_count"`
	LowStockThreshold int                        `json:"low_stock_threshold"`
	LowStock          []entity.Product           `json:"low_stock"`
}

// SalesSummary reports counts and totals per status in [from, to). Net sales only
// count ACTIVE invoices, since voided and returned sales gave their stock back.
func (s *ReportService) SalesSummary(ctx context.Context, from, to *time.Time) (*SalesSummary, error) {
	rows, err := s.invoices.SummaryByStatus(ctx, from, to)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.products.ListLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}

	summary := &SalesSummary{
		From:              from,
		To:                to,
		ByStatus:          make([]repository.StatusSummary, 0, 3),
		NetSales:          decimal.Zero,
		LowStockThreshold: s.lowStockThreshold,
		LowStock:          lowStock,
	}
	if summary.LowStock == nil {
		summary.LowStock = []entity.Product{}
	}

	// Report every status, including those with no invoices.
	seen := make(map[enum.InvoiceStatus]repository.StatusSummary, len(rows))
	for _, row := range rows {
		seen[row.Status] = row
	}
	for _, status := range []enum.InvoiceStatus{enum.InvoiceStatusActive, enum.InvoiceStatusVoided, enum.InvoiceStatusReturned} {
		row, ok := seen[status]
		if !ok {
			row = repository.StatusSummary{Status: status, Total: decimal.Zero}
		}
		summary.ByStatus = append(summary.ByStatus, row)
		summary.InvoiceCount += row.Count
		if status == enum.InvoiceStatusActive {
			summary.NetSales = row.Total
		}
	}

	return summary, nil
}
