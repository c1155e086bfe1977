package repository

import (
	"context"
	"time"

	"github.com/sangkips/tienda-api/internal/domain/entity"
	"github.com/sangkips/tienda-api/internal/domain/enum"
	"github.com/sangkips/tienda-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// InvoiceRepository defines the interface for invoice data operations.
// There is no Delete: invoices are voided or returned, never removed.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByNumber loads the invoice with client, employee and product preloaded
	GetByNumber(ctx context.Context, number uint) (*entity.Invoice, error)
	// UpdateActive persists the invoice columns only while the stored status is
	// ACTIVE and reports whether a row was written. Associations are never written.
	UpdateActive(ctx context.Context, invoice *entity.Invoice) (bool, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	CountByProduct(ctx context.Context, code string) (int64, error)
	CountByClient(ctx context.Context, idNumber string) (int64, error)
	CountByEmployee(ctx context.Context, idNumber string) (int64, error)
	SummaryByStatus(ctx context.Context, from, to *time.Time) ([]StatusSummary, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination  *pagination.PaginationParams
	Status      *enum.InvoiceStatus
	Type        *enum.InvoiceType
	ProductCode string
	ClientID    string
	EmployeeID  string
	From        *time.Time
	To          *time.Time
	// Search matches the invoice number, client names or product name
	Search    string
	SortOrder string
}

// StatusSummary aggregates invoices sharing one status
type StatusSummary struct {
	Status enum.InvoiceStatus `json:"status"`
	Count  int64              `json:"count"`
	Total  decimal.Decimal    `json:"total"`
}
