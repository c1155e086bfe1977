package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/tienda-api/internal/domain/entity"
	"github.com/sangkips/tienda-api/internal/domain/enum"
	domainRepo "github.com/sangkips/tienda-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(invoice).Error
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, number uint) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := conn(ctx, r.db).
		Preload("Client").Preload("Employee").Preload("Product").
		First(&invoice, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

// UpdateActive writes the invoice only while the stored row is still ACTIVE.
// Uses: UPDATE invoices SET ... WHERE number = ? AND status = 'ACTIVE'
func (r *invoiceRepository) UpdateActive(ctx context.Context, invoice *entity.Invoice) (bool, error) {
	invoice.UpdatedAt = time.Now()
	result := conn(ctx, r.db).Model(&entity.Invoice{}).
		Where("number = ? AND status = ?", invoice.Number, enum.InvoiceStatusActive).
		Updates(map[string]interface{}{
			"client_id":    invoice.ClientID,
			"employee_id":  invoice.EmployeeID,
			"product_code": invoice.ProductCode,
			"quantity":     invoice.Quantity,
			"subtotal":     invoice.Subtotal,
			"tax":          invoice.Tax,
			"total":        invoice.Total,
			"type":         invoice.Type,
			"status":       invoice.Status,
			"updated_at":   invoice.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := conn(ctx, r.db).Model(&entity.Invoice{}).
		Scopes(DateRangeScope("issued_at", params.From, params.To), invoiceSearchScope(params.Search))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.ProductCode != "" {
		query = query.Where("product_code = ?", params.ProductCode)
	}
	if params.ClientID != "" {
		query = query.Where("client_id = ?", params.ClientID)
	}
	if params.EmployeeID != "" {
		query = query.Where("employee_id = ?", params.EmployeeID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Client").Preload("Employee").Preload("Product").
		Order(orderBy("number", params.SortOrder, map[string]bool{"number": true}, "number")).
		Find(&invoices).Error

	return invoices, total, err
}

// invoiceSearchScope matches the invoice number, the client's names or the product name
func invoiceSearchScope(term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		clients := db.Session(&gorm.Session{NewDB: true}).Model(&entity.Client{}).
			Select("id_number").
			Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", pattern, pattern)
		products := db.Session(&gorm.Session{NewDB: true}).Model(&entity.Product{}).
			Select("code").
			Where("LOWER(name) LIKE ?", pattern)

		cond := db.Session(&gorm.Session{NewDB: true}).
			Where("client_id IN (?)", clients).
			Or("product_code IN (?)", products)
		if n, err := strconv.ParseUint(term, 10, 64); err == nil {
			cond = cond.Or("number = ?", n)
		}
		return db.Where(cond)
	}
}

func (r *invoiceRepository) CountByProduct(ctx context.Context, code string) (int64, error) {
	return r.count(ctx, "product_code = ?", code)
}

func (r *invoiceRepository) CountByClient(ctx context.Context, idNumber string) (int64, error) {
	return r.count(ctx, "client_id = ?", idNumber)
}

func (r *invoiceRepository) CountByEmployee(ctx context.Context, idNumber string) (int64, error) {
	return r.count(ctx, "employee_id = ?", idNumber)
}

func (r *invoiceRepository) count(ctx context.Context, where string, arg interface{}) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&entity.Invoice{}).Where(where, arg).Count(&n).Error
	return n, err
}

func (r *invoiceRepository) SummaryByStatus(ctx context.Context, from, to *time.Time) ([]domainRepo.StatusSummary, error) {
	var rows []domainRepo.StatusSummary
	err := conn(ctx, r.db).Model(&entity.Invoice{}).
		Scopes(DateRangeScope("issued_at", from, to)).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}
