package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/tienda-api/internal/domain/entity"
	"github.com/sangkips/tienda-api/internal/domain/enum"
	"github.com/sangkips/tienda-api/internal/domain/repository"
	"github.com/sangkips/tienda-api/internal/infrastructure/metrics"
	"github.com/sangkips/tienda-api/internal/logger"
	"github.com/sangkips/tienda-api/pkg/apperror"
	"github.com/sangkips/tienda-api/pkg/pagination"
	"github.com/sangkips/tienda-api/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxProductCodeLength = 10

// ProductPolicy holds the product rules injected from configuration
type ProductPolicy struct {
	DatePolicy        validation.DateRangePolicy
	RestockAmount     int
	LowStockThreshold int
}

// DefaultProductPolicy returns the strict date rule, +10 restocks and a threshold of 5
func DefaultProductPolicy() ProductPolicy {
	return ProductPolicy{
		DatePolicy:        validation.DefaultDateRangePolicy(),
		RestockAmount:     10,
		LowStockThreshold: 5,
	}
}

// ProductService handles product-related operations
type ProductService struct {
	tx        repository.Transactor
	products  repository.ProductRepository
	invoices  repository.InvoiceRepository
	movements repository.StockMovementRepository
	stock     *stockKeeper
	policy    ProductPolicy
	metrics   *metrics.Metrics
	log       *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(
	tx repository.Transactor,
	products repository.ProductRepository,
	invoices repository.InvoiceRepository,
	movements repository.StockMovementRepository,
	policy ProductPolicy,
	m *metrics.Metrics,
	log *zap.Logger,
) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{
		tx:        tx,
		products:  products,
		invoices:  invoices,
		movements: movements,
		stock:     newStockKeeper(products, movements, m),
		policy:    policy,
		metrics:   m,
		log:       log.Named("product"),
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Code           string
	Name           string
	Brand          string
	Category       string
	Price          decimal.Decimal
	Stock          int
	ManufacturedOn time.Time
	ExpiresOn      time.Time
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	product := &entity.Product{
		Code:           strings.TrimSpace(input.Code),
		Name:           strings.TrimSpace(input.Name),
		Brand:          strings.TrimSpace(input.Brand),
		Category:       strings.TrimSpace(input.Category),
		Price:          input.Price,
		Stock:          input.Stock,
		ManufacturedOn: input.ManufacturedOn,
		ExpiresOn:      input.ExpiresOn,
	}

	errs := s.validate(product)
	if product.Code == "" || len(product.Code) > maxProductCodeLength {
		errs.Add("code", fmt.Sprintf("must be 1 to %d characters", maxProductCodeLength))
	}
	if product.Stock < 0 {
		errs.Add("stock", "must not be negative")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.products.GetByCode(ctx, product.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.NewConflictError("Product code already exists")
		}
		if err := s.checkBrand(ctx, product.Brand, ""); err != nil {
			return err
		}
		return s.products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx, s.log).Info("product created", zap.String("code", product.Code), zap.Int("stock", product.Stock))
	return product, nil
}

// GetProduct returns a product by code
func (s *ProductService) GetProduct(ctx context.Context, code string) (*entity.Product, error) {
	product, err := s.products.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProductsInput represents the list products filters
type ListProductsInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   string
	LowStock   bool
	SortBy     string
	SortOrder  string
}

// ListProducts returns a page of products
func (s *ProductService) ListProducts(ctx context.Context, input *ListProductsInput) (*pagination.PaginatedResult[entity.Product], error) {
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	input.Pagination.Validate()

	params := &repository.ProductFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Category:   input.Category,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
	}
	if input.LowStock {
		threshold := s.policy.LowStockThreshold
		params.LowStockThreshold = &threshold
	}

	products, total, err := s.products.List(ctx, params)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, p), nil
}

// UpdateProductInput represents the update product input. Stock is not editable here.
type UpdateProductInput struct {
	Name           *string
	Brand          *string
	Category       *string
	Price          *decimal.Decimal
	ManufacturedOn *time.Time
	ExpiresOn      *time.Time
}

// UpdateProduct updates a product's descriptive fields and price
func (s *ProductService) UpdateProduct(ctx context.Context, code string, input *UpdateProductInput) (*entity.Product, error) {
	var product *entity.Product
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		product, err = s.GetProduct(ctx, code)
		if err != nil {
			return err
		}

		if input.Name != nil {
			product.Name = strings.TrimSpace(*input.Name)
		}
		if input.Brand != nil {
			product.Brand = strings.TrimSpace(*input.Brand)
		}
		if input.Category != nil {
			product.Category = strings.TrimSpace(*input.Category)
		}
		if input.Price != nil {
			product.Price = *input.Price
		}
		if input.ManufacturedOn != nil {
			product.ManufacturedOn = *input.ManufacturedOn
		}
		if input.ExpiresOn != nil {
			product.ExpiresOn = *input.ExpiresOn
		}

		errs := s.validate(product)
		if err := errs.Err(); err != nil {
			return err
		}
		if input.Brand != nil {
			if err := s.checkBrand(ctx, product.Brand, product.Code); err != nil {
				return err
			}
		}
		return s.products.Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product that no invoice references
func (s *ProductService) DeleteProduct(ctx context.Context, code string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.GetProduct(ctx, code); err != nil {
			return err
		}
		n, err := s.invoices.CountByProduct(ctx, code)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.NewConflictError(fmt.Sprintf("Product is referenced by %d invoice(s)", n))
		}
		return s.products.Delete(ctx, code)
	})
}

// DecrementStock removes quantity units outside the invoice flow. It fails with
// *apperror.StockError, naming the product, requested and available units, and
// changes nothing when stock is short.
func (s *ProductService) DecrementStock(ctx context.Context, code string, quantity int) (*entity.Product, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "quantity", Message: "must be greater than zero"}})
	}

	var product *entity.Product
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		product, err = s.stock.take(ctx, code, quantity, enum.MovementManualDecrement, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	log := logger.WithContext(ctx, s.log)
	log.Info("stock decremented", zap.String("code", code), zap.Int("quantity", quantity), zap.Int("stock", product.Stock))
	if product.IsLowStock(s.policy.LowStockThreshold) {
		log.Warn("product stock low", zap.String("code", code), zap.Int("stock", product.Stock), zap.Int("threshold", s.policy.LowStockThreshold))
	}
	return product, nil
}

// RestockProducts adds amount units to each product, each in its own transaction.
// A non-positive amount uses the configured restock amount.
func (s *ProductService) RestockProducts(ctx context.Context, codes []string, amount int) (*BatchResult, error) {
	if len(codes) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "codes", Message: "at least one product code is required"}})
	}
	if amount <= 0 {
		amount = s.policy.RestockAmount
	}

	result := &BatchResult{Operation: "restock", Requested: len(codes), Items: make([]BatchItemResult, 0, len(codes))}
	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var product *entity.Product
		err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			var err error
			product, err = s.stock.give(ctx, code, amount, enum.MovementRestock, nil)
			return err
		})
		if err != nil {
			if !apperror.IsAppError(err) {
				logger.WithContext(ctx, s.log).Error("restock failed", zap.String("code", code), zap.Error(err))
			}
			s.metrics.BatchItem("restock", false)
			result.add(BatchItemResult{Code: code, Error: apperror.GetAppError(err).Message})
			continue
		}
		s.metrics.BatchItem("restock", true)
		stock := product.Stock
		result.add(BatchItemResult{Code: code, OK: true, Stock: &stock})
	}

	result.Message = batchMessage("restock", result)
	return result, nil
}

// ListMovements returns the stock audit trail of a product, newest first
func (s *ProductService) ListMovements(ctx context.Context, code string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.StockMovement], error) {
	if _, err := s.GetProduct(ctx, code); err != nil {
		return nil, err
	}
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	movements, total, err := s.movements.ListByProduct(ctx, code, params)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(movements, p), nil
}

// LowStock returns products at or below the configured threshold
func (s *ProductService) LowStock(ctx context.Context) ([]entity.Product, error) {
	return s.products.ListLowStock(ctx, s.policy.LowStockThreshold)
}

func (s *ProductService) validate(p *entity.Product) validation.Errors {
	var errs validation.Errors
	errs.Check("name", validation.Letters(p.Name))
	errs.Check("brand", validation.Letters(p.Brand))
	if p.Price.IsNegative() {
		errs.Add("price", "must not be negative")
	}
	if p.ManufacturedOn.IsZero() {
		errs.Add("manufactured_on", "is required")
	}
	if p.ExpiresOn.IsZero() {
		errs.Add("expires_on", "is required")
	}
	if !p.ManufacturedOn.IsZero() && !p.ExpiresOn.IsZero() {
		errs.Check("expires_on", s.policy.DatePolicy.Check(p.ManufacturedOn, p.ExpiresOn))
	}
	return errs
}

// checkBrand rejects a brand already used by another product
func (s *ProductService) checkBrand(ctx context.Context, brand, ownCode string) error {
	existing, err := s.products.GetByBrand(ctx, brand)
	if err != nil {
		return err
	}
	if existing != nil && existing.Code != ownCode {
		return apperror.NewConflictError("Product brand already exists")
	}
	return nil
}
