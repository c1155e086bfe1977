package repository

import (
	"context"
	"errors"

	"github.com/sangkips/tienda-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tienda-api/internal/domain/repository"
	"github.com/sangkips/tienda-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var productSortColumns = map[string]bool{
	"code": true, "name": true, "brand": true, "price": true, "stock": true,
	"expires_on": true, "created_at": true,
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return conn(ctx, r.db).Create(product).Error
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).First(&product, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByBrand(ctx context.Context, brand string) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).First(&product, "brand = ?", brand).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return conn(ctx, r.db).Model(product).
		Select("name", "brand", "category", "price", "manufactured_on", "expires_on", "updated_at").
		Updates(product).Error
}

func (r *productRepository) Delete(ctx context.Context, code string) error {
	return conn(ctx, r.db).Delete(&entity.Product{}, "code = ?", code).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := conn(ctx, r.db).Model(&entity.Product{}).
		Scopes(SearchScope(params.Search, "code", "name", "brand"))

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.LowStockThreshold != nil {
		query = query.Where("stock <= ?", *params.LowStockThreshold)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order(orderBy(params.SortBy, params.SortOrder, productSortColumns, "created_at")).
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) ListLowStock(ctx context.Context, threshold int) ([]entity.Product, error) {
	var products []entity.Product
	err := conn(ctx, r.db).
		Where("stock <= ?", threshold).
		Order("stock ASC, code ASC").
		Find(&products).Error
	return products, err
}

// DecrementStock atomically decrements stock only if sufficient quantity exists.
// Uses: UPDATE products SET stock = stock - amount WHERE code = ? AND stock >= amount RETURNING stock
func (r *productRepository) DecrementStock(ctx context.Context, code string, amount int) (int, bool, error) {
	var product entity.Product
	result := conn(ctx, r.db).Model(&product).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "stock"}}}).
		Where("code = ? AND stock >= ?", code, amount).
		Update("stock", gorm.Expr("stock - ?", amount))

	if result.Error != nil {
		return 0, false, result.Error
	}

	// If no rows were affected, insufficient stock
	if result.RowsAffected == 0 {
		return 0, false, nil
	}
	return product.Stock, true, nil
}

func (r *productRepository) IncrementStock(ctx context.Context, code string, amount int) (int, error) {
	var product entity.Product
	result := conn(ctx, r.db).Model(&product).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "stock"}}}).
		Where("code = ?", code).
		Update("stock", gorm.Expr("stock + ?", amount))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return product.Stock, nil
}

type stockMovementRepository struct {
	db *gorm.DB
}

// NewStockMovementRepository creates a new stock movement repository
func NewStockMovementRepository(db *gorm.DB) domainRepo.StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) Create(ctx context.Context, movement *entity.StockMovement) error {
	return conn(ctx, r.db).Create(movement).Error
}

func (r *stockMovementRepository) ListByProduct(ctx context.Context, code string, params *pagination.PaginationParams) ([]entity.StockMovement, int64, error) {
	var movements []entity.StockMovement
	var total int64

	query := conn(ctx, r.db).Model(&entity.StockMovement{}).Where("product_code = ?", code)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("id DESC").
		Find(&movements).Error
	return movements, total, err
}

func (r *stockMovementRepository) ListByInvoice(ctx context.Context, number uint) ([]entity.StockMovement, error) {
	var movements []entity.StockMovement
	err := conn(ctx, r.db).
		Where("invoice_number = ?", number).
		Order("id ASC").
		Find(&movements).Error
	return movements, err
}
