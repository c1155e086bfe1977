package repository

import (
	"context"

	"github.com/sangkips/tienda-api/internal/domain/entity"
	"github.com/sangkips/tienda-api/pkg/pagination"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	GetByBrand(ctx context.Context, brand string) (*entity.Product, error)
	// Update writes every column except stock. Stock only moves through
	// DecrementStock and IncrementStock.
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, code string) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	ListLowStock(ctx context.Context, threshold int) ([]entity.Product, error)
	// DecrementStock atomically removes amount units only if enough are on hand.
	// Returns (stock after, true, nil) if successful, (0, false, nil) if insufficient
	// stock, (0, false, err) on error.
	DecrementStock(ctx context.Context, code string, amount int) (int, bool, error)
	// IncrementStock adds amount units and returns the stock level it wrote
	IncrementStock(ctx context.Context, code string, amount int) (int, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   string
	// LowStockThreshold, when set, keeps products with stock at or below it
	LowStockThreshold *int
	SortBy            string
	SortOrder         string
}

// StockMovementRepository stores the append-only stock audit trail
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, code string, params *pagination.PaginationParams) ([]entity.StockMovement, int64, error)
	ListByInvoice(ctx context.Context, number uint) ([]entity.StockMovement, error)
}
