package service

import (
	"context"
	"fmt"

	"github.com/sangkips/tienda-api/internal/domain/entity"
	"github.com/sangkips/tienda-api/internal/domain/enum"
	"github.com/sangkips/tienda-api/internal/domain/repository"
	"github.com/sangkips/tienda-api/internal/infrastructure/metrics"
	"github.com/sangkips/tienda-api/pkg/apperror"
)

// stockKeeper is the only code path that changes product stock. Every change
// writes a StockMovement row through the same context, so callers running inside
// a Transactor get the stock update and its audit row atomically.
type stockKeeper struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	metrics   *metrics.Metrics
}

func newStockKeeper(products repository.ProductRepository, movements repository.StockMovementRepository, m *metrics.Metrics) *stockKeeper {
	return &stockKeeper{products: products, movements: movements, metrics: m}
}

// take removes quantity units from the product. It returns *apperror.StockError
// without writing anything when the product holds fewer units.
func (k *stockKeeper) take(ctx context.Context, code string, quantity int, reason enum.MovementReason, invoice *uint) (*entity.Product, error) {
	product, err := k.load(ctx, code)
	if err != nil {
		return nil, err
	}
	if !product.CanCover(quantity) {
		k.metrics.StockRejected(reason.String())
		return nil, apperror.NewStockError(product.Code, product.Name, quantity, product.Stock)
	}

	after, ok, err := k.products.DecrementStock(ctx, code, quantity)
	if err != nil {
		return nil, fmt.Errorf("decrement stock of %s: %w", code, err)
	}
	if !ok {
		// Stock moved between the read and the conditional update.
		k.metrics.StockRejected(reason.String())
		current, err := k.load(ctx, code)
		if err != nil {
			return nil, err
		}
		return nil, apperror.NewStockError(current.Code, current.Name, quantity, current.Stock)
	}

	return product, k.record(ctx, product, after, -quantity, reason, invoice)
}

// give returns quantity units to the product.
func (k *stockKeeper) give(ctx context.Context, code string, quantity int, reason enum.MovementReason, invoice *uint) (*entity.Product, error) {
	product, err := k.load(ctx, code)
	if err != nil {
		return nil, err
	}
	after, err := k.products.IncrementStock(ctx, code, quantity)
	if err != nil {
		return nil, fmt.Errorf("increment stock of %s: %w", code, err)
	}
	return product, k.record(ctx, product, after, quantity, reason, invoice)
}

func (k *stockKeeper) load(ctx context.Context, code string) (*entity.Product, error) {
	product, err := k.products.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", code))
	}
	return product, nil
}

// record appends the movement and sets product.Stock to after, the level the
// conditional update wrote. The earlier read may be stale under concurrent writers.
func (k *stockKeeper) record(ctx context.Context, product *entity.Product, after, delta int, reason enum.MovementReason, invoice *uint) error {
	movement := &entity.StockMovement{
		ProductCode:   product.Code,
		InvoiceNumber: invoice,
		Reason:        reason,
		Delta:         delta,
		StockBefore:   after - delta,
		StockAfter:    after,
	}
	if err := k.movements.Create(ctx, movement); err != nil {
		return fmt.Errorf("record stock movement: %w", err)
	}
	product.Stock = movement.StockAfter
	k.metrics.StockMoved(delta)
	return nil
}
