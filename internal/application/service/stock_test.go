package service

import (
	"context"
	"testing"

	"github.com/sangkips/tienda-api/internal/domain/enum"
	"github.com/sangkips/tienda-api/internal/domain/repository"
	"github.com/sangkips/tienda-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// concurrentRestock adds units through the same connection right before the
// conditional decrement, as a writer committing between our read and update would.
type concurrentRestock struct {
	repository.ProductRepository
	units int
	done  bool
}

func (r *concurrentRestock) DecrementStock(ctx context.Context, code string, amount int) (int, bool, error) {
	if !r.done {
		r.done = true
		if _, err := r.ProductRepository.IncrementStock(ctx, code, r.units); err != nil {
			return 0, false, err
		}
	}
	return r.ProductRepository.DecrementStock(ctx, code, amount)
}

func TestMovementRecordsWrittenLevel(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 10, "10.00")
	keeper := newStockKeeper(&concurrentRestock{ProductRepository: env.products, units: 7}, env.movements, nil)
	ctx := context.Background()

	err := env.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := keeper.take(ctx, "ARROZ01", 2, enum.MovementManualDecrement, nil)
		if err != nil {
			return err
		}
		assert.Equal(t, 15, product.Stock)

		product, err = keeper.give(ctx, "ARROZ01", 3, enum.MovementRestock, nil)
		if err != nil {
			return err
		}
		assert.Equal(t, 18, product.Stock)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 18, env.stockOf(t, "ARROZ01"))

	movements, _, err := env.movements.ListByProduct(ctx, "ARROZ01", &pagination.PaginationParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, movements, 2)

	restock, decrement := movements[0], movements[1]
	assert.Equal(t, -2, decrement.Delta)
	assert.Equal(t, 17, decrement.StockBefore)
	assert.Equal(t, 15, decrement.StockAfter)
	assert.Equal(t, 3, restock.Delta)
	assert.Equal(t, 15, restock.StockBefore)
	assert.Equal(t, 18, restock.StockAfter)
}
