package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sangkips/tienda-api/internal/domain/enum"
	"github.com/sangkips/tienda-api/internal/logger"
	"github.com/sangkips/tienda-api/pkg/apperror"
	"github.com/sangkips/tienda-api/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func validProductInput(code string) *CreateProductInput {
	return &CreateProductInput{
		Code:           code,
		Name:           "Aceite",
		Brand:          "La Favorita",
		Category:       "Abarrotes",
		Price:          decimal.RequireFromString("3.45"),
		Stock:          12,
		ManufacturedOn: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ExpiresOn:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	svc := env.productService()
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, validProductInput("ACE01"))
	require.NoError(t, err)
	assert.Equal(t, 12, product.Stock)

	_, err = svc.CreateProduct(ctx, validProductInput("ACE01"))
	assert.Equal(t, 409, apperror.GetAppError(err).Code)

	_, err = svc.CreateProduct(ctx, validProductInput("ACE02"))
	require.Error(t, err)
	assert.Contains(t, apperror.GetAppError(err).Message, "brand")
}

func TestCreateProductValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.productService()

	input := validProductInput("CODIGOLARGO1")
	input.Name = "Aceite 1L"
	input.ExpiresOn = input.ManufacturedOn
	input.Stock = -1

	_, err := svc.CreateProduct(context.Background(), input)
	appErr := apperror.GetAppError(err)
	require.Equal(t, 422, appErr.Code)

	fields := make([]string, 0, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"name", "expires_on", "code", "stock"}, fields)
}

func TestProductDatePolicyIsConfigurable(t *testing.T) {
	env := newTestEnv(t)
	policy := DefaultProductPolicy()
	policy.DatePolicy = validation.DateRangePolicy{Rule: validation.ExpiryDistinct, MaxShelfLifeYr: 5}
	svc := NewProductService(env.tx, env.products, env.invoices, env.movements, policy, nil, nil)

	input := validProductInput("ACE01")
	input.ManufacturedOn, input.ExpiresOn = input.ExpiresOn, input.ManufacturedOn

	_, err := svc.CreateProduct(context.Background(), input)
	assert.NoError(t, err)
}

func TestUpdateProductLeavesStockAlone(t *testing.T) {
	env := newTestEnv(t)
	svc := env.productService()
	ctx := context.Background()
	_, err := svc.CreateProduct(ctx, validProductInput("ACE01"))
	require.NoError(t, err)

	price := decimal.RequireFromString("3.99")
	updated, err := svc.UpdateProduct(ctx, "ACE01", &UpdateProductInput{Price: &price, Category: strPtr("Aceites")})
	require.NoError(t, err)
	assertAmount(t, "3.99", updated.Price)
	assert.Equal(t, "Aceites", updated.Category)
	assert.Equal(t, 12, env.stockOf(t, "ACE01"))

	_, err = svc.UpdateProduct(ctx, "NOPE", &UpdateProductInput{Price: &price})
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestDecrementStock(t *testing.T) {
	env := newTestEnv(t)
	svc := env.productService()
	ctx := context.Background()
	env.seedProduct(t, "ACE01", "Aceite", 12, "3.45")

	product, err := svc.DecrementStock(ctx, "ACE01", 5)
	require.NoError(t, err)
	assert.Equal(t, 7, product.Stock)
	assert.Equal(t, 7, env.stockOf(t, "ACE01"))

	_, err = svc.DecrementStock(ctx, "ACE01", 8)
	var stockErr *apperror.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Aceite", stockErr.ProductName)
	assert.Equal(t, 8, stockErr.Requested)
	assert.Equal(t, 7, stockErr.Available)
	assert.Equal(t, 7, env.stockOf(t, "ACE01"))

	_, err = svc.DecrementStock(ctx, "ACE01", 0)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	_, err = svc.DecrementStock(ctx, "NOPE", 1)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)

	page, err := svc.ListMovements(ctx, "ACE01", nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, enum.MovementManualDecrement, page.Items[0].Reason)
	assert.Equal(t, 12, page.Items[0].StockBefore)
	assert.Equal(t, 7, page.Items[0].StockAfter)
}

func TestRestockProducts(t *testing.T) {
	env := newTestEnv(t)
	svc := env.productService()
	ctx := context.Background()
	env.seedProduct(t, "ACE01", "Aceite", 2, "3.45")
	env.seedProduct(t, "SAL01", "Sal", 0, "0.60")

	result, err := svc.RestockProducts(ctx, []string{"ACE01", "NOPE", "SAL01"}, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Rejected)
	assert.Equal(t, "2 of 3 restocked, 1 rejected", result.Message)
	require.NotNil(t, result.Items[0].Stock)
	assert.Equal(t, 12, *result.Items[0].Stock)
	assert.Equal(t, 12, env.stockOf(t, "ACE01"))
	assert.Equal(t, 10, env.stockOf(t, "SAL01"))

	result, err = svc.RestockProducts(ctx, []string{"SAL01"}, 3)
	require.NoError(t, err)
	assert.Equal(t, "1 of 1 restocked", result.Message)
	assert.Equal(t, 13, env.stockOf(t, "SAL01"))
}

func TestDeleteProductReferencedByInvoice(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ACE01", "Aceite", 10, "3.45")
	env.seedProduct(t, "SAL01", "Sal", 10, "0.60")
	products := env.productService()
	ctx := context.Background()
	sell(t, env.invoiceService(DefaultInvoicePolicy()), "ACE01", 1)

	err := products.DeleteProduct(ctx, "ACE01")
	assert.Equal(t, 409, apperror.GetAppError(err).Code)

	require.NoError(t, products.DeleteProduct(ctx, "SAL01"))
	_, err = products.GetProduct(ctx, "SAL01")
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestListProductsLowStock(t *testing.T) {
	env := newTestEnv(t)
	svc := env.productService()
	ctx := context.Background()
	env.seedProduct(t, "ACE01", "Aceite", 2, "3.45")
	env.seedProduct(t, "SAL01", "Sal", 40, "0.60")

	page, err := svc.ListProducts(ctx, &ListProductsInput{LowStock: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ACE01", page.Items[0].Code)

	page, err = svc.ListProducts(ctx, &ListProductsInput{Search: "sal"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "SAL01", page.Items[0].Code)

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	assert.Len(t, low, 1)
}

func TestDecrementStockWarnsWhenLow(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "ACE01", "Aceite", 8, "3.50")
	core, logs := observer.New(zap.InfoLevel)
	svc := NewProductService(env.tx, env.products, env.invoices, env.movements, DefaultProductPolicy(), nil, zap.New(core))
	ctx := logger.WithRequestID(context.Background(), "req-7")

	_, err := svc.DecrementStock(ctx, "ACE01", 2)
	require.NoError(t, err)
	assert.Zero(t, logs.FilterMessage("product stock low").Len())

	_, err = svc.DecrementStock(ctx, "ACE01", 2)
	require.NoError(t, err)
	low := logs.FilterMessage("product stock low").All()
	require.Len(t, low, 1)
	assert.Equal(t, "req-7", low[0].ContextMap()["request_id"])
	assert.Equal(t, int64(4), low[0].ContextMap()["stock"])
}
