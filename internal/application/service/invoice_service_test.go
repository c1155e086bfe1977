package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sangkips/tienda-api/internal/domain/entity"
	"github.com/sangkips/tienda-api/internal/domain/enum"
	"github.com/sangkips/tienda-api/internal/domain/repository"
	"github.com/sangkips/tienda-api/internal/logger"
	"github.com/sangkips/tienda-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func sell(t *testing.T, svc *InvoiceService, code string, quantity int) *entity.Invoice {
	t.Helper()
	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		ProductCode: code,
		Quantity:    quantity,
		EmployeeID:  cashierID,
		ClientID:    strPtr(clientA),
		Type:        enum.InvoiceTypeFullData,
	})
	require.NoError(t, err)
	return invoice
}

func TestCreateInvoiceDebitsStockAndComputesTotals(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 100, "10.00")
	svc := env.invoiceService(DefaultInvoicePolicy())

	invoice := sell(t, svc, "ARROZ01", 20)

	assert.Equal(t, 80, env.stockOf(t, "ARROZ01"))
	assert.Equal(t, enum.InvoiceStatusActive, invoice.Status)
	assertAmount(t, "200", invoice.Subtotal)
	assertAmount(t, "30", invoice.Tax)
	assertAmount(t, "230", invoice.Total)
	require.NotNil(t, invoice.Client)
	assert.Equal(t, "Mario Paredes", invoice.ClientName())
	assert.Equal(t, -20, env.netMovement(t, invoice.Number))
}

func TestCreateInvoiceRejectsShortStock(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "LECHE01", "Leche", 5, "1.20")
	svc := env.invoiceService(DefaultInvoicePolicy())

	_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		ProductCode: "LECHE01",
		Quantity:    10,
		EmployeeID:  cashierID,
		ClientID:    strPtr(clientA),
	})

	var stockErr *apperror.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "LECHE01", stockErr.ProductCode)
	assert.Equal(t, 10, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)

	assert.Equal(t, 5, env.stockOf(t, "LECHE01"))
	n, err := env.invoices.CountByProduct(context.Background(), "LECHE01")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateInvoiceValidation(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "PAN01", "Pan", 10, "0.25")
	svc := env.invoiceService(DefaultInvoicePolicy())
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateInvoiceInput
		field string
		code  int
	}{
		{
			name:  "full data without client",
			input: CreateInvoiceInput{ProductCode: "PAN01", Quantity: 1, EmployeeID: cashierID, Type: enum.InvoiceTypeFullData},
			field: "client_id",
			code:  422,
		},
		{
			name:  "zero quantity",
			input: CreateInvoiceInput{ProductCode: "PAN01", Quantity: 0, EmployeeID: cashierID, Type: enum.InvoiceTypeFinalConsumer},
			field: "quantity",
			code:  422,
		},
		{
			name:  "unknown employee",
			input: CreateInvoiceInput{ProductCode: "PAN01", Quantity: 1, EmployeeID: "2222222222", Type: enum.InvoiceTypeFinalConsumer},
			field: "employee_id",
			code:  422,
		},
		{
			name:  "unknown product",
			input: CreateInvoiceInput{ProductCode: "NOPE", Quantity: 1, EmployeeID: cashierID, Type: enum.InvoiceTypeFinalConsumer},
			code:  404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			_, err := svc.CreateInvoice(ctx, &input)
			require.Error(t, err)
			appErr := apperror.GetAppError(err)
			assert.Equal(t, tt.code, appErr.Code)
			if tt.field != "" {
				require.NotEmpty(t, appErr.Errors)
				assert.Equal(t, tt.field, appErr.Errors[0].Field)
			}
		})
	}
	assert.Equal(t, 10, env.stockOf(t, "PAN01"))
}

func TestFinalConsumerInvoiceHasNoClient(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "PAN01", "Pan", 10, "0.25")
	svc := env.invoiceService(DefaultInvoicePolicy())

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		ProductCode: "PAN01",
		Quantity:    4,
		EmployeeID:  cashierID,
		ClientID:    strPtr("  "),
		Type:        enum.InvoiceTypeFinalConsumer,
	})
	require.NoError(t, err)

	assert.Nil(t, invoice.ClientID)
	assert.Equal(t, "Consumidor final", invoice.ClientName())
	assertAmount(t, "1.00", invoice.Subtotal)
	assertAmount(t, "0.15", invoice.Tax)
}

func TestUpdateInvoiceQuantity(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 100, "10.00")
	svc := env.invoiceService(DefaultInvoicePolicy())
	ctx := context.Background()
	invoice := sell(t, svc, "ARROZ01", 20)

	updated, err := svc.UpdateInvoice(ctx, invoice.Number, &UpdateInvoiceInput{Quantity: intPtr(30)})
	require.NoError(t, err)
	assert.Equal(t, 70, env.stockOf(t, "ARROZ01"))
	assert.Equal(t, 30, updated.Quantity)
	assertAmount(t, "300", updated.Subtotal)
	assertAmount(t, "45", updated.Tax)
	assertAmount(t, "345", updated.Total)

	updated, err = svc.UpdateInvoice(ctx, invoice.Number, &UpdateInvoiceInput{Quantity: intPtr(12)})
	require.NoError(t, err)
	assert.Equal(t, 88, env.stockOf(t, "ARROZ01"))
	assertAmount(t, "138", updated.Total)
	assert.Equal(t, -12, env.netMovement(t, invoice.Number))
}

func TestUpdateInvoiceQuantityBeyondStock(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 25, "10.00")
	svc := env.invoiceService(DefaultInvoicePolicy())
	invoice := sell(t, svc, "ARROZ01", 20)

	_, err := svc.UpdateInvoice(context.Background(), invoice.Number, &UpdateInvoiceInput{Quantity: intPtr(30)})
	require.True(t, apperror.IsStockError(err))

	assert.Equal(t, 5, env.stockOf(t, "ARROZ01"))
	stored, err := svc.GetInvoice(context.Background(), invoice.Number)
	require.NoError(t, err)
	assert.Equal(t, 20, stored.Quantity)
}

func TestVoidInvoiceRestoresStockOnce(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 100, "10.00")
	svc := env.invoiceService(DefaultInvoicePolicy())
	ctx := context.Background()
	invoice := sell(t, svc, "ARROZ01", 30)

	voided, err := svc.VoidInvoice(ctx, invoice.Number)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusVoided, voided.Status)
	assert.Equal(t, 100, env.stockOf(t, "ARROZ01"))
	assert.Zero(t, env.netMovement(t, invoice.Number))

	_, err = svc.VoidInvoice(ctx, invoice.Number)
	var transitionErr *apperror.TransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, "VOIDED", transitionErr.From)
	assert.Equal(t, 100, env.stockOf(t, "ARROZ01"))

	_, err = svc.ReturnInvoice(ctx, invoice.Number)
	assert.True(t, apperror.IsTransitionError(err))
	assert.Equal(t, 100, env.stockOf(t, "ARROZ01"))
}

func TestTerminalInvoiceCannotBeEdited(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 100, "10.00")
	svc := env.invoiceService(DefaultInvoicePolicy())
	ctx := context.Background()
	invoice := sell(t, svc, "ARROZ01", 10)
	_, err := svc.ReturnInvoice(ctx, invoice.Number)
	require.NoError(t, err)

	_, err = svc.UpdateInvoice(ctx, invoice.Number, &UpdateInvoiceInput{Quantity: intPtr(5)})
	assert.True(t, apperror.IsTransitionError(err))

	active := enum.InvoiceStatusActive
	_, err = svc.UpdateInvoice(ctx, invoice.Number, &UpdateInvoiceInput{Status: &active})
	assert.True(t, apperror.IsTransitionError(err))
	assert.Equal(t, 100, env.stockOf(t, "ARROZ01"))
}

func TestUpdateInvoiceToReturnedDropsQuantityEdit(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 100, "10.00")
	env.seedProduct(t, "AZUCAR01", "Azucar", 40, "2.00")
	svc := env.invoiceService(DefaultInvoicePolicy())
	invoice := sell(t, svc, "ARROZ01", 20)

	returned := enum.InvoiceStatusReturned
	updated, err := svc.UpdateInvoice(context.Background(), invoice.Number, &UpdateInvoiceInput{
		Status:      &returned,
		Quantity:    intPtr(50),
		ProductCode: strPtr("AZUCAR01"),
	})
	require.NoError(t, err)

	assert.Equal(t, enum.InvoiceStatusReturned, updated.Status)
	assert.Equal(t, 20, updated.Quantity)
	assert.Equal(t, "ARROZ01", updated.ProductCode)
	assertAmount(t, "230", updated.Total)
	assert.Equal(t, 100, env.stockOf(t, "ARROZ01"))
	assert.Equal(t, 40, env.stockOf(t, "AZUCAR01"))
}

func TestUpdateInvoiceChangesProduct(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 55, "10.00")
	env.seedProduct(t, "AZUCAR01", "Azucar", 20, "2.00")
	svc := env.invoiceService(DefaultInvoicePolicy())
	invoice := sell(t, svc, "ARROZ01", 5)
	require.Equal(t, 50, env.stockOf(t, "ARROZ01"))

	updated, err := svc.UpdateInvoice(context.Background(), invoice.Number, &UpdateInvoiceInput{ProductCode: strPtr("AZUCAR01")})
	require.NoError(t, err)

	assert.Equal(t, 55, env.stockOf(t, "ARROZ01"))
	assert.Equal(t, 15, env.stockOf(t, "AZUCAR01"))
	assert.Equal(t, "AZUCAR01", updated.ProductCode)
	assertAmount(t, "10", updated.Subtotal)
	assertAmount(t, "11.5", updated.Total)
	assert.Equal(t, -5, env.netMovement(t, invoice.Number))
}

func TestUpdateInvoiceProductChangeRollsBack(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 55, "10.00")
	env.seedProduct(t, "AZUCAR01", "Azucar", 2, "2.00")
	svc := env.invoiceService(DefaultInvoicePolicy())
	invoice := sell(t, svc, "ARROZ01", 5)

	_, err := svc.UpdateInvoice(context.Background(), invoice.Number, &UpdateInvoiceInput{ProductCode: strPtr("AZUCAR01")})
	var stockErr *apperror.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "AZUCAR01", stockErr.ProductCode)

	assert.Equal(t, 50, env.stockOf(t, "ARROZ01"))
	assert.Equal(t, 2, env.stockOf(t, "AZUCAR01"))
	stored, err := svc.GetInvoice(context.Background(), invoice.Number)
	require.NoError(t, err)
	assert.Equal(t, "ARROZ01", stored.ProductCode)
	assert.Equal(t, -5, env.netMovement(t, invoice.Number))
}

func TestUpdateInvoiceRecomputesWithCurrentPrice(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 100, "10.00")
	svc := env.invoiceService(DefaultInvoicePolicy())
	ctx := context.Background()
	invoice := sell(t, svc, "ARROZ01", 2)

	price := decimal.RequireFromString("12.50")
	_, err := env.productService().UpdateProduct(ctx, "ARROZ01", &UpdateProductInput{Price: &price})
	require.NoError(t, err)

	updated, err := svc.UpdateInvoice(ctx, invoice.Number, &UpdateInvoiceInput{ClientID: strPtr(clientB)})
	require.NoError(t, err)
	assert.Equal(t, clientB, *updated.ClientID)
	assertAmount(t, "25", updated.Subtotal)
	assertAmount(t, "3.75", updated.Tax)
	assertAmount(t, "28.75", updated.Total)
	assert.Equal(t, 98, env.stockOf(t, "ARROZ01"))
}

func TestFinalConsumerClientIsReadOnly(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "PAN01", "Pan", 10, "0.25")
	svc := env.invoiceService(DefaultInvoicePolicy())
	ctx := context.Background()

	invoice, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{
		ProductCode: "PAN01",
		Quantity:    1,
		EmployeeID:  cashierID,
		Type:        enum.InvoiceTypeFinalConsumer,
	})
	require.NoError(t, err)

	_, err = svc.UpdateInvoice(ctx, invoice.Number, &UpdateInvoiceInput{ClientID: strPtr(clientA)})
	require.Error(t, err)
	assert.Equal(t, "client_id", apperror.GetAppError(err).Errors[0].Field)

	// Promoting the invoice to FULL_DATA still needs a client, which cannot be set
	fullData := enum.InvoiceTypeFullData
	_, err = svc.UpdateInvoice(ctx, invoice.Number, &UpdateInvoiceInput{Type: &fullData})
	assert.Equal(t, 422, apperror.GetAppError(err).Code)
}

func TestTaxRateIsConfigurable(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 100, "10.00")
	svc := env.invoiceService(InvoicePolicy{TaxRate: decimal.RequireFromString("0.12")})

	invoice := sell(t, svc, "ARROZ01", 20)

	assertAmount(t, "24", invoice.Tax)
	assertAmount(t, "224", invoice.Total)
}

func TestVoidPolicyRestrictsFinalConsumerInvoices(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "PAN01", "Pan", 10, "0.25")
	policy := DefaultInvoicePolicy()
	policy.VoidRequiresFullData = true
	svc := env.invoiceService(policy)
	ctx := context.Background()

	invoice, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{
		ProductCode: "PAN01",
		Quantity:    3,
		EmployeeID:  cashierID,
		Type:        enum.InvoiceTypeFinalConsumer,
	})
	require.NoError(t, err)

	_, err = svc.VoidInvoice(ctx, invoice.Number)
	assert.True(t, apperror.IsTransitionError(err))
	assert.Equal(t, 7, env.stockOf(t, "PAN01"))

	returned, err := svc.ReturnInvoice(ctx, invoice.Number)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusReturned, returned.Status)
	assert.Equal(t, 10, env.stockOf(t, "PAN01"))
}

func TestBatchVoidReportsEachInvoice(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 100, "10.00")
	svc := env.invoiceService(DefaultInvoicePolicy())
	ctx := context.Background()

	first := sell(t, svc, "ARROZ01", 10)
	second := sell(t, svc, "ARROZ01", 15)
	_, err := svc.VoidInvoice(ctx, first.Number)
	require.NoError(t, err)
	require.Equal(t, 85, env.stockOf(t, "ARROZ01"))

	result, err := svc.VoidInvoices(ctx, []uint{first.Number, second.Number, 9999})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Requested)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 2, result.Rejected)
	assert.Equal(t, "1 of 3 voided, 2 rejected", result.Message)
	require.Len(t, result.Items, 3)
	assert.False(t, result.Items[0].OK)
	assert.NotEmpty(t, result.Items[0].Error)
	assert.True(t, result.Items[1].OK)
	assert.Equal(t, enum.InvoiceStatusVoided, result.Items[1].Status)
	assert.False(t, result.Items[2].OK)
	assert.Equal(t, 100, env.stockOf(t, "ARROZ01"))
}

func TestBatchReturnRequiresNumbers(t *testing.T) {
	env := newTestEnv(t)
	svc := env.invoiceService(DefaultInvoicePolicy())

	_, err := svc.ReturnInvoices(context.Background(), nil)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)
}

func TestBatchReturnReportsEachInvoice(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 100, "10.00")
	svc := env.invoiceService(DefaultInvoicePolicy())
	ctx := context.Background()

	first := sell(t, svc, "ARROZ01", 10)
	second := sell(t, svc, "ARROZ01", 15)
	_, err := svc.ReturnInvoice(ctx, first.Number)
	require.NoError(t, err)
	require.Equal(t, 85, env.stockOf(t, "ARROZ01"))

	result, err := svc.ReturnInvoices(ctx, []uint{first.Number, second.Number})
	require.NoError(t, err)

	assert.Equal(t, "return", result.Operation)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Rejected)
	assert.Equal(t, "1 of 2 returned, 1 rejected", result.Message)
	require.Len(t, result.Items, 2)
	assert.False(t, result.Items[0].OK)
	assert.NotEmpty(t, result.Items[0].Error)
	assert.True(t, result.Items[1].OK)
	assert.Equal(t, enum.InvoiceStatusReturned, result.Items[1].Status)
	assert.Equal(t, 100, env.stockOf(t, "ARROZ01"))
	assert.Zero(t, env.netMovement(t, second.Number))
}

// concurrentVoid voids the invoice through the same connection right after the
// first read, as a writer committing between our read and write would.
type concurrentVoid struct {
	repository.InvoiceRepository
	done bool
}

func (r *concurrentVoid) GetByNumber(ctx context.Context, number uint) (*entity.Invoice, error) {
	invoice, err := r.InvoiceRepository.GetByNumber(ctx, number)
	if err != nil || invoice == nil || r.done {
		return invoice, err
	}
	r.done = true
	voided := *invoice
	voided.Status = enum.InvoiceStatusVoided
	if _, err := r.InvoiceRepository.UpdateActive(ctx, &voided); err != nil {
		return nil, err
	}
	return invoice, nil
}

func TestTransitionRejectsInvoiceVoidedConcurrently(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 100, "10.00")
	invoice := sell(t, env.invoiceService(DefaultInvoicePolicy()), "ARROZ01", 4)
	require.Equal(t, 96, env.stockOf(t, "ARROZ01"))

	svc := NewInvoiceService(env.tx, &concurrentVoid{InvoiceRepository: env.invoices}, env.products, env.movements,
		env.clients, env.employees, DefaultInvoicePolicy(), nil, zap.NewNop())

	_, err := svc.ReturnInvoice(context.Background(), invoice.Number)
	require.Error(t, err)
	assert.True(t, apperror.IsTransitionError(err))
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
	assert.Equal(t, 96, env.stockOf(t, "ARROZ01"))
	assert.Equal(t, -4, env.netMovement(t, invoice.Number))
}

func TestInvoiceLogsCarryRequestID(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 100, "10.00")
	core, logs := observer.New(zap.InfoLevel)
	svc := NewInvoiceService(env.tx, env.invoices, env.products, env.movements, env.clients, env.employees,
		DefaultInvoicePolicy(), nil, zap.New(core))
	ctx := logger.WithRequestID(context.Background(), "req-123")

	invoice, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{
		ProductCode: "ARROZ01",
		Quantity:    1,
		EmployeeID:  cashierID,
		ClientID:    strPtr(clientA),
		Type:        enum.InvoiceTypeFullData,
	})
	require.NoError(t, err)
	_, err = svc.VoidInvoice(ctx, invoice.Number)
	require.NoError(t, err)

	for _, message := range []string{"invoice created", "invoice transitioned"} {
		entries := logs.FilterMessage(message).All()
		require.Len(t, entries, 1, message)
		assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"], message)
	}
}

func TestStockMatchesActiveInvoices(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 60, "10.00")
	env.seedProduct(t, "AZUCAR01", "Azucar", 60, "2.00")
	svc := env.invoiceService(DefaultInvoicePolicy())
	ctx := context.Background()

	a := sell(t, svc, "ARROZ01", 10)
	b := sell(t, svc, "ARROZ01", 5)
	c := sell(t, svc, "AZUCAR01", 7)
	_, err := svc.UpdateInvoice(ctx, a.Number, &UpdateInvoiceInput{Quantity: intPtr(12)})
	require.NoError(t, err)
	_, err = svc.UpdateInvoice(ctx, b.Number, &UpdateInvoiceInput{ProductCode: strPtr("AZUCAR01"), Quantity: intPtr(3)})
	require.NoError(t, err)
	_, err = svc.ReturnInvoice(ctx, c.Number)
	require.NoError(t, err)

	// Active: a = 12 of ARROZ01, b = 3 of AZUCAR01
	assert.Equal(t, 48, env.stockOf(t, "ARROZ01"))
	assert.Equal(t, 57, env.stockOf(t, "AZUCAR01"))
	assert.Equal(t, -12, env.netMovement(t, a.Number))
	assert.Equal(t, -3, env.netMovement(t, b.Number))
	assert.Zero(t, env.netMovement(t, c.Number))
}

func TestListInvoicesFilters(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 60, "10.00")
	env.seedProduct(t, "AZUCAR01", "Azucar", 60, "2.00")
	svc := env.invoiceService(DefaultInvoicePolicy())
	ctx := context.Background()

	sell(t, svc, "ARROZ01", 1)
	second := sell(t, svc, "AZUCAR01", 1)
	_, err := svc.VoidInvoice(ctx, second.Number)
	require.NoError(t, err)

	voided := enum.InvoiceStatusVoided
	page, err := svc.ListInvoices(ctx, &ListInvoicesInput{Status: &voided})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, second.Number, page.Items[0].Number)

	page, err = svc.ListInvoices(ctx, &ListInvoicesInput{Search: "arroz"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ARROZ01", page.Items[0].ProductCode)

	page, err = svc.ListInvoices(ctx, &ListInvoicesInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.Total)
}
