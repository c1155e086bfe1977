package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/tienda-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesSummary(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 100, "10.00")
	env.seedProduct(t, "SAL01", "Sal", 3, "0.60")
	invoices := env.invoiceService(DefaultInvoicePolicy())
	ctx := context.Background()

	sell(t, invoices, "ARROZ01", 2)
	sell(t, invoices, "ARROZ01", 1)
	voided := sell(t, invoices, "ARROZ01", 5)
	_, err := invoices.VoidInvoice(ctx, voided.Number)
	require.NoError(t, err)

	reports := NewReportService(env.invoices, env.products, 5)
	summary, err := reports.SalesSummary(ctx, nil, nil)
	require.NoError(t, err)

	require.Len(t, summary.ByStatus, 3)
	assert.Equal(t, enum.InvoiceStatusActive, summary.ByStatus[0].Status)
	assert.Equal(t, int64(2), summary.ByStatus[0].Count)
	assertAmount(t, "34.5", summary.ByStatus[0].Total)
	assert.Equal(t, int64(1), summary.ByStatus[1].Count)
	assert.Equal(t, int64(0), summary.ByStatus[2].Count)
	assertAmount(t, "0", summary.ByStatus[2].Total)
	assertAmount(t, "34.5", summary.NetSales)
	assert.Equal(t, int64(3), summary.InvoiceCount)

	require.Len(t, summary.LowStock, 1)
	assert.Equal(t, "SAL01", summary.LowStock[0].Code)
}

func TestSalesSummaryOutsideRange(t *testing.T) {
	env := newTestEnv(t)
	env.seedParties(t)
	env.seedProduct(t, "ARROZ01", "Arroz", 100, "10.00")
	sell(t, env.invoiceService(DefaultInvoicePolicy()), "ARROZ01", 2)

	from := time.Now().Add(24 * time.Hour)
	summary, err := NewReportService(env.invoices, env.products, 5).SalesSummary(context.Background(), &from, nil)
	require.NoError(t, err)

	assert.Zero(t, summary.InvoiceCount)
	assertAmount(t, "0", summary.NetSales)
	assert.Empty(t, summary.LowStock)
}
