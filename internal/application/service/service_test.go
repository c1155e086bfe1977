package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tienda-api/internal/domain/entity"
	"github.com/sangkips/tienda-api/internal/domain/repository"
	"github.com/sangkips/tienda-api/internal/infrastructure/database"
	infra "github.com/sangkips/tienda-api/internal/infrastructure/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	cashierID = "1710034065"
	clientA   = "0102030400"
	clientB   = "1234567897"
)

type testEnv struct {
	db        *gorm.DB
	tx        repository.Transactor
	products  repository.ProductRepository
	invoices  repository.InvoiceRepository
	movements repository.StockMovementRepository
	clients   repository.ClientRepository
	employees repository.EmployeeRepository
	companies repository.CompanyRepository
	suppliers repository.SupplierRepository
}

// newTestEnv opens a private in-memory database with every table migrated
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.NewSQLiteDB(dsn, &gorm.Config{Logger: gormlogger.Discard}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return &testEnv{
		db:        db,
		tx:        infra.NewTransactor(db),
		products:  infra.NewProductRepository(db),
		invoices:  infra.NewInvoiceRepository(db),
		movements: infra.NewStockMovementRepository(db),
		clients:   infra.NewClientRepository(db),
		employees: infra.NewEmployeeRepository(db),
		companies: infra.NewCompanyRepository(db),
		suppliers: infra.NewSupplierRepository(db),
	}
}

func (e *testEnv) invoiceService(policy InvoicePolicy) *InvoiceService {
	return NewInvoiceService(e.tx, e.invoices, e.products, e.movements, e.clients, e.employees, policy, nil, zap.NewNop())
}

func (e *testEnv) productService() *ProductService {
	return NewProductService(e.tx, e.products, e.invoices, e.movements, DefaultProductPolicy(), nil, zap.NewNop())
}

func (e *testEnv) seedProduct(t *testing.T, code, name string, stock int, price string) {
	t.Helper()
	require.NoError(t, e.products.Create(context.Background(), &entity.Product{
		Code:           code,
		Name:           name,
		Brand:          "Marca " + name,
		Category:       "Abarrotes",
		Price:          decimal.RequireFromString(price),
		Stock:          stock,
		ManufacturedOn: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiresOn:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
}

func (e *testEnv) seedParties(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	person := func(id, first, email string) entity.Person {
		return entity.Person{
			IDNumber:  id,
			FirstName: first,
			LastName:  "Paredes",
			Phone:     "0991234567",
			Email:     email,
			BirthDate: time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
		}
	}
	require.NoError(t, e.employees.Create(ctx, &entity.Employee{Person: person(cashierID, "Lucia", "lucia@tienda.ec")}))
	require.NoError(t, e.clients.Create(ctx, &entity.Client{Person: person(clientA, "Mario", "mario@correo.ec")}))
	require.NoError(t, e.clients.Create(ctx, &entity.Client{Person: person(clientB, "Elena", "elena@correo.ec")}))
}

func (e *testEnv) stockOf(t *testing.T, code string) int {
	t.Helper()
	product, err := e.products.GetByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, product)
	return product.Stock
}

// netMovement sums the stock deltas recorded against an invoice
func (e *testEnv) netMovement(t *testing.T, number uint) int {
	t.Helper()
	movements, err := e.movements.ListByInvoice(context.Background(), number)
	require.NoError(t, err)
	net := 0
	for _, m := range movements {
		net += m.Delta
	}
	return net
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
