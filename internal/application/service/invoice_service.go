package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/tienda-api/internal/domain/entity"
	"github.com/sangkips/tienda-api/internal/domain/enum"
	"github.com/sangkips/tienda-api/internal/domain/pricing"
	"github.com/sangkips/tienda-api/internal/domain/repository"
	"github.com/sangkips/tienda-api/internal/infrastructure/metrics"
	"github.com/sangkips/tienda-api/internal/logger"
	"github.com/sangkips/tienda-api/pkg/apperror"
	"github.com/sangkips/tienda-api/pkg/pagination"
	"github.com/sangkips/tienda-api/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoicePolicy holds the business rules the invoice controller is configured with.
type InvoicePolicy struct {
	TaxRate decimal.Decimal
	// VoidRequiresFullData restricts voiding to FULL_DATA invoices. Returns are never restricted.
	VoidRequiresFullData bool
}

// DefaultInvoicePolicy returns a 15% tax rate and unrestricted voids.
func DefaultInvoicePolicy() InvoicePolicy {
	return InvoicePolicy{TaxRate: pricing.DefaultTaxRate}
}

// InvoiceService is the invoice lifecycle controller. It keeps product stock equal
// to what ACTIVE invoices have committed, and keeps each ACTIVE invoice's totals
// derived from its quantity and its product's current price.
//
// Every operation on a single invoice is one unit of work. Stock debits rely on the
// store's conditional update; no extra locking is added.
type InvoiceService struct {
	tx        repository.Transactor
	invoices  repository.InvoiceRepository
	products  repository.ProductRepository
	clients   repository.ClientRepository
	employees repository.EmployeeRepository
	stock     *stockKeeper
	policy    InvoicePolicy
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	tx repository.Transactor,
	invoices repository.InvoiceRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	clients repository.ClientRepository,
	employees repository.EmployeeRepository,
	policy InvoicePolicy,
	m *metrics.Metrics,
	log *zap.Logger,
) *InvoiceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &InvoiceService{
		tx:        tx,
		invoices:  invoices,
		products:  products,
		clients:   clients,
		employees: employees,
		stock:     newStockKeeper(products, movements, m),
		policy:    policy,
		metrics:   m,
		log:       log.Named("invoice"),
		now:       time.Now,
	}
}

// TaxRate returns the rate applied to invoice subtotals
func (s *InvoiceService) TaxRate() decimal.Decimal {
	return s.policy.TaxRate
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	ProductCode string
	Quantity    int
	EmployeeID  string
	ClientID    *string
	Type        enum.InvoiceType
}

// CreateInvoice debits the product and stores a new ACTIVE invoice.
// Nothing persists when the product lacks stock.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	invoiceType := input.Type
	if invoiceType == "" {
		invoiceType = enum.InvoiceTypeFullData
	}
	clientID := normalizeID(input.ClientID)

	var errs validation.Errors
	if !invoiceType.IsValid() {
		errs.Add("type", "must be FULL_DATA or FINAL_CONSUMER")
	}
	if input.Quantity <= 0 {
		errs.Add("quantity", "must be greater than zero")
	}
	if strings.TrimSpace(input.ProductCode) == "" {
		errs.Add("product_code", "is required")
	}
	if strings.TrimSpace(input.EmployeeID) == "" {
		errs.Add("employee_id", "is required")
	}
	if invoiceType.RequiresClient() && clientID == nil {
		errs.Add("client_id", "is required for FULL_DATA invoices")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	var number uint
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkParties(ctx, input.EmployeeID, clientID); err != nil {
			return err
		}
		product, err := s.stock.load(ctx, input.ProductCode)
		if err != nil {
			return err
		}
		if !product.CanCover(input.Quantity) {
			s.metrics.StockRejected(enum.MovementInvoiceCreated.String())
			return apperror.NewStockError(product.Code, product.Name, input.Quantity, product.Stock)
		}

		totals := pricing.Compute(input.Quantity, product.Price, s.policy.TaxRate)
		invoice := &entity.Invoice{
			IssuedAt:    s.now().UTC(),
			ClientID:    clientID,
			EmployeeID:  input.EmployeeID,
			ProductCode: product.Code,
			Quantity:    input.Quantity,
			Subtotal:    totals.Subtotal,
			Tax:         totals.Tax,
			Total:       totals.Total,
			Type:        invoiceType,
			Status:      enum.InvoiceStatusActive,
		}
		if err := s.invoices.Create(ctx, invoice); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		number = invoice.Number

		_, err = s.stock.take(ctx, product.Code, input.Quantity, enum.MovementInvoiceCreated, &number)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.InvoiceEvent(metrics.EventCreated)
	logger.WithContext(ctx, s.log).Info("invoice created",
		zap.Uint("number", number),
		zap.String("product_code", input.ProductCode),
		zap.Int("quantity", input.Quantity))

	return s.GetInvoice(ctx, number)
}

// UpdateInvoiceInput represents the update invoice input. Nil fields are left unchanged.
type UpdateInvoiceInput struct {
	ProductCode *string
	Quantity    *int
	Status      *enum.InvoiceStatus
	ClientID    *string
	EmployeeID  *string
	Type        *enum.InvoiceType
}

// UpdateInvoice edits an ACTIVE invoice. Exactly one stock rule applies, judged
// against the persisted values:
//
//  1. the status moves to VOIDED or RETURNED: the persisted quantity goes back to the
//     persisted product, and product or quantity edits in the same request are dropped;
//  2. the product changes: the old quantity goes back to the old product, then the new
//     quantity is taken from the new product;
//  3. only the quantity changes: the difference is taken or given back.
//
// An invoice still ACTIVE afterwards has its totals recomputed.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, number uint, input *UpdateInvoiceInput) (*entity.Invoice, error) {
	var event string
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.invoices.GetByNumber(ctx, number)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}

		target := invoice.Status
		if input.Status != nil {
			target = *input.Status
		}
		if !invoice.IsActive() {
			return apperror.NewTransitionError(number, invoice.Status.String(), target.String(), "only ACTIVE invoices can be edited")
		}
		if err := s.applyFields(ctx, invoice, input); err != nil {
			return err
		}

		prevCode, prevQuantity := invoice.ProductCode, invoice.Quantity
		switch {
		case target.IsTerminal():
			if err := s.checkTransition(invoice, target); err != nil {
				return err
			}
			if _, err := s.stock.give(ctx, prevCode, prevQuantity, movementFor(target), &number); err != nil {
				return err
			}
			invoice.Status = target
			event = eventFor(target)

		case input.ProductCode != nil && *input.ProductCode != prevCode:
			quantity := prevQuantity
			if input.Quantity != nil {
				quantity = *input.Quantity
			}
			if _, err := s.stock.give(ctx, prevCode, prevQuantity, enum.MovementInvoiceProductChanged, &number); err != nil {
				return err
			}
			product, err := s.stock.take(ctx, *input.ProductCode, quantity, enum.MovementInvoiceProductChanged, &number)
			if err != nil {
				return err
			}
			invoice.ProductCode = product.Code
			invoice.Product = product
			invoice.Quantity = quantity
			event = metrics.EventEdited

		case input.Quantity != nil && *input.Quantity != prevQuantity:
			diff := *input.Quantity - prevQuantity
			if diff > 0 {
				_, err = s.stock.take(ctx, prevCode, diff, enum.MovementInvoiceEdited, &number)
			} else {
				_, err = s.stock.give(ctx, prevCode, -diff, enum.MovementInvoiceEdited, &number)
			}
			if err != nil {
				return err
			}
			invoice.Quantity = *input.Quantity
			event = metrics.EventEdited
		}

		if invoice.IsActive() {
			if err := s.recompute(ctx, invoice); err != nil {
				return err
			}
		}
		return s.save(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	if event != "" {
		s.metrics.InvoiceEvent(event)
	}
	logger.WithContext(ctx, s.log).Info("invoice updated", zap.Uint("number", number), zap.String("event", event))

	return s.GetInvoice(ctx, number)
}

// applyFields validates and copies the non-stock edits onto invoice
func (s *InvoiceService) applyFields(ctx context.Context, invoice *entity.Invoice, input *UpdateInvoiceInput) error {
	var errs validation.Errors
	persistedType := invoice.Type

	if input.Quantity != nil && *input.Quantity <= 0 {
		errs.Add("quantity", "must be greater than zero")
	}
	if input.Status != nil && !input.Status.IsValid() {
		errs.Add("status", "must be ACTIVE, VOIDED or RETURNED")
	}
	if input.ProductCode != nil && strings.TrimSpace(*input.ProductCode) == "" {
		errs.Add("product_code", "must not be empty")
	}

	if input.Type != nil {
		if !input.Type.IsValid() {
			errs.Add("type", "must be FULL_DATA or FINAL_CONSUMER")
		} else {
			invoice.Type = *input.Type
		}
	}

	if input.ClientID != nil {
		if persistedType == enum.InvoiceTypeFinalConsumer {
			errs.Add("client_id", "cannot be changed on a FINAL_CONSUMER invoice")
		} else if clientID := normalizeID(input.ClientID); clientID == nil {
			invoice.ClientID = nil
			invoice.Client = nil
		} else {
			client, err := s.clients.GetByID(ctx, *clientID)
			if err != nil {
				return err
			}
			if client == nil {
				errs.Add("client_id", "client not found")
			} else {
				invoice.ClientID = clientID
				invoice.Client = client
			}
		}
	}

	if input.EmployeeID != nil {
		employee, err := s.employees.GetByID(ctx, *input.EmployeeID)
		if err != nil {
			return err
		}
		if employee == nil {
			errs.Add("employee_id", "employee not found")
		} else {
			invoice.EmployeeID = employee.IDNumber
			invoice.Employee = employee
		}
	}

	if invoice.Type.RequiresClient() && invoice.ClientID == nil {
		errs.Add("client_id", "is required for FULL_DATA invoices")
	}
	return errs.Err()
}

// recompute derives totals from the current quantity and the product's current price
func (s *InvoiceService) recompute(ctx context.Context, invoice *entity.Invoice) error {
	product, err := s.stock.load(ctx, invoice.ProductCode)
	if err != nil {
		return err
	}
	totals := pricing.Compute(invoice.Quantity, product.Price, s.policy.TaxRate)
	invoice.Subtotal = totals.Subtotal
	invoice.Tax = totals.Tax
	invoice.Total = totals.Total
	return nil
}

// VoidInvoice moves an ACTIVE invoice to VOIDED and restores its stock
func (s *InvoiceService) VoidInvoice(ctx context.Context, number uint) (*entity.Invoice, error) {
	return s.transition(ctx, number, enum.InvoiceStatusVoided)
}

// ReturnInvoice moves an ACTIVE invoice to RETURNED and restores its stock
func (s *InvoiceService) ReturnInvoice(ctx context.Context, number uint) (*entity.Invoice, error) {
	return s.transition(ctx, number, enum.InvoiceStatusReturned)
}

func (s *InvoiceService) transition(ctx context.Context, number uint, to enum.InvoiceStatus) (*entity.Invoice, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.invoices.GetByNumber(ctx, number)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		if err := s.checkTransition(invoice, to); err != nil {
			return err
		}
		if _, err := s.stock.give(ctx, invoice.ProductCode, invoice.Quantity, movementFor(to), &number); err != nil {
			return err
		}
		invoice.Status = to
		return s.save(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.InvoiceEvent(eventFor(to))
	logger.WithContext(ctx, s.log).Info("invoice transitioned", zap.Uint("number", number), zap.String("status", to.String()))

	return s.GetInvoice(ctx, number)
}

// save writes invoice unless another writer moved it out of ACTIVE after it was
// read; the rejection rolls back the stock changes made in the same transaction.
func (s *InvoiceService) save(ctx context.Context, invoice *entity.Invoice) error {
	ok, err := s.invoices.UpdateActive(ctx, invoice)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	current := enum.InvoiceStatus("")
	if stored, err := s.invoices.GetByNumber(ctx, invoice.Number); err == nil && stored != nil {
		current = stored.Status
	}
	return apperror.NewTransitionError(invoice.Number, current.String(), invoice.Status.String(), "invoice is no longer ACTIVE")
}

// checkTransition enforces ACTIVE -> VOIDED | RETURNED and the void policy
func (s *InvoiceService) checkTransition(invoice *entity.Invoice, to enum.InvoiceStatus) error {
	if !invoice.IsActive() {
		return apperror.NewTransitionError(invoice.Number, invoice.Status.String(), to.String(), "invoice is not ACTIVE")
	}
	if !to.IsTerminal() {
		return apperror.NewTransitionError(invoice.Number, invoice.Status.String(), to.String(), "unknown target status")
	}
	if to == enum.InvoiceStatusVoided && s.policy.VoidRequiresFullData && invoice.Type != enum.InvoiceTypeFullData {
		return apperror.NewTransitionError(invoice.Number, invoice.Status.String(), to.String(), "only FULL_DATA invoices can be voided")
	}
	return nil
}

// BatchItemResult is the outcome of one item of a batch operation
type BatchItemResult struct {
	Number uint               `json:"number,omitempty"`
	Code   string             `json:"code,omitempty"`
	OK     bool               `json:"ok"`
	Status enum.InvoiceStatus `json:"status,omitempty"`
	Stock  *int               `json:"stock,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// BatchResult summarises a batch operation. Item rejections never fail the batch.
type BatchResult struct {
	Operation string            `json:"operation"`
	Requested int               `json:"requested"`
	Succeeded int               `json:"succeeded"`
	Rejected  int               `json:"rejected"`
	Message   string            `json:"message"`
	Items     []BatchItemResult `json:"items"`
}

func (r *BatchResult) add(item BatchItemResult) {
	r.Items = append(r.Items, item)
	if item.OK {
		r.Succeeded++
	} else {
		r.Rejected++
	}
}

// VoidInvoices voids each invoice in its own transaction, in order
func (s *InvoiceService) VoidInvoices(ctx context.Context, numbers []uint) (*BatchResult, error) {
	return s.batch(ctx, "void", numbers, s.VoidInvoice)
}

// ReturnInvoices returns each invoice in its own transaction, in order
func (s *InvoiceService) ReturnInvoices(ctx context.Context, numbers []uint) (*BatchResult, error) {
	return s.batch(ctx, "return", numbers, s.ReturnInvoice)
}

func (s *InvoiceService) batch(ctx context.Context, operation string, numbers []uint, apply func(context.Context, uint) (*entity.Invoice, error)) (*BatchResult, error) {
	if len(numbers) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "numbers", Message: "at least one invoice number is required"}})
	}

	result := &BatchResult{Operation: operation, Requested: len(numbers), Items: make([]BatchItemResult, 0, len(numbers))}
	for _, number := range numbers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		invoice, err := apply(ctx, number)
		if err != nil {
			if !apperror.IsAppError(err) {
				logger.WithContext(ctx, s.log).Error("batch item failed", zap.String("operation", operation), zap.Uint("number", number), zap.Error(err))
			}
			s.metrics.BatchItem(operation, false)
			result.add(BatchItemResult{Number: number, Error: apperror.GetAppError(err).Message})
			continue
		}
		s.metrics.BatchItem(operation, true)
		result.add(BatchItemResult{Number: number, OK: true, Status: invoice.Status})
	}

	result.Message = batchMessage(operation, result)
	return result, nil
}

func batchMessage(operation string, r *BatchResult) string {
	past := map[string]string{"void": "voided", "return": "returned", "restock": "restocked"}[operation]
	msg := fmt.Sprintf("%d of %d %s", r.Succeeded, r.Requested, past)
	if r.Rejected > 0 {
		msg += fmt.Sprintf(", %d rejected", r.Rejected)
	}
	return msg
}

// GetInvoice returns an invoice with client, employee and product loaded
func (s *InvoiceService) GetInvoice(ctx context.Context, number uint) (*entity.Invoice, error) {
	invoice, err := s.invoices.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListMovements returns the stock movements an invoice caused, oldest first.
// Once the invoice is VOIDED or RETURNED the deltas sum to zero.
func (s *InvoiceService) ListMovements(ctx context.Context, number uint) ([]entity.StockMovement, error) {
	if _, err := s.GetInvoice(ctx, number); err != nil {
		return nil, err
	}
	return s.stock.movements.ListByInvoice(ctx, number)
}

// ListInvoicesInput represents the list invoices filters
type ListInvoicesInput struct {
	Pagination  *pagination.PaginationParams
	Status      *enum.InvoiceStatus
	Type        *enum.InvoiceType
	ProductCode string
	ClientID    string
	EmployeeID  string
	From        *time.Time
	To          *time.Time
	Search      string
	SortOrder   string
}

// ListInvoices returns a page of invoices
func (s *InvoiceService) ListInvoices(ctx context.Context, input *ListInvoicesInput) (*pagination.PaginatedResult[entity.Invoice], error) {
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	input.Pagination.Validate()

	invoices, total, err := s.invoices.List(ctx, &repository.InvoiceFilterParams{
		Pagination:  input.Pagination,
		Status:      input.Status,
		Type:        input.Type,
		ProductCode: input.ProductCode,
		ClientID:    input.ClientID,
		EmployeeID:  input.EmployeeID,
		From:        input.From,
		To:          input.To,
		Search:      input.Search,
		SortOrder:   input.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, p), nil
}

// checkParties verifies that the referenced employee and client exist
func (s *InvoiceService) checkParties(ctx context.Context, employeeID string, clientID *string) error {
	var errs validation.Errors

	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if employee == nil {
		errs.Add("employee_id", "employee not found")
	}

	if clientID != nil {
		client, err := s.clients.GetByID(ctx, *clientID)
		if err != nil {
			return err
		}
		if client == nil {
			errs.Add("client_id", "client not found")
		}
	}
	return errs.Err()
}

func normalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func movementFor(status enum.InvoiceStatus) enum.MovementReason {
	if status == enum.InvoiceStatusReturned {
		return enum.MovementInvoiceReturned
	}
	return enum.MovementInvoiceVoided
}

func eventFor(status enum.InvoiceStatus) string {
	if status == enum.InvoiceStatusReturned {
		return metrics.EventReturned
	}
	return metrics.EventVoided
}
