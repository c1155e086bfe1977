package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/tienda-api/internal/domain/entity"
	"github.com/sangkips/tienda-api/internal/domain/repository"
	"github.com/sangkips/tienda-api/pkg/apperror"
	"github.com/sangkips/tienda-api/pkg/pagination"
	"github.com/sangkips/tienda-api/pkg/validation"
)

// PersonInput carries the identity fields of a client or employee
type PersonInput struct {
	IDNumber  string
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Address   string
	BirthDate time.Time
}

// UpdatePersonInput carries the editable fields of a client or employee. The ID is immutable.
type UpdatePersonInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Email     *string
	Address   *string
	BirthDate *time.Time
}

func newPerson(input *PersonInput) entity.Person {
	return entity.Person{
		IDNumber:  strings.TrimSpace(input.IDNumber),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Address:   strings.TrimSpace(input.Address),
		BirthDate: input.BirthDate,
	}
}

func (input *UpdatePersonInput) apply(p *entity.Person) {
	if input.FirstName != nil {
		p.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		p.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		p.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Address != nil {
		p.Address = strings.TrimSpace(*input.Address)
	}
	if input.BirthDate != nil {
		p.BirthDate = *input.BirthDate
	}
}

func validatePerson(p *entity.Person, now time.Time) error {
	var errs validation.Errors
	errs.Check("id_number", validation.IDNumber(p.IDNumber))
	errs.Check("first_name", validation.Letters(p.FirstName))
	if p.LastName == "" {
		errs.Add("last_name", "is required")
	}
	errs.Check("phone", validation.Phone(p.Phone))
	errs.Check("email", validation.Email(p.Email))
	if p.BirthDate.IsZero() {
		errs.Add("birth_date", "is required")
	} else {
		errs.Check("birth_date", validation.Adult(p.BirthDate, now))
	}
	return errs.Err()
}

// emailTaken reports whether email belongs to a record other than ownID
func emailTaken[T any](ctx context.Context, lookup func(context.Context, string) (*T, error), email string, ownID func(*T) string, id string) error {
	existing, err := lookup(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && ownID(existing) != id {
		return apperror.NewConflictError("Email already exists")
	}
	return nil
}

func pageOf[T any](items []T, params *pagination.PaginationParams, total int64) *pagination.PaginatedResult[T] {
	return pagination.NewPaginatedResult(items, pagination.NewPagination(params.Page, params.PerPage, total))
}

func defaultPage(params *pagination.PaginationParams) *pagination.PaginationParams {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()
	return params
}

// ClientService handles client-related operations
type ClientService struct {
	tx       repository.Transactor
	clients  repository.ClientRepository
	invoices repository.InvoiceRepository
	now      func() time.Time
}

// NewClientService creates a new client service
func NewClientService(tx repository.Transactor, clients repository.ClientRepository, invoices repository.InvoiceRepository) *ClientService {
	return &ClientService{tx: tx, clients: clients, invoices: invoices, now: time.Now}
}

// CreateClient creates a new client
func (s *ClientService) CreateClient(ctx context.Context, input *PersonInput) (*entity.Client, error) {
	client := &entity.Client{Person: newPerson(input)}
	if err := validatePerson(&client.Person, s.now()); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.clients.GetByID(ctx, client.IDNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.NewConflictError("Client ID number already exists")
		}
		if err := emailTaken(ctx, s.clients.GetByEmail, client.Email, clientID, ""); err != nil {
			return err
		}
		return s.clients.Create(ctx, client)
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient returns a client by ID number
func (s *ClientService) GetClient(ctx context.Context, idNumber string) (*entity.Client, error) {
	client, err := s.clients.GetByID(ctx, idNumber)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}
	return client, nil
}

// ListClients returns a page of clients matching search
func (s *ClientService) ListClients(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Client], error) {
	params = defaultPage(params)
	clients, total, err := s.clients.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pageOf(clients, params, total), nil
}

// UpdateClient updates a client
func (s *ClientService) UpdateClient(ctx context.Context, idNumber string, input *UpdatePersonInput) (*entity.Client, error) {
	var client *entity.Client
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if client, err = s.GetClient(ctx, idNumber); err != nil {
			return err
		}
		input.apply(&client.Person)
		if err := validatePerson(&client.Person, s.now()); err != nil {
			return err
		}
		if err := emailTaken(ctx, s.clients.GetByEmail, client.Email, clientID, client.IDNumber); err != nil {
			return err
		}
		return s.clients.Update(ctx, client)
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient removes a client that no invoice references
func (s *ClientService) DeleteClient(ctx context.Context, idNumber string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.GetClient(ctx, idNumber); err != nil {
			return err
		}
		n, err := s.invoices.CountByClient(ctx, idNumber)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.NewConflictError(fmt.Sprintf("Client is referenced by %d invoice(s)", n))
		}
		return s.clients.Delete(ctx, idNumber)
	})
}

func clientID(c *entity.Client) string { return c.IDNumber }

// EmployeeService handles employee-related operations
type EmployeeService struct {
	tx        repository.Transactor
	employees repository.EmployeeRepository
	invoices  repository.InvoiceRepository
	now       func() time.Time
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(tx repository.Transactor, employees repository.EmployeeRepository, invoices repository.InvoiceRepository) *EmployeeService {
	return &EmployeeService{tx: tx, employees: employees, invoices: invoices, now: time.Now}
}

// CreateEmployee creates a new employee
func (s *EmployeeService) CreateEmployee(ctx context.Context, input *PersonInput) (*entity.Employee, error) {
	employee := &entity.Employee{Person: newPerson(input)}
	if err := validatePerson(&employee.Person, s.now()); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.employees.GetByID(ctx, employee.IDNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.NewConflictError("Employee ID number already exists")
		}
		if err := emailTaken(ctx, s.employees.GetByEmail, employee.Email, employeeID, ""); err != nil {
			return err
		}
		return s.employees.Create(ctx, employee)
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

// GetEmployee returns an employee by ID number
func (s *EmployeeService) GetEmployee(ctx context.Context, idNumber string) (*entity.Employee, error) {
	employee, err := s.employees.GetByID(ctx, idNumber)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}
	return employee, nil
}

// ListEmployees returns a page of employees matching search
func (s *EmployeeService) ListEmployees(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Employee], error) {
	params = defaultPage(params)
	employees, total, err := s.employees.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pageOf(employees, params, total), nil
}

// UpdateEmployee updates an employee
func (s *EmployeeService) UpdateEmployee(ctx context.Context, idNumber string, input *UpdatePersonInput) (*entity.Employee, error) {
	var employee *entity.Employee
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if employee, err = s.GetEmployee(ctx, idNumber); err != nil {
			return err
		}
		input.apply(&employee.Person)
		if err := validatePerson(&employee.Person, s.now()); err != nil {
			return err
		}
		if err := emailTaken(ctx, s.employees.GetByEmail, employee.Email, employeeID, employee.IDNumber); err != nil {
			return err
		}
		return s.employees.Update(ctx, employee)
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

// DeleteEmployee removes an employee that no invoice references
func (s *EmployeeService) DeleteEmployee(ctx context.Context, idNumber string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.GetEmployee(ctx, idNumber); err != nil {
			return err
		}
		n, err := s.invoices.CountByEmployee(ctx, idNumber)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.NewConflictError(fmt.Sprintf("Employee is referenced by %d invoice(s)", n))
		}
		return s.employees.Delete(ctx, idNumber)
	})
}

func employeeID(e *entity.Employee) string { return e.IDNumber }

// CompanyInput represents the company input
type CompanyInput struct {
	RUC           string
	Name          string
	Address       string
	Phone         string
	Email         string
	ActivityStart *time.Time
}

// UpdateCompanyInput carries the editable company fields. The RUC is immutable.
type UpdateCompanyInput struct {
	Name          *string
	Address       *string
	Phone         *string
	Email         *string
	ActivityStart *time.Time
}

// CompanyService handles company-related operations
type CompanyService struct {
	tx        repository.Transactor
	companies repository.CompanyRepository
	suppliers repository.SupplierRepository
	now       func() time.Time
}

// NewCompanyService creates a new company service
func NewCompanyService(tx repository.Transactor, companies repository.CompanyRepository, suppliers repository.SupplierRepository) *CompanyService {
	return &CompanyService{tx: tx, companies: companies, suppliers: suppliers, now: time.Now}
}

// validateCompany checks the fields; the activity start may not be later than the
// day the record was created.
func validateCompany(c *entity.Company, createdAt time.Time) error {
	var errs validation.Errors
	errs.Check("ruc", validation.RUC(c.RUC))
	errs.Check("name", validation.Letters(c.Name))
	errs.Check("phone", validation.Phone(c.Phone))
	errs.Check("email", validation.Email(c.Email))
	if c.ActivityStart != nil {
		errs.Check("activity_start", validation.NotFuture(*c.ActivityStart, createdAt))
	}
	return errs.Err()
}

// CreateCompany creates a new company
func (s *CompanyService) CreateCompany(ctx context.Context, input *CompanyInput) (*entity.Company, error) {
	company := &entity.Company{
		RUC:           strings.TrimSpace(input.RUC),
		Name:          strings.TrimSpace(input.Name),
		Address:       strings.TrimSpace(input.Address),
		Phone:         strings.TrimSpace(input.Phone),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		ActivityStart: input.ActivityStart,
	}
	if err := validateCompany(company, s.now()); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.companies.GetByID(ctx, company.RUC)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.NewConflictError("Company RUC already exists")
		}
		if err := emailTaken(ctx, s.companies.GetByEmail, company.Email, companyID, ""); err != nil {
			return err
		}
		return s.companies.Create(ctx, company)
	})
	if err != nil {
		return nil, err
	}
	return company, nil
}

// GetCompany returns a company by RUC
func (s *CompanyService) GetCompany(ctx context.Context, ruc string) (*entity.Company, error) {
	company, err := s.companies.GetByID(ctx, ruc)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, apperror.NewNotFoundError("Company")
	}
	return company, nil
}

// ListCompanies returns a page of companies matching search
func (s *CompanyService) ListCompanies(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Company], error) {
	params = defaultPage(params)
	companies, total, err := s.companies.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pageOf(companies, params, total), nil
}

// UpdateCompany updates a company
func (s *CompanyService) UpdateCompany(ctx context.Context, ruc string, input *UpdateCompanyInput) (*entity.Company, error) {
	var company *entity.Company
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if company, err = s.GetCompany(ctx, ruc); err != nil {
			return err
		}
		if input.Name != nil {
			company.Name = strings.TrimSpace(*input.Name)
		}
		if input.Address != nil {
			company.Address = strings.TrimSpace(*input.Address)
		}
		if input.Phone != nil {
			company.Phone = strings.TrimSpace(*input.Phone)
		}
		if input.Email != nil {
			company.Email = strings.ToLower(strings.TrimSpace(*input.Email))
		}
		if input.ActivityStart != nil {
			company.ActivityStart = input.ActivityStart
		}
		if err := validateCompany(company, company.CreatedAt); err != nil {
			return err
		}
		if err := emailTaken(ctx, s.companies.GetByEmail, company.Email, companyID, company.RUC); err != nil {
			return err
		}
		return s.companies.Update(ctx, company)
	})
	if err != nil {
		return nil, err
	}
	return company, nil
}

// DeleteCompany removes a company that no supplier references
func (s *CompanyService) DeleteCompany(ctx context.Context, ruc string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.GetCompany(ctx, ruc); err != nil {
			return err
		}
		n, err := s.suppliers.CountByCompany(ctx, ruc)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.NewConflictError(fmt.Sprintf("Company is referenced by %d supplier(s)", n))
		}
		return s.companies.Delete(ctx, ruc)
	})
}

func companyID(c *entity.Company) string { return c.RUC }

// SupplierInput represents the supplier input
type SupplierInput struct {
	IDNumber   string
	FirstName  string
	LastName   string
	Phone      string
	Email      string
	CompanyRUC string
}

// UpdateSupplierInput carries the editable supplier fields. The ID is immutable.
type UpdateSupplierInput struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	Email      *string
	CompanyRUC *string
}

// SupplierService handles supplier-related operations
type SupplierService struct {
	tx        repository.Transactor
	suppliers repository.SupplierRepository
	companies repository.CompanyRepository
}

// NewSupplierService creates a new supplier service
func NewSupplierService(tx repository.Transactor, suppliers repository.SupplierRepository, companies repository.CompanyRepository) *SupplierService {
	return &SupplierService{tx: tx, suppliers: suppliers, companies: companies}
}

func (s *SupplierService) validate(ctx context.Context, sup *entity.Supplier) error {
	var errs validation.Errors
	errs.Check("id_number", validation.IDNumber(sup.IDNumber))
	errs.Check("first_name", validation.Letters(sup.FirstName))
	if sup.LastName == "" {
		errs.Add("last_name", "is required")
	}
	errs.Check("phone", validation.Phone(sup.Phone))
	errs.Check("email", validation.Email(sup.Email))
	if sup.CompanyRUC == "" {
		errs.Add("company_ruc", "is required")
	} else {
		company, err := s.companies.GetByID(ctx, sup.CompanyRUC)
		if err != nil {
			return err
		}
		if company == nil {
			errs.Add("company_ruc", "company not found")
		}
	}
	return errs.Err()
}

// CreateSupplier creates a new supplier
func (s *SupplierService) CreateSupplier(ctx context.Context, input *SupplierInput) (*entity.Supplier, error) {
	supplier := &entity.Supplier{
		IDNumber:   strings.TrimSpace(input.IDNumber),
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		Phone:      strings.TrimSpace(input.Phone),
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		CompanyRUC: strings.TrimSpace(input.CompanyRUC),
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, supplier); err != nil {
			return err
		}
		existing, err := s.suppliers.GetByID(ctx, supplier.IDNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.NewConflictError("Supplier ID number already exists")
		}
		if err := emailTaken(ctx, s.suppliers.GetByEmail, supplier.Email, supplierID, ""); err != nil {
			return err
		}
		return s.suppliers.Create(ctx, supplier)
	})
	if err != nil {
		return nil, err
	}
	return s.GetSupplier(ctx, supplier.IDNumber)
}

// GetSupplier returns a supplier with its company
func (s *SupplierService) GetSupplier(ctx context.Context, idNumber string) (*entity.Supplier, error) {
	supplier, err := s.suppliers.GetByID(ctx, idNumber)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}
	return supplier, nil
}

// ListSuppliers returns a page of suppliers matching search
func (s *SupplierService) ListSuppliers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Supplier], error) {
	params = defaultPage(params)
	suppliers, total, err := s.suppliers.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pageOf(suppliers, params, total), nil
}

// UpdateSupplier updates a supplier
func (s *SupplierService) UpdateSupplier(ctx context.Context, idNumber string, input *UpdateSupplierInput) (*entity.Supplier, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		supplier, err := s.GetSupplier(ctx, idNumber)
		if err != nil {
			return err
		}
		if input.FirstName != nil {
			supplier.FirstName = strings.TrimSpace(*input.FirstName)
		}
		if input.LastName != nil {
			supplier.LastName = strings.TrimSpace(*input.LastName)
		}
		if input.Phone != nil {
			supplier.Phone = strings.TrimSpace(*input.Phone)
		}
		if input.Email != nil {
			supplier.Email = strings.ToLower(strings.TrimSpace(*input.Email))
		}
		if input.CompanyRUC != nil {
			supplier.CompanyRUC = strings.TrimSpace(*input.CompanyRUC)
			supplier.Company = nil
		}
		if err := s.validate(ctx, supplier); err != nil {
			return err
		}
		if err := emailTaken(ctx, s.suppliers.GetByEmail, supplier.Email, supplierID, supplier.IDNumber); err != nil {
			return err
		}
		return s.suppliers.Update(ctx, supplier)
	})
	if err != nil {
		return nil, err
	}
	return s.GetSupplier(ctx, idNumber)
}

// DeleteSupplier removes a supplier
func (s *SupplierService) DeleteSupplier(ctx context.Context, idNumber string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.GetSupplier(ctx, idNumber); err != nil {
			return err
		}
		return s.suppliers.Delete(ctx, idNumber)
	})
}

func supplierID(s *entity.Supplier) string { return s.IDNumber }
