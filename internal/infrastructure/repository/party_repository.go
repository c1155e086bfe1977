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

// recordRepository implements the CRUD shared by the party tables, which are
// keyed by a natural string identifier and unique on email.
type recordRepository[T any] struct {
	db            *gorm.DB
	key           string
	searchColumns []string
	preloads      []string
}

func (r *recordRepository[T]) Create(ctx context.Context, record *T) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(record).Error
}

func (r *recordRepository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	return r.first(ctx, r.key+" = ?", id)
}

func (r *recordRepository[T]) GetByEmail(ctx context.Context, email string) (*T, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *recordRepository[T]) first(ctx context.Context, where string, arg interface{}) (*T, error) {
	var record T
	query := conn(ctx, r.db)
	for _, p := range r.preloads {
		query = query.Preload(p)
	}
	err := query.Where(where, arg).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *recordRepository[T]) Update(ctx context.Context, record *T) error {
	return conn(ctx, r.db).Omit(clause.Associations).Save(record).Error
}

func (r *recordRepository[T]) Delete(ctx context.Context, id string) error {
	return conn(ctx, r.db).Where(r.key+" = ?", id).Delete(new(T)).Error
}

func (r *recordRepository[T]) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]T, int64, error) {
	var records []T
	var total int64

	query := conn(ctx, r.db).Model(new(T)).Scopes(SearchScope(search, r.searchColumns...))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	for _, p := range r.preloads {
		query = query.Preload(p)
	}
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&records).Error
	return records, total, err
}

var personSearchColumns = []string{"id_number", "first_name", "last_name", "email"}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) domainRepo.ClientRepository {
	return &recordRepository[entity.Client]{db: db, key: "id_number", searchColumns: personSearchColumns}
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) domainRepo.EmployeeRepository {
	return &recordRepository[entity.Employee]{db: db, key: "id_number", searchColumns: personSearchColumns}
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *gorm.DB) domainRepo.CompanyRepository {
	return &recordRepository[entity.Company]{db: db, key: "ruc", searchColumns: []string{"ruc", "name", "email"}}
}

type supplierRepository struct {
	*recordRepository[entity.Supplier]
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *gorm.DB) domainRepo.SupplierRepository {
	return &supplierRepository{&recordRepository[entity.Supplier]{
		db:            db,
		key:           "id_number",
		searchColumns: append(personSearchColumns, "company_ruc"),
		preloads:      []string{"Company"},
	}}
}

func (r *supplierRepository) CountByCompany(ctx context.Context, ruc string) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&entity.Supplier{}).Where("company_ruc = ?", ruc).Count(&n).Error
	return n, err
}
