package request

// PersonRequest creates a client or employee
type PersonRequest struct {
	IDNumber  string `json:"id_number" binding:"required"`
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Address   string `json:"address"`
	BirthDate Date   `json:"birth_date"`
}

// UpdatePersonRequest edits a client or employee
type UpdatePersonRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=50"`
	LastName  *string `json:"last_name" binding:"omitempty,max=50"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	BirthDate *Date   `json:"birth_date"`
}

// CompanyRequest creates a company
type CompanyRequest struct {
	RUC           string `json:"ruc" binding:"required"`
	Name          string `json:"name" binding:"required,max=50"`
	Address       string `json:"address"`
	Phone         string `json:"phone" binding:"required"`
	Email         string `json:"email" binding:"required"`
	ActivityStart *Date  `json:"activity_start"`
}

// UpdateCompanyRequest edits a company
type UpdateCompanyRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=50"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	ActivityStart *Date   `json:"activity_start"`
}

// SupplierRequest creates a supplier
type SupplierRequest struct {
	IDNumber   string `json:"id_number" binding:"required"`
	FirstName  string `json:"first_name" binding:"required,max=50"`
	LastName   string `json:"last_name" binding:"required,max=50"`
	Phone      string `json:"phone" binding:"required"`
	Email      string `json:"email" binding:"required"`
	CompanyRUC string `json:"company_ruc" binding:"required"`
}

// UpdateSupplierRequest edits a supplier
type UpdateSupplierRequest struct {
	FirstName  *string `json:"first_name" binding:"omitempty,max=50"`
	LastName   *string `json:"last_name" binding:"omitempty,max=50"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	CompanyRUC *string `json:"company_ruc"`
}
