package request

// CreateInvoiceRequest represents an invoice creation request
type CreateInvoiceRequest struct {
	ProductCode string  `json:"product_code" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	EmployeeID  string  `json:"employee_id" binding:"required"`
	ClientID    *string `json:"client_id"`
	Type        string  `json:"type" binding:"omitempty,oneof=FULL_DATA FINAL_CONSUMER"`
}

// UpdateInvoiceRequest represents an invoice update request. Absent fields stay unchanged.
type UpdateInvoiceRequest struct {
	ProductCode *string `json:"product_code"`
	Quantity    *int    `json:"quantity" binding:"omitempty,min=1"`
	Status      *string `json:"status" binding:"omitempty,oneof=ACTIVE VOIDED RETURNED"`
	ClientID    *string `json:"client_id"`
	EmployeeID  *string `json:"employee_id"`
	Type        *string `json:"type" binding:"omitempty,oneof=FULL_DATA FINAL_CONSUMER"`
}

// BatchInvoiceRequest lists the invoices a batch void or return applies to
type BatchInvoiceRequest struct {
	Numbers []uint `json:"numbers" binding:"required,min=1"`
}

// InvoiceFilterRequest represents invoice filter parameters
type InvoiceFilterRequest struct {
	Status      string `form:"status"`
	Type        string `form:"type"`
	ProductCode string `form:"product_code"`
	ClientID    string `form:"client_id"`
	EmployeeID  string `form:"employee_id"`
	From        string `form:"from"`
	To          string `form:"to"`
	Search      string `form:"search"`
	SortOrder   string `form:"sort_order"`
	Page        int    `form:"page"`
	PerPage     int    `form:"per_page"`
}
