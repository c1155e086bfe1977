package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Code           string          `json:"code" binding:"required,max=10"`
	Name           string          `json:"name" binding:"required,max=50"`
	Brand          string          `json:"brand" binding:"required,max=50"`
	Category       string          `json:"category" binding:"max=50"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock" binding:"min=0"`
	ManufacturedOn Date            `json:"manufactured_on"`
	ExpiresOn      Date            `json:"expires_on"`
}

// UpdateProductRequest represents a product update request. Stock is changed
// through invoices, decrements and restocks only.
type UpdateProductRequest struct {
	Name           *string          `json:"name" binding:"omitempty,max=50"`
	Brand          *string          `json:"brand" binding:"omitempty,max=50"`
	Category       *string          `json:"category" binding:"omitempty,max=50"`
	Price          *decimal.Decimal `json:"price"`
	ManufacturedOn *Date            `json:"manufactured_on"`
	ExpiresOn      *Date            `json:"expires_on"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	LowStock  bool   `form:"low_stock"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

// DecrementStockRequest removes units outside the invoice flow
type DecrementStockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// RestockRequest adds units to several products; a zero amount uses the default
type RestockRequest struct {
	Codes  []string `json:"codes" binding:"required,min=1,dive,required"`
	Amount int      `json:"amount" binding:"min=0"`
}
