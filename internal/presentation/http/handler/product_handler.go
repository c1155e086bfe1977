package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tienda-api/internal/application/service"
	"github.com/sangkips/tienda-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tienda-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tienda-api/pkg/pagination"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.productService.ListProducts(c.Request.Context(), &service.ListProductsInput{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
		Category:   filter.Category,
		LowStock:   filter.LowStock,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Products retrieved successfully", result)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		Code:           req.Code,
		Name:           req.Name,
		Brand:          req.Brand,
		Category:       req.Category,
		Price:          req.Price,
		Stock:          req.Stock,
		ManufacturedOn: req.ManufacturedOn.Time,
		ExpiresOn:      req.ExpiresOn.Time,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles getting a single product
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles updating a product
func (h *ProductHandler) Update(c *gin.Context) {
	var req request.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("code"), &service.UpdateProductInput{
		Name:           req.Name,
		Brand:          req.Brand,
		Category:       req.Category,
		Price:          req.Price,
		ManufacturedOn: req.ManufacturedOn.TimePtr(),
		ExpiresOn:      req.ExpiresOn.TimePtr(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles deleting a product no invoice references
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Decrement removes units from stock outside the invoice flow
func (h *ProductHandler) Decrement(c *gin.Context) {
	var req request.DecrementStockRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.DecrementStock(c.Request.Context(), c.Param("code"), req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock decremented successfully", product)
}

// Restock adds units to every listed product. Rejected items never fail the request.
func (h *ProductHandler) Restock(c *gin.Context) {
	var req request.RestockRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.productService.RestockProducts(c.Request.Context(), req.Codes, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result.Message, result)
}

// Movements returns the stock audit trail of a product
func (h *ProductHandler) Movements(c *gin.Context) {
	result, err := h.productService.ListMovements(c.Request.Context(), c.Param("code"), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Stock movements retrieved successfully", result)
}

// LowStock handles getting low stock products
func (h *ProductHandler) LowStock(c *gin.Context) {
	products, err := h.productService.LowStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", products)
}
