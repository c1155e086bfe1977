package entity

import (
	"time"

	"github.com/sangkips/tienda-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item and its on-hand stock
type Product struct {
	Code           string          `gorm:"primaryKey;size:10" json:"code"`
	Name           string          `gorm:"size:50;not null" json:"name"`
	Brand          string          `gorm:"size:50;uniqueIndex;not null" json:"brand"`
	Category       string          `gorm:"size:100;index" json:"category"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock          int             `gorm:"not null;check:chk_products_stock,stock >= 0" json:"stock"`
	ManufacturedOn time.Time       `gorm:"type:date;not null" json:"manufactured_on"`
	ExpiresOn      time.Time       `gorm:"type:date;not null" json:"expires_on"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// CanCover reports whether the product holds at least quantity units
func (p *Product) CanCover(quantity int) bool {
	return quantity <= p.Stock
}

// IsLowStock reports whether stock is at or below threshold
func (p *Product) IsLowStock(threshold int) bool {
	return p.Stock <= threshold
}

// StockMovement is one append-only entry in a product's stock audit trail
type StockMovement struct {
	ID            uint64              `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductCode   string              `gorm:"size:10;not null;index" json:"product_code"`
	InvoiceNumber *uint               `gorm:"index" json:"invoice_number,omitempty"`
	Reason        enum.MovementReason `gorm:"size:40;not null" json:"reason"`
	Delta         int                 `gorm:"not null" json:"delta"`
	StockBefore   int                 `gorm:"not null" json:"stock_before"`
	StockAfter    int                 `gorm:"not null" json:"stock_after"`
	CreatedAt     time.Time           `gorm:"index" json:"created_at"`
}

// TableName returns the table name for the StockMovement model
func (StockMovement) TableName() string {
	return "stock_movements"
}
