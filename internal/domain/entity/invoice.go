package entity

import (
	"time"

	"github.com/sangkips/tienda-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Invoice is a single-line sale of one product to an optional client
type Invoice struct {
	Number      uint               `gorm:"primaryKey;autoIncrement" json:"number"`
	IssuedAt    time.Time          `gorm:"not null;index" json:"issued_at"`
	ClientID    *string            `gorm:"size:10;index" json:"client_id,omitempty"`
	EmployeeID  string             `gorm:"size:10;not null;index" json:"employee_id"`
	ProductCode string             `gorm:"size:10;not null;index" json:"product_code"`
	Quantity    int                `gorm:"not null" json:"quantity"`
	Subtotal    decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax         decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"tax"`
	Total       decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"total"`
	Type        enum.InvoiceType   `gorm:"size:20;not null" json:"type"`
	Status      enum.InvoiceStatus `gorm:"size:20;not null;index" json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	// Relationships
	Client   *Client   `gorm:"foreignKey:ClientID;references:IDNumber" json:"client,omitempty"`
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:IDNumber" json:"employee,omitempty"`
	Product  *Product  `gorm:"foreignKey:ProductCode;references:Code" json:"product,omitempty"`
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// IsActive reports whether the invoice can still be edited or transitioned
func (i *Invoice) IsActive() bool {
	return i.Status == enum.InvoiceStatusActive
}

// ClientName returns the buyer name for display, or the anonymous label
func (i *Invoice) ClientName() string {
	if i.Client == nil {
		return "Consumidor final"
	}
	return i.Client.FullName()
}
