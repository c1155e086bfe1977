package entity

import (
	"strings"
	"time"
)

// Person holds the identity fields shared by clients and employees
type Person struct {
	IDNumber  string    `gorm:"primaryKey;size:10" json:"id_number"`
	FirstName string    `gorm:"size:50;not null" json:"first_name"`
	LastName  string    `gorm:"size:50;not null" json:"last_name"`
	Phone     string    `gorm:"size:10;not null" json:"phone"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Address   string    `gorm:"type:text" json:"address"`
	BirthDate time.Time `gorm:"type:date;not null" json:"birth_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName joins first and last name
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Client represents a buyer who can appear on FULL_DATA invoices
type Client struct {
	Person
}

// TableName returns the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

// Employee represents the cashier responsible for an invoice
type Employee struct {
	Person
}

// TableName returns the table name for the Employee model
func (Employee) TableName() string {
	return "employees"
}

// Company is a registered business identified by its RUC
type Company struct {
	RUC           string     `gorm:"primaryKey;size:13" json:"ruc"`
	Name          string     `gorm:"size:50;not null" json:"name"`
	Address       string     `gorm:"type:text" json:"address"`
	Phone         string     `gorm:"size:10;not null" json:"phone"`
	Email         string     `gorm:"size:254;uniqueIndex;not null" json:"email"`
	ActivityStart *time.Time `gorm:"type:date" json:"activity_start,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName returns the table name for the Company model
func (Company) TableName() string {
	return "companies"
}

// Supplier is a contact person working for a company
type Supplier struct {
	IDNumber   string    `gorm:"primaryKey;size:10" json:"id_number"`
	FirstName  string    `gorm:"size:50;not null" json:"first_name"`
	LastName   string    `gorm:"size:50;not null" json:"last_name"`
	Phone      string    `gorm:"size:10;not null" json:"phone"`
	Email      string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	CompanyRUC string    `gorm:"size:13;not null;index" json:"company_ruc"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Company *Company `gorm:"foreignKey:CompanyRUC;references:RUC" json:"company,omitempty"`
}

// TableName returns the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}

// FullName joins first and last name
func (s Supplier) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
