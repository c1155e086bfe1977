package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusActive   InvoiceStatus = "ACTIVE"
	InvoiceStatusVoided   InvoiceStatus = "VOIDED"
	InvoiceStatusReturned InvoiceStatus = "RETURNED"
)

// ParseInvoiceStatus accepts any casing of a known status
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	status := InvoiceStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("unknown invoice status %q", s)
	}
	return status, nil
}

func (s InvoiceStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusActive, InvoiceStatusVoided, InvoiceStatusReturned:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is defined from s
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusVoided || s == InvoiceStatusReturned
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseInvoiceStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusActive
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = InvoiceStatus(v)
	case []byte:
		*s = InvoiceStatus(string(v))
	}
	return nil
}
