package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// InvoiceType tells whether the buyer is identified on the invoice
type InvoiceType string

const (
	// InvoiceTypeFullData requires an identified client
	InvoiceTypeFullData InvoiceType = "FULL_DATA"
	// InvoiceTypeFinalConsumer is an anonymous sale
	InvoiceTypeFinalConsumer InvoiceType = "FINAL_CONSUMER"
)

// ParseInvoiceType accepts any casing of a known type
func ParseInvoiceType(s string) (InvoiceType, error) {
	t := InvoiceType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown invoice type %q", s)
	}
	return t, nil
}

func (t InvoiceType) String() string {
	return string(t)
}

// IsValid reports whether t is one of the known types
func (t InvoiceType) IsValid() bool {
	return t == InvoiceTypeFullData || t == InvoiceTypeFinalConsumer
}

// RequiresClient reports whether an invoice of this type must reference a client
func (t InvoiceType) RequiresClient() bool {
	return t == InvoiceTypeFullData
}

func (t InvoiceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *InvoiceType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseInvoiceType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t InvoiceType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *InvoiceType) Scan(value interface{}) error {
	if value == nil {
		*t = InvoiceTypeFullData
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = InvoiceType(v)
	case []byte:
		*t = InvoiceType(string(v))
	}
	return nil
}
