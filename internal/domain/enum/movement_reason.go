package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// MovementReason explains why a product's stock changed
type MovementReason string

const (
	MovementInvoiceCreated        MovementReason = "INVOICE_CREATED"
	MovementInvoiceEdited         MovementReason = "INVOICE_EDITED"
	MovementInvoiceProductChanged MovementReason = "INVOICE_PRODUCT_CHANGED"
	MovementInvoiceVoided         MovementReason = "INVOICE_VOIDED"
	MovementInvoiceReturned       MovementReason = "INVOICE_RETURNED"
	MovementManualDecrement       MovementReason = "MANUAL_DECREMENT"
	MovementRestock               MovementReason = "RESTOCK"
)

func (r MovementReason) String() string {
	return string(r)
}

func (r MovementReason) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

func (r MovementReason) Value() (driver.Value, error) {
	return string(r), nil
}

func (r *MovementReason) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*r = MovementReason(v)
	case []byte:
		*r = MovementReason(string(v))
	}
	return nil
}
