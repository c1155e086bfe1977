package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	RUC       string `json:"ruc,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Receipt is a printable view of an invoice, composed at print time and never stored.
type Receipt struct {
	Header        ReceiptHeader   `json:"header"`
	InvoiceNumber uint            `json:"invoice_number"`
	Date          string          `json:"date"`
	Cashier       string          `json:"cashier,omitempty"`
	Client        string          `json:"client"`
	ClientID      string          `json:"client_id,omitempty"`
	InvoiceType   string          `json:"invoice_type"`
	Status        string          `json:"status"`
	Items         []ReceiptItem   `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
}
