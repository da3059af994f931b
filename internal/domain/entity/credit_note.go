package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditNote facture d'avoir sobre una factura certificada.
// Las líneas se guardan como JSONB y referencian las líneas del pedido original.
type CreditNote struct {
	ID        string
	Code      string // AV-<código de factura>[-N]
	InvoiceID string
	Date      time.Time
	Lines     []CreditNoteLine
	TotalHT   decimal.Decimal
	TotalTVA  decimal.Decimal
	TotalTTC  decimal.Decimal
	FNE       Certification
	CreatedAt time.Time
}

// CreditNoteLine línea devuelta.
type CreditNoteLine struct {
	OrderItemID string          `json:"order_item_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// CreditNoteSummary fila de listado.
type CreditNoteSummary struct {
	CreditNote
	InvoiceCode string
	ClientName  string
}
