package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice factura emitida a partir de un pedido terminado (1:1).
type Invoice struct {
	ID        string
	Code      string // F-<código de pedido>
	OrderID   string
	Date      time.Time
	FNE       Certification
	CreatedAt time.Time
}

// InvoiceSummary fila de listado con datos del pedido y del cliente.
type InvoiceSummary struct {
	Invoice
	OrderCode  string
	ClientID   string
	ClientName string
	TotalTTC   decimal.Decimal
}

// DeliveryNote bon de livraison, creado junto con la factura (1:1).
type DeliveryNote struct {
	ID        string
	Code      string // BL-<código de pedido>
	InvoiceID string
	Date      time.Time
	FNE       Certification
	CreatedAt time.Time
}
