package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment cobro registrado sobre una factura.
type Payment struct {
	ID        string
	InvoiceID string
	Date      time.Time
	Amount    decimal.Decimal
	Method    string // ver fne.ValidPaymentMethods
	CreatedAt time.Time
}
