package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest body de POST /api/invoices/:id/payments. Date vacía = hoy.
type PaymentRequest struct {
	Date   string          `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"payment_method" validate:"required,max=50"`
}

// PaymentResponse cobro en respuestas.
type PaymentResponse struct {
	ID        string          `json:"id"`
	InvoiceID string          `json:"invoice_id"`
	Date      string          `json:"payment_date"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"payment_method"`
	CreatedAt time.Time       `json:"created_at"`
}

// PaymentListResponse cobros de una factura con el saldo pendiente.
type PaymentListResponse struct {
	Items     []PaymentResponse `json:"items"`
	TotalTTC  decimal.Decimal   `json:"total_ttc"`
	TotalPaid decimal.Decimal   `json:"total_paid"`
	Balance   decimal.Decimal   `json:"balance"`
}
