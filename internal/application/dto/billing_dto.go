package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRequest body de POST y PUT /api/orders. En PUT las líneas reemplazan a las existentes.
type OrderRequest struct {
	ClientID string             `json:"client_id" validate:"required"`
	Items    []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemRequest línea de pedido. Description, UnitPrice y TaxRate vacíos
// toman los valores del producto.
type OrderItemRequest struct {
	ProductID   string           `json:"product_id" validate:"required"`
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
}

// OrderStatusRequest body de PATCH /api/orders/:id/status.
type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=completed cancelled"`
}

// OrderListRequest filtros de GET /api/orders.
type OrderListRequest struct {
	PageRequest
	Today  bool   `query:"today"`
	Status string `query:"status" validate:"omitempty,oneof=in_progress completed cancelled"`
}

// TaxLineResponse TVA agrupada por tasa.
type TaxLineResponse struct {
	Rate   decimal.Decimal `json:"rate"`
	Base   decimal.Decimal `json:"base"`
	Amount decimal.Decimal `json:"amount"`
}

// TotalsResponse totales de un documento.
type TotalsResponse struct {
	TotalHT       decimal.Decimal   `json:"total_ht"`
	Taxes         []TaxLineResponse `json:"taxes"`
	TotalTVA      decimal.Decimal   `json:"total_tva"`
	TotalTTC      decimal.Decimal   `json:"total_ttc"`
	AmountInWords string            `json:"amount_in_words,omitempty"`
}

// OrderItemResponse línea de pedido en respuestas.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TotalHT     decimal.Decimal `json:"total_ht"`
	FNEItemID   string          `json:"fne_item_id,omitempty"`
}

// OrderResponse pedido con líneas.
type OrderResponse struct {
	ID         string              `json:"id"`
	Code       string              `json:"code"`
	ClientID   string              `json:"client_id"`
	ClientName string              `json:"client_name,omitempty"`
	UserID     string              `json:"user_id"`
	Date       time.Time           `json:"date"`
	Status     string              `json:"status"`
	Invoiced   bool                `json:"invoiced"`
	Totals     TotalsResponse      `json:"totals"`
	Items      []OrderItemResponse `json:"items,omitempty"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// CreateInvoiceRequest body de POST /api/invoices.
type CreateInvoiceRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

// CertificationResponse estado FNE de un documento.
type CertificationResponse struct {
	Status       string     `json:"status"`
	NIM          string     `json:"nim,omitempty"`
	QRCode       string     `json:"qr_code,omitempty"`
	ExternalID   string     `json:"external_id,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CertifiedAt  *time.Time `json:"certified_at,omitempty"`
}

// InvoiceResponse factura con su pedido.
type InvoiceResponse struct {
	ID           string                `json:"id"`
	Code         string                `json:"code"`
	Date         time.Time             `json:"date"`
	OrderID      string                `json:"order_id"`
	OrderCode    string                `json:"order_code,omitempty"`
	ClientID     string                `json:"client_id,omitempty"`
	ClientName   string                `json:"client_name,omitempty"`
	FNE          CertificationResponse `json:"fne"`
	Totals       *TotalsResponse       `json:"totals,omitempty"`
	TotalTTC     decimal.Decimal       `json:"total_ttc"`
	Items        []OrderItemResponse   `json:"items,omitempty"`
	DeliveryNote *DeliveryNoteResponse `json:"delivery_note,omitempty"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// DeliveryNoteResponse bon de livraison.
type DeliveryNoteResponse struct {
	ID        string                `json:"id"`
	Code      string                `json:"code"`
	InvoiceID string                `json:"invoice_id"`
	Date      time.Time             `json:"date"`
	FNE       CertificationResponse `json:"fne"`
}

// CreateCreditNoteRequest body de POST /api/credit-notes.
type CreateCreditNoteRequest struct {
	InvoiceID string                  `json:"invoice_id" validate:"required"`
	Lines     []CreditNoteLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreditNoteLineRequest cantidad devuelta de una línea del pedido.
type CreditNoteLineRequest struct {
	OrderItemID string          `json:"order_item_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// CreditNoteLineResponse línea del avoir.
type CreditNoteLineResponse struct {
	OrderItemID string          `json:"order_item_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// CreditNoteResponse facture d'avoir.
type CreditNoteResponse struct {
	ID          string                   `json:"id"`
	Code        string                   `json:"code"`
	InvoiceID   string                   `json:"invoice_id"`
	InvoiceCode string                   `json:"invoice_code,omitempty"`
	ClientName  string                   `json:"client_name,omitempty"`
	Date        time.Time                `json:"date"`
	Lines       []CreditNoteLineResponse `json:"lines,omitempty"`
	Totals      TotalsResponse           `json:"totals"`
	FNE         CertificationResponse    `json:"fne"`
}

// CreditNoteListRequest filtros de GET /api/credit-notes.
type CreditNoteListRequest struct {
	PageRequest
	InvoiceID string `query:"invoice_id"`
}

// CreditNoteListResponse lista paginada de avoirs.
type CreditNoteListResponse struct {
	Items []CreditNoteResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// CertificationActionResponse estado de la acción de certificación en segundo plano.
// State: idle, in_flight o done. Error solo si la última ejecución falló.
type CertificationActionResponse struct {
	DocumentType string                 `json:"document_type"`
	DocumentID   string                 `json:"document_id"`
	State        string                 `json:"state"`
	StartedAt    *time.Time             `json:"started_at,omitempty"`
	FinishedAt   *time.Time             `json:"finished_at,omitempty"`
	Result       *CertificationResponse `json:"result,omitempty"`
	Error        *ErrorResponse         `json:"error,omitempty"`
}
