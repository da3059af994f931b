package fne

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturation-ci/internal/domain/certification"
)

// ── Entrada ──────────────────────────────────────────────────────────────────

// Issuer identidad de la empresa emisora y credenciales FNE.
type Issuer struct {
	Name          string
	NCC           string
	Phone         string
	Email         string
	Address       string
	PointOfSale   string
	Establishment string
	APIKey        string
}

// Party cliente de una factura de venta.
type Party struct {
	Name    string
	NCC     string
	Phone   string
	Email   string
	Address string
}

// Operator usuario que emite el documento.
type Operator struct {
	ID   string
	Name string
}

// Item línea a certificar. LocalID es el id de la línea de pedido; no se envía.
type Item struct {
	LocalID     string
	Reference   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
}

// CertifyRequest documento de venta (sale) o bordereau d'achat (purchase).
// Client solo se usa en ventas. PaymentMethod y Template vacíos toman el valor de configuración.
type CertifyRequest struct {
	DocumentType  string
	Issuer        Issuer
	Client        *Party
	Operator      Operator
	Items         []Item
	PaymentMethod string
	Template      string
}

// RefundRequest avoir sobre una factura ya certificada.
type RefundRequest struct {
	APIKey             string
	OriginalExternalID string
	Items              []certification.RefundItem
}

// ── Salida ───────────────────────────────────────────────────────────────────

// CertifyResult NIM, token QR, id externo del documento y pares (externo, local) por línea.
// Items está vacío si la FNE devolvió un número de líneas distinto al enviado.
type CertifyResult struct {
	NIM        string
	QRCode     string
	ExternalID string
	Items      []certification.ItemLink
}

// RefundResult resultado de un avoir certificado (sin reconciliación de líneas).
type RefundResult struct {
	NIM        string
	QRCode     string
	ExternalID string
}

// ── Payload JSON ─────────────────────────────────────────────────────────────

type signPayload struct {
	InvoiceType       string        `json:"invoiceType"`
	PaymentMethod     string        `json:"paymentMethod"`
	Template          string        `json:"template"`
	IsRne             bool          `json:"isRne"`
	ClientNcc         string        `json:"clientNcc,omitempty"`
	ClientCompanyName string        `json:"clientCompanyName"`
	ClientPhone       string        `json:"clientPhone,omitempty"`
	ClientEmail       string        `json:"clientEmail,omitempty"`
	ClientAddress     string        `json:"clientAddress,omitempty"`
	PointOfSale       string        `json:"pointOfSale,omitempty"`
	Establishment     string        `json:"establishment,omitempty"`
	Operator          *operatorJSON `json:"operator,omitempty"`
	Items             []itemJSON    `json:"items"`
}

type operatorJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type itemJSON struct {
	Taxes       []string `json:"taxes"`
	Reference   string   `json:"reference,omitempty"`
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unitPrice"`
	Amount      float64  `json:"amount"`
}

type refundPayload struct {
	Items []refundItemJSON `json:"items"`
}

type refundItemJSON struct {
	ID       string  `json:"id"`
	Quantity float64 `json:"quantity"`
}

// ── Respuesta JSON ───────────────────────────────────────────────────────────

// signResponse acepta las dos formas observadas: plana
// {reference, token, invoice} o envuelta {status: "success", data: {...}}.
type signResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    *signData `json:"data"`
	signData
}

type signData struct {
	Reference string       `json:"reference"`
	NIM       string       `json:"nim"`
	Token     string       `json:"token"`
	QRCode    string       `json:"qr_code"`
	ID        flexID       `json:"id"`
	Invoice   *invoiceJSON `json:"invoice"`
}

type invoiceJSON struct {
	ID    flexID `json:"id"`
	Items []struct {
		ID flexID `json:"id"`
	} `json:"items"`
}

func (d *signData) nim() string {
	if d.Reference != "" {
		return d.Reference
	}
	return d.NIM
}

func (d *signData) qr() string {
	if d.Token != "" {
		return d.Token
	}
	return d.QRCode
}

func (d *signData) externalID() string {
	if d.Invoice != nil && d.Invoice.ID != "" {
		return string(d.Invoice.ID)
	}
	return string(d.ID)
}

func (d *signData) hasMarkers() bool {
	return d.nim() != "" || d.qr() != ""
}

// flexID id que la FNE puede devolver como string o como número.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
