package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturation-ci/internal/domain/document"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
	"github.com/jhoicas/facturation-ci/internal/domain/repository"
	"github.com/jhoicas/facturation-ci/internal/infrastructure/fne"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Orders        repository.OrderRepository
	Invoices      repository.InvoiceRepository
	DeliveryNotes repository.DeliveryNoteRepository
	CreditNotes   repository.CreditNoteRepository
}

// TxRunner ejecuta fn dentro de una transacción; si fn devuelve error se hace rollback.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(Repos) error) error
}

// Certifier puerto de salida hacia la FNE (implementado por fne.Client).
type Certifier interface {
	Certify(ctx context.Context, req fne.CertifyRequest) (*fne.CertifyResult, error)
	Refund(ctx context.Context, req fne.RefundRequest) (*fne.RefundResult, error)
}

// Títulos de los documentos impresos.
const (
	TitleInvoice      = "FACTURE"
	TitleDeliveryNote = "BON DE LIVRAISON"
	TitleCreditNote   = "FACTURE D'AVOIR"
)

// PDFLine línea impresa.
type PDFLine struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
}

// PDFDocument contexto completo de la representación gráfica.
type PDFDocument struct {
	Title         string
	Code          string
	Date          time.Time
	Reference     string // ej. factura de origen de un avoir
	Company       entity.Company
	Client        *entity.Client
	Lines         []PDFLine
	Totals        document.Totals
	Currency      string
	AmountInWords string
	FNE           entity.Certification
}

// PDFGenerator genera el PDF a partir del contexto del documento.
type PDFGenerator interface {
	Generate(ctx context.Context, doc *PDFDocument) ([]byte, error)
}
