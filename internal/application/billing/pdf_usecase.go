package billing

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/facturation-ci/internal/application/task"
	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/domain/document"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
	"github.com/jhoicas/facturation-ci/internal/domain/repository"
	"github.com/jhoicas/facturation-ci/pkg/money"
)

// PDFUseCase genera la representación gráfica de facturas, bons de livraison y avoirs.
// Un documento no certificado sale con la mención PRO FORMA.
type PDFUseCase struct {
	company       repository.CompanyRepository
	clients       repository.ClientRepository
	orders        repository.OrderRepository
	invoices      repository.InvoiceRepository
	deliveryNotes repository.DeliveryNoteRepository
	creditNotes   repository.CreditNoteRepository
	generator     PDFGenerator
	currency      string
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(repos Repositories, generator PDFGenerator, currency string) *PDFUseCase {
	return &PDFUseCase{
		company:       repos.Company,
		clients:       repos.Clients,
		orders:        repos.Orders,
		invoices:      repos.Invoices,
		deliveryNotes: repos.DeliveryNotes,
		creditNotes:   repos.CreditNotes,
		generator:     generator,
		currency:      currency,
	}
}

// InvoicePDF PDF de la factura.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrCompanyNotSet    si la empresa aún no está configurada.
func (uc *PDFUseCase) InvoicePDF(ctx context.Context, invoiceID string) ([]byte, string, error) {
	inv, err := uc.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	doc, err := uc.baseDocument(ctx, inv.OrderID)
	if err != nil {
		return nil, "", err
	}
	doc.Title, doc.Code, doc.Date, doc.FNE = TitleInvoice, inv.Code, inv.Date, inv.FNE
	return uc.render(ctx, doc)
}

// DeliveryNotePDF PDF del bon de livraison de la factura.
func (uc *PDFUseCase) DeliveryNotePDF(ctx context.Context, invoiceID string) ([]byte, string, error) {
	inv, err := uc.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	note, err := uc.deliveryNotes.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener bon de livraison: %w", err)
	}
	if note == nil {
		return nil, "", domain.ErrNotFound
	}
	doc, err := uc.baseDocument(ctx, inv.OrderID)
	if err != nil {
		return nil, "", err
	}
	doc.Title, doc.Code, doc.Date, doc.FNE = TitleDeliveryNote, note.Code, note.Date, note.FNE
	doc.Reference = "Facture : " + inv.Code
	return uc.render(ctx, doc)
}

// CreditNotePDF PDF del avoir: solo las líneas devueltas.
func (uc *PDFUseCase) CreditNotePDF(ctx context.Context, creditNoteID string) ([]byte, string, error) {
	note, err := uc.creditNotes.GetByID(ctx, creditNoteID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener avoir: %w", err)
	}
	if note == nil {
		return nil, "", domain.ErrNotFound
	}
	inv, err := uc.invoices.GetByID(ctx, note.InvoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	doc, err := uc.baseDocument(ctx, inv.OrderID)
	if err != nil {
		return nil, "", err
	}

	doc.Title, doc.Code, doc.Date, doc.FNE = TitleCreditNote, note.Code, note.Date, note.FNE
	doc.Reference = "Avoir sur la facture " + inv.Code
	if inv.FNE.NIM != "" {
		doc.Reference += " (NIM " + inv.FNE.NIM + ")"
	}
	doc.Lines = make([]PDFLine, len(note.Lines))
	for i, l := range note.Lines {
		doc.Lines[i] = PDFLine{Description: l.Description, Quantity: l.Quantity, UnitPrice: l.UnitPrice, TaxRate: l.TaxRate}
	}
	doc.Totals = document.ComputeTotals(document.CreditLinesAsLines(note.Lines))
	return uc.render(ctx, doc)
}

// baseDocument carga empresa, pedido y cliente en paralelo y arma el contexto
// con las líneas del pedido.
func (uc *PDFUseCase) baseDocument(ctx context.Context, orderID string) (*PDFDocument, error) {
	var (
		company *entity.Company
		order   *entity.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := uc.company.Get(gctx)
		if err != nil {
			return fmt.Errorf("pdf: obtener empresa: %w", err)
		}
		if c == nil {
			return domain.ErrCompanyNotSet
		}
		company = c
		return nil
	})
	g.Go(func() error {
		o, err := uc.orders.GetByID(gctx, orderID)
		if err != nil {
			return fmt.Errorf("pdf: obtener pedido: %w", err)
		}
		if o == nil {
			return fmt.Errorf("%w: pedido %s", domain.ErrNotFound, orderID)
		}
		order = o
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	client, err := uc.clients.GetByID(ctx, order.ClientID)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener cliente: %w", err)
	}

	doc := &PDFDocument{
		Company:  *company,
		Client:   client,
		Currency: uc.currency,
		Lines:    make([]PDFLine, len(order.Items)),
		Totals:   document.ComputeTotals(document.OrderItemsAsLines(order.Items)),
	}
	for i, it := range order.Items {
		doc.Lines[i] = PDFLine{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice, TaxRate: it.TaxRate}
	}
	return doc, nil
}

// render ejecuta el generador fuera de la goroutine de la petición y espera
// el resultado mientras el contexto de la petición siga vivo.
func (uc *PDFUseCase) render(ctx context.Context, doc *PDFDocument) ([]byte, string, error) {
	doc.AmountInWords = money.AmountInWords(doc.Totals.GrandTotal, doc.Currency)

	t := task.Go(ctx, func(ctx context.Context) ([]byte, error) {
		return uc.generator.Generate(ctx, doc)
	})
	pdf, err := t.Wait(ctx)
	if err != nil {
		t.Cancel()
		return nil, "", err
	}
	return pdf, doc.Code + ".pdf", nil
}
