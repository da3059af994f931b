package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturation-ci/internal/application/billing"
	"github.com/jhoicas/facturation-ci/internal/application/dto"
	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
)

func newOrderRequest(qty string) dto.OrderRequest {
	return dto.OrderRequest{
		ClientID: "cl-1",
		Items:    []dto.OrderItemRequest{{ProductID: "p-1", Quantity: dec(qty)}},
	}
}

func TestOrderCreate_CodigoDelDiaYTotales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prefix := time.Now().Format("060102")

	o, err := f.orders.Create(ctx, "u-1", newOrderRequest("2"))
	require.NoError(t, err)

	assert.Equal(t, prefix+"002", o.Code, "el pedido del fixture ya tomó la secuencia 001")
	assert.Equal(t, entity.OrderStatusInProgress, o.Status)
	assert.True(t, dec("2000").Equal(o.Totals.TotalHT))
	assert.True(t, dec("360").Equal(o.Totals.TotalTVA))
	assert.True(t, dec("2360").Equal(o.Totals.TotalTTC))
	assert.Equal(t, "deux mille trois cent soixante francs CFA", o.Totals.AmountInWords)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Sac de riz", o.Items[0].Description, "la descripción por defecto es el nombre del producto")
}

func TestOrderCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orders.Create(ctx, "u-1", newOrderRequest("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req := newOrderRequest("1")
	req.ClientID = "no-existe"
	_, err = f.orders.Create(ctx, "u-1", req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	bad := dec("5")
	req = newOrderRequest("1")
	req.Items[0].TaxRate = &bad
	_, err = f.orders.Create(ctx, "u-1", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "solo se admiten las tasas 0, 9 y 18")
}

func TestOrderUpdate_SoloEnCurso(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orders.Update(ctx, f.orderID, newOrderRequest("1"))
	assert.ErrorIs(t, err, domain.ErrOrderLocked, "el pedido del fixture está terminado")
	assert.ErrorIs(t, f.orders.Delete(ctx, f.orderID), domain.ErrOrderLocked)

	o, err := f.orders.Create(ctx, "u-1", newOrderRequest("1"))
	require.NoError(t, err)
	updated, err := f.orders.Update(ctx, o.ID, newOrderRequest("4"))
	require.NoError(t, err)
	assert.True(t, dec("4720").Equal(updated.Totals.TotalTTC))

	_, err = f.orders.SetStatus(ctx, o.ID, entity.OrderStatusInProgress)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.orders.SetStatus(ctx, o.ID, entity.OrderStatusCancelled)
	require.NoError(t, err)
	_, err = f.orders.SetStatus(ctx, o.ID, entity.OrderStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrOrderLocked)
}

func TestInvoiceCreate_CreaBLYNoDuplica(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.invoices.GetByID(ctx, f.invoiceID)
	require.NoError(t, err)
	assert.Equal(t, "F-"+inv.OrderCode, inv.Code)
	require.NotNil(t, inv.DeliveryNote)
	assert.Equal(t, "BL-"+inv.OrderCode, inv.DeliveryNote.Code)
	assert.Equal(t, entity.FNEStatusPending, inv.FNE.Status)
	assert.Equal(t, entity.FNEStatusPending, inv.DeliveryNote.FNE.Status)
	assert.True(t, dec("9440").Equal(inv.TotalTTC), "3000 + 5000 HT, TVA 1440")
	assert.Equal(t, "Client SA", inv.ClientName)

	_, err = f.invoices.Create(ctx, dto.CreateInvoiceRequest{OrderID: f.orderID})
	assert.ErrorIs(t, err, domain.ErrAlreadyInvoiced)

	unbilled, err := f.orders.ListUnbilled(ctx)
	require.NoError(t, err)
	assert.Empty(t, unbilled)
}

func TestInvoiceCreate_PedidoNoTerminado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.orders.Create(ctx, "u-1", newOrderRequest("1"))
	require.NoError(t, err)

	_, err = f.invoices.Create(ctx, dto.CreateInvoiceRequest{OrderID: o.ID})
	assert.ErrorIs(t, err, domain.ErrOrderNotCompleted)

	_, err = f.invoices.Create(ctx, dto.CreateInvoiceRequest{OrderID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreditNoteCreate_ReglasYCodigos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := dto.CreateCreditNoteRequest{
		InvoiceID: f.invoiceID,
		Lines:     []dto.CreditNoteLineRequest{{OrderItemID: f.itemIDs[1], Quantity: dec("1")}},
	}

	_, err := f.credits.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrConflict, "la factura aún no está certificada")

	_, err = f.certify.CertifyInvoice(ctx, f.invoiceID, "")
	require.NoError(t, err)

	first, err := f.credits.Create(ctx, req)
	require.NoError(t, err)
	second, err := f.credits.Create(ctx, req)
	require.NoError(t, err)

	inv := f.invoice(t)
	assert.Equal(t, "AV-"+inv.Code, first.Code)
	assert.Equal(t, "AV-"+inv.Code+"-2", second.Code)
	assert.True(t, dec("5900").Equal(first.Totals.TotalTTC))
	assert.Equal(t, entity.FNEStatusPending, first.FNE.Status)

	tooMany := req
	tooMany.Lines = []dto.CreditNoteLineRequest{{OrderItemID: f.itemIDs[0], Quantity: dec("4")}}
	_, err = f.credits.Create(ctx, tooMany)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no se puede devolver más de lo facturado")

	dup := req
	dup.Lines = append(dup.Lines, req.Lines[0])
	_, err = f.credits.Create(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.credits.List(ctx, dto.CreditNoteListRequest{InvoiceID: f.invoiceID})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}

// ── PDF ──────────────────────────────────────────────────────────────────────

type fakeGenerator struct {
	docs []*billing.PDFDocument
}

func (g *fakeGenerator) Generate(ctx context.Context, doc *billing.PDFDocument) ([]byte, error) {
	g.docs = append(g.docs, doc)
	return []byte("%PDF-1.3 fake"), nil
}

func TestPDFUseCase_FacturaProFormaYCertificada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gen := &fakeGenerator{}
	uc := billing.NewPDFUseCase(f.store.repositories(), gen, "XOF")

	pdf, name, err := uc.InvoicePDF(ctx, f.invoiceID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, f.invoice(t).Code+".pdf", name)

	require.Len(t, gen.docs, 1)
	doc := gen.docs[0]
	assert.Equal(t, billing.TitleInvoice, doc.Title)
	assert.False(t, doc.FNE.IsCertified())
	assert.Equal(t, "neuf mille quatre cent quarante francs CFA", doc.AmountInWords)
	require.Len(t, doc.Totals.Taxes, 1)
	assert.True(t, dec("1440").Equal(doc.Totals.Taxes[0].Amount))
	require.NotNil(t, doc.Client)
	assert.Equal(t, "Client SA", doc.Client.Name)

	_, err = f.certify.CertifyInvoice(ctx, f.invoiceID, "")
	require.NoError(t, err)
	_, _, err = uc.InvoicePDF(ctx, f.invoiceID)
	require.NoError(t, err)
	assert.True(t, gen.docs[1].FNE.IsCertified())
	assert.NotEmpty(t, gen.docs[1].FNE.QRCode)
}

func TestPDFUseCase_AvoirYBL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gen := &fakeGenerator{}
	uc := billing.NewPDFUseCase(f.store.repositories(), gen, "XOF")

	_, _, err := uc.DeliveryNotePDF(ctx, f.invoiceID)
	require.NoError(t, err)
	assert.Equal(t, billing.TitleDeliveryNote, gen.docs[0].Title)

	_, err = f.certify.CertifyInvoice(ctx, f.invoiceID, "")
	require.NoError(t, err)
	note, err := f.credits.Create(ctx, dto.CreateCreditNoteRequest{
		InvoiceID: f.invoiceID,
		Lines:     []dto.CreditNoteLineRequest{{OrderItemID: f.itemIDs[0], Quantity: dec("1")}},
	})
	require.NoError(t, err)

	_, name, err := uc.CreditNotePDF(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.Code+".pdf", name)
	doc := gen.docs[1]
	assert.Equal(t, billing.TitleCreditNote, doc.Title)
	require.Len(t, doc.Lines, 1, "solo las líneas devueltas")
	assert.True(t, dec("1180").Equal(doc.Totals.GrandTotal))
	assert.Contains(t, doc.Reference, f.invoice(t).Code)

	_, _, err = uc.InvoicePDF(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
