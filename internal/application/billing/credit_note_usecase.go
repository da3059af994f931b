package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/facturation-ci/internal/application/dto"
	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/domain/document"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
	"github.com/jhoicas/facturation-ci/internal/domain/repository"
)

// CreditNoteUseCase factures d'avoir sobre facturas certificadas.
type CreditNoteUseCase struct {
	tx          TxRunner
	orders      repository.OrderRepository
	invoices    repository.InvoiceRepository
	creditNotes repository.CreditNoteRepository
	currency    string
	now         func() time.Time
}

// NewCreditNoteUseCase construye el caso de uso.
func NewCreditNoteUseCase(
	tx TxRunner,
	orders repository.OrderRepository,
	invoices repository.InvoiceRepository,
	creditNotes repository.CreditNoteRepository,
	currency string,
) *CreditNoteUseCase {
	return &CreditNoteUseCase{
		tx:          tx,
		orders:      orders,
		invoices:    invoices,
		creditNotes: creditNotes,
		currency:    currency,
		now:         time.Now,
	}
}

// Create registra un avoir con las cantidades devueltas. La factura debe estar
// certificada: el avoir se certifica contra su id FNE.
func (uc *CreditNoteUseCase) Create(ctx context.Context, in dto.CreateCreditNoteRequest) (*dto.CreditNoteResponse, error) {
	inv, err := uc.invoices.GetByID(ctx, in.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if !inv.FNE.IsCertified() {
		return nil, fmt.Errorf("%w: la facture d'origine doit être certifiée avant l'avoir", domain.ErrConflict)
	}

	items, err := uc.orders.GetItems(ctx, inv.OrderID)
	if err != nil {
		return nil, err
	}
	returned := make(map[string]entity.CreditNoteLine, len(in.Lines))
	for _, l := range in.Lines {
		if _, dup := returned[l.OrderItemID]; dup {
			return nil, fmt.Errorf("%w: ligne %s en double dans l'avoir", domain.ErrInvalidInput, l.OrderItemID)
		}
		returned[l.OrderItemID] = entity.CreditNoteLine{OrderItemID: l.OrderItemID, Quantity: l.Quantity}
	}
	lines, err := document.BuildCreditLines(items, returned)
	if err != nil {
		return nil, err
	}
	totals := document.ComputeTotals(document.CreditLinesAsLines(lines))

	now := uc.now()
	note := &entity.CreditNote{
		ID:        uuid.New().String(),
		InvoiceID: inv.ID,
		Date:      now,
		Lines:     lines,
		TotalHT:   totals.Subtotal,
		TotalTVA:  totals.TotalTax,
		TotalTTC:  totals.GrandTotal,
		FNE:       entity.Certification{Status: entity.FNEStatusPending},
		CreatedAt: now,
	}
	err = uc.tx.RunBilling(ctx, func(r Repos) error {
		n, err := r.CreditNotes.CountByInvoice(ctx, inv.ID)
		if err != nil {
			return err
		}
		note.Code = document.CreditNoteCode(inv.Code, n)
		return r.CreditNotes.Create(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	resp := toCreditNoteResponse(note, uc.currency)
	resp.InvoiceCode = inv.Code
	return resp, nil
}

// GetByID avoir con líneas y totales.
func (uc *CreditNoteUseCase) GetByID(ctx context.Context, id string) (*dto.CreditNoteResponse, error) {
	note, err := uc.creditNotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domain.ErrNotFound
	}
	resp := toCreditNoteResponse(note, uc.currency)
	if inv, err := uc.invoices.GetByID(ctx, note.InvoiceID); err == nil && inv != nil {
		resp.InvoiceCode = inv.Code
	}
	return resp, nil
}

// List avoirs paginados, opcionalmente de una sola factura.
func (uc *CreditNoteUseCase) List(ctx context.Context, in dto.CreditNoteListRequest) (*dto.CreditNoteListResponse, error) {
	in.DefaultPage()
	list, err := uc.creditNotes.List(ctx, in.InvoiceID, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.CreditNoteListResponse{
		Items: make([]dto.CreditNoteResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, s := range list {
		out.Items = append(out.Items, dto.CreditNoteResponse{
			ID:          s.ID,
			Code:        s.Code,
			InvoiceID:   s.InvoiceID,
			InvoiceCode: s.InvoiceCode,
			ClientName:  s.ClientName,
			Date:        s.Date,
			Totals:      storedTotals(s.TotalHT, s.TotalTVA, s.TotalTTC),
			FNE:         toCertification(s.FNE),
		})
	}
	return out, nil
}
