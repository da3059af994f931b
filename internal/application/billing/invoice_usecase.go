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

// InvoiceUseCase facturas y bons de livraison.
type InvoiceUseCase struct {
	tx            TxRunner
	orders        repository.OrderRepository
	invoices      repository.InvoiceRepository
	deliveryNotes repository.DeliveryNoteRepository
	clients       repository.ClientRepository
	currency      string
	now           func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	tx TxRunner,
	orders repository.OrderRepository,
	invoices repository.InvoiceRepository,
	deliveryNotes repository.DeliveryNoteRepository,
	clients repository.ClientRepository,
	currency string,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		tx:            tx,
		orders:        orders,
		invoices:      invoices,
		deliveryNotes: deliveryNotes,
		clients:       clients,
		currency:      currency,
		now:           time.Now,
	}
}

// Create factura un pedido terminado y crea su bon de livraison en la misma transacción.
// Ambos quedan en estado FNE pending.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	order, err := uc.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status != entity.OrderStatusCompleted {
		return nil, domain.ErrOrderNotCompleted
	}

	now := uc.now()
	inv := &entity.Invoice{
		ID:        uuid.New().String(),
		Code:      document.InvoiceCode(order.Code),
		OrderID:   order.ID,
		Date:      now,
		FNE:       entity.Certification{Status: entity.FNEStatusPending},
		CreatedAt: now,
	}
	note := &entity.DeliveryNote{
		ID:        uuid.New().String(),
		Code:      document.DeliveryNoteCode(order.Code),
		InvoiceID: inv.ID,
		Date:      now,
		FNE:       entity.Certification{Status: entity.FNEStatusPending},
		CreatedAt: now,
	}

	err = uc.tx.RunBilling(ctx, func(r Repos) error {
		existing, err := r.Invoices.GetByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyInvoiced
		}
		if err := r.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		return r.DeliveryNotes.Create(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	resp := uc.invoiceResponse(inv, order)
	resp.DeliveryNote = toDeliveryNoteResponse(note)
	return resp, nil
}

// GetByID factura con líneas del pedido, totales por tasa y su bon de livraison.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, order, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := uc.invoiceResponse(inv, order)

	if client, err := uc.clients.GetByID(ctx, order.ClientID); err == nil && client != nil {
		resp.ClientName = client.Name
	}
	note, err := uc.deliveryNotes.GetByInvoiceID(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	if note != nil {
		resp.DeliveryNote = toDeliveryNoteResponse(note)
	}
	return resp, nil
}

// List facturas paginadas (más recientes primero).
func (uc *InvoiceUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	list, err := uc.invoices.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, s := range list {
		out.Items = append(out.Items, dto.InvoiceResponse{
			ID:         s.ID,
			Code:       s.Code,
			Date:       s.Date,
			OrderID:    s.OrderID,
			OrderCode:  s.OrderCode,
			ClientID:   s.ClientID,
			ClientName: s.ClientName,
			FNE:        toCertification(s.FNE),
			TotalTTC:   s.TotalTTC,
		})
	}
	return out, nil
}

// GetDeliveryNote bon de livraison de la factura.
func (uc *InvoiceUseCase) GetDeliveryNote(ctx context.Context, invoiceID string) (*dto.DeliveryNoteResponse, error) {
	note, err := uc.deliveryNotes.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domain.ErrNotFound
	}
	return toDeliveryNoteResponse(note), nil
}

func (uc *InvoiceUseCase) load(ctx context.Context, id string) (*entity.Invoice, *entity.Order, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, domain.ErrNotFound
	}
	order, err := uc.orders.GetByID(ctx, inv.OrderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, fmt.Errorf("factura %s: pedido %s no encontrado", inv.Code, inv.OrderID)
	}
	return inv, order, nil
}

func (uc *InvoiceUseCase) invoiceResponse(inv *entity.Invoice, order *entity.Order) *dto.InvoiceResponse {
	totals := toTotalsResponse(document.ComputeTotals(document.OrderItemsAsLines(order.Items)), uc.currency)
	return &dto.InvoiceResponse{
		ID:        inv.ID,
		Code:      inv.Code,
		Date:      inv.Date,
		OrderID:   order.ID,
		OrderCode: order.Code,
		ClientID:  order.ClientID,
		FNE:       toCertification(inv.FNE),
		Totals:    &totals,
		TotalTTC:  totals.TotalTTC,
		Items:     toOrderItems(order.Items),
	}
}
