package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/facturation-ci/internal/application/dto"
	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/domain/document"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
	"github.com/jhoicas/facturation-ci/internal/domain/repository"
	catalog "github.com/jhoicas/facturation-ci/pkg/fne"
)

// reintentos de código ante dos pedidos creados a la vez el mismo día
const maxCodeAttempts = 3

// OrderUseCase pedidos (commandes): alta con código AAMMJJSEQ, edición mientras
// están en curso y cambio de estado.
type OrderUseCase struct {
	tx       TxRunner
	orders   repository.OrderRepository
	clients  repository.ClientRepository
	products repository.ProductRepository
	currency string
	now      func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	tx TxRunner,
	orders repository.OrderRepository,
	clients repository.ClientRepository,
	products repository.ProductRepository,
	currency string,
) *OrderUseCase {
	return &OrderUseCase{tx: tx, orders: orders, clients: clients, products: products, currency: currency, now: time.Now}
}

// Create valida cliente y productos, calcula totales y asigna el siguiente código del día.
func (uc *OrderUseCase) Create(ctx context.Context, userID string, in dto.OrderRequest) (*dto.OrderResponse, error) {
	items, err := uc.buildItems(ctx, in)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	order := &entity.Order{
		ID:        uuid.New().String(),
		ClientID:  in.ClientID,
		UserID:    userID,
		Date:      now,
		Status:    entity.OrderStatusInProgress,
		Items:     items,
		CreatedAt: now,
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	applyTotals(order)

	for attempt := 1; ; attempt++ {
		err = uc.tx.RunBilling(ctx, func(r Repos) error {
			last, err := r.Orders.LastCodeWithPrefix(ctx, document.OrderCodePrefix(now))
			if err != nil {
				return err
			}
			code, err := document.NextOrderCode(now, last)
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrConflict, err)
			}
			order.Code = code
			return r.Orders.Create(ctx, order)
		})
		if err == nil || !errors.Is(err, domain.ErrDuplicate) || attempt == maxCodeAttempts {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, uc.currency), nil
}

// GetByID pedido con líneas y totales por tasa.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(order, uc.currency), nil
}

// Update reemplaza cliente y líneas. Solo pedidos en curso.
func (uc *OrderUseCase) Update(ctx context.Context, id string, in dto.OrderRequest) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !order.IsEditable() {
		return nil, domain.ErrOrderLocked
	}

	items, err := uc.buildItems(ctx, in)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	order.ClientID = in.ClientID
	order.Items = items
	applyTotals(order)

	if err := uc.tx.RunBilling(ctx, func(r Repos) error {
		return r.Orders.Update(ctx, order)
	}); err != nil {
		return nil, err
	}
	return toOrderResponse(order, uc.currency), nil
}

// Delete borra un pedido en curso.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	if !order.IsEditable() {
		return domain.ErrOrderLocked
	}
	return uc.orders.Delete(ctx, id)
}

// SetStatus en_cours → terminée | annulée.
func (uc *OrderUseCase) SetStatus(ctx context.Context, id, status string) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransition(order.Status, status) {
		if !order.IsEditable() {
			return nil, domain.ErrOrderLocked
		}
		return nil, fmt.Errorf("%w: estado %q no permitido", domain.ErrInvalidInput, status)
	}
	if err := uc.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	order.Status = status
	return toOrderResponse(order, uc.currency), nil
}

// List pedidos paginados; Today filtra por la fecha del día.
func (uc *OrderUseCase) List(ctx context.Context, in dto.OrderListRequest) (*dto.OrderListResponse, error) {
	in.DefaultPage()
	f := repository.OrderFilter{Status: in.Status, Limit: in.Limit, Offset: in.Offset}
	if in.Today {
		day := uc.now()
		f.Day = &day
	}
	list, err := uc.orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, s := range list {
		out.Items = append(out.Items, toOrderSummary(s))
	}
	return out, nil
}

// ListUnbilled pedidos terminados sin factura (los que se pueden facturar).
func (uc *OrderUseCase) ListUnbilled(ctx context.Context) ([]dto.OrderResponse, error) {
	list, err := uc.orders.ListUnbilled(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toOrderSummary(s))
	}
	return out, nil
}

// buildItems valida cliente, productos y cantidades y completa los valores por defecto del producto.
func (uc *OrderUseCase) buildItems(ctx context.Context, in dto.OrderRequest) ([]entity.OrderItem, error) {
	if in.ClientID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.ClientID)
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
		}
		product, err := uc.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}

		item := entity.OrderItem{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   product.UnitPrice,
			TaxRate:     product.TaxRate,
		}
		if item.Description == "" {
			item.Description = product.Name
		}
		if it.UnitPrice != nil {
			if it.UnitPrice.IsNegative() {
				return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
			}
			item.UnitPrice = *it.UnitPrice
		}
		if it.TaxRate != nil {
			item.TaxRate = *it.TaxRate
		}
		if !catalog.IsValidTaxRate(item.TaxRate) {
			return nil, fmt.Errorf("%w: tasa de TVA %s no admitida", domain.ErrInvalidInput, item.TaxRate)
		}
		items = append(items, item)
	}
	return items, nil
}

func applyTotals(o *entity.Order) {
	t := document.ComputeTotals(document.OrderItemsAsLines(o.Items))
	o.TotalHT, o.TotalTVA, o.TotalTTC = t.Subtotal, t.TotalTax, t.GrandTotal
}

