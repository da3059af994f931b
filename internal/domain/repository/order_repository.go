package repository

import (
	"context"
	"time"

	"github.com/jhoicas/facturation-ci/internal/domain/entity"
)

// OrderFilter filtros del listado de pedidos. Campos vacíos no filtran.
type OrderFilter struct {
	Day    *time.Time
	Status string
	Limit  int
	Offset int
}

// OrderSummary fila de listado de pedidos con el nombre del cliente.
type OrderSummary struct {
	entity.Order
	ClientName string
	Invoiced   bool
}

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	// Create inserta cabecera y líneas; asigna los IDs que falten.
	Create(ctx context.Context, order *entity.Order) error
	// GetByID devuelve el pedido con sus líneas; nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// Update reemplaza cabecera y todas las líneas.
	Update(ctx context.Context, order *entity.Order) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter OrderFilter) ([]*OrderSummary, error)
	// ListUnbilled pedidos terminados que aún no tienen factura.
	ListUnbilled(ctx context.Context) ([]*OrderSummary, error)
	// LastCodeWithPrefix último código AAMMJJSEQ del día; "" si no hay.
	LastCodeWithPrefix(ctx context.Context, prefix string) (string, error)
	GetItems(ctx context.Context, orderID string) ([]entity.OrderItem, error)
	// SetFNEItemID asigna el id externo solo si la línea aún no lo tiene.
	SetFNEItemID(ctx context.Context, itemID, externalID string) error
}
