package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido (commande).
const (
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order cabecera de pedido. Code tiene formato AAMMJJSEQ.
type Order struct {
	ID        string
	Code      string
	ClientID  string
	UserID    string
	Date      time.Time
	Status    string
	TotalHT   decimal.Decimal
	TotalTVA  decimal.Decimal
	TotalTTC  decimal.Decimal
	Items     []OrderItem
	CreatedAt time.Time
}

// OrderItem línea de pedido. FNEItemID se asigna una sola vez, al certificar la factura.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // porcentaje
	FNEItemID   string
}

// LineTotal cantidad × precio unitario (HT).
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// IsEditable solo los pedidos en curso se pueden modificar o borrar.
func (o *Order) IsEditable() bool {
	return o.Status == OrderStatusInProgress
}

// CanTransition valida el cambio de estado de un pedido.
func CanTransition(from, to string) bool {
	return from == OrderStatusInProgress && (to == OrderStatusCompleted || to == OrderStatusCancelled)
}
