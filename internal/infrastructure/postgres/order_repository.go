package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
	"github.com/jhoicas/facturation-ci/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (cabecera en orders, líneas en order_items).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta el pedido y sus líneas. Usar dentro de una tx para que sea atómico.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO orders (id, code, client_id, user_id, order_date, total_ht, total_tva, total_ttc, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Code, o.ClientID, o.UserID, o.Date, o.TotalHT, o.TotalTVA, o.TotalTTC, o.Status, o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código de pedido %s", domain.ErrDuplicate, o.Code)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return r.insertItems(ctx, o)
}

func (r *OrderRepo) insertItems(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, position, description, quantity, unit_price, tax_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range o.Items {
		it := &o.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.OrderID = o.ID
		if _, err := r.q.Exec(ctx, query,
			it.ID, o.ID, it.ProductID, i, it.Description, it.Quantity, it.UnitPrice, it.TaxRate,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el pedido con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `
		SELECT id, code, client_id, user_id, order_date, total_ht, total_tva, total_ttc, status, created_at
		FROM orders WHERE id = $1`
	var o entity.Order
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Code, &o.ClientID, &o.UserID, &o.Date, &o.TotalHT, &o.TotalTVA, &o.TotalTTC, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := r.GetItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// GetItems líneas del pedido en el orden de creación (el mismo que se envía a la FNE).
func (r *OrderRepo) GetItems(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, description, quantity, unit_price, tax_rate, fne_item_id
		FROM order_items WHERE order_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		var fneID *string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.TaxRate, &fneID); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it.FNEItemID = derefStr(fneID)
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update reemplaza cabecera y líneas de un pedido en curso.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders
		SET client_id = $2, order_date = $3, total_ht = $4, total_tva = $5, total_ttc = $6
		WHERE id = $1 AND status = 'in_progress'`
	tag, err := r.q.Exec(ctx, query, o.ID, o.ClientID, o.Date, o.TotalHT, o.TotalTVA, o.TotalTTC)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderLocked
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	for i := range o.Items {
		o.Items[i].ID = ""
	}
	return r.insertItems(ctx, o)
}

// UpdateStatus cambia el estado solo desde in_progress.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1 AND status = 'in_progress'`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderLocked
	}
	return nil
}

// Delete elimina un pedido en curso (las líneas caen por ON DELETE CASCADE).
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1 AND status = 'in_progress'`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderLocked
	}
	return nil
}

const orderSummarySelect = `
	SELECT o.id, o.code, o.client_id, o.user_id, o.order_date, o.total_ht, o.total_tva, o.total_ttc,
	       o.status, o.created_at, c.name, (i.id IS NOT NULL)
	FROM orders o
	JOIN clients c ON c.id = o.client_id
	LEFT JOIN invoices i ON i.order_id = o.id`

func scanOrderSummaries(rows pgx.Rows) ([]*repository.OrderSummary, error) {
	defer rows.Close()
	var out []*repository.OrderSummary
	for rows.Next() {
		var s repository.OrderSummary
		if err := rows.Scan(&s.ID, &s.Code, &s.ClientID, &s.UserID, &s.Date, &s.TotalHT, &s.TotalTVA,
			&s.TotalTTC, &s.Status, &s.CreatedAt, &s.ClientName, &s.Invoiced); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// List lista pedidos, más recientes primero.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*repository.OrderSummary, error) {
	limit, offset := pageArgs(f.Limit, f.Offset)
	var day *time.Time
	if f.Day != nil {
		d := time.Date(f.Day.Year(), f.Day.Month(), f.Day.Day(), 0, 0, 0, 0, time.UTC)
		day = &d
	}
	query := orderSummarySelect + `
		WHERE ($1::date IS NULL OR o.order_date = $1::date)
		  AND ($2 = '' OR o.status = $2)
		ORDER BY o.code DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, day, f.Status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return scanOrderSummaries(rows)
}

// ListUnbilled pedidos terminados sin factura.
func (r *OrderRepo) ListUnbilled(ctx context.Context) ([]*repository.OrderSummary, error) {
	query := orderSummarySelect + `
		WHERE o.status = 'completed' AND i.id IS NULL
		ORDER BY o.code`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list unbilled orders: %w", err)
	}
	return scanOrderSummaries(rows)
}

// LastCodeWithPrefix último código del día (MAX sobre el prefijo AAMMJJ).
func (r *OrderRepo) LastCodeWithPrefix(ctx context.Context, prefix string) (string, error) {
	var code *string
	err := r.q.QueryRow(ctx, `SELECT MAX(code) FROM orders WHERE code LIKE $1 || '%'`, prefix).Scan(&code)
	if err != nil {
		return "", fmt.Errorf("last order code: %w", err)
	}
	return derefStr(code), nil
}

// SetFNEItemID asigna el id FNE de la línea. Solo se escribe una vez:
// si la línea ya tenía id (o no existe) devuelve ErrConflict. Un id vacío es ErrInvalidInput.
func (r *OrderRepo) SetFNEItemID(ctx context.Context, itemID, externalID string) error {
	if strings.TrimSpace(externalID) == "" {
		return fmt.Errorf("%w: fne_item_id vacío para la línea %s", domain.ErrInvalidInput, itemID)
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE order_items SET fne_item_id = $2 WHERE id = $1 AND fne_item_id IS NULL`,
		itemID, externalID,
	)
	if err != nil {
		return fmt.Errorf("set fne_item_id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: la línea %s ya tiene fne_item_id o no existe", domain.ErrConflict, itemID)
	}
	return nil
}
