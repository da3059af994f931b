package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturation-ci/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas read-only del tablero.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// Stats agrega estados FNE de facturas, avoirs, pedidos sin facturar y cifra de negocio TTC.
func (r *DashboardRepo) Stats(ctx context.Context, now time.Time) (*repository.DashboardStats, error) {
	stats := &repository.DashboardStats{
		InvoicesByStatus: map[string]int{},
		RevenueToday:     decimal.Zero,
		RevenueMonth:     decimal.Zero,
	}

	rows, err := r.q.Query(ctx, `SELECT fne_status, COUNT(*) FROM invoices GROUP BY fne_status`)
	if err != nil {
		return nil, fmt.Errorf("dashboard invoices: %w", err)
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan dashboard invoices: %w", err)
		}
		stats.InvoicesByStatus[status] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dashboard invoices: %w", err)
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	err = r.q.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM credit_notes),
			(SELECT COUNT(*) FROM orders o WHERE o.status = 'completed'
			   AND NOT EXISTS (SELECT 1 FROM invoices f WHERE f.order_id = o.id)),
			(SELECT COALESCE(SUM(o.total_ttc), 0) FROM invoices f JOIN orders o ON o.id = f.order_id
			   WHERE f.invoice_date = $1::date),
			(SELECT COALESCE(SUM(o.total_ttc), 0) FROM invoices f JOIN orders o ON o.id = f.order_id
			   WHERE f.invoice_date >= $2::date)`,
		day, monthStart,
	).Scan(&stats.CreditNotes, &stats.UnbilledOrders, &stats.RevenueToday, &stats.RevenueMonth)
	if err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}
	return stats, nil
}
