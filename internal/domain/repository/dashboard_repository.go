package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats resultado crudo de las consultas del tablero.
type DashboardStats struct {
	InvoicesByStatus map[string]int // pending, success, failed
	CreditNotes      int
	UnbilledOrders   int
	RevenueToday     decimal.Decimal // TTC de facturas del día
	RevenueMonth     decimal.Decimal // TTC de facturas del mes
}

// DashboardRepository consultas de solo lectura para el tablero.
type DashboardRepository interface {
	Stats(ctx context.Context, now time.Time) (*DashboardStats, error)
}
