package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/facturation-ci/internal/application/dto"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
	"github.com/jhoicas/facturation-ci/internal/domain/repository"
	"github.com/jhoicas/facturation-ci/pkg/money"
)

// DashboardUseCase tablero: facturas por estado FNE, avoirs, pedidos sin facturar e ingresos.
type DashboardUseCase struct {
	repo     repository.DashboardRepository
	currency string
	now      func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository, currency string) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, currency: currency, now: time.Now}
}

// Summary indicadores del día y del mes en curso.
func (uc *DashboardUseCase) Summary(ctx context.Context) (*dto.DashboardResponse, error) {
	s, err := uc.repo.Stats(ctx, uc.now())
	if err != nil {
		return nil, err
	}
	counts := dto.FNEStatusCounts{
		Pending: s.InvoicesByStatus[entity.FNEStatusPending],
		Success: s.InvoicesByStatus[entity.FNEStatusSuccess],
		Failed:  s.InvoicesByStatus[entity.FNEStatusFailed],
	}
	counts.Total = counts.Pending + counts.Success + counts.Failed

	return &dto.DashboardResponse{
		Invoices:          counts,
		CreditNotes:       s.CreditNotes,
		UnbilledOrders:    s.UnbilledOrders,
		RevenueToday:      s.RevenueToday,
		RevenueMonth:      s.RevenueMonth,
		Currency:          uc.currency,
		RevenueTodayLabel: money.Format(s.RevenueToday, uc.currency),
		RevenueMonthLabel: money.Format(s.RevenueMonth, uc.currency),
	}, nil
}
