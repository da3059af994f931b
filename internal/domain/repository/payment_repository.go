package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturation-ci/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error)
	// TotalByInvoice suma de los cobros de la factura; cero si no hay.
	TotalByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error)
}
