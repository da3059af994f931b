package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturation-ci/internal/application/dto"
	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
	"github.com/jhoicas/facturation-ci/internal/domain/repository"
	catalog "github.com/jhoicas/facturation-ci/pkg/fne"
)

const dateLayout = "2006-01-02"

type invoiceReader interface {
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
}

type orderReader interface {
	GetByID(ctx context.Context, id string) (*entity.Order, error)
}

// PaymentUseCase cobros de facturas. El saldo es el TTC del pedido menos lo cobrado.
type PaymentUseCase struct {
	payments repository.PaymentRepository
	invoices invoiceReader
	orders   orderReader
	now      func() time.Time
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(payments repository.PaymentRepository, invoices invoiceReader, orders orderReader) *PaymentUseCase {
	return &PaymentUseCase{payments: payments, invoices: invoices, orders: orders, now: time.Now}
}

// Record registra un cobro. El importe debe ser positivo y no superar el saldo.
func (uc *PaymentUseCase) Record(ctx context.Context, invoiceID string, in dto.PaymentRequest) (*dto.PaymentResponse, error) {
	method := strings.ToLower(strings.TrimSpace(in.Method))
	if !catalog.ValidPaymentMethods[method] {
		return nil, fmt.Errorf("%w: medio de pago %q desconocido", domain.ErrInvalidInput, in.Method)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el importe debe ser positivo", domain.ErrInvalidInput)
	}
	date := uc.now()
	if in.Date != "" {
		d, err := time.Parse(dateLayout, in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, in.Date)
		}
		date = d
	}

	total, paid, err := uc.balance(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if remaining := total.Sub(paid); in.Amount.GreaterThan(remaining) {
		return nil, fmt.Errorf("%w: el importe %s supera el saldo pendiente %s", domain.ErrInvalidInput, in.Amount, remaining)
	}

	p := &entity.Payment{
		ID:        uuid.New().String(),
		InvoiceID: invoiceID,
		Date:      date,
		Amount:    in.Amount,
		Method:    method,
		CreatedAt: uc.now(),
	}
	if err := uc.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	return toPaymentResponse(p), nil
}

// List cobros de la factura con total, cobrado y saldo.
func (uc *PaymentUseCase) List(ctx context.Context, invoiceID string) (*dto.PaymentListResponse, error) {
	total, paid, err := uc.balance(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	list, err := uc.payments.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	out := &dto.PaymentListResponse{
		Items:     make([]dto.PaymentResponse, 0, len(list)),
		TotalTTC:  total,
		TotalPaid: paid,
		Balance:   total.Sub(paid),
	}
	for _, p := range list {
		out.Items = append(out.Items, *toPaymentResponse(p))
	}
	return out, nil
}

func (uc *PaymentUseCase) balance(ctx context.Context, invoiceID string) (total, paid decimal.Decimal, err error) {
	inv, err := uc.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return total, paid, err
	}
	if inv == nil {
		return total, paid, domain.ErrNotFound
	}
	order, err := uc.orders.GetByID(ctx, inv.OrderID)
	if err != nil {
		return total, paid, err
	}
	if order == nil {
		return total, paid, domain.ErrNotFound
	}
	paid, err = uc.payments.TotalByInvoice(ctx, invoiceID)
	if err != nil {
		return total, paid, err
	}
	return order.TotalTTC, paid, nil
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		Date:      p.Date.Format(dateLayout),
		Amount:    p.Amount,
		Method:    p.Method,
		CreatedAt: p.CreatedAt,
	}
}
