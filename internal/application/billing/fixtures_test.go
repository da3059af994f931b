package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturation-ci/internal/application/billing"
	"github.com/jhoicas/facturation-ci/internal/application/dto"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
	"github.com/jhoicas/facturation-ci/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store     *store
	fne       *fakeCertifier
	orders    *billing.OrderUseCase
	invoices  *billing.InvoiceUseCase
	credits   *billing.CreditNoteUseCase
	certify   *billing.CertificationUseCase
	invoiceID string
	orderID   string
	itemIDs   []string
}

// newFixture empresa con credenciales FNE, un cliente, un vendedor y una factura
// pendiente de un pedido de 2 líneas (3 × 1000 y 1 × 5000, TVA 18 %).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := newStore()
	s.company = &entity.Company{
		ID: "co", Name: "SARL Test", NCC: "CI1234567A", FNEAPIKey: "key-123",
		Phone: "0102030405", Email: "contact@test.ci", PointOfSale: "Abidjan",
	}
	s.clients["cl-1"] = &entity.Client{ID: "cl-1", Name: "Client SA", NCC: "CI7654321B"}
	s.users["u-1"] = &entity.User{ID: "u-1", Username: "awa", FullName: "Awa Koné", Role: entity.RoleVendeur}
	s.products["p-1"] = &entity.Product{ID: "p-1", Name: "Sac de riz", UnitPrice: dec("1000"), TaxRate: dec("18")}
	s.products["p-2"] = &entity.Product{ID: "p-2", Name: "Bidon d'huile", UnitPrice: dec("5000"), TaxRate: dec("18")}

	f := &fixture{store: s, fne: &fakeCertifier{}}
	repos := s.repositories()
	f.orders = billing.NewOrderUseCase(s, repos.Orders, repos.Clients, productRepo{s}, "XOF")
	f.invoices = billing.NewInvoiceUseCase(s, repos.Orders, repos.Invoices, repos.DeliveryNotes, repos.Clients, "XOF")
	f.credits = billing.NewCreditNoteUseCase(s, repos.Orders, repos.Invoices, repos.CreditNotes, "XOF")
	f.certify = billing.NewCertificationUseCase(repos, s, f.fne, logger.Nop())

	ctx := context.Background()
	order, err := f.orders.Create(ctx, "u-1", dto.OrderRequest{
		ClientID: "cl-1",
		Items: []dto.OrderItemRequest{
			{ProductID: "p-1", Quantity: dec("3")},
			{ProductID: "p-2", Quantity: dec("1")},
		},
	})
	require.NoError(t, err)
	_, err = f.orders.SetStatus(ctx, order.ID, entity.OrderStatusCompleted)
	require.NoError(t, err)

	inv, err := f.invoices.Create(ctx, dto.CreateInvoiceRequest{OrderID: order.ID})
	require.NoError(t, err)

	f.invoiceID, f.orderID = inv.ID, order.ID
	for _, it := range order.Items {
		f.itemIDs = append(f.itemIDs, it.ID)
	}
	return f
}

func (f *fixture) order(t *testing.T) *entity.Order {
	t.Helper()
	o, err := orderRepo{f.store}.GetByID(context.Background(), f.orderID)
	require.NoError(t, err)
	require.NotNil(t, o)
	return o
}

func (f *fixture) invoice(t *testing.T) *entity.Invoice {
	t.Helper()
	inv, err := invoiceRepo{f.store}.GetByID(context.Background(), f.invoiceID)
	require.NoError(t, err)
	require.NotNil(t, inv)
	return inv
}

