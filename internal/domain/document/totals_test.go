package document_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/domain/document"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeTotals_UnaTasa(t *testing.T) {
	tot := document.ComputeTotals([]document.Line{
		{Quantity: d("3"), UnitPrice: d("1000"), TaxRate: d("18")},
		{Quantity: d("1"), UnitPrice: d("5000"), TaxRate: d("18")},
	})

	assert.True(t, d("8000").Equal(tot.Subtotal), "subtotal %s", tot.Subtotal)
	assert.True(t, d("1440").Equal(tot.TotalTax), "tva %s", tot.TotalTax)
	assert.True(t, d("9440").Equal(tot.GrandTotal), "ttc %s", tot.GrandTotal)
	require.Len(t, tot.Taxes, 1)
	assert.True(t, d("8000").Equal(tot.Taxes[0].Base))
}

func TestComputeTotals_VariasTasasOrdenadas(t *testing.T) {
	tot := document.ComputeTotals([]document.Line{
		{Quantity: d("1"), UnitPrice: d("1000"), TaxRate: d("0")},
		{Quantity: d("2"), UnitPrice: d("1000"), TaxRate: d("18")},
		{Quantity: d("1"), UnitPrice: d("1000"), TaxRate: d("9")},
	})

	require.Len(t, tot.Taxes, 3)
	assert.True(t, d("18").Equal(tot.Taxes[0].Rate))
	assert.True(t, d("9").Equal(tot.Taxes[1].Rate))
	assert.True(t, d("0").Equal(tot.Taxes[2].Rate))
	assert.True(t, d("450").Equal(tot.TotalTax), "360 + 90 + 0")
	assert.True(t, d("4450").Equal(tot.GrandTotal))
}

func TestComputeTotals_RedondeoPorLinea(t *testing.T) {
	// 18 % de 333 = 59.94 -> 60 por línea, no sobre el total
	tot := document.ComputeTotals([]document.Line{
		{Quantity: d("1"), UnitPrice: d("333"), TaxRate: d("18")},
		{Quantity: d("1"), UnitPrice: d("333"), TaxRate: d("18")},
	})
	assert.True(t, d("120").Equal(tot.TotalTax), "tva %s", tot.TotalTax)
}

func TestComputeTotals_Vacio(t *testing.T) {
	tot := document.ComputeTotals(nil)
	assert.True(t, tot.GrandTotal.IsZero())
	assert.Empty(t, tot.Taxes)
}

func TestNextOrderCode(t *testing.T) {
	day := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

	code, err := document.NextOrderCode(day, "")
	require.NoError(t, err)
	assert.Equal(t, "250307001", code)

	code, err = document.NextOrderCode(day, "250307041")
	require.NoError(t, err)
	assert.Equal(t, "250307042", code)

	_, err = document.NextOrderCode(day, "250307999")
	assert.Error(t, err)
}

func TestDocumentCodes(t *testing.T) {
	assert.Equal(t, "F-250307001", document.InvoiceCode("250307001"))
	assert.Equal(t, "BL-250307001", document.DeliveryNoteCode("250307001"))
	assert.Equal(t, "AV-F-250307001", document.CreditNoteCode("F-250307001", 0))
	assert.Equal(t, "AV-F-250307001-2", document.CreditNoteCode("F-250307001", 1))
}

func TestBuildCreditLines(t *testing.T) {
	items := []entity.OrderItem{
		{ID: "i1", Description: "Ciment", Quantity: d("3"), UnitPrice: d("1000"), TaxRate: d("18")},
		{ID: "i2", Description: "Fer", Quantity: d("1"), UnitPrice: d("5000"), TaxRate: d("18")},
	}

	lines, err := document.BuildCreditLines(items, map[string]entity.CreditNoteLine{
		"i2": {Quantity: d("1")},
		"i1": {Quantity: d("2")},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "i1", lines[0].OrderItemID, "se respeta el orden del pedido")
	assert.Equal(t, "Ciment", lines[0].Description)
	assert.True(t, d("1000").Equal(lines[0].UnitPrice))

	_, err = document.BuildCreditLines(items, map[string]entity.CreditNoteLine{"i1": {Quantity: d("4")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no se puede devolver más de lo facturado")

	_, err = document.BuildCreditLines(items, map[string]entity.CreditNoteLine{"i1": {Quantity: d("0")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = document.BuildCreditLines(items, map[string]entity.CreditNoteLine{"zz": {Quantity: d("1")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = document.BuildCreditLines(items, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
