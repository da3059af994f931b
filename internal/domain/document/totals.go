// Package document contiene las reglas puras de los documentos comerciales:
// totales con TVA por tasa y códigos de pedido, factura, BL y avoir.
package document

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Line datos mínimos de una línea para calcular totales.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal // porcentaje
}

// TaxBucket TVA acumulada para una tasa.
type TaxBucket struct {
	Rate   decimal.Decimal
	Base   decimal.Decimal
	Amount decimal.Decimal
}

// Totals resultado de ComputeTotals.
type Totals struct {
	Subtotal   decimal.Decimal
	Taxes      []TaxBucket // ordenadas por tasa descendente
	TotalTax   decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeTotals suma HT por línea, redondea la TVA de cada línea a la unidad
// (redondeo bancario) y la agrupa por tasa.
func ComputeTotals(lines []Line) Totals {
	t := Totals{Subtotal: decimal.Zero, TotalTax: decimal.Zero}
	buckets := map[string]*TaxBucket{}

	for _, l := range lines {
		ht := l.Quantity.Mul(l.UnitPrice)
		tax := ht.Mul(l.TaxRate).Div(hundred).RoundBank(0)
		t.Subtotal = t.Subtotal.Add(ht)

		key := l.TaxRate.String()
		b, ok := buckets[key]
		if !ok {
			b = &TaxBucket{Rate: l.TaxRate, Base: decimal.Zero, Amount: decimal.Zero}
			buckets[key] = b
		}
		b.Base = b.Base.Add(ht)
		b.Amount = b.Amount.Add(tax)
		t.TotalTax = t.TotalTax.Add(tax)
	}

	for _, b := range buckets {
		t.Taxes = append(t.Taxes, *b)
	}
	sort.Slice(t.Taxes, func(i, j int) bool { return t.Taxes[i].Rate.GreaterThan(t.Taxes[j].Rate) })

	t.GrandTotal = t.Subtotal.Add(t.TotalTax)
	return t
}
