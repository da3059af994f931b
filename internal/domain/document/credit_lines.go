package document

import (
	"fmt"

	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
)

// BuildCreditLines valida las cantidades devueltas contra las líneas del pedido
// y copia descripción, precio y tasa de la línea original.
// Cada línea del pedido solo puede aparecer una vez.
func BuildCreditLines(items []entity.OrderItem, returned map[string]entity.CreditNoteLine) ([]entity.CreditNoteLine, error) {
	if len(returned) == 0 {
		return nil, fmt.Errorf("%w: el avoir no tiene líneas", domain.ErrInvalidInput)
	}
	byID := make(map[string]entity.OrderItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	lines := make([]entity.CreditNoteLine, 0, len(returned))
	// se respeta el orden del pedido
	for _, it := range items {
		r, ok := returned[it.ID]
		if !ok {
			continue
		}
		if !r.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: cantidad devuelta debe ser positiva (%s)", domain.ErrInvalidInput, it.Description)
		}
		if r.Quantity.GreaterThan(it.Quantity) {
			return nil, fmt.Errorf("%w: cantidad devuelta %s supera la facturada %s (%s)",
				domain.ErrInvalidInput, r.Quantity, it.Quantity, it.Description)
		}
		lines = append(lines, entity.CreditNoteLine{
			OrderItemID: it.ID,
			Description: it.Description,
			Quantity:    r.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
		})
	}
	for id := range returned {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: la línea %s no pertenece a la factura", domain.ErrInvalidInput, id)
		}
	}
	return lines, nil
}

// CreditLinesAsLines adapta las líneas del avoir para ComputeTotals.
func CreditLinesAsLines(lines []entity.CreditNoteLine) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = Line{Quantity: l.Quantity, UnitPrice: l.UnitPrice, TaxRate: l.TaxRate}
	}
	return out
}

// OrderItemsAsLines adapta las líneas del pedido para ComputeTotals.
func OrderItemsAsLines(items []entity.OrderItem) []Line {
	out := make([]Line, len(items))
	for i, it := range items {
		out[i] = Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice, TaxRate: it.TaxRate}
	}
	return out
}
