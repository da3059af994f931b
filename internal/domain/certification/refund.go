package certification

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturation-ci/internal/domain/entity"
)

// RefundItem línea a anular en la FNE.
type RefundItem struct {
	ExternalItemID string
	Quantity       decimal.Decimal
}

// BuildRefund resuelve el id externo de cada línea del avoir. O todas las
// líneas resuelven o no se envía nada: la primera línea sin fne_item_id
// devuelve un error de reconciliación con su descripción.
func BuildRefund(originalExternalID string, lines []entity.CreditNoteLine, orderItems []entity.OrderItem) ([]RefundItem, error) {
	if originalExternalID == "" {
		return nil, Validation("la facture d'origine n'a pas d'identifiant FNE, elle doit être certifiée avant l'avoir")
	}
	if len(lines) == 0 {
		return nil, Validation("l'avoir ne contient aucune ligne")
	}

	external := make(map[string]string, len(orderItems))
	for _, it := range orderItems {
		if it.FNEItemID != "" {
			external[it.ID] = it.FNEItemID
		}
	}

	items := make([]RefundItem, 0, len(lines))
	for _, l := range lines {
		id, ok := external[l.OrderItemID]
		if !ok {
			return nil, Reconciliation(l.Description)
		}
		items = append(items, RefundItem{ExternalItemID: id, Quantity: l.Quantity})
	}
	return items, nil
}
