package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturation-ci/internal/application/dto"
	"github.com/jhoicas/facturation-ci/internal/domain/document"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
	"github.com/jhoicas/facturation-ci/internal/domain/repository"
	"github.com/jhoicas/facturation-ci/pkg/money"
)

func toTotalsResponse(t document.Totals, currency string) dto.TotalsResponse {
	out := dto.TotalsResponse{
		TotalHT:  t.Subtotal,
		TotalTVA: t.TotalTax,
		TotalTTC: t.GrandTotal,
		Taxes:    make([]dto.TaxLineResponse, 0, len(t.Taxes)),
	}
	for _, b := range t.Taxes {
		out.Taxes = append(out.Taxes, dto.TaxLineResponse{Rate: b.Rate, Base: b.Base, Amount: b.Amount})
	}
	if currency != "" {
		out.AmountInWords = money.AmountInWords(t.GrandTotal, currency)
	}
	return out
}

// storedTotals totales guardados en cabecera (listados, sin desglose por tasa).
func storedTotals(ht, tva, ttc decimal.Decimal) dto.TotalsResponse {
	return dto.TotalsResponse{TotalHT: ht, TotalTVA: tva, TotalTTC: ttc, Taxes: []dto.TaxLineResponse{}}
}

func toOrderItems(items []entity.OrderItem) []dto.OrderItemResponse {
	out := make([]dto.OrderItemResponse, len(items))
	for i, it := range items {
		out[i] = dto.OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			TotalHT:     it.LineTotal(),
			FNEItemID:   it.FNEItemID,
		}
	}
	return out
}

func toOrderResponse(o *entity.Order, currency string) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:       o.ID,
		Code:     o.Code,
		ClientID: o.ClientID,
		UserID:   o.UserID,
		Date:     o.Date,
		Status:   o.Status,
		Totals:   toTotalsResponse(document.ComputeTotals(document.OrderItemsAsLines(o.Items)), currency),
		Items:    toOrderItems(o.Items),
	}
}

func toOrderSummary(s *repository.OrderSummary) dto.OrderResponse {
	return dto.OrderResponse{
		ID:         s.ID,
		Code:       s.Code,
		ClientID:   s.ClientID,
		ClientName: s.ClientName,
		UserID:     s.UserID,
		Date:       s.Date,
		Status:     s.Status,
		Invoiced:   s.Invoiced,
		Totals:     storedTotals(s.TotalHT, s.TotalTVA, s.TotalTTC),
	}
}

func toCertification(c entity.Certification) dto.CertificationResponse {
	return dto.CertificationResponse{
		Status:       c.Status,
		NIM:          c.NIM,
		QRCode:       c.QRCode,
		ExternalID:   c.ExternalID,
		ErrorMessage: c.ErrorMessage,
		CertifiedAt:  c.CertifiedAt,
	}
}

func toDeliveryNoteResponse(n *entity.DeliveryNote) *dto.DeliveryNoteResponse {
	return &dto.DeliveryNoteResponse{
		ID:        n.ID,
		Code:      n.Code,
		InvoiceID: n.InvoiceID,
		Date:      n.Date,
		FNE:       toCertification(n.FNE),
	}
}

func toCreditNoteResponse(n *entity.CreditNote, currency string) *dto.CreditNoteResponse {
	lines := make([]dto.CreditNoteLineResponse, len(n.Lines))
	for i, l := range n.Lines {
		lines[i] = dto.CreditNoteLineResponse{
			OrderItemID: l.OrderItemID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
		}
	}
	return &dto.CreditNoteResponse{
		ID:        n.ID,
		Code:      n.Code,
		InvoiceID: n.InvoiceID,
		Date:      n.Date,
		Lines:     lines,
		Totals:    toTotalsResponse(document.ComputeTotals(document.CreditLinesAsLines(n.Lines)), currency),
		FNE:       toCertification(n.FNE),
	}
}
