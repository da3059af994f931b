// Package fne contiene los catálogos de la plateforme de Facture Normalisée
// Électronique (FNE) de la DGI de Côte d'Ivoire.
package fne

import "github.com/shopspring/decimal"

// =============================================================================
// Tipos de documento (campo invoiceType)
// =============================================================================

const (
	DocumentSale     = "sale"     // Factura de venta
	DocumentPurchase = "purchase" // Bordereau d'achat (usado para el bon de livraison)
)

// =============================================================================
// Códigos de impuesto por línea (campo taxes)
// =============================================================================

const (
	TaxTVA  = "TVA"  // TVA normal 18 %
	TaxTVAB = "TVAB" // TVA reducida 9 %
	TaxTVAC = "TVAC" // TVA exonerada convencional 0 %
	TaxTVAD = "TVAD" // TVA exonerada legal 0 %
)

var (
	rate18 = decimal.NewFromInt(18)
	rate9  = decimal.NewFromInt(9)
)

// TaxCodeForRate traduce un porcentaje de TVA al código FNE.
// 18 -> TVA, 9 -> TVAB, cualquier otro (0 incluido) -> TVAD.
func TaxCodeForRate(rate decimal.Decimal) string {
	switch {
	case rate.Equal(rate18):
		return TaxTVA
	case rate.Equal(rate9):
		return TaxTVAB
	default:
		return TaxTVAD
	}
}

// ValidTaxRates tasas aceptadas al crear productos y líneas.
var ValidTaxRates = []decimal.Decimal{decimal.Zero, rate9, rate18}

// IsValidTaxRate indica si la tasa es una de las admitidas por la FNE.
func IsValidTaxRate(rate decimal.Decimal) bool {
	for _, r := range ValidTaxRates {
		if r.Equal(rate) {
			return true
		}
	}
	return false
}

// =============================================================================
// Medios de pago (campo paymentMethod)
// =============================================================================

const (
	PaymentCash         = "cash"
	PaymentCard         = "card"
	PaymentCheck        = "check"
	PaymentMobileMoney  = "mobile-money"
	PaymentBankTransfer = "transfer"
	PaymentDeferred     = "deferred"
)

// ValidPaymentMethods medios de pago reconocidos.
var ValidPaymentMethods = map[string]bool{
	PaymentCash: true, PaymentCard: true, PaymentCheck: true,
	PaymentMobileMoney: true, PaymentBankTransfer: true, PaymentDeferred: true,
}

// =============================================================================
// Plantillas de factura (campo template)
// =============================================================================

const (
	TemplateB2B = "B2B" // Empresa a empresa (requiere clientNcc)
	TemplateB2C = "B2C" // Empresa a particular
	TemplateB2G = "B2G" // Empresa a administración
	TemplateB2F = "B2F" // Empresa a cliente extranjero
)

// ValidTemplates plantillas reconocidas.
var ValidTemplates = map[string]bool{
	TemplateB2B: true, TemplateB2C: true, TemplateB2G: true, TemplateB2F: true,
}
