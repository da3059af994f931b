// Package money formatea importes en francés (agrupación por espacios) y
// los escribe en letras para la representación gráfica de las facturas.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.French)

// currencyNames nombres en letras de las monedas habituales.
var currencyNames = map[string]string{
	"XOF": "francs CFA",
	"EUR": "euros",
	"USD": "dollars",
}

// CurrencyName devuelve el nombre en letras de la moneda, o el código si no se conoce.
func CurrencyName(code string) string {
	if name, ok := currencyNames[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

// Format devuelve el importe redondeado a la unidad con separador de miles
// por espacio y el código de moneda: 1234567 -> "1 234 567 XOF".
func Format(amount decimal.Decimal, currency string) string {
	s := printer.Sprintf("%d", amount.Round(0).IntPart())
	// CLDR usa espacios no separables para el francés
	s = strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
	if currency == "" {
		return s
	}
	return s + " " + currency
}

// AmountInWords escribe el importe (redondeado a la unidad) en letras seguido
// del nombre de la moneda: 9440 XOF -> "neuf mille quatre cent quarante francs CFA".
func AmountInWords(amount decimal.Decimal, currency string) string {
	words := InWords(amount.Round(0).IntPart())
	name := CurrencyName(currency)
	if name == "" {
		return words
	}
	return words + " " + name
}
