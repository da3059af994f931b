package document

import (
	"fmt"
	"strconv"
	"time"
)

const orderDateLayout = "060102"

// OrderCodePrefix prefijo AAMMJJ del día.
func OrderCodePrefix(day time.Time) string {
	return day.Format(orderDateLayout)
}

// NextOrderCode genera el código AAMMJJSEQ a partir del último código del día
// (vacío si no hay ninguno). La secuencia es de tres dígitos.
func NextOrderCode(day time.Time, lastCode string) (string, error) {
	prefix := OrderCodePrefix(day)
	seq := 1
	if lastCode != "" {
		if len(lastCode) < 3 {
			return "", fmt.Errorf("código de pedido inválido: %q", lastCode)
		}
		n, err := strconv.Atoi(lastCode[len(lastCode)-3:])
		if err != nil {
			return "", fmt.Errorf("código de pedido inválido %q: %w", lastCode, err)
		}
		seq = n + 1
	}
	if seq > 999 {
		return "", fmt.Errorf("secuencia diaria agotada para %s", prefix)
	}
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

// InvoiceCode F-<código de pedido>.
func InvoiceCode(orderCode string) string { return "F-" + orderCode }

// DeliveryNoteCode BL-<código de pedido>.
func DeliveryNoteCode(orderCode string) string { return "BL-" + orderCode }

// CreditNoteCode AV-<código de factura>; a partir del segundo avoir de la misma
// factura se añade el sufijo -N (existing = avoirs ya emitidos).
func CreditNoteCode(invoiceCode string, existing int) string {
	code := "AV-" + invoiceCode
	if existing > 0 {
		code = fmt.Sprintf("%s-%d", code, existing+1)
	}
	return code
}
