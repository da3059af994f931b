package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo.
// TaxRate es un porcentaje (18, 9 o 0), no una fracción.
type Product struct {
	ID          string
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	CreatedAt   time.Time
}
