package entity

import "time"

// Company datos de la empresa emisora (una sola fila en company_info).
// NCC y FNEAPIKey son obligatorios para certificar ante la FNE.
type Company struct {
	ID            string
	Name          string
	Address       string
	Phone         string
	Email         string
	NCC           string // Numéro de Compte Contribuable
	PointOfSale   string
	Establishment string
	FNEAPIKey     string
	UpdatedAt     time.Time
}

// HasFNECredentials indica si la empresa puede llamar a la FNE.
func (c *Company) HasFNECredentials() bool {
	return c != nil && c.FNEAPIKey != "" && c.NCC != ""
}
