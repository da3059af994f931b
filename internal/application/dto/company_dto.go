package dto

import "time"

// UpdateCompanyRequest body de PUT /api/company. Reemplaza la fila completa.
// Si FNEAPIKey va vacío se conserva la clave ya guardada.
type UpdateCompanyRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Address       string `json:"address" validate:"max=300"`
	Phone         string `json:"phone" validate:"max=50"`
	Email         string `json:"email" validate:"omitempty,email"`
	NCC           string `json:"ncc" validate:"max=30"`
	PointOfSale   string `json:"point_of_sale" validate:"max=100"`
	Establishment string `json:"establishment" validate:"max=100"`
	FNEAPIKey     string `json:"fne_api_key"`
}

// CompanyResponse datos de la empresa. La clave FNE nunca se devuelve.
type CompanyResponse struct {
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	NCC           string    `json:"ncc"`
	PointOfSale   string    `json:"point_of_sale"`
	Establishment string    `json:"establishment"`
	HasFNEAPIKey  bool      `json:"has_fne_api_key"`
	CanCertify    bool      `json:"can_certify"`
	UpdatedAt     time.Time `json:"updated_at"`
}
