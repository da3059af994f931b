package entity

import "time"

// Estados de certificación ante la FNE.
const (
	FNEStatusPending = "pending" // aún no enviada
	FNEStatusSuccess = "success" // certificada, NIM asignado
	FNEStatusFailed  = "failed"  // último intento fallido, se puede reintentar
)

// Certification campos FNE comunes a factura, bon de livraison y avoir.
type Certification struct {
	Status       string
	NIM          string // numéro d'identification de la facture normalisée
	QRCode       string // token de verificación devuelto por la FNE
	ExternalID   string // id del documento en la FNE (solo facturas)
	ErrorMessage string
	CertifiedAt  *time.Time
}

// IsCertified indica si el documento ya fue certificado.
func (c Certification) IsCertified() bool {
	return c.Status == FNEStatusSuccess
}
