package repository

import (
	"context"

	"github.com/jhoicas/facturation-ci/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByOrderID(ctx context.Context, orderID string) (*entity.Invoice, error)
	List(ctx context.Context, limit, offset int) ([]*entity.InvoiceSummary, error)
	// UpdateCertification actualiza los campos FNE:
	// fne_status, fne_nim, fne_qr_code, fne_invoice_id, fne_error_message, certified_at.
	UpdateCertification(ctx context.Context, id string, cert entity.Certification) error
}

// DeliveryNoteRepository define el puerto de persistencia para DeliveryNote.
type DeliveryNoteRepository interface {
	Create(ctx context.Context, note *entity.DeliveryNote) error
	GetByID(ctx context.Context, id string) (*entity.DeliveryNote, error)
	GetByInvoiceID(ctx context.Context, invoiceID string) (*entity.DeliveryNote, error)
	UpdateCertification(ctx context.Context, id string, cert entity.Certification) error
}
