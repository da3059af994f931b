package repository

import (
	"context"

	"github.com/jhoicas/facturation-ci/internal/domain/entity"
)

// CreditNoteRepository define el puerto de persistencia para CreditNote.
type CreditNoteRepository interface {
	Create(ctx context.Context, note *entity.CreditNote) error
	GetByID(ctx context.Context, id string) (*entity.CreditNote, error)
	// List filtra por factura de origen si invoiceID no está vacío.
	List(ctx context.Context, invoiceID string, limit, offset int) ([]*entity.CreditNoteSummary, error)
	CountByInvoice(ctx context.Context, invoiceID string) (int, error)
	UpdateCertification(ctx context.Context, id string, cert entity.Certification) error
}
