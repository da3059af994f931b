package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
	"github.com/jhoicas/facturation-ci/internal/domain/repository"
)

var _ repository.DeliveryNoteRepository = (*DeliveryNoteRepo)(nil)

// DeliveryNoteRepo implementación de DeliveryNoteRepository.
type DeliveryNoteRepo struct {
	q Querier
}

// NewDeliveryNoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryNoteRepository(q Querier) *DeliveryNoteRepo {
	return &DeliveryNoteRepo{q: q}
}

// Create persiste el BL en estado pending.
func (r *DeliveryNoteRepo) Create(ctx context.Context, n *entity.DeliveryNote) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.FNE.Status == "" {
		n.FNE.Status = entity.FNEStatusPending
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO delivery_notes (id, code, invoice_id, note_date, fne_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.Code, n.InvoiceID, n.Date, n.FNE.Status, n.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert delivery note: %w", err)
	}
	return nil
}

// El BL no guarda id externo: se lee NULL para reutilizar certScan.
const deliveryNoteSelect = `
	SELECT id, code, invoice_id, note_date, created_at,
	       fne_status, fne_nim, fne_qr_code, NULL::text, fne_error_message, certified_at
	FROM delivery_notes`

func (r *DeliveryNoteRepo) getOne(ctx context.Context, where, arg string) (*entity.DeliveryNote, error) {
	var n entity.DeliveryNote
	var cs certScan
	dest := append([]any{&n.ID, &n.Code, &n.InvoiceID, &n.Date, &n.CreatedAt}, cs.dest()...)
	if err := r.q.QueryRow(ctx, deliveryNoteSelect+" WHERE "+where+" = $1", arg).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery note: %w", err)
	}
	n.FNE = cs.value()
	return &n, nil
}

// GetByID obtiene un BL por ID.
func (r *DeliveryNoteRepo) GetByID(ctx context.Context, id string) (*entity.DeliveryNote, error) {
	return r.getOne(ctx, "id", id)
}

// GetByInvoiceID obtiene el BL de una factura.
func (r *DeliveryNoteRepo) GetByInvoiceID(ctx context.Context, invoiceID string) (*entity.DeliveryNote, error) {
	return r.getOne(ctx, "invoice_id", invoiceID)
}

// UpdateCertification escribe el resultado de certificación del BL.
func (r *DeliveryNoteRepo) UpdateCertification(ctx context.Context, id string, c entity.Certification) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE delivery_notes
		SET fne_status        = $2,
		    fne_nim           = COALESCE($3, fne_nim),
		    fne_qr_code       = COALESCE($4, fne_qr_code),
		    fne_error_message = $5,
		    certified_at      = COALESCE($6, certified_at)
		WHERE id = $1`,
		id, c.Status, nullIfEmpty(c.NIM), nullIfEmpty(c.QRCode), nullIfEmpty(c.ErrorMessage), c.CertifiedAt,
	)
	if err != nil {
		return fmt.Errorf("update delivery note certification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
