package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
	"github.com/jhoicas/facturation-ci/internal/domain/repository"
)

var _ repository.CreditNoteRepository = (*CreditNoteRepo)(nil)

// CreditNoteRepo implementación de CreditNoteRepository. Las líneas viven en la columna JSONB lines.
type CreditNoteRepo struct {
	q Querier
}

// NewCreditNoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCreditNoteRepository(q Querier) *CreditNoteRepo {
	return &CreditNoteRepo{q: q}
}

// Create persiste el avoir en estado pending.
func (r *CreditNoteRepo) Create(ctx context.Context, n *entity.CreditNote) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.FNE.Status == "" {
		n.FNE.Status = entity.FNEStatusPending
	}
	lines, err := json.Marshal(n.Lines)
	if err != nil {
		return fmt.Errorf("marshal credit note lines: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO credit_notes (id, code, invoice_id, note_date, lines, total_ht, total_tva, total_ttc, fne_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		n.ID, n.Code, n.InvoiceID, n.Date, lines, n.TotalHT, n.TotalTVA, n.TotalTTC, n.FNE.Status, n.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: avoir %s", domain.ErrDuplicate, n.Code)
		}
		return fmt.Errorf("insert credit note: %w", err)
	}
	return nil
}

// GetByID obtiene un avoir con sus líneas.
func (r *CreditNoteRepo) GetByID(ctx context.Context, id string) (*entity.CreditNote, error) {
	var n entity.CreditNote
	var raw []byte
	var cs certScan
	dest := append([]any{&n.ID, &n.Code, &n.InvoiceID, &n.Date, &raw, &n.TotalHT, &n.TotalTVA, &n.TotalTTC, &n.CreatedAt}, cs.dest()...)
	err := r.q.QueryRow(ctx, `
		SELECT id, code, invoice_id, note_date, lines, total_ht, total_tva, total_ttc, created_at,
		       fne_status, fne_nim, fne_qr_code, fne_invoice_id, fne_error_message, certified_at
		FROM credit_notes WHERE id = $1`, id).Scan(dest...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credit note: %w", err)
	}
	if err := json.Unmarshal(raw, &n.Lines); err != nil {
		return nil, fmt.Errorf("unmarshal credit note lines: %w", err)
	}
	n.FNE = cs.value()
	return &n, nil
}

// List lista avoirs (sin líneas) con el código de la factura y el cliente.
func (r *CreditNoteRepo) List(ctx context.Context, invoiceID string, limit, offset int) ([]*entity.CreditNoteSummary, error) {
	limit, offset = pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT a.id, a.code, a.invoice_id, a.note_date, a.total_ht, a.total_tva, a.total_ttc, a.created_at,
		       a.fne_status, a.fne_nim, a.fne_qr_code, a.fne_invoice_id, a.fne_error_message, a.certified_at,
		       f.code, c.name
		FROM credit_notes a
		JOIN invoices f ON f.id = a.invoice_id
		JOIN orders o ON o.id = f.order_id
		JOIN clients c ON c.id = o.client_id
		WHERE $1 = '' OR a.invoice_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3`, invoiceID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list credit notes: %w", err)
	}
	defer rows.Close()

	var out []*entity.CreditNoteSummary
	for rows.Next() {
		var s entity.CreditNoteSummary
		var cs certScan
		dest := append([]any{&s.ID, &s.Code, &s.InvoiceID, &s.Date, &s.TotalHT, &s.TotalTVA, &s.TotalTTC, &s.CreatedAt}, cs.dest()...)
		dest = append(dest, &s.InvoiceCode, &s.ClientName)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan credit note: %w", err)
		}
		s.FNE = cs.value()
		out = append(out, &s)
	}
	return out, rows.Err()
}

// CountByInvoice número de avoirs ya emitidos sobre una factura.
func (r *CreditNoteRepo) CountByInvoice(ctx context.Context, invoiceID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM credit_notes WHERE invoice_id = $1`, invoiceID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count credit notes: %w", err)
	}
	return n, nil
}

// UpdateCertification escribe el resultado de certificación del avoir.
func (r *CreditNoteRepo) UpdateCertification(ctx context.Context, id string, c entity.Certification) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE credit_notes
		SET fne_status        = $2,
		    fne_nim           = COALESCE($3, fne_nim),
		    fne_qr_code       = COALESCE($4, fne_qr_code),
		    fne_invoice_id    = COALESCE($5, fne_invoice_id),
		    fne_error_message = $6,
		    certified_at      = COALESCE($7, certified_at)
		WHERE id = $1`,
		id, c.Status, nullIfEmpty(c.NIM), nullIfEmpty(c.QRCode), nullIfEmpty(c.ExternalID), nullIfEmpty(c.ErrorMessage), c.CertifiedAt,
	)
	if err != nil {
		return fmt.Errorf("update credit note certification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
