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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la factura en estado pending.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	if inv.FNE.Status == "" {
		inv.FNE.Status = entity.FNEStatusPending
	}
	query := `
		INSERT INTO invoices (id, code, order_id, invoice_date, fne_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, inv.ID, inv.Code, inv.OrderID, inv.Date, inv.FNE.Status, inv.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyInvoiced
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

const invoiceSelect = `
	SELECT id, code, order_id, invoice_date, created_at,
	       fne_status, fne_nim, fne_qr_code, fne_invoice_id, fne_error_message, certified_at
	FROM invoices`

func (r *InvoiceRepo) getOne(ctx context.Context, where string, arg string) (*entity.Invoice, error) {
	var inv entity.Invoice
	var cs certScan
	dest := append([]any{&inv.ID, &inv.Code, &inv.OrderID, &inv.Date, &inv.CreatedAt}, cs.dest()...)
	if err := r.q.QueryRow(ctx, invoiceSelect+" WHERE "+where+" = $1", arg).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.FNE = cs.value()
	return &inv, nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, "id", id)
}

// GetByOrderID obtiene la factura de un pedido.
func (r *InvoiceRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Invoice, error) {
	return r.getOne(ctx, "order_id", orderID)
}

// List lista facturas con código de pedido, cliente y total TTC.
func (r *InvoiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.InvoiceSummary, error) {
	limit, offset = pageArgs(limit, offset)
	query := `
		SELECT f.id, f.code, f.order_id, f.invoice_date, f.created_at,
		       f.fne_status, f.fne_nim, f.fne_qr_code, f.fne_invoice_id, f.fne_error_message, f.certified_at,
		       o.code, c.id, c.name, o.total_ttc
		FROM invoices f
		JOIN orders o ON o.id = f.order_id
		JOIN clients c ON c.id = o.client_id
		ORDER BY f.created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.InvoiceSummary
	for rows.Next() {
		var s entity.InvoiceSummary
		var cs certScan
		dest := append([]any{&s.ID, &s.Code, &s.OrderID, &s.Date, &s.CreatedAt}, cs.dest()...)
		dest = append(dest, &s.OrderCode, &s.ClientID, &s.ClientName, &s.TotalTTC)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		s.FNE = cs.value()
		out = append(out, &s)
	}
	return out, rows.Err()
}

// UpdateCertification escribe el resultado de certificación.
func (r *InvoiceRepo) UpdateCertification(ctx context.Context, id string, c entity.Certification) error {
	query := `
		UPDATE invoices
		SET fne_status        = $2,
		    fne_nim           = COALESCE($3, fne_nim),
		    fne_qr_code       = COALESCE($4, fne_qr_code),
		    fne_invoice_id    = COALESCE($5, fne_invoice_id),
		    fne_error_message = $6,
		    certified_at      = COALESCE($7, certified_at)
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, c.Status,
		nullIfEmpty(c.NIM), nullIfEmpty(c.QRCode), nullIfEmpty(c.ExternalID), nullIfEmpty(c.ErrorMessage), c.CertifiedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice certification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
