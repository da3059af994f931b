package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/facturation-ci/internal/domain/entity"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation 23503: la fila sigue referenciada (cliente con pedidos, etc.).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefStr(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}

func pageArgs(limit, offset int) (int, int) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// certScan destino de escaneo de las columnas FNE comunes
// (fne_status, fne_nim, fne_qr_code, fne_invoice_id, fne_error_message, certified_at).
type certScan struct {
	status      string
	nim         *string
	qr          *string
	externalID  *string
	errMsg      *string
	certifiedAt *time.Time
}

func (c *certScan) dest() []any {
	return []any{&c.status, &c.nim, &c.qr, &c.externalID, &c.errMsg, &c.certifiedAt}
}

func (c *certScan) value() entity.Certification {
	return entity.Certification{
		Status:       c.status,
		NIM:          derefStr(c.nim),
		QRCode:       derefStr(c.qr),
		ExternalID:   derefStr(c.externalID),
		ErrorMessage: derefStr(c.errMsg),
		CertifiedAt:  c.certifiedAt,
	}
}
