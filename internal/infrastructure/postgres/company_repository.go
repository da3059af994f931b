package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturation-ci/internal/domain/entity"
	"github.com/jhoicas/facturation-ci/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación de CompanyRepository sobre la tabla company_info.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Get devuelve la fila única de la empresa.
func (r *CompanyRepo) Get(ctx context.Context) (*entity.Company, error) {
	query := `
		SELECT id, name, address, phone, email, ncc, point_of_sale, establishment, fne_api_key, updated_at
		FROM company_info ORDER BY updated_at DESC LIMIT 1`
	var c entity.Company
	err := r.q.QueryRow(ctx, query).Scan(
		&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email, &c.NCC,
		&c.PointOfSale, &c.Establishment, &c.FNEAPIKey, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// Save inserta la empresa la primera vez y después la actualiza.
func (r *CompanyRepo) Save(ctx context.Context, c *entity.Company) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.UpdatedAt = time.Now()
	query := `
		INSERT INTO company_info (id, name, address, phone, email, ncc, point_of_sale, establishment, fne_api_key, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    address = EXCLUDED.address,
		    phone = EXCLUDED.phone,
		    email = EXCLUDED.email,
		    ncc = EXCLUDED.ncc,
		    point_of_sale = EXCLUDED.point_of_sale,
		    establishment = EXCLUDED.establishment,
		    fne_api_key = EXCLUDED.fne_api_key,
		    updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Address, c.Phone, c.Email, c.NCC,
		c.PointOfSale, c.Establishment, c.FNEAPIKey, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save company: %w", err)
	}
	return nil
}
