package repository

import (
	"context"

	"github.com/jhoicas/facturation-ci/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para los datos de la empresa (una sola fila).
type CompanyRepository interface {
	// Get devuelve nil, nil si aún no se configuró la empresa.
	Get(ctx context.Context) (*entity.Company, error)
	// Save inserta o actualiza la fila única.
	Save(ctx context.Context, company *entity.Company) error
}
