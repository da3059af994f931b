package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/facturation-ci/internal/application/dto"
	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
	"github.com/jhoicas/facturation-ci/internal/domain/repository"
)

// CompanyUseCase datos de la empresa emisora (fila única).
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Get devuelve la empresa; ErrCompanyNotSet si aún no se configuró.
func (uc *CompanyUseCase) Get(ctx context.Context) (*dto.CompanyResponse, error) {
	c, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCompanyNotSet
	}
	return toCompanyResponse(c), nil
}

// Update guarda los datos de la empresa. Una clave FNE vacía conserva la existente.
func (uc *CompanyUseCase) Update(ctx context.Context, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	current, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	c := &entity.Company{ID: "default"}
	if current != nil {
		c.ID = current.ID
		c.FNEAPIKey = current.FNEAPIKey
	}
	c.Name = in.Name
	c.Address = in.Address
	c.Phone = in.Phone
	c.Email = in.Email
	c.NCC = in.NCC
	c.PointOfSale = in.PointOfSale
	c.Establishment = in.Establishment
	if in.FNEAPIKey != "" {
		c.FNEAPIKey = in.FNEAPIKey
	}
	c.UpdatedAt = time.Now()

	if err := uc.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return toCompanyResponse(c), nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		Name:          c.Name,
		Address:       c.Address,
		Phone:         c.Phone,
		Email:         c.Email,
		NCC:           c.NCC,
		PointOfSale:   c.PointOfSale,
		Establishment: c.Establishment,
		HasFNEAPIKey:  c.FNEAPIKey != "",
		CanCertify:    c.HasFNECredentials(),
		UpdatedAt:     c.UpdatedAt,
	}
}

// CanCertify indica si la empresa tiene clave API FNE y NCC.
func (uc *CompanyUseCase) CanCertify(ctx context.Context) (bool, error) {
	c, err := uc.repo.Get(ctx)
	if err != nil {
		return false, err
	}
	return c.HasFNECredentials(), nil
}
