package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturation-ci/internal/application/dto"
)

// credentialsChecker contrato mínimo para saber si la empresa puede certificar.
// Lo implementa *usecase.CompanyUseCase.
type credentialsChecker interface {
	CanCertify(ctx context.Context) (bool, error)
}

// RequireFNECredentials corta las rutas de certificación si la empresa no tiene
// clave API FNE o NCC, sin lanzar ninguna tarea. Debe ir después de AuthMiddleware.
//
//   - 422 FNE_VALIDATION si faltan credenciales.
//   - 503 si no se pudo leer la empresa.
func RequireFNECredentials(checker credentialsChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := checker.CanCertify(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "COMPANY_CHECK_FAILED",
				Message: "no se pudo verificar la configuración FNE, intente más tarde",
			})
		}
		if !ok {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Code:    "FNE_VALIDATION",
				Message: "la clé API FNE et le NCC de l'entreprise doivent être configurés avant la certification",
			})
		}
		return c.Next()
	}
}
