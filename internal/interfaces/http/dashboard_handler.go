package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturation-ci/internal/application/usecase"
)

// DashboardHandler maneja el endpoint del tablero.
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Get devuelve facturas por estado FNE, avoirs, pedidos sin facturar e ingresos
// del día y del mes en curso.
// GET /api/dashboard
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
