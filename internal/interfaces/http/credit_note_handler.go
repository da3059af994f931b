package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturation-ci/internal/application/billing"
	"github.com/jhoicas/facturation-ci/internal/application/dto"
)

// CreditNoteHandler maneja los avoirs (protegido).
type CreditNoteHandler struct {
	uc *billing.CreditNoteUseCase
}

// NewCreditNoteHandler construye el handler.
func NewCreditNoteHandler(uc *billing.CreditNoteUseCase) *CreditNoteHandler {
	return &CreditNoteHandler{uc: uc}
}

// Create godoc
// @Summary      Crear avoir sobre una factura certificada
// @Tags         credit-notes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCreditNoteRequest  true  "invoice_id y líneas devueltas"
// @Success      201   {object}  dto.CreditNoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/credit-notes [post]
func (h *CreditNoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCreditNoteRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/credit-notes?invoice_id=&limit=&offset=
func (h *CreditNoteHandler) List(c *fiber.Ctx) error {
	var in dto.CreditNoteListRequest
	if err := bindQuery(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/credit-notes/:id
func (h *CreditNoteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
