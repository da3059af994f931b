package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturation-ci/internal/application/billing"
	"github.com/jhoicas/facturation-ci/internal/application/dto"
	"github.com/jhoicas/facturation-ci/internal/application/task"
)

// Certifications lanza y consulta las certificaciones en segundo plano.
type Certifications interface {
	Start(docType, docID, operatorID string) (*task.Task[billing.CertificationResult], error)
	Status(docType, docID string) task.Snapshot[billing.CertificationResult]
}

// CertificationHandler expone las acciones de certificación de cada documento.
type CertificationHandler struct {
	runner      Certifications
	waitTimeout time.Duration
}

// NewCertificationHandler waitTimeout acota las peticiones con ?wait=true.
func NewCertificationHandler(runner Certifications, waitTimeout time.Duration) *CertificationHandler {
	if waitTimeout <= 0 {
		waitTimeout = time.Minute
	}
	return &CertificationHandler{runner: runner, waitTimeout: waitTimeout}
}

// Start godoc
// @Summary      Certificar un documento ante la FNE
// @Description  Lanza la certificación en segundo plano y responde 202 con el estado de la acción.
// @Description  Con wait=true espera el resultado. Un segundo intento mientras la acción sigue en curso devuelve 409 TASK_IN_FLIGHT.
// @Tags         certification
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del documento (la factura para el bon de livraison)"
// @Param        wait  query  bool    false  "Esperar el resultado"
// @Success      200   {object}  dto.CertificationResponse
// @Success      202   {object}  dto.CertificationActionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/certify [post]
func (h *CertificationHandler) Start(docType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		t, err := h.runner.Start(docType, id, GetUserID(c))
		if err != nil {
			return writeError(c, err)
		}
		if !c.QueryBool("wait") {
			return c.Status(fiber.StatusAccepted).JSON(toActionResponse(docType, id, h.runner.Status(docType, id)))
		}

		// si el cliente se va, la certificación sigue; solo deja de esperar
		ctx, cancel := context.WithTimeout(c.UserContext(), h.waitTimeout)
		defer cancel()
		res, err := t.Wait(ctx)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(res)
	}
}

// Status GET .../certify: idle, in_flight o done con el resultado o el error.
func (h *CertificationHandler) Status(docType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		return c.JSON(toActionResponse(docType, id, h.runner.Status(docType, id)))
	}
}

func toActionResponse(docType, id string, s task.Snapshot[billing.CertificationResult]) dto.CertificationActionResponse {
	out := dto.CertificationActionResponse{
		DocumentType: docType,
		DocumentID:   id,
		State:        string(s.State),
		Result:       s.Value,
	}
	if !s.StartedAt.IsZero() {
		started := s.StartedAt
		out.StartedAt = &started
	}
	if !s.FinishedAt.IsZero() {
		finished := s.FinishedAt
		out.FinishedAt = &finished
	}
	if s.Err != nil {
		body := errorBody(s.Err)
		out.Error = &body
	}
	return out
}
