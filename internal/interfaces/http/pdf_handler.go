package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturation-ci/internal/application/billing"
)

// PDFHandler descarga la representación gráfica de los documentos.
type PDFHandler struct {
	uc *billing.PDFUseCase
}

// NewPDFHandler construye el handler.
func NewPDFHandler(uc *billing.PDFUseCase) *PDFHandler {
	return &PDFHandler{uc: uc}
}

// Invoice GET /api/invoices/:id/pdf
func (h *PDFHandler) Invoice(c *fiber.Ctx) error {
	data, name, err := h.uc.InvoicePDF(c.UserContext(), c.Params("id"))
	return sendPDF(c, data, name, err)
}

// DeliveryNote GET /api/invoices/:id/delivery-note/pdf
func (h *PDFHandler) DeliveryNote(c *fiber.Ctx) error {
	data, name, err := h.uc.DeliveryNotePDF(c.UserContext(), c.Params("id"))
	return sendPDF(c, data, name, err)
}

// CreditNote GET /api/credit-notes/:id/pdf
func (h *PDFHandler) CreditNote(c *fiber.Ctx) error {
	data, name, err := h.uc.CreditNotePDF(c.UserContext(), c.Params("id"))
	return sendPDF(c, data, name, err)
}

func sendPDF(c *fiber.Ctx, data []byte, name string, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", name))
	return c.Send(data)
}
