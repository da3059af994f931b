package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturation-ci/internal/application/auth"
	"github.com/jhoicas/facturation-ci/internal/application/billing"
	"github.com/jhoicas/facturation-ci/internal/application/usecase"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC             *auth.AuthUseCase
	UserUC             *usecase.UserUseCase
	CompanyUC          *usecase.CompanyUseCase
	ClientUC           *usecase.ClientUseCase
	ProductUC          *usecase.ProductUseCase
	DashboardUC        *usecase.DashboardUseCase
	PaymentUC          *usecase.PaymentUseCase
	OrderUC            *billing.OrderUseCase
	InvoiceUC          *billing.InvoiceUseCase
	CreditNoteUC       *billing.CreditNoteUseCase
	PDFUC              *billing.PDFUseCase
	Certifications     Certifications
	CertifyWaitTimeout time.Duration
	JWTSecret          string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	perm := RequirePermission

	users := protected.Group("/users", perm(entity.PermSettingsUsers))
	users.Post("/", authHandler.CreateUser)
	users.Get("/", authHandler.ListUsers)

	companyHandler := NewCompanyHandler(deps.CompanyUC)
	protected.Get("/company", perm(entity.PermSettingsView), companyHandler.Get)
	protected.Put("/company", perm(entity.PermSettingsManage), companyHandler.Update)

	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", perm(entity.PermClientsView), clientHandler.List)
	clients.Post("/", perm(entity.PermClientsCreate), clientHandler.Create)
	clients.Get("/:id", perm(entity.PermClientsView), clientHandler.GetByID)
	clients.Put("/:id", perm(entity.PermClientsEdit), clientHandler.Update)
	clients.Delete("/:id", perm(entity.PermClientsDelete), clientHandler.Delete)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", perm(entity.PermProductsView), productHandler.List)
	products.Post("/", perm(entity.PermProductsCreate), productHandler.Create)
	products.Get("/:id", perm(entity.PermProductsView), productHandler.GetByID)
	products.Put("/:id", perm(entity.PermProductsEdit), productHandler.Update)
	products.Delete("/:id", perm(entity.PermProductsDelete), productHandler.Delete)

	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Get("/", perm(entity.PermOrdersView), orderHandler.List)
	orders.Get("/unbilled", perm(entity.PermOrdersView), orderHandler.ListUnbilled)
	orders.Post("/", perm(entity.PermOrdersCreate), orderHandler.Create)
	orders.Get("/:id", perm(entity.PermOrdersView), orderHandler.GetByID)
	orders.Put("/:id", perm(entity.PermOrdersEdit), orderHandler.Update)
	orders.Patch("/:id/status", perm(entity.PermOrdersEdit), orderHandler.SetStatus)
	orders.Delete("/:id", perm(entity.PermOrdersDelete), orderHandler.Delete)

	certHandler := NewCertificationHandler(deps.Certifications, deps.CertifyWaitTimeout)
	pdfHandler := NewPDFHandler(deps.PDFUC)
	certify := []fiber.Handler{perm(entity.PermInvoicesEdit), RequireFNECredentials(deps.CompanyUC)}
	view := perm(entity.PermInvoicesView)

	// Facturas y bons de livraison
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Get("/", view, invoiceHandler.List)
	invoices.Post("/", perm(entity.PermInvoicesCreate), invoiceHandler.Create)
	invoices.Get("/:id", view, invoiceHandler.GetByID)
	invoices.Post("/:id/certify", append(certify, certHandler.Start(billing.DocInvoice))...)
	invoices.Get("/:id/certify", view, certHandler.Status(billing.DocInvoice))
	invoices.Get("/:id/pdf", view, pdfHandler.Invoice)
	invoices.Get("/:id/delivery-note", view, invoiceHandler.GetDeliveryNote)
	invoices.Post("/:id/delivery-note/certify", append(certify, certHandler.Start(billing.DocDeliveryNote))...)
	invoices.Get("/:id/delivery-note/certify", view, certHandler.Status(billing.DocDeliveryNote))
	invoices.Get("/:id/delivery-note/pdf", view, pdfHandler.DeliveryNote)

	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	invoices.Get("/:id/payments", view, paymentHandler.List)
	invoices.Post("/:id/payments", perm(entity.PermInvoicesEdit), paymentHandler.Record)

	// Avoirs
	creditNotes := protected.Group("/credit-notes")
	creditNoteHandler := NewCreditNoteHandler(deps.CreditNoteUC)
	creditNotes.Get("/", view, creditNoteHandler.List)
	creditNotes.Post("/", perm(entity.PermInvoicesCreate), creditNoteHandler.Create)
	creditNotes.Get("/:id", view, creditNoteHandler.GetByID)
	creditNotes.Post("/:id/certify", append(certify, certHandler.Start(billing.DocCreditNote))...)
	creditNotes.Get("/:id/certify", view, certHandler.Status(billing.DocCreditNote))
	creditNotes.Get("/:id/pdf", view, pdfHandler.CreditNote)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", perm(entity.PermDashboardView), dashboardHandler.Get)
}
