package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/facturation-ci/internal/application/auth"
	"github.com/jhoicas/facturation-ci/internal/application/billing"
	"github.com/jhoicas/facturation-ci/internal/application/usecase"
	infrafne "github.com/jhoicas/facturation-ci/internal/infrastructure/fne"
	infrapdf "github.com/jhoicas/facturation-ci/internal/infrastructure/pdf"
	"github.com/jhoicas/facturation-ci/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/facturation-ci/internal/interfaces/http"
	"github.com/jhoicas/facturation-ci/pkg/config"
	"github.com/jhoicas/facturation-ci/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("fne_base_url", cfg.FNE.BaseURL).
		Msg("iniciando aplicación")

	// ctx vive mientras el servidor; el apagado espera a las certificaciones en curso antes de cancelarlo
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	deliveryNoteRepo := postgres.NewDeliveryNoteRepository(pool)
	creditNoteRepo := postgres.NewCreditNoteRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	currency := cfg.PDF.Currency

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	created, err := authUC.BootstrapAdmin(ctx, cfg.App.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("crear usuario admin")
	}
	if created {
		log.Warn().Str("username", auth.AdminUsername).Msg("usuario admin creado, cambie la contraseña")
	}

	orderUC := billing.NewOrderUseCase(txRunner, orderRepo, clientRepo, productRepo, currency)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, orderRepo, invoiceRepo, deliveryNoteRepo, clientRepo, currency)
	creditNoteUC := billing.NewCreditNoteUseCase(txRunner, orderRepo, invoiceRepo, creditNoteRepo, currency)

	// Certificación FNE: cliente HTTP + reconciliación + persistencia
	billingRepos := billing.Repositories{
		Company:       companyRepo,
		Clients:       clientRepo,
		Users:         userRepo,
		Orders:        orderRepo,
		Invoices:      invoiceRepo,
		DeliveryNotes: deliveryNoteRepo,
		CreditNotes:   creditNoteRepo,
	}
	fneClient := infrafne.NewClient(cfg.FNE)
	certificationUC := billing.NewCertificationUseCase(billingRepos, txRunner, fneClient, log)
	certRunner := billing.NewCertificationRunner(ctx, certificationUC)

	// PDF: representación gráfica con QR FNE
	pdfUC := billing.NewPDFUseCase(billingRepos, infrapdf.NewMarotoPDFGenerator(), currency)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.FNE.Timeout + 15*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturation CI API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:             authUC,
		UserUC:             usecase.NewUserUseCase(userRepo),
		CompanyUC:          usecase.NewCompanyUseCase(companyRepo),
		ClientUC:           usecase.NewClientUseCase(clientRepo),
		ProductUC:          usecase.NewProductUseCase(productRepo),
		DashboardUC:        usecase.NewDashboardUseCase(dashboardRepo, currency),
		PaymentUC:          usecase.NewPaymentUseCase(paymentRepo, invoiceRepo, orderRepo),
		OrderUC:            orderUC,
		InvoiceUC:          invoiceUC,
		CreditNoteUC:       creditNoteUC,
		PDFUC:              pdfUC,
		Certifications:     certRunner,
		CertifyWaitTimeout: cfg.FNE.Timeout + 10*time.Second,
		JWTSecret:          cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	// las llamadas FNE tienen su propio timeout; se esperan antes de cerrar el pool
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), cfg.FNE.Timeout+15*time.Second)
	defer cancelDrain()
	if err := certRunner.Shutdown(drainCtx); err != nil {
		log.Error().Err(err).Msg("certificaciones FNE aún en curso al apagar")
	}
	stop()

	log.Info().Msg("aplicación detenida")
}
