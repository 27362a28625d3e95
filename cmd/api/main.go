// @title                       e-Factura CIUS-RO API
// @version                     1.0
// @description                 Exportación e importación de e-Factura CIUS-RO (ANAF).
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
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

	_ "github.com/jhoicas/efactura-ciusro/docs"
	"github.com/jhoicas/efactura-ciusro/internal/application/einvoice"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ciusro"
	"github.com/jhoicas/efactura-ciusro/internal/infrastructure/anaf"
	infrapdf "github.com/jhoicas/efactura-ciusro/internal/infrastructure/pdf"
	"github.com/jhoicas/efactura-ciusro/internal/infrastructure/postgres"
	"github.com/jhoicas/efactura-ciusro/internal/infrastructure/ublxml"
	httpRouter "github.com/jhoicas/efactura-ciusro/internal/interfaces/http"
	"github.com/jhoicas/efactura-ciusro/pkg/config"
	"github.com/jhoicas/efactura-ciusro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("anaf", cfg.ANAF.BaseURL).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.RunMigrations(pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	partnerRepo := postgres.NewPartnerRepository(pool)
	taxRepo := postgres.NewTaxRepository(pool)
	journalRepo := postgres.NewJournalRepository(pool)
	attachmentRepo := postgres.NewAttachmentRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// PDF: servicio de transformación ANAF con respaldo local (maroto)
	anafClient := anaf.NewHTTPClient(cfg.ANAF.BaseURL, cfg.ANAF.Timeout(), log.Component("anaf"))
	attachmentSvc := einvoice.NewAttachmentService(
		invoiceRepo, attachmentRepo, messageRepo,
		anafClient, infrapdf.NewMarotoInvoiceRenderer(), log.Component("pdf"),
	)

	exportUC := einvoice.NewExportUseCase(
		invoiceRepo,
		ublxml.NewValsBuilder(),
		ciusro.NewLocalizer(log.Component("ciusro")),
		ublxml.NewXMLWriter(),
		cfg.CIUSRO.Lang,
		log.Component("export"),
	)
	importUC := einvoice.NewImportUseCase(
		ublxml.NewReader(), journalRepo, taxRepo, partnerRepo, invoiceRepo,
		txRunner, attachmentSvc, log.Component("import"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    12 * 1024 * 1024,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "e-Factura CIUS-RO API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ExportUC:   exportUC,
		ImportUC:   importUC,
		Attachment: attachmentSvc,
		JWTSecret:  cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
