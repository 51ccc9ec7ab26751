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

	"github.com/jhoicas/Licencia-api/internal/application/auth"
	"github.com/jhoicas/Licencia-api/internal/application/payment"
	"github.com/jhoicas/Licencia-api/internal/application/ports"
	"github.com/jhoicas/Licencia-api/internal/application/subscription"
	"github.com/jhoicas/Licencia-api/internal/application/usecase"
	"github.com/jhoicas/Licencia-api/internal/domain/licence"
	"github.com/jhoicas/Licencia-api/internal/infrastructure/cache"
	"github.com/jhoicas/Licencia-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Licencia-api/internal/infrastructure/paytr"
	infrapdf "github.com/jhoicas/Licencia-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Licencia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Licencia-api/internal/interfaces/http"
	"github.com/jhoicas/Licencia-api/pkg/clock"
	"github.com/jhoicas/Licencia-api/pkg/config"
	"github.com/jhoicas/Licencia-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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
		Str("timezone", cfg.Licence.Timezone).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	// Caché de licencias: sin REDIS_URL se consulta siempre la base.
	var licenceCache ports.LicenceCache = ports.NopLicenceCache{}
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		licenceCache = cache.NewLicenceCache(rdb, cfg.Redis.LicenceTTL())
	}

	var appMetrics ports.Metrics = ports.NopMetrics{}
	var prom *metrics.Prometheus
	if cfg.Metrics.Enabled {
		prom = metrics.New()
		appMetrics = prom
	}

	loc := cfg.Licence.Location()
	clk := clock.Real{Location: loc}
	extender := subscription.NewExtender(licence.NewEvaluator(loc), clk)

	companyRepo := postgres.NewCompanyRepository(pool)
	packageRepo := postgres.NewPackageRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	orderRepo := postgres.NewPaymentOrderRepository(pool)
	adminRepo := postgres.NewAdminRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	subscriptionSvc := subscription.NewService(
		txRunner, companyRepo, packageRepo, ledgerRepo, extender,
		licenceCache, appMetrics, clk, log,
	)

	// PDF: constancia de licencia de la empresa
	statementPDF := infrapdf.NewStatementGenerator(loc)
	companyUC := usecase.NewCompanyUseCase(
		txRunner, companyRepo, packageRepo, subscriptionSvc, statementPDF,
		licenceCache, clk, cfg.App.PublicURL, log,
	)

	paytrClient := paytr.NewClient(cfg.PayTR)
	paymentBridge := payment.NewBridge(
		txRunner, companyRepo, packageRepo, ledgerRepo, orderRepo,
		paytrClient, extender, licenceCache, appMetrics, clk,
		payment.Config{Currency: cfg.PayTR.Currency}, log,
	)

	authUC := auth.NewAuthUseCase(adminRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Licencia API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	deps := httpRouter.RouterDeps{
		AuthUC:       authUC,
		AdminUC:      usecase.NewAdminUseCase(adminRepo, companyRepo, clk, log),
		CompanyUC:    companyUC,
		PackageUC:    usecase.NewPackageUseCase(packageRepo, clk, log),
		Subscription: subscriptionSvc,
		LicenceUC:    usecase.NewLicenceUseCase(companyRepo, licenceCache, appMetrics, clk, log),
		Payment:      paymentBridge,
		MetricsPath:  cfg.Metrics.Path,
	}
	if prom != nil {
		deps.MetricsHandler = prom.Handler()
	}
	httpRouter.Router(app, deps)

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
