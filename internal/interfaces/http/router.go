package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/Licencia-api/internal/application/auth"
	"github.com/jhoicas/Licencia-api/internal/application/payment"
	"github.com/jhoicas/Licencia-api/internal/application/subscription"
	"github.com/jhoicas/Licencia-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	AdminUC      *usecase.AdminUseCase
	CompanyUC    *usecase.CompanyUseCase
	PackageUC    *usecase.PackageUseCase
	Subscription *subscription.Service
	LicenceUC    *usecase.LicenceUseCase
	Payment      *payment.Bridge
	// MetricsHandler opcional; nil = sin endpoint de métricas.
	MetricsHandler nethttp.Handler
	MetricsPath    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.MetricsHandler != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")

	// Licencias (público)
	licenceHandler := NewLicenceHandler(deps.LicenceUC)
	api.Get("/licence/checked-licance", licenceHandler.CheckByQuery)
	api.Get("/licence/:publicId", licenceHandler.CheckByPath)

	// Pagos (público; el callback se autentica por firma)
	paymentHandler := NewPaymentHandler(deps.Payment)
	api.Get("/payment/checkout/:publicId", paymentHandler.Checkout)
	api.Post("/payment/process", paymentHandler.Process)
	api.Post("/payment/callback", paymentHandler.Callback)
	app.Get("/payment/success", paymentHandler.Success)
	app.Get("/payment/fail", paymentHandler.Fail)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.AdminUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.AuthUC))
	protected.Get("/auth/me", authHandler.Me)
	protected.Put("/auth/password", authHandler.ChangePassword)

	companyHandler := NewCompanyHandler(deps.CompanyUC)
	subscriptionHandler := NewSubscriptionHandler(deps.Subscription)
	companies := protected.Group("/companies")
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/stats", companyHandler.Stats)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)
	companies.Delete("/:id", companyHandler.Delete)
	companies.Get("/:id/packages", companyHandler.AllowedPackages)
	companies.Put("/:id/packages", companyHandler.SetAllowedPackages)
	companies.Get("/:id/statement", companyHandler.Statement)
	companies.Get("/:id/history", subscriptionHandler.History)
	companies.Post("/:id/assign", subscriptionHandler.Assign)

	protected.Get("/activities", subscriptionHandler.RecentActivities)
	protected.Get("/ledger/:id/events", subscriptionHandler.EntryEvents)

	packageHandler := NewPackageHandler(deps.PackageUC)
	packages := protected.Group("/packages")
	packages.Get("/", packageHandler.List)
	packages.Post("/", packageHandler.Create)
	packages.Get("/stats", packageHandler.Stats)
	packages.Get("/:id", packageHandler.GetByID)
	packages.Put("/:id", packageHandler.Update)
	packages.Delete("/:id", packageHandler.Delete)

	adminHandler := NewAdminHandler(deps.AdminUC)
	admins := protected.Group("/admins")
	admins.Get("/", adminHandler.List)
	admins.Post("/", adminHandler.Create)
	admins.Get("/:id", adminHandler.GetByID)
	admins.Put("/:id", adminHandler.Update)
	admins.Delete("/:id", adminHandler.Delete)
}
