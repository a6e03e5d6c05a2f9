package http

import (
	"strconv"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pcmejia/inventario-obras/internal/application/snapshot"
	"github.com/pcmejia/inventario-obras/internal/application/usecases"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
	"github.com/pcmejia/inventario-obras/internal/metrics"
	"github.com/pcmejia/inventario-obras/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *usecases.AuthUseCase
	DashboardUC  *usecases.DashboardUseCase
	MovementUC   *usecases.MovementUseCase
	UserUC       *usecases.UserUseCase
	ToolUC       *usecases.ToolUseCase
	PurchasingUC *usecases.PurchasingUseCase
	AdvisoryUC   *usecases.AdvisoryUseCase
	Store        *snapshot.Store
	Refresher    *snapshot.Refresher
	Metrics      *metrics.Metrics
	Log          *logger.Logger
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(metricsMiddleware(deps.Metrics))
	app.Use(requestLogger(deps.Log))

	// Operativos (público)
	systemHandler := NewSystemHandler(deps.Store, deps.Refresher)
	app.Get("/health", systemHandler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics.Registry(), promhttp.HandlerOpts{})))

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Dashboard, catálogo e inventario (protegido, todos los roles)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
	protected.Get("/kpis", dashboardHandler.GetKPIs)
	protected.Get("/sites", dashboardHandler.GetSites)
	protected.Get("/items", dashboardHandler.GetItems)
	protected.Get("/inventory", dashboardHandler.GetInventory)
	protected.Get("/inventory/export.csv", dashboardHandler.ExportInventoryCSV)
	protected.Get("/inventory/export.xlsx", dashboardHandler.ExportInventoryXLSX)
	protected.Get("/inventory/export.pdf", dashboardHandler.ExportReportPDF)
	protected.Get("/projects/:id/reconciliation", dashboardHandler.Reconcile)

	// Herramientas (protegido; cambio de estado restringido)
	toolHandler := NewToolHandler(deps.ToolUC)
	protected.Get("/tools", dashboardHandler.GetTools)
	protected.Put("/tools/:id/status",
		RequireRole(entity.RoleAdmin, entity.RoleDirector, entity.RoleSiteManager),
		toolHandler.UpdateStatus)

	// Traslados y aprobaciones (protegido; decidir es de dirección)
	movementHandler := NewMovementHandler(deps.MovementUC)
	protected.Get("/movements", movementHandler.GetMovements)
	protected.Post("/movements", movementHandler.CreateBatch)
	approvals := protected.Group("/approvals", RequireRole(entity.RoleAdmin, entity.RoleDirector))
	approvals.Get("/", movementHandler.GetApprovals)
	approvals.Post("/approve", movementHandler.Approve)
	approvals.Post("/reject", movementHandler.Reject)

	// Compras (protegido)
	purchasingHandler := NewPurchasingHandler(deps.PurchasingUC)
	purchasing := protected.Group("/purchasing",
		RequireRole(entity.RoleAdmin, entity.RoleDirector, entity.RolePurchasing))
	purchasing.Get("/stockouts", purchasingHandler.GetStockouts)
	purchasing.Post("/check", purchasingHandler.Check)

	// Usuarios (protegido, administración)
	userHandler := NewUserHandler(deps.UserUC)
	protected.Get("/users", RequireRole(entity.RoleAdmin, entity.RoleDirector), userHandler.List)
	protected.Post("/users", RequireRole(entity.RoleAdmin), userHandler.Create)

	// Asesor de IA (protegido, todos los roles)
	advisoryHandler := NewAdvisoryHandler(deps.AdvisoryUC, deps.Metrics)
	ai := protected.Group("/ai")
	ai.Post("/benchmarks", advisoryHandler.Benchmarks)
	ai.Post("/analyze", advisoryHandler.Analyze)
	ai.Post("/search", advisoryHandler.Search)
	ai.Post("/work-report", advisoryHandler.WorkReport)
	ai.Post("/chat", advisoryHandler.Chat)

	// Refresco manual del snapshot (protegido, dirección)
	protected.Post("/refresh",
		RequireRole(entity.RoleAdmin, entity.RoleDirector),
		systemHandler.Refresh)
}

// requestLogger deja traza de cada petición con método, ruta, estado y latencia.
func requestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		log.Debug().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("Petición HTTP")
		return err
	}
}

// metricsMiddleware registra contador y latencia por ruta registrada, no por
// URL cruda, para acotar la cardinalidad de las etiquetas.
func metricsMiddleware(met *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		met.HTTPRequests.WithLabelValues(route, c.Method(), strconv.Itoa(c.Response().StatusCode())).Inc()
		met.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}
