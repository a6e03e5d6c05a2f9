package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/pcmejia/inventario-obras/internal/application/ports"
	"github.com/pcmejia/inventario-obras/internal/application/snapshot"
	"github.com/pcmejia/inventario-obras/internal/application/usecases"
	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
	infraai "github.com/pcmejia/inventario-obras/internal/infrastructure/ai"
	"github.com/pcmejia/inventario-obras/internal/infrastructure/cache"
	"github.com/pcmejia/inventario-obras/internal/infrastructure/demo"
	"github.com/pcmejia/inventario-obras/internal/infrastructure/remote"
	httpRouter "github.com/pcmejia/inventario-obras/internal/interfaces/http"
	"github.com/pcmejia/inventario-obras/internal/metrics"
	"github.com/pcmejia/inventario-obras/pkg/config"
	"github.com/pcmejia/inventario-obras/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("provider", cfg.Provider.Mode).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	met := metrics.New()

	provider := buildProvider(ctx, cfg, log)

	// Carga inicial del snapshot. En modo demo no puede fallar; en modo
	// remoto arrancamos degradados y el polling reintenta hasta lograrla.
	initial, err := snapshot.Load(ctx, provider)
	if err != nil {
		log.Warn().Err(err).Msg("carga inicial de snapshot fallida, arrancando en modo degradado")
		met.SnapshotFailures.Inc()
	}
	store := snapshot.NewStore(initial)

	refresher := snapshot.NewRefresher(provider, store, cfg.Provider.RefreshInterval, log, func(error) {
		met.SnapshotFailures.Inc()
	})
	refresher.OnSuccess = met.SnapshotRefreshes.Inc
	go refresher.Run(ctx)

	var summaryCache ports.SummaryCache = cache.NoopCache{}
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.SummaryTTL, log)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis inalcanzable, caché de resúmenes deshabilitado")
		} else {
			summaryCache = rc
			defer rc.Close()
		}
	}

	thresholds := entity.Thresholds{
		StagnantDays:  cfg.Thresholds.StagnantDays,
		DeadStockDays: cfg.Thresholds.DeadStockDays,
		StockoutQty:   cfg.Thresholds.StockoutQty,
		WindowDays:    cfg.Thresholds.WindowDays,
	}

	geminiSvc := infraai.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.Model, cfg.AI.ProModel)

	authUC := usecases.NewAuthUseCase(provider, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration, log)
	dashboardUC := usecases.NewDashboardUseCase(store, summaryCache, thresholds, log)
	movementUC := usecases.NewMovementUseCase(store, provider, log)
	userUC := usecases.NewUserUseCase(store, provider, log)
	toolUC := usecases.NewToolUseCase(store, provider, log)
	purchasingUC := usecases.NewPurchasingUseCase(store, thresholds)
	advisoryUC := usecases.NewAdvisoryUseCase(store, geminiSvc, dashboardUC, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		DashboardUC:  dashboardUC,
		MovementUC:   movementUC,
		UserUC:       userUC,
		ToolUC:       toolUC,
		PurchasingUC: purchasingUC,
		AdvisoryUC:   advisoryUC,
		Store:        store,
		Refresher:    refresher,
		Metrics:      met,
		Log:          log,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// buildProvider selecciona el proveedor de datos según la configuración.
// En modo remoto, si el backend no responde al arranque se recurre al
// dataset demo para no dejar el dashboard sin datos.
func buildProvider(ctx context.Context, cfg *config.Config, log *logger.Logger) ports.DataProvider {
	if cfg.Provider.Mode != "remote" {
		return demo.NewProvider()
	}

	client := remote.NewClient(cfg.Provider.RemoteBaseURL, cfg.Provider.RequestTimeout)

	probeCtx, cancel := context.WithTimeout(ctx, cfg.Provider.RequestTimeout)
	defer cancel()
	if _, err := client.FetchSites(probeCtx); err != nil && errors.Is(err, domain.ErrUnavailable) {
		log.Warn().Err(err).Str("url", cfg.Provider.RemoteBaseURL).
			Msg("backend remoto inalcanzable, usando dataset demo")
		return demo.NewProvider()
	}

	return client
}
