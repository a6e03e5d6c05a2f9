// Package usecases orquesta el dominio: compone el snapshot vigente con el
// motor de análisis y aplica las reglas de autorización por rol.
package usecases

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pcmejia/inventario-obras/internal/application/ports"
	"github.com/pcmejia/inventario-obras/internal/application/snapshot"
	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/analytics"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
	"github.com/pcmejia/inventario-obras/pkg/logger"
)

// Viewer identidad del usuario que consulta, extraída del JWT.
type Viewer struct {
	UserID string
	Role   string
	SiteID string // solo SITE_MANAGER
}

// DashboardSummary respuesta completa del resumen ejecutivo.
type DashboardSummary struct {
	KPIs            analytics.KPIReport             `json:"kpis"`
	Categories      []analytics.CategoryMetric      `json:"categories"`
	SiteRisk        []analytics.SiteRiskEntry       `json:"siteRisk"`
	TopValue        []analytics.ConcentrationEntry  `json:"topValue"`
	Stagnant        []analytics.DetailedRecord      `json:"stagnant"`
	SiteInvestment  []analytics.SiteInvestmentEntry `json:"siteInvestment"`
	TransferSavings string                          `json:"transferSavings"`
	Provider        string                          `json:"provider"`
	FetchedAt       time.Time                       `json:"fetchedAt"`
}

// DashboardUseCase arma el resumen del dashboard a partir del snapshot.
type DashboardUseCase struct {
	store      *snapshot.Store
	cache      ports.SummaryCache
	thresholds entity.Thresholds
	topN       int
	log        *logger.Logger
}

// NewDashboardUseCase crea el caso de uso del dashboard.
func NewDashboardUseCase(store *snapshot.Store, cache ports.SummaryCache, th entity.Thresholds, log *logger.Logger) *DashboardUseCase {
	return &DashboardUseCase{store: store, cache: cache, thresholds: th, topN: 10, log: log}
}

// Summary calcula (o recupera de caché) el resumen ejecutivo, restringido a la
// vista del rol: un SITE_MANAGER solo ve el inventario de su obra.
func (uc *DashboardUseCase) Summary(ctx context.Context, viewer Viewer) (DashboardSummary, error) {
	snap, err := uc.store.Current()
	if err != nil {
		return DashboardSummary{}, err
	}

	key := uc.cacheKey(snap, viewer)
	if payload, ok := uc.cache.Get(ctx, key); ok {
		var cached DashboardSummary
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
		// Payload corrupto en caché: se recalcula.
		uc.log.Warn().Str("key", key).Msg("Entrada de caché ilegible, se recalcula el resumen")
	}

	now := time.Now().UTC()
	inventory := scopeInventory(snap.Inventory, viewer)
	txs := scopeTransactions(snap.Transactions, viewer)

	detailed := analytics.EnrichInventory(snap.Catalog, inventory, now, uc.thresholds)
	summary := DashboardSummary{
		KPIs:            analytics.ComputeKPIs(snap.Catalog, detailed, txs, now, uc.thresholds),
		Categories:      analytics.CategoryMetrics(snap.Catalog, detailed, txs, now, uc.thresholds),
		SiteRisk:        analytics.SiteRisk(snap.Catalog, detailed, txs, now, uc.thresholds, uc.topN),
		TopValue:        analytics.TopValueRecords(detailed, uc.topN),
		Stagnant:        analytics.StagnantRecords(detailed),
		SiteInvestment:  analytics.SiteInvestment(snap.Catalog, detailed),
		TransferSavings: analytics.TransferSavings(snap.Catalog, snap.Movements).String(),
		Provider:        snap.Provider,
		FetchedAt:       snap.FetchedAt,
	}

	if payload, err := json.Marshal(summary); err == nil {
		uc.cache.Set(ctx, key, payload)
	}
	return summary, nil
}

// KPIView subconjunto analítico del resumen para la página de indicadores.
type KPIView struct {
	KPIs       analytics.KPIReport            `json:"kpis"`
	Categories []analytics.CategoryMetric     `json:"categories"`
	TopValue   []analytics.ConcentrationEntry `json:"topValue"`
}

// KPIs devuelve los indicadores con el desglose por categoría y la
// concentración de capital. Comparte la caché del resumen.
func (uc *DashboardUseCase) KPIs(ctx context.Context, viewer Viewer) (KPIView, error) {
	summary, err := uc.Summary(ctx, viewer)
	if err != nil {
		return KPIView{}, err
	}
	return KPIView{KPIs: summary.KPIs, Categories: summary.Categories, TopValue: summary.TopValue}, nil
}

// Sites devuelve el catálogo de sedes del snapshot vigente.
func (uc *DashboardUseCase) Sites(ctx context.Context) ([]entity.Site, error) {
	snap, err := uc.store.Current()
	if err != nil {
		return nil, err
	}
	return snap.Catalog.Sites(), nil
}

// Items devuelve el catálogo maestro de materiales del snapshot vigente.
func (uc *DashboardUseCase) Items(ctx context.Context) ([]entity.Item, error) {
	snap, err := uc.store.Current()
	if err != nil {
		return nil, err
	}
	return snap.Catalog.Items(), nil
}

// Estados del filtro de inventario.
const (
	InventoryStatusStagnant = "STAGNANT"
	InventoryStatusLow      = "LOW"
	InventoryStatusOK       = "OK"
)

// InventoryFilter filtros opcionales del listado de inventario. Los campos
// vacíos no filtran.
type InventoryFilter struct {
	SiteID   string
	Category string
	Status   string // STAGNANT, LOW u OK
	Search   string // subcadena sobre nombre o SKU
}

// Inventory devuelve el inventario enriquecido visible para el rol, con los
// filtros aplicados sobre los registros ya enriquecidos.
func (uc *DashboardUseCase) Inventory(ctx context.Context, viewer Viewer, filter InventoryFilter) ([]analytics.DetailedRecord, error) {
	snap, err := uc.store.Current()
	if err != nil {
		return nil, err
	}
	inventory := scopeInventory(snap.Inventory, viewer)
	detailed := analytics.EnrichInventory(snap.Catalog, inventory, time.Now().UTC(), uc.thresholds)
	return uc.filterInventory(detailed, filter), nil
}

func (uc *DashboardUseCase) filterInventory(detailed []analytics.DetailedRecord, filter InventoryFilter) []analytics.DetailedRecord {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	low := decimal.NewFromInt(int64(uc.thresholds.StockoutQty))

	out := make([]analytics.DetailedRecord, 0, len(detailed))
	for _, d := range detailed {
		if filter.SiteID != "" && d.SiteID != filter.SiteID {
			continue
		}
		if filter.Category != "" && d.Category != filter.Category {
			continue
		}
		switch filter.Status {
		case InventoryStatusStagnant:
			if !d.IsStagnant {
				continue
			}
		case InventoryStatusLow:
			if d.Quantity.GreaterThan(low) {
				continue
			}
		case InventoryStatusOK:
			if d.IsStagnant || !d.Quantity.GreaterThan(low) {
				continue
			}
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(d.ItemName), search) &&
			!strings.Contains(strings.ToLower(d.ItemSKU), search) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Tools devuelve las herramientas enriquecidas visibles para el rol. Con
// alert no vacío solo devuelve las que tienen esa alerta de mantenimiento o
// garantía (SOON, OVERDUE, EXPIRING, EXPIRED).
func (uc *DashboardUseCase) Tools(ctx context.Context, viewer Viewer, alert string) ([]analytics.DetailedTool, error) {
	snap, err := uc.store.Current()
	if err != nil {
		return nil, err
	}
	tools := snap.Tools
	if viewer.Role == entity.RoleSiteManager && viewer.SiteID != "" {
		scoped := make([]entity.Tool, 0)
		for _, t := range tools {
			if t.SiteID == viewer.SiteID {
				scoped = append(scoped, t)
			}
		}
		tools = scoped
	}

	detailed := analytics.EnrichTools(snap.Catalog, tools, time.Now().UTC())
	if alert == "" {
		return detailed, nil
	}
	filtered := make([]analytics.DetailedTool, 0, len(detailed))
	for _, d := range detailed {
		if d.MaintenanceAlert == alert || d.WarrantyAlert == alert {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

// Reconcile concilia entradas contra stock e instalado de una obra.
// Un SITE_MANAGER solo puede conciliar su propia obra.
func (uc *DashboardUseCase) Reconcile(ctx context.Context, viewer Viewer, siteID string) ([]analytics.ReconcileRow, analytics.ReconcileSummary, error) {
	snap, err := uc.store.Current()
	if err != nil {
		return nil, analytics.ReconcileSummary{}, err
	}
	if viewer.Role == entity.RoleSiteManager && viewer.SiteID != siteID {
		return nil, analytics.ReconcileSummary{}, domain.ErrForbidden
	}
	if _, ok := snap.Catalog.Site(siteID); !ok {
		return nil, analytics.ReconcileSummary{}, fmt.Errorf("%w: sede %s", domain.ErrNotFound, siteID)
	}
	rows, sum := analytics.ReconcileSite(snap.Catalog, siteID, snap.Inventory, snap.Transactions, snap.Progress)
	return rows, sum, nil
}

// cacheKey clave estable por snapshot y vista: cambia cuando cambia el origen,
// la foto o el alcance del rol.
func (uc *DashboardUseCase) cacheKey(snap *snapshot.Snapshot, viewer Viewer) string {
	scope := viewer.Role
	if viewer.Role == entity.RoleSiteManager {
		scope += ":" + viewer.SiteID
	}
	raw := fmt.Sprintf("%s|%d|%s", snap.Provider, snap.FetchedAt.UnixNano(), scope)
	sum := sha1.Sum([]byte(raw))
	return "dashboard:summary:" + hex.EncodeToString(sum[:])
}

func scopeInventory(records []entity.InventoryRecord, viewer Viewer) []entity.InventoryRecord {
	if viewer.Role != entity.RoleSiteManager || viewer.SiteID == "" {
		return records
	}
	out := make([]entity.InventoryRecord, 0)
	for _, r := range records {
		if r.SiteID == viewer.SiteID {
			out = append(out, r)
		}
	}
	return out
}

func scopeTransactions(txs []entity.Transaction, viewer Viewer) []entity.Transaction {
	if viewer.Role != entity.RoleSiteManager || viewer.SiteID == "" {
		return txs
	}
	out := make([]entity.Transaction, 0)
	for _, tx := range txs {
		if tx.SiteID == viewer.SiteID {
			out = append(out, tx)
		}
	}
	return out
}
