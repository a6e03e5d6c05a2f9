package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/application/ports"
	"github.com/pcmejia/inventario-obras/internal/application/snapshot"
	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/analytics"
	"github.com/pcmejia/inventario-obras/pkg/logger"
)

// maxStagnantForPrompt cuántos estancados se envían al asesor como contexto.
const maxStagnantForPrompt = 15

// AdvisoryUseCase arma el contexto de negocio y delega la redacción al asesor
// de IA. Todas las operaciones son best-effort: el dashboard funciona igual si
// el asesor falla.
type AdvisoryUseCase struct {
	store     *snapshot.Store
	advisor   ports.AdvisoryService
	dashboard *DashboardUseCase
	log       *logger.Logger
}

// NewAdvisoryUseCase crea el caso de uso del asesor.
func NewAdvisoryUseCase(store *snapshot.Store, advisor ports.AdvisoryService, dashboard *DashboardUseCase, log *logger.Logger) *AdvisoryUseCase {
	return &AdvisoryUseCase{store: store, advisor: advisor, dashboard: dashboard, log: log}
}

// Benchmarks contrasta los KPIs vigentes contra el estándar de la industria.
func (uc *AdvisoryUseCase) Benchmarks(ctx context.Context, viewer Viewer) (*dto.BenchmarkResult, error) {
	summary, err := uc.dashboard.Summary(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return uc.advisor.KPIBenchmarks(ctx, kpiSnapshot(summary.KPIs))
}

// AnalyzeInventory diagnóstico estratégico del inventario vigente.
func (uc *AdvisoryUseCase) AnalyzeInventory(ctx context.Context, viewer Viewer) (*dto.InventoryAnalysis, error) {
	summary, err := uc.dashboard.Summary(ctx, viewer)
	if err != nil {
		return nil, err
	}

	inventorySummary := fmt.Sprintf(
		"Valor total del stock: %s. Stock muerto: %s (%.1f%%). Rotación (%d días): %.2f. Quiebres: %.1f%%. Salud: %.0f/100.",
		summary.KPIs.TotalStockValue.String(),
		summary.KPIs.DeadStockValue.String(),
		summary.KPIs.DeadStockRate,
		summary.KPIs.WindowDays,
		summary.KPIs.ITR,
		summary.KPIs.StockoutRate,
		summary.KPIs.HealthScore,
	)
	return uc.advisor.AnalyzeInventory(ctx, inventorySummary, stagnantContext(summary.Stagnant))
}

// Search resuelve una búsqueda en lenguaje natural a materiales del catálogo.
func (uc *AdvisoryUseCase) Search(ctx context.Context, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: la consulta no puede estar vacía", domain.ErrInvalidInput)
	}
	snap, err := uc.store.Current()
	if err != nil {
		return nil, err
	}

	skus, err := uc.advisor.SemanticSearch(ctx, query, catalogContext(snap))
	if err != nil {
		return nil, err
	}
	return validSKUs(snap, skus), nil
}

// ParseWorkReport interpreta un corte de obra en texto libre contra el catálogo.
func (uc *AdvisoryUseCase) ParseWorkReport(ctx context.Context, rawText string) (*dto.WorkReport, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, fmt.Errorf("%w: el texto del corte no puede estar vacío", domain.ErrInvalidInput)
	}
	snap, err := uc.store.Current()
	if err != nil {
		return nil, err
	}
	return uc.advisor.ParseWorkReport(ctx, rawText, catalogContext(snap))
}

// Chat responde un mensaje libre con el estado del inventario como contexto.
func (uc *AdvisoryUseCase) Chat(ctx context.Context, viewer Viewer, history []dto.ChatMessage, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: el mensaje no puede estar vacío", domain.ErrInvalidInput)
	}
	summary, err := uc.dashboard.Summary(ctx, viewer)
	if err != nil {
		return "", err
	}

	contextData := fmt.Sprintf(
		"Valor total del stock: %s. Stock muerto: %s (%.1f%%). Rotación (%d días): %.2f. Quiebres: %.1f%%. Salud: %.0f/100. Sedes en riesgo: %s.",
		summary.KPIs.TotalStockValue.String(),
		summary.KPIs.DeadStockValue.String(),
		summary.KPIs.DeadStockRate,
		summary.KPIs.WindowDays,
		summary.KPIs.ITR,
		summary.KPIs.StockoutRate,
		summary.KPIs.HealthScore,
		riskNames(summary.SiteRisk),
	)
	return uc.advisor.Chat(ctx, history, message, contextData)
}

func kpiSnapshot(report analytics.KPIReport) dto.KPISnapshot {
	return dto.KPISnapshot{
		TotalStockValue: report.TotalStockValue.String(),
		DeadStockValue:  report.DeadStockValue.String(),
		DeadStockRate:   report.DeadStockRate,
		StockoutRate:    report.StockoutRate,
		ITR:             report.ITR,
		DSI:             report.DSI,
		STR:             report.STR,
		HealthScore:     report.HealthScore,
		WindowDays:      report.WindowDays,
	}
}

// catalogContext serializa el catálogo como "SKU | Nombre | Categoría", una
// línea por material, para los prompts de búsqueda y corte de obra.
func catalogContext(snap *snapshot.Snapshot) string {
	var b strings.Builder
	for _, it := range snap.Catalog.Items() {
		b.WriteString(it.SKU)
		b.WriteString(" | ")
		b.WriteString(it.Name)
		b.WriteString(" | ")
		b.WriteString(it.Category)
		b.WriteString("\n")
	}
	return b.String()
}

func stagnantContext(records []analytics.DetailedRecord) string {
	if len(records) == 0 {
		return "ninguno"
	}
	if len(records) > maxStagnantForPrompt {
		records = records[:maxStagnantForPrompt]
	}
	lines := make([]string, 0, len(records))
	for _, d := range records {
		lines = append(lines, fmt.Sprintf("%s en %s: %s %s sin movimiento hace %d días (valor %s)",
			d.ItemName, d.SiteName, d.Quantity.String(), d.Unit, d.DaysIdle, d.TotalValue.String()))
	}
	return strings.Join(lines, "; ")
}

// validSKUs descarta SKUs que el modelo haya inventado fuera del catálogo.
func validSKUs(snap *snapshot.Snapshot, skus []string) []string {
	known := make(map[string]bool, snap.Catalog.ItemCount())
	for _, it := range snap.Catalog.Items() {
		known[it.SKU] = true
	}
	out := make([]string, 0, len(skus))
	for _, sku := range skus {
		if known[sku] {
			out = append(out, sku)
		}
	}
	return out
}

func riskNames(risk []analytics.SiteRiskEntry) string {
	if len(risk) == 0 {
		return "ninguna"
	}
	names := make([]string, 0, len(risk))
	for _, e := range risk {
		names = append(names, e.SiteName)
	}
	return strings.Join(names, ", ")
}
