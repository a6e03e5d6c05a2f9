package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pcmejia/inventario-obras/internal/application/usecases"
	"github.com/pcmejia/inventario-obras/internal/infrastructure/export"
)

// DashboardHandler maneja el resumen ejecutivo, el inventario enriquecido y
// las descargas (CSV, XLSX, PDF).
type DashboardHandler struct {
	uc *usecases.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecases.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen ejecutivo completo para el rol del usuario.
// GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.Context(), ViewerFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GetKPIs devuelve los indicadores con desglose por categoría y concentración
// de capital.
// GET /api/kpis
func (h *DashboardHandler) GetKPIs(c *fiber.Ctx) error {
	view, err := h.uc.KPIs(c.Context(), ViewerFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// GetSites devuelve el catálogo de sedes.
// GET /api/sites
func (h *DashboardHandler) GetSites(c *fiber.Ctx) error {
	sites, err := h.uc.Sites(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sites)
}

// GetItems devuelve el catálogo maestro de materiales.
// GET /api/items
func (h *DashboardHandler) GetItems(c *fiber.Ctx) error {
	items, err := h.uc.Items(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// GetInventory devuelve el inventario enriquecido visible para el rol.
// Filtros por query: site, category, status (STAGNANT|LOW|OK), search.
// GET /api/inventory
func (h *DashboardHandler) GetInventory(c *fiber.Ctx) error {
	records, err := h.uc.Inventory(c.Context(), ViewerFromCtx(c), inventoryFilterFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(records)
}

// GetTools devuelve las herramientas enriquecidas visibles para el rol.
// Filtro por query: alert (SOON|OVERDUE|EXPIRING|EXPIRED).
// GET /api/tools
func (h *DashboardHandler) GetTools(c *fiber.Ctx) error {
	tools, err := h.uc.Tools(c.Context(), ViewerFromCtx(c), c.Query("alert"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tools)
}

// Reconcile concilia entradas contra stock e instalado de una obra.
// GET /api/projects/:id/reconciliation
func (h *DashboardHandler) Reconcile(c *fiber.Ctx) error {
	rows, summary, err := h.uc.Reconcile(c.Context(), ViewerFromCtx(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"rows": rows, "summary": summary})
}

// ExportInventoryCSV descarga el inventario visible en CSV para Excel.
// Acepta los mismos filtros de query que GET /api/inventory.
// GET /api/inventory/export.csv
func (h *DashboardHandler) ExportInventoryCSV(c *fiber.Ctx) error {
	records, err := h.uc.Inventory(c.Context(), ViewerFromCtx(c), inventoryFilterFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	payload, err := export.InventoryCSV(records)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, attachment("inventario", "csv"))
	return c.Send(payload)
}

// ExportInventoryXLSX descarga el inventario visible más los indicadores en XLSX.
// GET /api/inventory/export.xlsx
func (h *DashboardHandler) ExportInventoryXLSX(c *fiber.Ctx) error {
	viewer := ViewerFromCtx(c)
	records, err := h.uc.Inventory(c.Context(), viewer, inventoryFilterFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	summary, err := h.uc.Summary(c.Context(), viewer)
	if err != nil {
		return respondError(c, err)
	}
	payload, err := export.InventoryXLSX(records, summary.KPIs)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, attachment("inventario", "xlsx"))
	return c.Send(payload)
}

// ExportReportPDF descarga el reporte ejecutivo en PDF.
// GET /api/inventory/export.pdf
func (h *DashboardHandler) ExportReportPDF(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.Context(), ViewerFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	payload, err := export.ExecutiveReportPDF(summary.KPIs, summary.SiteRisk, summary.Stagnant, time.Now().UTC())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, attachment("reporte-ejecutivo", "pdf"))
	return c.Send(payload)
}

func attachment(name, ext string) string {
	return fmt.Sprintf(`attachment; filename="%s-%s.%s"`, name, time.Now().UTC().Format("2006-01-02"), ext)
}

func inventoryFilterFromQuery(c *fiber.Ctx) usecases.InventoryFilter {
	return usecases.InventoryFilter{
		SiteID:   c.Query("site"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
	}
}
