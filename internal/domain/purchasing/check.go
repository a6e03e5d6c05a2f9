// Package purchasing audita listas de requisición antes de emitir una orden
// de compra: disponibilidad de stock en otras sedes y control de precios
// contra el presupuesto y la última compra.
package purchasing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pcmejia/inventario-obras/internal/domain/analytics"
	"github.com/pcmejia/inventario-obras/internal/domain/catalog"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
)

// Veredicto por renglón de la requisición.
const (
	VerdictTransferTotal   = "TRANSFERENCIA_TOTAL"
	VerdictTransferPartial = "TRANSFERENCIA_PARCIAL"
	VerdictPurchase        = "COMPRA_NECESARIA"
	VerdictNotInCatalog    = "NO_EN_CATALOGO"
)

// StockLocation disponibilidad de un material en una sede.
type StockLocation struct {
	SiteName string          `json:"siteName"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Result auditoría de un renglón de la requisición.
type Result struct {
	Requested string          `json:"requested"`
	ReqQty    decimal.Decimal `json:"reqQty"`
	ReqPrice  decimal.Decimal `json:"reqPrice"`

	FoundInCatalog bool            `json:"foundInCatalog"`
	MatchedSKU     string          `json:"matchedSku,omitempty"`
	MatchedName    string          `json:"matchedName,omitempty"`
	StandardCost   decimal.Decimal `json:"standardCost"`
	LastPurchase   decimal.Decimal `json:"lastPurchase"`

	FoundInStock bool            `json:"foundInStock"`
	TotalStock   decimal.Decimal `json:"totalStock"`
	CanCover     bool            `json:"canCover"`
	Locations    []StockLocation `json:"locations"`

	Verdict     string          `json:"verdict"`
	PriceAlerts []string        `json:"priceAlerts"`
	BudgetDiff  decimal.Decimal `json:"budgetDiff"`
	HistoryDiff decimal.Decimal `json:"historyDiff"`
}

// Audit interpreta una lista pegada desde Excel o un CSV (una requisición por
// línea, columnas Nombre | Cantidad | Precio unitario) y audita cada renglón
// contra el catálogo y el inventario enriquecido. Las líneas de encabezado se
// descartan. Sin cantidad se asume 1; sin precio la auditoría de precio se omite.
func Audit(cat *catalog.Catalog, detailed []analytics.DetailedRecord, rawText string) []Result {
	var results []Result
	for _, line := range strings.Split(rawText, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Excel y Sheets copian con tabulaciones; los CSV usan comas.
		sep := ","
		if strings.Contains(line, "\t") {
			sep = "\t"
		}
		parts := strings.Split(line, sep)

		reqName := cleanCell(parts[0])
		if reqName == "" {
			reqName = strings.TrimSpace(line)
		}
		lowered := strings.ToLower(reqName)
		if strings.Contains(lowered, "nombre") || strings.Contains(lowered, "material") {
			continue // encabezado
		}

		reqQty := cellDecimal(parts, 1, decimal.NewFromInt(1))
		reqPrice := cellDecimal(parts, 2, decimal.Zero)

		res := Result{
			Requested:   reqName,
			ReqQty:      reqQty,
			ReqPrice:    reqPrice,
			Locations:   []StockLocation{},
			PriceAlerts: []string{},
		}

		if item, ok := matchCatalog(cat, lowered); ok {
			res.FoundInCatalog = true
			res.MatchedSKU = item.SKU
			res.MatchedName = item.Name
			res.StandardCost = item.Cost
			if len(item.PriceHistory) > 0 {
				res.LastPurchase = item.PriceHistory[0].Price
			}
			auditPrice(&res, item)
		}

		for _, d := range detailed {
			if !strings.Contains(strings.ToLower(d.ItemName), lowered) &&
				!strings.Contains(strings.ToLower(d.ItemSKU), lowered) {
				continue
			}
			res.TotalStock = res.TotalStock.Add(d.Quantity)
			res.Locations = append(res.Locations, StockLocation{SiteName: d.SiteName, Quantity: d.Quantity})
		}
		res.FoundInStock = len(res.Locations) > 0
		res.CanCover = res.TotalStock.GreaterThanOrEqual(reqQty)
		res.Verdict = verdict(res)

		results = append(results, res)
	}
	return results
}

func matchCatalog(cat *catalog.Catalog, lowered string) (entity.Item, bool) {
	for _, it := range cat.Items() {
		if strings.Contains(strings.ToLower(it.Name), lowered) ||
			strings.Contains(strings.ToLower(it.SKU), lowered) {
			return it, true
		}
	}
	return entity.Item{}, false
}

// auditPrice compara el precio ofertado contra el costo presupuestado y la
// última compra registrada. Solo aplica con precio ofertado positivo.
func auditPrice(res *Result, item entity.Item) {
	if !res.ReqPrice.IsPositive() {
		return
	}

	if item.Cost.IsPositive() && res.ReqPrice.GreaterThan(item.Cost) {
		diff := res.ReqPrice.Sub(item.Cost)
		pct, _ := diff.Div(item.Cost).Mul(decimal.NewFromInt(100)).Float64()
		res.PriceAlerts = append(res.PriceAlerts, fmt.Sprintf("SOBRECOSTO PRESUPUESTO: +%.1f%%", pct))
		res.BudgetDiff = diff
	}

	if len(item.PriceHistory) > 0 {
		last := item.PriceHistory[0].Price
		if last.IsPositive() && res.ReqPrice.GreaterThan(last) {
			diff := res.ReqPrice.Sub(last)
			pct, _ := diff.Div(last).Mul(decimal.NewFromInt(100)).Float64()
			res.PriceAlerts = append(res.PriceAlerts, fmt.Sprintf("ALZA VS ÚLTIMA COMPRA: +%.1f%%", pct))
			res.HistoryDiff = diff
		}
	}
}

func verdict(res Result) string {
	switch {
	case !res.FoundInCatalog:
		return VerdictNotInCatalog
	case res.CanCover:
		return VerdictTransferTotal
	case res.TotalStock.IsPositive():
		return VerdictTransferPartial
	default:
		return VerdictPurchase
	}
}

// cleanCell quita comillas, signos de moneda y espacios de una celda.
func cleanCell(s string) string {
	s = strings.NewReplacer("'", "", `"`, "", "$", "").Replace(s)
	return strings.TrimSpace(s)
}

func cellDecimal(parts []string, idx int, fallback decimal.Decimal) decimal.Decimal {
	if idx >= len(parts) {
		return fallback
	}
	v, err := decimal.NewFromString(cleanCell(parts[idx]))
	if err != nil {
		return fallback
	}
	return v
}
