package purchasing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcmejia/inventario-obras/internal/domain/analytics"
	"github.com/pcmejia/inventario-obras/internal/domain/catalog"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
	"github.com/pcmejia/inventario-obras/internal/domain/purchasing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

var auditNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func auditCatalog() *catalog.Catalog {
	sites := []entity.Site{
		{ID: "s1", Name: "Bodega Central", Type: entity.SiteTypeBodegaCentral},
		{ID: "s2", Name: "Obra Norte", Type: entity.SiteTypeResidential},
	}
	items := []entity.Item{
		{
			ID: "i1", SKU: "CAB-012", Name: "CABLE THHN 12 AWG", Category: entity.CategoryCables,
			Unit: "mts", Cost: decimal.NewFromInt(6000),
			PriceHistory: []entity.PricePoint{
				{Date: auditNow.AddDate(0, -1, 0), Price: decimal.NewFromInt(6200)},
				{Date: auditNow.AddDate(0, -2, 0), Price: decimal.NewFromInt(5900)},
			},
		},
		{
			ID: "i2", SKU: "BRK-350", Name: "BREAKER 3X50", Category: entity.CategoryProteccion,
			Unit: "und", Cost: decimal.NewFromInt(45000),
		},
	}
	return catalog.New(sites, items)
}

func auditInventory(cat *catalog.Catalog) []analytics.DetailedRecord {
	recs := []entity.InventoryRecord{
		{ID: "i1_s1", ItemID: "i1", SiteID: "s1", Quantity: decimal.NewFromInt(300), LastMovedDate: auditNow},
		{ID: "i1_s2", ItemID: "i1", SiteID: "s2", Quantity: decimal.NewFromInt(250), LastMovedDate: auditNow},
		{ID: "i2_s1", ItemID: "i2", SiteID: "s1", Quantity: decimal.NewFromInt(4), LastMovedDate: auditNow},
	}
	return analytics.EnrichInventory(cat, recs, auditNow, entity.DefaultThresholds())
}

// ──────────────────────────────────────────────────────────────────────────────
// Audit
// ──────────────────────────────────────────────────────────────────────────────

// Una requisición cubierta por el stock de dos sedes: transferencia total, sin
// alertas de precio cuando la oferta está bajo presupuesto.
func TestAudit_TransferenciaTotal(t *testing.T) {
	cat := auditCatalog()
	out := purchasing.Audit(cat, auditInventory(cat), "Cable THHN 12\t500\t5800")
	require.Len(t, out, 1)

	r := out[0]
	assert.True(t, r.FoundInCatalog)
	assert.Equal(t, "CAB-012", r.MatchedSKU)
	assert.True(t, r.TotalStock.Equal(decimal.NewFromInt(550)), "300 + 250, got %s", r.TotalStock)
	assert.True(t, r.CanCover)
	assert.Equal(t, purchasing.VerdictTransferTotal, r.Verdict)
	assert.Len(t, r.Locations, 2)
	assert.Empty(t, r.PriceAlerts)
}

// Stock insuficiente pero existente: transferencia parcial.
func TestAudit_TransferenciaParcial(t *testing.T) {
	cat := auditCatalog()
	out := purchasing.Audit(cat, auditInventory(cat), "Breaker 3x50\t10\t0")
	require.Len(t, out, 1)

	r := out[0]
	assert.True(t, r.FoundInStock)
	assert.False(t, r.CanCover, "hay 4 y piden 10")
	assert.Equal(t, purchasing.VerdictTransferPartial, r.Verdict)
}

// Material fuera del catálogo: no se puede validar precio ni stock.
func TestAudit_NoEnCatalogo(t *testing.T) {
	cat := auditCatalog()
	out := purchasing.Audit(cat, auditInventory(cat), "Panel solar 450W,2,900000")
	require.Len(t, out, 1)

	r := out[0]
	assert.False(t, r.FoundInCatalog)
	assert.False(t, r.FoundInStock)
	assert.Equal(t, purchasing.VerdictNotInCatalog, r.Verdict)
	assert.Empty(t, r.PriceAlerts)
}

// Precio ofertado por encima del presupuesto y de la última compra dispara
// ambas alertas con el porcentaje de desviación.
func TestAudit_AlertasDePrecio(t *testing.T) {
	cat := auditCatalog()
	out := purchasing.Audit(cat, auditInventory(cat), "CAB-012\t100\t6600")
	require.Len(t, out, 1)

	r := out[0]
	require.Len(t, r.PriceAlerts, 2)
	assert.Equal(t, "SOBRECOSTO PRESUPUESTO: +10.0%", r.PriceAlerts[0])
	assert.Contains(t, r.PriceAlerts[1], "ALZA VS ÚLTIMA COMPRA")
	assert.True(t, r.BudgetDiff.Equal(decimal.NewFromInt(600)))
	assert.True(t, r.HistoryDiff.Equal(decimal.NewFromInt(400)), "6600 - 6200, got %s", r.HistoryDiff)
}

// Las líneas de encabezado y las vacías se descartan; sin cantidad se asume 1.
func TestAudit_EncabezadosYDefaults(t *testing.T) {
	cat := auditCatalog()
	input := "Nombre Material\tCantidad\tPrecio\n\nBreaker 3x50\n"
	out := purchasing.Audit(cat, auditInventory(cat), input)
	require.Len(t, out, 1)

	r := out[0]
	assert.True(t, r.ReqQty.Equal(decimal.NewFromInt(1)))
	assert.True(t, r.ReqPrice.IsZero())
	assert.True(t, r.CanCover, "hay 4 unidades para cubrir 1")
}

// Celdas con símbolos de moneda y comillas se limpian antes de parsear.
func TestAudit_LimpiaMoneda(t *testing.T) {
	cat := auditCatalog()
	out := purchasing.Audit(cat, auditInventory(cat), `"Cable THHN 12",100,$6100`)
	require.Len(t, out, 1)

	r := out[0]
	assert.True(t, r.ReqPrice.Equal(decimal.NewFromInt(6100)))
	require.Len(t, r.PriceAlerts, 1, "6100 supera el presupuesto 6000 pero no la última compra 6200")
	assert.Contains(t, r.PriceAlerts[0], "SOBRECOSTO PRESUPUESTO")
}
