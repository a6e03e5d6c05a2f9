package analytics_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcmejia/inventario-obras/internal/domain/analytics"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
)

func entryTx(itemID, siteID string, qty int64, daysAgo int) entity.Transaction {
	return entity.Transaction{
		ID:       "in-" + itemID,
		ItemID:   itemID,
		SiteID:   siteID,
		Quantity: decimal.NewFromInt(qty),
		Date:     testNow.AddDate(0, 0, -daysAgo),
		Type:     entity.TxEntry,
	}
}

// Entraron 100, quedan 60 en stock y 30 instalados: merma del 10%.
func TestReconcileSite_CalculaMerma(t *testing.T) {
	cat := testCatalog()
	txs := []entity.Transaction{
		entryTx("item-1", "site-2", 100, 20),
	}
	inv := []entity.InventoryRecord{
		record("item-1", "site-2", 60, testNow.AddDate(0, 0, -2)),
	}
	progress := []entity.ProjectProgress{
		{ID: "p1", SiteID: "site-2", ItemID: "item-1", QuantityInstalled: decimal.NewFromInt(30)},
	}

	rows, summary := analytics.ReconcileSite(cat, "site-2", inv, txs, progress)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.True(t, row.TotalEntries.Equal(decimal.NewFromInt(100)))
	assert.True(t, row.Stock.Equal(decimal.NewFromInt(60)))
	assert.True(t, row.Installed.Equal(decimal.NewFromInt(30)))
	assert.InDelta(t, 10, row.WastagePct, 1e-9)

	assert.True(t, summary.StockValue.Equal(decimal.NewFromInt(3000)), "60 * 50")
	assert.True(t, summary.InstalledValue.Equal(decimal.NewFromInt(1500)), "30 * 50")
	assert.InDelta(t, 10, summary.AvgWastagePct, 1e-9)
}

// Un sobrante (stock + instalado > entradas) reporta merma 0, nunca negativa.
func TestReconcileSite_SobranteNoProduceMermaNegativa(t *testing.T) {
	cat := testCatalog()
	txs := []entity.Transaction{
		entryTx("item-1", "site-2", 50, 20),
	}
	inv := []entity.InventoryRecord{
		record("item-1", "site-2", 40, testNow.AddDate(0, 0, -2)),
	}
	progress := []entity.ProjectProgress{
		{ID: "p1", SiteID: "site-2", ItemID: "item-1", QuantityInstalled: decimal.NewFromInt(20)},
	}

	rows, _ := analytics.ReconcileSite(cat, "site-2", inv, txs, progress)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].WastagePct)
}

// Los TRANSFER_IN cuentan como entradas; la actividad de otras sedes se ignora.
func TestReconcileSite_SoloActividadDeLaSede(t *testing.T) {
	cat := testCatalog()
	txs := []entity.Transaction{
		entryTx("item-1", "site-2", 30, 20),
		{ID: "tr1", ItemID: "item-1", SiteID: "site-2", Quantity: decimal.NewFromInt(20), Date: testNow.AddDate(0, 0, -10), Type: entity.TxTransferIn},
		entryTx("item-1", "site-1", 500, 20), // otra sede
	}
	inv := []entity.InventoryRecord{
		record("item-1", "site-2", 50, testNow.AddDate(0, 0, -2)),
		record("item-2", "site-1", 10, testNow.AddDate(0, 0, -2)), // otra sede
	}

	rows, _ := analytics.ReconcileSite(cat, "site-2", inv, txs, nil)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].TotalEntries.Equal(decimal.NewFromInt(50)), "30 ENTRY + 20 TRANSFER_IN")
	assert.Zero(t, rows[0].WastagePct)
}

func TestReconcileSite_SedeSinActividad(t *testing.T) {
	rows, summary := analytics.ReconcileSite(testCatalog(), "site-2", nil, nil, nil)
	assert.Empty(t, rows)
	assert.True(t, summary.StockValue.IsZero())
	assert.Zero(t, summary.AvgWastagePct)
}
