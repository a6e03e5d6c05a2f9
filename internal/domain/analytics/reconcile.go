package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/pcmejia/inventario-obras/internal/domain/catalog"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
)

// ReconcileRow conciliación de un material en una obra: lo que entró contra lo
// que queda en stock más lo reportado como instalado.
type ReconcileRow struct {
	ItemID       string          `json:"itemId"`
	ItemName     string          `json:"itemName"`
	ItemSKU      string          `json:"itemSku"`
	Unit         string          `json:"unit"`
	TotalEntries decimal.Decimal `json:"totalEntries"` // ENTRY + TRANSFER_IN
	Stock        decimal.Decimal `json:"stock"`
	Installed    decimal.Decimal `json:"installed"`
	WastagePct   float64         `json:"wastagePct"` // merma: max(0, (entradas - stock - instalado) / entradas * 100)
	Cost         decimal.Decimal `json:"cost"`
}

// ReconcileSummary totales de la conciliación de una obra.
type ReconcileSummary struct {
	StockValue     decimal.Decimal `json:"stockValue"`
	InstalledValue decimal.Decimal `json:"installedValue"`
	AvgWastagePct  float64         `json:"avgWastagePct"`
}

// ReconcileSite concilia entradas, stock e instalación de una obra, material
// por material, en el orden del catálogo. Solo aparecen materiales con alguna
// actividad en la sede. La merma nunca es negativa: un sobrante (conteo mayor
// que las entradas) se reporta como 0%.
func ReconcileSite(cat *catalog.Catalog, siteID string, inventory []entity.InventoryRecord, txs []entity.Transaction, progress []entity.ProjectProgress) ([]ReconcileRow, ReconcileSummary) {
	entriesByItem := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.SiteID != siteID {
			continue
		}
		if tx.Type != entity.TxEntry && tx.Type != entity.TxTransferIn {
			continue
		}
		entriesByItem[tx.ItemID] = entriesByItem[tx.ItemID].Add(tx.Quantity.Abs())
	}

	stockByItem := make(map[string]decimal.Decimal)
	for _, rec := range inventory {
		if rec.SiteID != siteID {
			continue
		}
		stockByItem[rec.ItemID] = stockByItem[rec.ItemID].Add(rec.Quantity)
	}

	installedByItem := make(map[string]decimal.Decimal)
	for _, p := range progress {
		if p.SiteID != siteID {
			continue
		}
		installedByItem[p.ItemID] = installedByItem[p.ItemID].Add(p.QuantityInstalled)
	}

	var (
		rows       []ReconcileRow
		summary    = ReconcileSummary{StockValue: decimal.Zero, InstalledValue: decimal.Zero}
		wastageSum float64
	)
	for _, item := range cat.Items() {
		entries := entriesByItem[item.ID]
		stock := stockByItem[item.ID]
		installed := installedByItem[item.ID]
		if entries.IsZero() && stock.IsZero() && installed.IsZero() {
			continue
		}

		row := ReconcileRow{
			ItemID:       item.ID,
			ItemName:     item.Name,
			ItemSKU:      item.SKU,
			Unit:         item.Unit,
			TotalEntries: orZero(entries),
			Stock:        orZero(stock),
			Installed:    orZero(installed),
			Cost:         item.Cost,
		}
		if entries.IsPositive() {
			missing := entries.Sub(stock).Sub(installed)
			if missing.IsPositive() {
				pct, _ := missing.Div(entries).Float64()
				row.WastagePct = pct * 100
			}
		}

		summary.StockValue = summary.StockValue.Add(stock.Mul(item.Cost))
		summary.InstalledValue = summary.InstalledValue.Add(installed.Mul(item.Cost))
		wastageSum += row.WastagePct
		rows = append(rows, row)
	}

	if len(rows) > 0 {
		summary.AvgWastagePct = wastageSum / float64(len(rows))
	}
	return rows, summary
}
