package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pcmejia/inventario-obras/internal/domain/catalog"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
)

// SiteRiskEntry sede candidata a riesgo de capital inmovilizado.
type SiteRiskEntry struct {
	SiteID         string          `json:"siteId"`
	SiteName       string          `json:"siteName"`
	SiteType       string          `json:"siteType"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
	ITR            float64         `json:"itr"`
}

// SiteRisk rankea las sedes por riesgo: menor rotación primero (ITR
// ascendente). Una sede sin consumo encabeza la lista sin importar su tamaño.
// Devuelve a lo sumo topN sedes; los empates conservan el orden del catálogo.
func SiteRisk(cat *catalog.Catalog, detailed []DetailedRecord, txs []entity.Transaction, now time.Time, th entity.Thresholds, topN int) []SiteRiskEntry {
	valueBySite := make(map[string]decimal.Decimal)
	for _, d := range detailed {
		valueBySite[d.SiteID] = valueBySite[d.SiteID].Add(d.TotalValue)
	}

	cutoff := now.AddDate(0, 0, -th.WindowDays)
	consumedBySite := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Type != entity.TxConsumption {
			continue
		}
		if tx.Date.Before(cutoff) || tx.Date.After(now) {
			continue
		}
		item, ok := cat.Item(tx.ItemID)
		if !ok {
			continue
		}
		consumedBySite[tx.SiteID] = consumedBySite[tx.SiteID].Add(tx.Quantity.Abs().Mul(item.Cost))
	}

	entries := make([]SiteRiskEntry, 0, cat.SiteCount())
	for _, site := range cat.Sites() {
		value, ok := valueBySite[site.ID]
		if !ok || value.IsZero() {
			continue
		}
		e := SiteRiskEntry{
			SiteID:         site.ID,
			SiteName:       site.Name,
			SiteType:       site.Type,
			InventoryValue: value,
		}
		valF, _ := value.Float64()
		consF, _ := consumedBySite[site.ID].Float64()
		if valF > 0 {
			e.ITR = consF / valF
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ITR < entries[j].ITR
	})

	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	return entries
}

// ConcentrationEntry posición del top de concentración de capital.
type ConcentrationEntry struct {
	Record   DetailedRecord `json:"record"`
	SharePct float64        `json:"sharePct"` // participación sobre el valor total del stock
}

// TopValueRecords devuelve las topN posiciones de mayor valor con su
// participación porcentual sobre el total. Orden estable en los empates.
func TopValueRecords(detailed []DetailedRecord, topN int) []ConcentrationEntry {
	total := decimal.Zero
	for _, d := range detailed {
		total = total.Add(d.TotalValue)
	}

	sorted := make([]DetailedRecord, len(detailed))
	copy(sorted, detailed)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalValue.Cmp(sorted[j].TotalValue) > 0
	})
	if topN > 0 && len(sorted) > topN {
		sorted = sorted[:topN]
	}

	totalF, _ := total.Float64()
	out := make([]ConcentrationEntry, 0, len(sorted))
	for _, d := range sorted {
		e := ConcentrationEntry{Record: d}
		if totalF > 0 {
			valF, _ := d.TotalValue.Float64()
			e.SharePct = valF / totalF * 100
		}
		out = append(out, e)
	}
	return out
}

// StagnantRecords registros estancados ordenados por valor inmovilizado
// descendente, para priorizar la liberación de capital.
func StagnantRecords(detailed []DetailedRecord) []DetailedRecord {
	out := FilterStagnant(detailed)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalValue.Cmp(out[j].TotalValue) > 0
	})
	return out
}

// SiteInvestmentEntry valor total de inventario de una sede.
type SiteInvestmentEntry struct {
	SiteID    string          `json:"siteId"`
	SiteName  string          `json:"siteName"`
	SiteType  string          `json:"siteType"`
	Value     decimal.Decimal `json:"value"`
	Positions int             `json:"positions"`
}

// SiteInvestment distribución del capital por sede, ordenada por valor
// descendente. Incluye las sedes con inventario en cero para que el total
// cuadre contra el catálogo.
func SiteInvestment(cat *catalog.Catalog, detailed []DetailedRecord) []SiteInvestmentEntry {
	valueBySite := make(map[string]decimal.Decimal)
	countBySite := make(map[string]int)
	for _, d := range detailed {
		valueBySite[d.SiteID] = valueBySite[d.SiteID].Add(d.TotalValue)
		countBySite[d.SiteID]++
	}

	out := make([]SiteInvestmentEntry, 0, cat.SiteCount())
	for _, site := range cat.Sites() {
		out = append(out, SiteInvestmentEntry{
			SiteID:    site.ID,
			SiteName:  site.Name,
			SiteType:  site.Type,
			Value:     orZero(valueBySite[site.ID]),
			Positions: countBySite[site.ID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value.Cmp(out[j].Value) > 0
	})
	return out
}

// TransferSavings valoriza los traslados aprobados: cantidad por costo unitario
// de catálogo. Aproxima el capital reutilizado en lugar de comprado.
func TransferSavings(cat *catalog.Catalog, movements []entity.MovementRequest) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		if m.Status != entity.MovementApproved {
			continue
		}
		item, ok := cat.Item(m.ItemID)
		if !ok {
			continue
		}
		total = total.Add(m.Quantity.Mul(item.Cost))
	}
	return total
}
