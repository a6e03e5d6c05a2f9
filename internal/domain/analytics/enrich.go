// Package analytics contiene el motor de cálculo del dashboard: enriquecimiento
// de registros crudos contra el catálogo y agregación en KPIs operativos.
//
// Todas las funciones son puras: reciben el catálogo, los datos y el instante
// "now" explícitos, no suspenden y no tienen efectos secundarios. El I/O
// (fetch, polling, caché) vive en la capa de orquestación.
package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pcmejia/inventario-obras/internal/domain/catalog"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
)

// Niveles de alerta de herramientas.
const (
	AlertOK       = "OK"
	AlertSoon     = "SOON"     // mantenimiento en menos de 15 días
	AlertOverdue  = "OVERDUE"  // mantenimiento vencido
	AlertExpiring = "EXPIRING" // garantía vence en menos de 30 días
	AlertExpired  = "EXPIRED"  // garantía vencida
)

const (
	maintenanceSoonDays   = 15
	warrantyExpiringDays  = 30
	fallbackUnit          = "und"
	fallbackSiteName      = "Desconocida"
	fallbackItemSKU       = "N/A"
)

// DetailedRecord registro de inventario enriquecido con los datos del catálogo
// y los campos derivados de antigüedad y valorización.
type DetailedRecord struct {
	entity.InventoryRecord

	ItemName   string
	ItemSKU    string
	Category   string
	Unit       string
	Cost       decimal.Decimal
	TotalValue decimal.Decimal // Quantity * Cost, siempre >= 0 para entradas válidas

	SiteName string
	SiteType string

	DaysIdle   int // ceil(|now - LastMovedDate| en días), nunca negativo
	IsStagnant bool
}

// DetailedTool herramienta enriquecida con sede y cuentas regresivas de
// mantenimiento y garantía.
type DetailedTool struct {
	entity.Tool

	SiteName          string
	DaysToMaintenance int // con signo: negativo = vencido
	DaysToWarranty    int
	MaintenanceAlert  string
	WarrantyAlert     string
}

// EnrichInventory cruza los registros de inventario contra el catálogo y calcula
// los campos derivados. Nunca falla: una referencia colgante (item o sede
// inexistente) degrada a valores de presentación en lugar de propagar error.
// Es idempotente para un mismo now.
func EnrichInventory(cat *catalog.Catalog, records []entity.InventoryRecord, now time.Time, th entity.Thresholds) []DetailedRecord {
	out := make([]DetailedRecord, 0, len(records))
	for _, rec := range records {
		d := DetailedRecord{
			InventoryRecord: rec,
			ItemName:        fmt.Sprintf("Item %s", rec.ItemID),
			ItemSKU:         fallbackItemSKU,
			Category:        entity.CategoryAccesorios,
			Unit:            fallbackUnit,
			Cost:            decimal.Zero,
			SiteName:        fmt.Sprintf("Site %s", rec.SiteID),
		}

		if item, ok := cat.Item(rec.ItemID); ok {
			d.ItemName = item.Name
			d.ItemSKU = item.SKU
			d.Category = item.Category
			d.Unit = item.Unit
			d.Cost = item.Cost
		}
		if site, ok := cat.Site(rec.SiteID); ok {
			d.SiteName = site.Name
			d.SiteType = site.Type
		}

		d.TotalValue = rec.Quantity.Mul(d.Cost)
		d.DaysIdle = absDays(now, rec.LastMovedDate)
		d.IsStagnant = d.DaysIdle > th.StagnantDays

		out = append(out, d)
	}
	return out
}

// EnrichTools cruza herramientas contra sedes y calcula los días restantes a
// mantenimiento y a vencimiento de garantía, con su nivel de alerta.
func EnrichTools(cat *catalog.Catalog, tools []entity.Tool, now time.Time) []DetailedTool {
	out := make([]DetailedTool, 0, len(tools))
	for _, t := range tools {
		d := DetailedTool{
			Tool:     t,
			SiteName: fallbackSiteName,
		}
		if site, ok := cat.Site(t.SiteID); ok {
			d.SiteName = site.Name
		}

		d.DaysToMaintenance = signedDays(t.NextMaintenanceDate, now)
		d.DaysToWarranty = signedDays(t.WarrantyExpirationDate, now)

		switch {
		case d.DaysToMaintenance < 0:
			d.MaintenanceAlert = AlertOverdue
		case d.DaysToMaintenance < maintenanceSoonDays:
			d.MaintenanceAlert = AlertSoon
		default:
			d.MaintenanceAlert = AlertOK
		}

		switch {
		case d.DaysToWarranty < 0:
			d.WarrantyAlert = AlertExpired
		case d.DaysToWarranty < warrantyExpiringDays:
			d.WarrantyAlert = AlertExpiring
		default:
			d.WarrantyAlert = AlertOK
		}

		out = append(out, d)
	}
	return out
}

// FilterStagnant devuelve solo los registros estancados según el umbral ya
// aplicado en el enriquecimiento.
func FilterStagnant(detailed []DetailedRecord) []DetailedRecord {
	out := make([]DetailedRecord, 0)
	for _, d := range detailed {
		if d.IsStagnant {
			out = append(out, d)
		}
	}
	return out
}

// absDays días enteros (ceil) entre dos instantes, en valor absoluto.
// Una fecha de movimiento en el futuro (reloj desincronizado del origen)
// produce antigüedad positiva, nunca negativa.
func absDays(now, t time.Time) int {
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// signedDays días enteros (ceil) desde now hasta target, con signo.
func signedDays(target, now time.Time) int {
	return int(math.Ceil(target.Sub(now).Hours() / 24))
}
