// Package movement agrupa las solicitudes de traslado en órdenes (batches) y
// valida las transiciones de su máquina de estados.
package movement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/catalog"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
)

// BatchItem línea de una orden de traslado, valorizada contra el catálogo.
type BatchItem struct {
	Request    entity.MovementRequest `json:"request"`
	ItemName   string                 `json:"itemName"`
	ItemSKU    string                 `json:"itemSku"`
	Unit       string                 `json:"unit"`
	TotalValue decimal.Decimal        `json:"totalValue"`
}

// Batch orden de traslado: las solicitudes que un mismo usuario creó en una
// misma acción, entre las mismas dos sedes.
type Batch struct {
	Key          string          `json:"key"`
	FromSiteID   string          `json:"fromSiteId"`
	FromSiteName string          `json:"fromSiteName"`
	ToSiteID     string          `json:"toSiteId"`
	ToSiteName   string          `json:"toSiteName"`
	RequesterID  string          `json:"requesterId"`
	RequestDate  string          `json:"requestDate"` // YYYY-MM-DD
	Items        []BatchItem     `json:"items"`
	TotalValue   decimal.Decimal `json:"totalValue"`
}

// GroupPending agrupa las solicitudes PENDING en órdenes. La clave de grupo es
// el BatchID cuando existe; las solicitudes antiguas sin BatchID se agrupan por
// la combinación solicitante + día + origen + destino. Las órdenes se devuelven
// en orden de primera aparición; dentro de cada orden se conserva el orden de
// llegada.
func GroupPending(cat *catalog.Catalog, requests []entity.MovementRequest) []Batch {
	groups := make(map[string]*Batch)
	var order []string

	for _, req := range requests {
		if req.Status != entity.MovementPending {
			continue
		}

		key := req.BatchID
		if key == "" {
			key = fmt.Sprintf("%s_%s_%s_%s",
				req.RequesterID, req.RequestDate.Format("2006-01-02"), req.FromSiteID, req.ToSiteID)
		}

		b, ok := groups[key]
		if !ok {
			b = &Batch{
				Key:         key,
				FromSiteID:  req.FromSiteID,
				ToSiteID:    req.ToSiteID,
				RequesterID: req.RequesterID,
				RequestDate: req.RequestDate.Format("2006-01-02"),
				TotalValue:  decimal.Zero,
			}
			b.FromSiteName = siteName(cat, req.FromSiteID)
			b.ToSiteName = siteName(cat, req.ToSiteID)
			groups[key] = b
			order = append(order, key)
		}

		item := BatchItem{
			Request:    req,
			ItemName:   fmt.Sprintf("Item %s", req.ItemID),
			ItemSKU:    "N/A",
			Unit:       "und",
			TotalValue: decimal.Zero,
		}
		if it, found := cat.Item(req.ItemID); found {
			item.ItemName = it.Name
			item.ItemSKU = it.SKU
			item.Unit = it.Unit
			item.TotalValue = req.Quantity.Mul(it.Cost)
		}
		b.Items = append(b.Items, item)
		b.TotalValue = b.TotalValue.Add(item.TotalValue)
	}

	// El orden de los grupos es el de primera aparición en la entrada.
	out := make([]Batch, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	return out
}

// DetailedMovement solicitud de traslado enriquecida para listados e historial.
type DetailedMovement struct {
	entity.MovementRequest

	ItemName     string
	ItemSKU      string
	Unit         string
	FromSiteName string
	ToSiteName   string
	TotalValue   decimal.Decimal
}

// Detail enriquece solicitudes contra el catálogo conservando el orden de
// entrada. Las referencias colgantes degradan a valores de presentación.
func Detail(cat *catalog.Catalog, requests []entity.MovementRequest) []DetailedMovement {
	out := make([]DetailedMovement, 0, len(requests))
	for _, req := range requests {
		d := DetailedMovement{
			MovementRequest: req,
			ItemName:        fmt.Sprintf("Item %s", req.ItemID),
			ItemSKU:         "N/A",
			Unit:            "und",
			FromSiteName:    siteName(cat, req.FromSiteID),
			ToSiteName:      siteName(cat, req.ToSiteID),
			TotalValue:      decimal.Zero,
		}
		if it, found := cat.Item(req.ItemID); found {
			d.ItemName = it.Name
			d.ItemSKU = it.SKU
			d.Unit = it.Unit
			d.TotalValue = req.Quantity.Mul(it.Cost)
		}
		out = append(out, d)
	}
	return out
}

// ValidateTransition verifica una transición de estado de solicitud.
// Solo PENDING admite transiciones; rechazar exige un motivo no vacío.
func ValidateTransition(req entity.MovementRequest, newStatus, reason string) error {
	if req.IsTerminal() {
		return fmt.Errorf("%w: la solicitud %s ya fue decidida (%s)", domain.ErrConflict, req.ID, req.Status)
	}
	switch newStatus {
	case entity.MovementApproved:
		return nil
	case entity.MovementRejected:
		if strings.TrimSpace(reason) == "" {
			return domain.ErrReasonRequired
		}
		return nil
	default:
		return fmt.Errorf("%w: estado %q no válido", domain.ErrInvalidInput, newStatus)
	}
}

func siteName(cat *catalog.Catalog, id string) string {
	if s, ok := cat.Site(id); ok {
		return s.Name
	}
	return fmt.Sprintf("Site %s", id)
}
