package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pcmejia/inventario-obras/internal/application/snapshot"
	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/analytics"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
	"github.com/pcmejia/inventario-obras/internal/domain/purchasing"
)

// StockoutAlert posición en quiebre con su consumo reciente, para priorizar compras.
type StockoutAlert struct {
	Record          analytics.DetailedRecord `json:"record"`
	ConsumedInWindow decimal.Decimal         `json:"consumedInWindow"`
}

// PurchasingUseCase detecta quiebres de stock y arma la lista de compras sugerida.
type PurchasingUseCase struct {
	store      *snapshot.Store
	thresholds entity.Thresholds
}

// NewPurchasingUseCase crea el caso de uso de compras.
func NewPurchasingUseCase(store *snapshot.Store, th entity.Thresholds) *PurchasingUseCase {
	return &PurchasingUseCase{store: store, thresholds: th}
}

// Stockouts devuelve las posiciones en quiebre (cantidad en o bajo el umbral)
// con su consumo valorizado de la ventana, ordenadas como vienen del snapshot.
// Prioriza las posiciones con consumo reciente: quiebre sin consumo es solo
// stock bajo, quiebre con consumo es una compra urgente.
func (uc *PurchasingUseCase) Stockouts(ctx context.Context) ([]StockoutAlert, error) {
	snap, err := uc.store.Current()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	detailed := analytics.EnrichInventory(snap.Catalog, snap.Inventory, now, uc.thresholds)
	cutoff := now.AddDate(0, 0, -uc.thresholds.WindowDays)

	// Unidades consumidas por posición (item+sede) dentro de la ventana.
	consumed := make(map[string]decimal.Decimal)
	for _, tx := range snap.Transactions {
		if tx.Type != entity.TxConsumption || tx.Date.Before(cutoff) || tx.Date.After(now) {
			continue
		}
		key := tx.ItemID + "_" + tx.SiteID
		consumed[key] = consumed[key].Add(tx.Quantity.Abs())
	}

	limit := decimal.NewFromInt(int64(uc.thresholds.StockoutQty))
	out := make([]StockoutAlert, 0)
	for _, d := range detailed {
		if d.Quantity.GreaterThan(limit) {
			continue
		}
		qty := consumed[d.ItemID+"_"+d.SiteID]
		out = append(out, StockoutAlert{
			Record:          d,
			ConsumedInWindow: orZeroDec(qty),
		})
	}
	return out, nil
}

// Check audita una lista de requisición pegada desde Excel o un CSV contra el
// stock global y los precios de referencia del catálogo.
func (uc *PurchasingUseCase) Check(ctx context.Context, rawText string) ([]purchasing.Result, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, fmt.Errorf("%w: la lista de requisición no puede estar vacía", domain.ErrInvalidInput)
	}
	snap, err := uc.store.Current()
	if err != nil {
		return nil, err
	}

	detailed := analytics.EnrichInventory(snap.Catalog, snap.Inventory, time.Now().UTC(), uc.thresholds)
	return purchasing.Audit(snap.Catalog, detailed, rawText), nil
}

func orZeroDec(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	return d
}
