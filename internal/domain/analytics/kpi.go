package analytics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pcmejia/inventario-obras/internal/domain/catalog"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
)

const weeksOfSupplyCap = 52.0

// KPIReport indicadores agregados del inventario completo.
// Los valores monetarios usan decimal; las razones y porcentajes, float64.
type KPIReport struct {
	TotalStockValue  decimal.Decimal `json:"totalStockValue"`
	DeadStockValue   decimal.Decimal `json:"deadStockValue"`
	DeadStockRate    float64         `json:"deadStockRate"` // % del valor total inmovilizado más de DeadStockDays
	StockoutRate     float64         `json:"stockoutRate"`  // % de posiciones con Quantity <= StockoutQty
	ConsumptionValue decimal.Decimal `json:"consumptionValue"`
	ITR              float64         `json:"itr"` // rotación: consumo de la ventana / stock actual
	DSI              float64         `json:"dsi"` // días de inventario: WindowDays / ITR
	STR              float64         `json:"str"` // sell-through: consumo / (stock + consumo) * 100
	HealthScore      float64         `json:"healthScore"`
	WindowDays       int             `json:"windowDays"`
}

// ComputeKPIs agrega los registros ya enriquecidos y el libro de transacciones
// en un reporte de indicadores. Con entradas vacías todos los campos quedan en
// cero: ninguna división produce NaN ni Inf.
func ComputeKPIs(cat *catalog.Catalog, detailed []DetailedRecord, txs []entity.Transaction, now time.Time, th entity.Thresholds) KPIReport {
	rep := KPIReport{
		TotalStockValue:  decimal.Zero,
		DeadStockValue:   decimal.Zero,
		ConsumptionValue: decimal.Zero,
		WindowDays:       th.WindowDays,
	}

	var stockoutCount int
	for _, d := range detailed {
		rep.TotalStockValue = rep.TotalStockValue.Add(d.TotalValue)
		if d.DaysIdle > th.DeadStockDays {
			rep.DeadStockValue = rep.DeadStockValue.Add(d.TotalValue)
		}
		if d.Quantity.LessThanOrEqual(decimal.NewFromInt(int64(th.StockoutQty))) {
			stockoutCount++
		}
	}
	if n := len(detailed); n > 0 {
		rep.StockoutRate = float64(stockoutCount) / float64(n) * 100
	}
	if rep.TotalStockValue.IsPositive() {
		rate, _ := rep.DeadStockValue.Div(rep.TotalStockValue).Float64()
		rep.DeadStockRate = rate * 100
	}

	rep.ConsumptionValue = consumptionValue(cat, txs, now, th.WindowDays, "")

	stock, _ := rep.TotalStockValue.Float64()
	consumed, _ := rep.ConsumptionValue.Float64()
	if stock > 0 {
		rep.ITR = consumed / stock
	}
	if rep.ITR > 0 {
		rep.DSI = float64(th.WindowDays) / rep.ITR
	}
	if stock+consumed > 0 {
		rep.STR = consumed / (stock + consumed) * 100
	}

	rep.HealthScore = healthScore(rep.DeadStockRate, rep.StockoutRate, rep.ITR)
	return rep
}

// CategoryMetric indicadores de una categoría de material.
type CategoryMetric struct {
	Category         string          `json:"category"`
	StockValue       decimal.Decimal `json:"stockValue"`
	ConsumptionValue decimal.Decimal `json:"consumptionValue"`
	WeeksOfSupply    float64         `json:"weeksOfSupply"` // tope 52
}

// CategoryMetrics desagrega stock, consumo y semanas de cobertura por categoría.
// Las categorías se devuelven en el orden fijo del dominio; una categoría sin
// actividad aparece con todos sus valores en cero.
func CategoryMetrics(cat *catalog.Catalog, detailed []DetailedRecord, txs []entity.Transaction, now time.Time, th entity.Thresholds) []CategoryMetric {
	categories := []string{
		entity.CategoryCables,
		entity.CategoryProteccion,
		entity.CategoryTuberia,
		entity.CategoryIluminacion,
		entity.CategoryHerramienta,
		entity.CategoryAccesorios,
	}

	stockByCat := make(map[string]decimal.Decimal, len(categories))
	for _, d := range detailed {
		stockByCat[d.Category] = stockByCat[d.Category].Add(d.TotalValue)
	}

	out := make([]CategoryMetric, 0, len(categories))
	for _, c := range categories {
		m := CategoryMetric{
			Category:         c,
			StockValue:       orZero(stockByCat[c]),
			ConsumptionValue: consumptionValue(cat, txs, now, th.WindowDays, c),
		}
		m.WeeksOfSupply = weeksOfSupply(m.StockValue, m.ConsumptionValue, th.WindowDays)
		out = append(out, m)
	}
	return out
}

// consumptionValue valoriza el consumo dentro de la ventana [now-windowDays, now].
// Con category vacía suma todas las categorías. Las cantidades de consumo vienen
// negativas en el libro; aquí se suman en valor absoluto.
func consumptionValue(cat *catalog.Catalog, txs []entity.Transaction, now time.Time, windowDays int, category string) decimal.Decimal {
	cutoff := now.AddDate(0, 0, -windowDays)
	total := decimal.Zero
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
		if category != "" && item.Category != category {
			continue
		}
		total = total.Add(tx.Quantity.Abs().Mul(item.Cost))
	}
	return total
}

// weeksOfSupply semanas que dura el stock al ritmo de consumo de la ventana.
// Sin consumo: 52 si hay stock, 0 si no. El resultado se topa en 52 para que
// los ítems de baja rotación no distorsionen la escala del gráfico.
func weeksOfSupply(stock, consumption decimal.Decimal, windowDays int) float64 {
	stockF, _ := stock.Float64()
	consF, _ := consumption.Float64()
	if consF <= 0 {
		if stockF > 0 {
			return weeksOfSupplyCap
		}
		return 0
	}
	weekly := consF / (float64(windowDays) / 7)
	wos := stockF / weekly
	return math.Min(wos, weeksOfSupplyCap)
}

// healthScore puntaje compuesto 0-100: penaliza stock muerto y quiebres,
// bonifica rotación por encima de 0.5 (hasta +20).
func healthScore(deadStockRate, stockoutRate, itr float64) float64 {
	score := 100.0
	score -= deadStockRate * 1.5
	score -= stockoutRate * 2
	if itr > 0.5 {
		score += math.Min(20, (itr-0.5)*40)
	}
	return clamp(score, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// orZero normaliza el decimal cero-valor de un map a decimal.Zero explícito.
func orZero(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	return d
}
