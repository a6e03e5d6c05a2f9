package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pcmejia/inventario-obras/internal/domain/analytics"
)

// InventoryXLSX exporta el inventario enriquecido a un libro de Excel con
// encabezado con formato y una hoja de indicadores resumidos.
func InventoryXLSX(records []analytics.DetailedRecord, report analytics.KPIReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Inventario"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
	})
	if err != nil {
		return nil, fmt.Errorf("export: crear estilo XLSX: %w", err)
	}

	headers := []string{"SKU", "Material", "Categoría", "Sede", "Cantidad", "Unidad", "Costo Unitario", "Valor Total", "Días Sin Movimiento", "Estancado"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("export: encabezado XLSX: %w", err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", lastHeader, headerStyle)

	for i, d := range records {
		rowIdx := i + 2
		stagnant := "NO"
		if d.IsStagnant {
			stagnant = "SI"
		}
		cost, _ := d.Cost.Float64()
		total, _ := d.TotalValue.Float64()
		qty, _ := d.Quantity.Float64()
		values := []any{d.ItemSKU, d.ItemName, d.Category, d.SiteName, qty, d.Unit, cost, total, d.DaysIdle, stagnant}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("export: fila XLSX %d: %w", rowIdx, err)
			}
		}
	}

	// Hoja de indicadores.
	const kpiSheet = "Indicadores"
	if _, err := f.NewSheet(kpiSheet); err != nil {
		return nil, fmt.Errorf("export: hoja de indicadores: %w", err)
	}
	totalStock, _ := report.TotalStockValue.Float64()
	deadStock, _ := report.DeadStockValue.Float64()
	consumption, _ := report.ConsumptionValue.Float64()
	kpis := [][]any{
		{"Indicador", "Valor"},
		{"Valor total del stock", totalStock},
		{"Stock muerto", deadStock},
		{"% stock muerto", report.DeadStockRate},
		{"% quiebres", report.StockoutRate},
		{fmt.Sprintf("Consumo (%d días)", report.WindowDays), consumption},
		{"Rotación (ITR)", report.ITR},
		{"Días de inventario (DSI)", report.DSI},
		{"Sell-through (STR %)", report.STR},
		{"Puntaje de salud", report.HealthScore},
	}
	for i, rowValues := range kpis {
		for col, v := range rowValues {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+1)
			if err := f.SetCellValue(kpiSheet, cell, v); err != nil {
				return nil, fmt.Errorf("export: indicador XLSX: %w", err)
			}
		}
	}
	_ = f.SetCellStyle(kpiSheet, "A1", "B1", headerStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export: serializar XLSX: %w", err)
	}
	return buf.Bytes(), nil
}
