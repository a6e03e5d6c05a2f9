// Package export genera los archivos descargables del dashboard: CSV para
// Excel en español, XLSX con formato y el reporte ejecutivo en PDF.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/pcmejia/inventario-obras/internal/domain/analytics"
)

// utf8BOM hace que Excel en Windows detecte UTF-8 (tildes y eñes del catálogo).
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// InventoryCSV exporta el inventario enriquecido. Separador punto y coma: la
// configuración regional es-CO usa la coma como separador decimal.
func InventoryCSV(records []analytics.DetailedRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	w.Comma = ';'

	header := []string{"SKU", "Material", "Categoría", "Sede", "Cantidad", "Unidad", "Costo Unitario", "Valor Total", "Días Sin Movimiento", "Estancado"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("export: escribir encabezado CSV: %w", err)
	}

	for _, d := range records {
		stagnant := "NO"
		if d.IsStagnant {
			stagnant = "SI"
		}
		row := []string{
			d.ItemSKU,
			d.ItemName,
			d.Category,
			d.SiteName,
			d.Quantity.String(),
			d.Unit,
			d.Cost.String(),
			d.TotalValue.String(),
			strconv.Itoa(d.DaysIdle),
			stagnant,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("export: escribir fila CSV: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export: volcar CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// StagnantCSV exporta solo el stock estancado, ya ordenado por valor.
func StagnantCSV(records []analytics.DetailedRecord) ([]byte, error) {
	return InventoryCSV(records)
}
