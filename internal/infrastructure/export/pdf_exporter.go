package export

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/pcmejia/inventario-obras/internal/domain/analytics"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ExecutiveReportPDF genera el reporte ejecutivo: indicadores, ranking de
// riesgo por sede y el top de stock estancado.
func ExecutiveReportPDF(report analytics.KPIReport, risk []analytics.SiteRiskEntry, stagnant []analytics.DetailedRecord, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte Ejecutivo de Inventario", true).
		WithAuthor("PC Mejia", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(
		row.New(14).Add(
			col.New(8).Add(
				text.New("PC MEJIA - Reporte Ejecutivo de Inventario", props.Text{
					Size: 14, Style: fontstyle.Bold, Color: colorPrimary,
				}),
			),
			col.New(4).Add(
				text.New("Generado: "+generatedAt.Format("2006-01-02 15:04"), props.Text{
					Size: 8, Align: align.Right, Color: colorGray,
				}),
			),
		),
		line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}),
	)

	m.AddRows(sectionTitle("Indicadores"))
	m.AddRows(
		kpiRow("Valor total del stock", "$"+report.TotalStockValue.StringFixed(0)),
		kpiRow("Stock muerto", fmt.Sprintf("$%s (%.1f%%)", report.DeadStockValue.StringFixed(0), report.DeadStockRate)),
		kpiRow("Posiciones en quiebre", fmt.Sprintf("%.1f%%", report.StockoutRate)),
		kpiRow(fmt.Sprintf("Rotación ITR (%d días)", report.WindowDays), fmt.Sprintf("%.2f", report.ITR)),
		kpiRow("Días de inventario DSI", fmt.Sprintf("%.0f", report.DSI)),
		kpiRow("Puntaje de salud", fmt.Sprintf("%.0f / 100", report.HealthScore)),
	)

	if len(risk) > 0 {
		m.AddRows(sectionTitle("Sedes en riesgo"))
		m.AddRows(tableHeader("Sede", "Tipo", "Valor inmovilizado", "Rotación"))
		for _, e := range risk {
			m.AddRows(tableRow(e.SiteName, e.SiteType, "$"+e.InventoryValue.StringFixed(0), fmt.Sprintf("%.2f", e.ITR)))
		}
	}

	if len(stagnant) > 0 {
		m.AddRows(sectionTitle("Stock estancado (top 15)"))
		m.AddRows(tableHeader("Material", "Sede", "Valor", "Días sin movimiento"))
		limit := len(stagnant)
		if limit > 15 {
			limit = 15
		}
		for _, d := range stagnant[:limit] {
			m.AddRows(tableRow(d.ItemName, d.SiteName, "$"+d.TotalValue.StringFixed(0), fmt.Sprintf("%d", d.DaysIdle)))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("export: generar PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func sectionTitle(title string) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(title, props.Text{Size: 11, Style: fontstyle.Bold, Color: colorPrimary, Top: 3}),
		),
	)
}

func kpiRow(label, value string) core.Row {
	return row.New(6).Add(
		col.New(6).Add(text.New(label, props.Text{Size: 9, Color: colorGray})),
		col.New(6).Add(text.New(value, props.Text{Size: 9, Style: fontstyle.Bold})),
	)
}

func tableHeader(cells ...string) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, col.New(12/len(cells)).Add(
			text.New(c, props.Text{Size: 8, Style: fontstyle.Bold, Color: colorPrimary}),
		))
	}
	return row.New(6).Add(cols...)
}

func tableRow(cells ...string) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, col.New(12/len(cells)).Add(
			text.New(c, props.Text{Size: 8}),
		))
	}
	return row.New(5).Add(cols...)
}
