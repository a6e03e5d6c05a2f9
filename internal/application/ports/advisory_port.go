package ports

import (
	"context"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
)

// AdvisoryService define el puerto de salida hacia el asesor de IA.
// Cualquier adaptador (Gemini, mock) debe implementar esta interfaz. Todas las
// operaciones son best-effort: un fallo del asesor nunca debe tumbar los datos
// del dashboard, el llamador decide si degrada o propaga.
type AdvisoryService interface {
	// KPIBenchmarks contrasta los indicadores actuales contra el estándar de
	// la industria eléctrica y devuelve un plan de acción.
	KPIBenchmarks(ctx context.Context, snapshot dto.KPISnapshot) (*dto.BenchmarkResult, error)

	// AnalyzeInventory diagnóstico estratégico a partir de un resumen del
	// inventario y los materiales estancados.
	AnalyzeInventory(ctx context.Context, summary string, stagnantItems string) (*dto.InventoryAnalysis, error)

	// SemanticSearch resuelve una búsqueda en lenguaje natural a SKUs del
	// catálogo proporcionado.
	SemanticSearch(ctx context.Context, query string, catalogContext string) ([]string, error)

	// ParseWorkReport extrae materiales y cantidades de un corte de obra en
	// texto libre, casándolos contra el catálogo.
	ParseWorkReport(ctx context.Context, rawText string, catalogContext string) (*dto.WorkReport, error)

	// Chat responde un mensaje del usuario con el historial previo y el
	// contexto del inventario.
	Chat(ctx context.Context, history []dto.ChatMessage, message string, contextData string) (string, error)
}

// SummaryCache define el puerto de caché para el resumen del dashboard.
// La implementación Redis es opcional: sin dirección configurada se usa una
// implementación nula que siempre falla el Get.
type SummaryCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte)
}
