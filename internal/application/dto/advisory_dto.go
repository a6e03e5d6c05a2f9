package dto

// KPISnapshot indicadores vigentes que se envían al asesor para comparar
// contra el estándar de la industria. Los montos van como string para no
// perder precisión decimal en el prompt.
type KPISnapshot struct {
	TotalStockValue string  `json:"totalStockValue"`
	DeadStockValue  string  `json:"deadStockValue"`
	DeadStockRate   float64 `json:"deadStockRate"`
	StockoutRate    float64 `json:"stockoutRate"`
	ITR             float64 `json:"itr"`
	DSI             float64 `json:"dsi"`
	STR             float64 `json:"str"`
	HealthScore     float64 `json:"healthScore"`
	WindowDays      int     `json:"windowDays"`
}

// BenchmarkTable valores de referencia de la industria eléctrica redactados
// por el asesor.
type BenchmarkTable struct {
	ITR          string `json:"itr"`
	DSI          string `json:"dsi"`
	STR          string `json:"str"`
	DeadStock    string `json:"deadStock"`
	ServiceLevel string `json:"serviceLevel"`
}

// BenchmarkResult resultado del contraste de KPIs contra la industria.
type BenchmarkResult struct {
	Benchmarks BenchmarkTable `json:"benchmarks"`
	Analysis   string         `json:"analysis"`
	ActionPlan []string       `json:"actionPlan"`
}

// CriticalItem material señalado por el asesor como crítico.
type CriticalItem struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// StrategicAction acción recomendada por el asesor.
type StrategicAction struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// InventoryAnalysis diagnóstico estratégico del inventario.
type InventoryAnalysis struct {
	GeneralStatus    string            `json:"generalStatus"`
	CriticalItems    []CriticalItem    `json:"criticalItems"`
	StrategicActions []StrategicAction `json:"strategicActions"`
}

// WorkReportItem un renglón extraído de un corte de obra en texto libre.
type WorkReportItem struct {
	ItemName   string  `json:"itemName"`
	Quantity   float64 `json:"quantity"`
	MatchedSKU string  `json:"matchedSku"`
	Confidence float64 `json:"confidence"`
}

// WorkReport resultado de interpretar un corte de obra.
type WorkReport struct {
	ExtractedItems []WorkReportItem `json:"extractedItems"`
	Summary        string           `json:"summary"`
}

// ChatMessage un turno previo de la conversación con el asistente.
// Role es "user" o "model".
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
