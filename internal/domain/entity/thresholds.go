package entity

// Thresholds umbrales operativos del análisis. Se pasan explícitos a las funciones
// de enriquecimiento/agregación en lugar de vivir en estado global.
type Thresholds struct {
	StagnantDays  int // ítem estancado: DaysIdle > StagnantDays
	DeadStockDays int // stock muerto: DaysIdle > DeadStockDays (umbral independiente)
	StockoutQty   int // quiebre de stock: Quantity <= StockoutQty
	WindowDays    int // ventana de consumo para KPIs
}

// DefaultThresholds valores por defecto de la aplicación.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StagnantDays:  30,
		DeadStockDays: 90,
		StockoutQty:   5,
		WindowDays:    30,
	}
}
