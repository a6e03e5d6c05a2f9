package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de material eléctrico.
const (
	CategoryCables      = "CABLES"
	CategoryProteccion  = "PROTECCION"
	CategoryTuberia     = "TUBERIA"
	CategoryIluminacion = "ILUMINACION"
	CategoryHerramienta = "HERRAMIENTA"
	CategoryAccesorios  = "ACCESORIOS"
)

// PricePoint un punto de la serie histórica de precios de un material.
type PricePoint struct {
	Date  time.Time
	Price decimal.Decimal
}

// Item representa un material del catálogo maestro (SKU).
// Es dato de referencia: inmutable durante la sesión. Cost es el costo unitario estándar.
type Item struct {
	ID           string
	SKU          string
	Name         string
	Category     string
	Unit         string // mts, und
	Cost         decimal.Decimal
	PriceHistory []PricePoint
}
