package entity

import "github.com/shopspring/decimal"

// Tipos de sede (value object conceptual).
const (
	SiteTypeBodegaCentral = "BODEGA_CENTRAL"
	SiteTypeResidential   = "RESIDENTIAL"
	SiteTypeCommercial    = "COMMERCIAL"
	SiteTypeIndustrial    = "INDUSTRIAL"
	SiteTypeSolar         = "SOLAR"
)

// Site representa una bodega central o una obra/proyecto donde se almacena material.
// Es dato de referencia: inmutable durante la sesión.
type Site struct {
	ID       string
	Name     string
	Type     string
	Location string
	Budget   decimal.Decimal // presupuesto de obra; cero para bodegas centrales
}

// IsWarehouse indica si la sede es bodega central (sin presupuesto de obra).
func (s Site) IsWarehouse() bool {
	return s.Type == SiteTypeBodegaCentral
}
