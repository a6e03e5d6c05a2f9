package entity

import "time"

// Estados de una herramienta/equipo.
const (
	ToolOperativa     = "OPERATIVA"
	ToolMantenimiento = "MANTENIMIENTO"
	ToolReparacion    = "REPARACION"
	ToolBaja          = "BAJA"
)

// Categorías de herramienta.
const (
	ToolCatElectrica = "ELECTRICA"
	ToolCatManual    = "MANUAL"
	ToolCatMedicion  = "MEDICION"
	ToolCatSeguridad = "SEGURIDAD"
)

// Tool herramienta o equipo asignado a una sede, con fechas de garantía y mantenimiento.
type Tool struct {
	ID                     string
	Name                   string
	SerialNumber           string
	Brand                  string
	SiteID                 string
	PurchaseDate           time.Time
	WarrantyExpirationDate time.Time
	NextMaintenanceDate    time.Time
	Status                 string
	Category               string
}
