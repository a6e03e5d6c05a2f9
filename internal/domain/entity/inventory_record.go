package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord stock de un material en una sede (compuesto item+sede).
// Quantity nunca es negativa; el registro se actualiza, nunca se elimina.
type InventoryRecord struct {
	ID            string
	ItemID        string
	SiteID        string
	Quantity      decimal.Decimal
	LastMovedDate time.Time
}
