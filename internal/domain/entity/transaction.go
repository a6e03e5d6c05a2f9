package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de inventario.
const (
	TxEntry       = "ENTRY"
	TxConsumption = "CONSUMPTION"
	TxTransferIn  = "TRANSFER_IN"
	TxTransferOut = "TRANSFER_OUT"
)

// Transaction asiento inmutable del libro de movimientos (append-only).
// Quantity es con signo: positiva para entradas, negativa para consumos.
type Transaction struct {
	ID       string
	ItemID   string
	SiteID   string
	Quantity decimal.Decimal
	Date     time.Time
	Type     string
}
