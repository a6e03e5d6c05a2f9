package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud de traslado. PENDING es el único estado no terminal:
// solo existen las transiciones PENDING -> APPROVED y PENDING -> REJECTED.
const (
	MovementPending  = "PENDING"
	MovementApproved = "APPROVED"
	MovementRejected = "REJECTED"
)

// MovementRequest solicitud de traslado de material entre sedes.
// BatchID agrupa las solicitudes creadas en una misma acción del usuario (orden de traslado).
// REJECTED exige RejectionReason no vacío; la validación ocurre en el borde, antes de mutar estado.
type MovementRequest struct {
	ID              string
	BatchID         string
	ItemID          string
	FromSiteID      string
	ToSiteID        string
	Quantity        decimal.Decimal
	RequestDate     time.Time
	RequesterID     string
	Status          string
	ApprovalDate    *time.Time
	RejectionReason string
}

// IsTerminal indica si la solicitud ya fue decidida (no admite más transiciones).
func (m MovementRequest) IsTerminal() bool {
	return m.Status == MovementApproved || m.Status == MovementRejected
}
