// Package dto define los objetos de transferencia entre la capa HTTP y los
// casos de uso. Los tags JSON siguen la convención camelCase del dashboard.
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchItem línea de una nueva orden de traslado.
type CreateBatchItem struct {
	ItemID   string          `json:"itemId" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
}

// CreateBatchInput solicitud de creación de una orden de traslado completa.
type CreateBatchInput struct {
	FromSiteID string            `json:"fromSiteId" validate:"required"`
	ToSiteID   string            `json:"toSiteId" validate:"required"`
	Items      []CreateBatchItem `json:"items" validate:"required,min=1"`
}

// MovementStatusUpdate decisión sobre una solicitud de traslado. DecidedAt es
// compartido por todas las líneas decididas en una misma llamada.
type MovementStatusUpdate struct {
	RequestID string    `json:"requestId"`
	NewStatus string    `json:"newStatus"`
	Reason    string    `json:"reason,omitempty"`
	DeciderID string    `json:"deciderId"`
	DecidedAt time.Time `json:"decidedAt"`
}

// BatchDecisionInput decisión por lotes: aprueba o rechaza varias solicitudes
// de una misma orden. Reason aplica a todas las rechazadas.
type BatchDecisionInput struct {
	RequestIDs []string `json:"requestIds" validate:"required,min=1"`
	Approve    bool     `json:"approve"`
	Reason     string   `json:"reason,omitempty"`
}

// BatchDecisionResult resultado por solicitud de una decisión por lotes.
// Las decisiones son por línea, sin atomicidad: un fallo en una solicitud no
// revierte las demás.
type BatchDecisionResult struct {
	RequestID string `json:"requestId"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}
