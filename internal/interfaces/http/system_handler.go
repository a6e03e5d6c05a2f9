package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/application/snapshot"
)

// SystemHandler endpoints operativos: salud del servicio y refresco manual.
type SystemHandler struct {
	store     *snapshot.Store
	refresher *snapshot.Refresher
}

// NewSystemHandler construye el handler.
func NewSystemHandler(store *snapshot.Store, refresher *snapshot.Refresher) *SystemHandler {
	return &SystemHandler{store: store, refresher: refresher}
}

// Health reporta el estado del servicio y la edad del snapshot vigente.
// GET /health
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	snap, err := h.store.Current()
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"detail": "sin snapshot cargado todavía",
		})
	}

	return c.JSON(fiber.Map{
		"status":     "ok",
		"provider":   snap.Provider,
		"fetchedAt":  snap.FetchedAt,
		"ageSeconds": int(time.Since(snap.FetchedAt).Seconds()),
		"inventory":  len(snap.Inventory),
		"movements":  len(snap.Movements),
	})
}

// Refresh fuerza una ronda de polling inmediata (botón "actualizar" del dashboard).
// POST /api/refresh
func (h *SystemHandler) Refresh(c *fiber.Ctx) error {
	if err := h.refresher.Refresh(c.Context()); err != nil {
		return respondError(c, err)
	}

	snap, err := h.store.Current()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Snapshot actualizado: " + snap.FetchedAt.Format(time.RFC3339)})
}
