package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/application/usecases"
)

// MovementHandler maneja las órdenes de traslado y su bandeja de aprobaciones.
type MovementHandler struct {
	uc *usecases.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *usecases.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// GetMovements lista las solicitudes de traslado enriquecidas.
// Filtros por query: status, site, item, sort (asc|desc, por fecha).
// GET /api/movements
func (h *MovementHandler) GetMovements(c *fiber.Ctx) error {
	movements, err := h.uc.List(c.Context(), usecases.MovementFilter{
		Status: c.Query("status"),
		SiteID: c.Query("site"),
		ItemID: c.Query("item"),
		Sort:   c.Query("sort"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movements)
}

// CreateBatch crea una orden de traslado completa.
// POST /api/movements
func (h *MovementHandler) CreateBatch(c *fiber.Ctx) error {
	var input dto.CreateBatchInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "JSON inválido"})
	}

	created, err := h.uc.CreateBatch(c.Context(), ViewerFromCtx(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetApprovals devuelve las órdenes pendientes agrupadas y el historial de
// decisiones.
// GET /api/approvals
func (h *MovementHandler) GetApprovals(c *fiber.Ctx) error {
	view, err := h.uc.Approvals(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// Approve aprueba solicitudes. Las decisiones son por línea; el cuerpo de
// respuesta reporta el resultado de cada una.
// POST /api/approvals/approve
func (h *MovementHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, true)
}

// Reject rechaza solicitudes; el motivo es obligatorio.
// POST /api/approvals/reject
func (h *MovementHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, false)
}

func (h *MovementHandler) decide(c *fiber.Ctx, approve bool) error {
	var input dto.BatchDecisionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "JSON inválido"})
	}
	input.Approve = approve

	results, err := h.uc.Decide(c.Context(), ViewerFromCtx(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(results)
}
