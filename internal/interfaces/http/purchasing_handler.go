package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/application/usecases"
)

// PurchasingHandler expone las alertas de compra.
type PurchasingHandler struct {
	uc *usecases.PurchasingUseCase
}

// NewPurchasingHandler construye el handler.
func NewPurchasingHandler(uc *usecases.PurchasingUseCase) *PurchasingHandler {
	return &PurchasingHandler{uc: uc}
}

// GetStockouts lista los ítems en quiebre o cerca de quiebre de stock.
// GET /api/purchasing/stockouts
func (h *PurchasingHandler) GetStockouts(c *fiber.Ctx) error {
	alerts, err := h.uc.Stockouts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"alerts": alerts, "total": len(alerts)})
}

// Check audita una lista de requisición (pegada desde Excel o un CSV) contra
// el stock global y los precios de referencia.
// POST /api/purchasing/check
func (h *PurchasingHandler) Check(c *fiber.Ctx) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "JSON inválido"})
	}

	results, err := h.uc.Check(c.Context(), body.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"results": results, "total": len(results)})
}
