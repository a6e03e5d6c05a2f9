package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/application/usecases"
)

// UserHandler maneja la administración de usuarios.
type UserHandler struct {
	uc *usecases.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecases.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List devuelve los usuarios del sistema (sin hashes).
// GET /api/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.uc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// Create da de alta un usuario.
// POST /api/users
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var input dto.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "JSON inválido"})
	}
	if input.Username == "" || input.Password == "" || input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: "name, username y password son obligatorios"})
	}

	user, err := h.uc.Create(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// ToolHandler maneja el estado de las herramientas.
type ToolHandler struct {
	uc *usecases.ToolUseCase
}

// NewToolHandler construye el handler.
func NewToolHandler(uc *usecases.ToolUseCase) *ToolHandler {
	return &ToolHandler{uc: uc}
}

// UpdateStatus cambia el estado operativo de una herramienta.
// PUT /api/tools/:id/status
func (h *ToolHandler) UpdateStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "JSON inválido"})
	}

	tool, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), body.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tool)
}
