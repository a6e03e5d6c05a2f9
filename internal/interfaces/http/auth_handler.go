package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/application/usecases"
)

// AuthHandler maneja los endpoints de autenticación.
type AuthHandler struct {
	uc *usecases.AuthUseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *usecases.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login autentica contra el proveedor y emite el JWT de sesión.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "JSON inválido"})
	}
	if input.Username == "" || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: "username y password son obligatorios"})
	}

	resp, err := h.uc.Login(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
