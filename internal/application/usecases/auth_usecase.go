package usecases

import (
	"context"
	"errors"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/application/ports"
	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
	"github.com/pcmejia/inventario-obras/pkg/jwt"
	"github.com/pcmejia/inventario-obras/pkg/logger"
)

// AuthUseCase autentica usuarios contra el proveedor y emite los JWT de sesión.
type AuthUseCase struct {
	provider   ports.DataProvider
	jwtSecret  string
	jwtIssuer  string
	expMinutes int
	log        *logger.Logger
}

// NewAuthUseCase crea el caso de uso de autenticación.
func NewAuthUseCase(provider ports.DataProvider, jwtSecret, jwtIssuer string, expMinutes int, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{provider: provider, jwtSecret: jwtSecret, jwtIssuer: jwtIssuer, expMinutes: expMinutes, log: log}
}

// Login valida credenciales y devuelve el token de sesión. Un fallo de
// credenciales y un proveedor caído se distinguen en el error: el primero es
// ErrUnauthorized, el segundo ErrUnavailable.
func (uc *AuthUseCase) Login(ctx context.Context, input dto.LoginInput) (dto.LoginResponse, error) {
	user, err := uc.provider.Login(ctx, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			uc.log.Error().Err(err).Msg("Proveedor de datos no disponible durante el login")
		}
		return dto.LoginResponse{}, err
	}

	token, err := jwt.Generate(uc.jwtSecret, user.ID, user.Role, user.AssignedSiteID, uc.jwtIssuer, uc.expMinutes)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("🔐 Login exitoso")
	return dto.LoginResponse{Token: token, User: toUserDTO(user)}, nil
}

func toUserDTO(u entity.User) dto.UserDTO {
	return dto.UserDTO{
		ID:             u.ID,
		Name:           u.Name,
		Username:       u.Username,
		Role:           u.Role,
		AssignedSiteID: u.AssignedSiteID,
	}
}
