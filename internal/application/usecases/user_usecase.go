package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/application/ports"
	"github.com/pcmejia/inventario-obras/internal/application/snapshot"
	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
	"github.com/pcmejia/inventario-obras/pkg/logger"
)

var validRoles = map[string]bool{
	entity.RoleAdmin:       true,
	entity.RoleDirector:    true,
	entity.RoleSiteManager: true,
	entity.RolePurchasing:  true,
}

// UserUseCase gestiona los usuarios del dashboard.
type UserUseCase struct {
	store    *snapshot.Store
	provider ports.DataProvider
	log      *logger.Logger
}

// NewUserUseCase crea el caso de uso de usuarios.
func NewUserUseCase(store *snapshot.Store, provider ports.DataProvider, log *logger.Logger) *UserUseCase {
	return &UserUseCase{store: store, provider: provider, log: log}
}

// List devuelve los usuarios del snapshot, sin hashes de contraseña.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserDTO, error) {
	snap, err := uc.store.Current()
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserDTO, 0, len(snap.Users))
	for _, u := range snap.Users {
		out = append(out, toUserDTO(u))
	}
	return out, nil
}

// Create da de alta un usuario. Un SITE_MANAGER exige sede asignada existente.
func (uc *UserUseCase) Create(ctx context.Context, input dto.CreateUserInput) (dto.UserDTO, error) {
	input.Role = strings.ToUpper(strings.TrimSpace(input.Role))
	if !validRoles[input.Role] {
		return dto.UserDTO{}, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, input.Role)
	}
	if input.Role == entity.RoleSiteManager {
		if input.AssignedSiteID == "" {
			return dto.UserDTO{}, fmt.Errorf("%w: un jefe de obra necesita sede asignada", domain.ErrInvalidInput)
		}
		snap, err := uc.store.Current()
		if err != nil {
			return dto.UserDTO{}, err
		}
		if _, ok := snap.Catalog.Site(input.AssignedSiteID); !ok {
			return dto.UserDTO{}, fmt.Errorf("%w: sede %s", domain.ErrNotFound, input.AssignedSiteID)
		}
	}

	user, err := uc.provider.CreateUser(ctx, input)
	if err != nil {
		return dto.UserDTO{}, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("👤 Usuario creado")
	return toUserDTO(user), nil
}

// ToolUseCase gestiona el estado operativo de las herramientas.
type ToolUseCase struct {
	store    *snapshot.Store
	provider ports.DataProvider
	log      *logger.Logger
}

// NewToolUseCase crea el caso de uso de herramientas.
func NewToolUseCase(store *snapshot.Store, provider ports.DataProvider, log *logger.Logger) *ToolUseCase {
	return &ToolUseCase{store: store, provider: provider, log: log}
}

var validToolStatus = map[string]bool{
	entity.ToolOperativa:     true,
	entity.ToolMantenimiento: true,
	entity.ToolReparacion:    true,
	entity.ToolBaja:          true,
}

// UpdateStatus cambia el estado de una herramienta existente.
func (uc *ToolUseCase) UpdateStatus(ctx context.Context, toolID, status string) (entity.Tool, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !validToolStatus[status] {
		return entity.Tool{}, fmt.Errorf("%w: estado de herramienta %q", domain.ErrInvalidInput, status)
	}

	snap, err := uc.store.Current()
	if err != nil {
		return entity.Tool{}, err
	}
	found := false
	for _, t := range snap.Tools {
		if t.ID == toolID {
			found = true
			break
		}
	}
	if !found {
		return entity.Tool{}, fmt.Errorf("%w: herramienta %s", domain.ErrNotFound, toolID)
	}

	tool, err := uc.provider.UpdateToolStatus(ctx, toolID, status)
	if err != nil {
		return entity.Tool{}, err
	}
	uc.log.Info().Str("tool_id", toolID).Str("status", status).Msg("🔧 Estado de herramienta actualizado")
	return tool, nil
}
