package ports

import (
	"context"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
)

// DataProvider define el puerto de salida hacia el origen de datos operativos.
// Dos adaptadores lo implementan: el proveedor demo (datos sembrados en memoria)
// y el proveedor remoto (API REST del sistema de inventario en producción).
//
// Contrato de errores: un fallo de transporte (red caída, timeout, DNS) se
// reporta como domain.ErrUnavailable, que habilita el degradado a modo demo;
// un 401/403 del remoto se reporta como domain.ErrUnauthorized y NUNCA debe
// degradar a demo, porque enmascararía un problema de credenciales.
type DataProvider interface {
	// Name identifica el adaptador en logs y en la respuesta de /health.
	Name() string

	// Login autentica contra el origen y devuelve el usuario.
	Login(ctx context.Context, username, password string) (entity.User, error)

	// Lecturas del snapshot. Cada una devuelve el estado completo de su colección.
	FetchSites(ctx context.Context) ([]entity.Site, error)
	FetchItems(ctx context.Context) ([]entity.Item, error)
	FetchInventory(ctx context.Context) ([]entity.InventoryRecord, error)
	FetchTransactions(ctx context.Context) ([]entity.Transaction, error)
	FetchTools(ctx context.Context) ([]entity.Tool, error)
	FetchMovements(ctx context.Context) ([]entity.MovementRequest, error)
	FetchProgress(ctx context.Context) ([]entity.ProjectProgress, error)
	FetchUsers(ctx context.Context) ([]entity.User, error)

	// CreateMovements registra las solicitudes de una orden de traslado.
	CreateMovements(ctx context.Context, requests []entity.MovementRequest) error

	// UpdateMovementStatus aplica una decisión ya validada sobre una solicitud.
	UpdateMovementStatus(ctx context.Context, update dto.MovementStatusUpdate) (entity.MovementRequest, error)

	// UpdateToolStatus cambia el estado operativo de una herramienta.
	UpdateToolStatus(ctx context.Context, toolID, status string) (entity.Tool, error)

	// CreateUser da de alta un usuario del dashboard.
	CreateUser(ctx context.Context, input dto.CreateUserInput) (entity.User, error)
}
