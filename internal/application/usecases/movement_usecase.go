package usecases

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/application/ports"
	"github.com/pcmejia/inventario-obras/internal/application/snapshot"
	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
	"github.com/pcmejia/inventario-obras/internal/domain/movement"
	"github.com/pcmejia/inventario-obras/pkg/logger"
)

// MovementUseCase gestiona el ciclo de vida de las órdenes de traslado.
type MovementUseCase struct {
	store    *snapshot.Store
	provider ports.DataProvider
	log      *logger.Logger
}

// NewMovementUseCase crea el caso de uso de traslados.
func NewMovementUseCase(store *snapshot.Store, provider ports.DataProvider, log *logger.Logger) *MovementUseCase {
	return &MovementUseCase{store: store, provider: provider, log: log}
}

// PendingBatches agrupa las solicitudes pendientes en órdenes de traslado.
func (uc *MovementUseCase) PendingBatches(ctx context.Context) ([]movement.Batch, error) {
	snap, err := uc.store.Current()
	if err != nil {
		return nil, err
	}
	return movement.GroupPending(snap.Catalog, snap.Movements), nil
}

// MovementFilter filtros opcionales del listado de traslados. Los campos
// vacíos no filtran.
type MovementFilter struct {
	Status string // PENDING, APPROVED o REJECTED
	SiteID string // coincide contra origen o destino
	ItemID string
	Sort   string // "asc" por fecha de solicitud; cualquier otro valor: descendente
}

// List devuelve las solicitudes de traslado enriquecidas, filtradas y
// ordenadas por fecha de solicitud.
func (uc *MovementUseCase) List(ctx context.Context, filter MovementFilter) ([]movement.DetailedMovement, error) {
	snap, err := uc.store.Current()
	if err != nil {
		return nil, err
	}

	selected := make([]entity.MovementRequest, 0, len(snap.Movements))
	for _, m := range snap.Movements {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.SiteID != "" && m.FromSiteID != filter.SiteID && m.ToSiteID != filter.SiteID {
			continue
		}
		if filter.ItemID != "" && m.ItemID != filter.ItemID {
			continue
		}
		selected = append(selected, m)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if filter.Sort == "asc" {
			return selected[i].RequestDate.Before(selected[j].RequestDate)
		}
		return selected[i].RequestDate.After(selected[j].RequestDate)
	})
	return movement.Detail(snap.Catalog, selected), nil
}

// ApprovalsView bandeja de aprobaciones: órdenes pendientes más el historial
// de solicitudes ya decididas.
type ApprovalsView struct {
	Pending []movement.Batch            `json:"pending"`
	History []movement.DetailedMovement `json:"history"`
}

// Approvals arma la bandeja de aprobaciones. El historial va de la decisión
// más reciente a la más antigua.
func (uc *MovementUseCase) Approvals(ctx context.Context) (ApprovalsView, error) {
	snap, err := uc.store.Current()
	if err != nil {
		return ApprovalsView{}, err
	}

	decided := make([]entity.MovementRequest, 0)
	for _, m := range snap.Movements {
		if m.Status != entity.MovementPending {
			decided = append(decided, m)
		}
	}
	sort.SliceStable(decided, func(i, j int) bool {
		return decisionDate(decided[i]).After(decisionDate(decided[j]))
	})

	return ApprovalsView{
		Pending: movement.GroupPending(snap.Catalog, snap.Movements),
		History: movement.Detail(snap.Catalog, decided),
	}, nil
}

// decisionDate fecha de decisión de una solicitud terminal; las solicitudes
// antiguas sin fecha registrada usan la fecha de solicitud.
func decisionDate(m entity.MovementRequest) time.Time {
	if m.ApprovalDate != nil {
		return *m.ApprovalDate
	}
	return m.RequestDate
}

// CreateBatch crea una orden de traslado: una solicitud PENDING por línea, todas
// con el mismo BatchID y la misma fecha.
func (uc *MovementUseCase) CreateBatch(ctx context.Context, requester Viewer, input dto.CreateBatchInput) ([]entity.MovementRequest, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: la orden no tiene líneas", domain.ErrInvalidInput)
	}
	if input.FromSiteID == input.ToSiteID {
		return nil, fmt.Errorf("%w: origen y destino no pueden ser la misma sede", domain.ErrInvalidInput)
	}

	snap, err := uc.store.Current()
	if err != nil {
		return nil, err
	}
	if _, ok := snap.Catalog.Site(input.FromSiteID); !ok {
		return nil, fmt.Errorf("%w: sede origen %s", domain.ErrNotFound, input.FromSiteID)
	}
	if _, ok := snap.Catalog.Site(input.ToSiteID); !ok {
		return nil, fmt.Errorf("%w: sede destino %s", domain.ErrNotFound, input.ToSiteID)
	}

	batchID := uuid.NewString()
	now := time.Now().UTC()
	requests := make([]entity.MovementRequest, 0, len(input.Items))
	for _, line := range input.Items {
		if !line.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: la cantidad de %s debe ser positiva", domain.ErrInvalidInput, line.ItemID)
		}
		if _, ok := snap.Catalog.Item(line.ItemID); !ok {
			return nil, fmt.Errorf("%w: material %s", domain.ErrNotFound, line.ItemID)
		}
		requests = append(requests, entity.MovementRequest{
			ID:          uuid.NewString(),
			BatchID:     batchID,
			ItemID:      line.ItemID,
			FromSiteID:  input.FromSiteID,
			ToSiteID:    input.ToSiteID,
			Quantity:    line.Quantity,
			RequestDate: now,
			RequesterID: requester.UserID,
			Status:      entity.MovementPending,
		})
	}

	if err := uc.provider.CreateMovements(ctx, requests); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("batch_id", batchID).
		Str("requester", requester.UserID).
		Int("lines", len(requests)).
		Msg("📦 Orden de traslado creada")
	return requests, nil
}

// Decide aprueba o rechaza solicitudes una a una. No hay atomicidad: cada línea
// se decide de forma independiente y los fallos se reportan por solicitud.
// Todas las decisiones de la llamada comparten el mismo instante de decisión.
func (uc *MovementUseCase) Decide(ctx context.Context, decider Viewer, input dto.BatchDecisionInput) ([]dto.BatchDecisionResult, error) {
	if len(input.RequestIDs) == 0 {
		return nil, fmt.Errorf("%w: no hay solicitudes que decidir", domain.ErrInvalidInput)
	}

	newStatus := entity.MovementApproved
	if !input.Approve {
		newStatus = entity.MovementRejected
	}

	snap, err := uc.store.Current()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entity.MovementRequest, len(snap.Movements))
	for _, m := range snap.Movements {
		byID[m.ID] = m
	}

	// Todas las líneas de la llamada comparten el instante de decisión.
	decidedAt := time.Now().UTC()

	results := make([]dto.BatchDecisionResult, 0, len(input.RequestIDs))
	for _, id := range input.RequestIDs {
		res := dto.BatchDecisionResult{RequestID: id}

		req, ok := byID[id]
		if !ok {
			res.Error = fmt.Sprintf("solicitud %s no encontrada", id)
			results = append(results, res)
			continue
		}
		if err := movement.ValidateTransition(req, newStatus, input.Reason); err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}

		updated, err := uc.provider.UpdateMovementStatus(ctx, dto.MovementStatusUpdate{
			RequestID: id,
			NewStatus: newStatus,
			Reason:    input.Reason,
			DeciderID: decider.UserID,
			DecidedAt: decidedAt,
		})
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}

		res.Status = updated.Status
		results = append(results, res)

		if newStatus == entity.MovementRejected {
			// Notificación al solicitante: en el dashboard original era un aviso
			// en pantalla; aquí queda el registro estructurado.
			uc.log.Info().
				Str("request_id", id).
				Str("requester", req.RequesterID).
				Str("reason", input.Reason).
				Msg("🚫 Solicitud de traslado rechazada")
		}
	}
	return results, nil
}
