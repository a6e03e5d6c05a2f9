package usecases_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/application/usecases"
	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// CreateBatch
// ──────────────────────────────────────────────────────────────────────────────

// Todas las líneas de una orden comparten BatchID y fecha de solicitud.
func TestCreateBatch_LineasCompartenBatchIDYFecha(t *testing.T) {
	provider := seededProvider()
	store := seededStore(provider)
	uc := usecases.NewMovementUseCase(store, provider, nopLog())

	created, err := uc.CreateBatch(context.Background(), siteManagerViewer(), dto.CreateBatchInput{
		FromSiteID: "bodega",
		ToSiteID:   "obra-1",
		Items: []dto.CreateBatchItem{
			{ItemID: "i1", Quantity: decimal.NewFromInt(10)},
			{ItemID: "i2", Quantity: decimal.NewFromInt(4)},
		},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.NotEmpty(t, created[0].BatchID)
	assert.Equal(t, created[0].BatchID, created[1].BatchID)
	assert.Equal(t, created[0].RequestDate, created[1].RequestDate)
	assert.Equal(t, entity.MovementPending, created[0].Status)
	assert.Equal(t, "user-2", created[0].RequesterID)
	assert.Len(t, provider.created, 2, "las solicitudes llegan al proveedor")
}

func TestCreateBatch_Validaciones(t *testing.T) {
	provider := seededProvider()
	store := seededStore(provider)
	uc := usecases.NewMovementUseCase(store, provider, nopLog())
	ctx := context.Background()

	_, err := uc.CreateBatch(ctx, adminViewer(), dto.CreateBatchInput{FromSiteID: "bodega", ToSiteID: "obra-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "orden sin líneas")

	_, err = uc.CreateBatch(ctx, adminViewer(), dto.CreateBatchInput{
		FromSiteID: "bodega", ToSiteID: "bodega",
		Items: []dto.CreateBatchItem{{ItemID: "i1", Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "origen igual a destino")

	_, err = uc.CreateBatch(ctx, adminViewer(), dto.CreateBatchInput{
		FromSiteID: "bodega", ToSiteID: "obra-1",
		Items: []dto.CreateBatchItem{{ItemID: "i1", Quantity: decimal.NewFromInt(-3)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad negativa")

	_, err = uc.CreateBatch(ctx, adminViewer(), dto.CreateBatchInput{
		FromSiteID: "bodega", ToSiteID: "obra-1",
		Items: []dto.CreateBatchItem{{ItemID: "no-existe", Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "material fuera de catálogo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Decide
// ──────────────────────────────────────────────────────────────────────────────

// Aprobar varias líneas comparte el instante de decisión.
func TestDecide_AprobacionCompartePorInstante(t *testing.T) {
	provider := seededProvider()
	store := seededStore(provider)
	uc := usecases.NewMovementUseCase(store, provider, nopLog())

	results, err := uc.Decide(context.Background(), adminViewer(), dto.BatchDecisionInput{
		RequestIDs: []string{"m1", "m2"},
		Approve:    true,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		assert.Empty(t, r.Error)
		assert.Equal(t, entity.MovementApproved, r.Status)
	}
	require.Len(t, provider.updates, 2)
	assert.Equal(t, provider.updates[0].DecidedAt, provider.updates[1].DecidedAt)
}

// Rechazar sin motivo no muta estado: la línea queda PENDING con error propio.
func TestDecide_RechazoSinMotivoNoMuta(t *testing.T) {
	provider := seededProvider()
	store := seededStore(provider)
	uc := usecases.NewMovementUseCase(store, provider, nopLog())

	results, err := uc.Decide(context.Background(), adminViewer(), dto.BatchDecisionInput{
		RequestIDs: []string{"m1"},
		Approve:    false,
		Reason:     "   ",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Contains(t, results[0].Error, domain.ErrReasonRequired.Error())
	assert.Empty(t, provider.updates, "el proveedor no recibe la actualización")
}

func TestDecide_RechazoConMotivo(t *testing.T) {
	provider := seededProvider()
	store := seededStore(provider)
	uc := usecases.NewMovementUseCase(store, provider, nopLog())

	results, err := uc.Decide(context.Background(), adminViewer(), dto.BatchDecisionInput{
		RequestIDs: []string{"m1"},
		Approve:    false,
		Reason:     "stock insuficiente en bodega",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, entity.MovementRejected, results[0].Status)
	assert.Equal(t, "stock insuficiente en bodega", provider.updates[0].Reason)
}

// Sin atomicidad: una línea desconocida falla sola, las demás se deciden.
func TestDecide_FalloPorLineaNoRevierteElResto(t *testing.T) {
	provider := seededProvider()
	store := seededStore(provider)
	uc := usecases.NewMovementUseCase(store, provider, nopLog())

	results, err := uc.Decide(context.Background(), adminViewer(), dto.BatchDecisionInput{
		RequestIDs: []string{"m1", "no-existe", "m2"},
		Approve:    true,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Empty(t, results[0].Error)
	assert.NotEmpty(t, results[1].Error)
	assert.Empty(t, results[2].Error)
	assert.Len(t, provider.updates, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// PendingBatches
// ──────────────────────────────────────────────────────────────────────────────

func TestPendingBatches_AgrupaLasPendientesDelSnapshot(t *testing.T) {
	provider := seededProvider()
	store := seededStore(provider)
	uc := usecases.NewMovementUseCase(store, provider, nopLog())

	batches, err := uc.PendingBatches(context.Background())
	require.NoError(t, err)
	require.Len(t, batches, 1)

	b := batches[0]
	assert.Equal(t, "b1", b.Key)
	assert.Len(t, b.Items, 2)
	// 5*10 + 2*20 = 90
	assert.Equal(t, "90", b.TotalValue.String())
}
