package snapshot_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/application/ports"
	"github.com/pcmejia/inventario-obras/internal/application/snapshot"
	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
	"github.com/pcmejia/inventario-obras/pkg/logger"
)

// stubProvider proveedor mínimo; fail hace fallar todas las lecturas.
type stubProvider struct {
	fail  atomic.Bool
	loads atomic.Int64
}

var _ ports.DataProvider = (*stubProvider)(nil)

var errBoom = errors.New("origen caído")

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) fetchErr() error {
	if s.fail.Load() {
		return errBoom
	}
	return nil
}

func (s *stubProvider) Login(ctx context.Context, username, password string) (entity.User, error) {
	return entity.User{}, domain.ErrUnauthorized
}
func (s *stubProvider) FetchSites(ctx context.Context) ([]entity.Site, error) {
	s.loads.Add(1)
	return []entity.Site{{ID: "s1", Name: "Bodega", Type: entity.SiteTypeBodegaCentral}}, s.fetchErr()
}
func (s *stubProvider) FetchItems(ctx context.Context) ([]entity.Item, error) {
	return []entity.Item{{ID: "i1", Name: "Cable", Cost: decimal.NewFromInt(10)}}, s.fetchErr()
}
func (s *stubProvider) FetchInventory(ctx context.Context) ([]entity.InventoryRecord, error) {
	return []entity.InventoryRecord{{ID: "r1", ItemID: "i1", SiteID: "s1", Quantity: decimal.NewFromInt(5)}}, s.fetchErr()
}
func (s *stubProvider) FetchTransactions(ctx context.Context) ([]entity.Transaction, error) {
	return nil, s.fetchErr()
}
func (s *stubProvider) FetchTools(ctx context.Context) ([]entity.Tool, error) { return nil, s.fetchErr() }
func (s *stubProvider) FetchMovements(ctx context.Context) ([]entity.MovementRequest, error) {
	return nil, s.fetchErr()
}
func (s *stubProvider) FetchProgress(ctx context.Context) ([]entity.ProjectProgress, error) {
	return nil, s.fetchErr()
}
func (s *stubProvider) FetchUsers(ctx context.Context) ([]entity.User, error) {
	return nil, s.fetchErr()
}
func (s *stubProvider) CreateMovements(ctx context.Context, reqs []entity.MovementRequest) error {
	return nil
}
func (s *stubProvider) UpdateMovementStatus(ctx context.Context, u dto.MovementStatusUpdate) (entity.MovementRequest, error) {
	return entity.MovementRequest{}, domain.ErrNotFound
}
func (s *stubProvider) UpdateToolStatus(ctx context.Context, id, st string) (entity.Tool, error) {
	return entity.Tool{}, domain.ErrNotFound
}
func (s *stubProvider) CreateUser(ctx context.Context, in dto.CreateUserInput) (entity.User, error) {
	return entity.User{}, domain.ErrInvalidInput
}

// ──────────────────────────────────────────────────────────────────────────────
// Load / Store
// ──────────────────────────────────────────────────────────────────────────────

func TestLoad_ArmaElSnapshotCompleto(t *testing.T) {
	snap, err := snapshot.Load(context.Background(), &stubProvider{})
	require.NoError(t, err)

	assert.Equal(t, "stub", snap.Provider)
	assert.Equal(t, 1, snap.Catalog.SiteCount())
	assert.Equal(t, 1, snap.Catalog.ItemCount())
	assert.Len(t, snap.Inventory, 1)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestLoad_FallaCompletaSiUnaColeccionFalla(t *testing.T) {
	p := &stubProvider{}
	p.fail.Store(true)

	_, err := snapshot.Load(context.Background(), p)
	assert.ErrorIs(t, err, errBoom)
}

func TestStore_SinCargaInicialReportaNoDisponible(t *testing.T) {
	store := snapshot.NewStore(nil)
	_, err := store.Current()
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Refresher
// ──────────────────────────────────────────────────────────────────────────────

// Una ronda fallida conserva el snapshot anterior.
func TestRefresher_RondaFallidaConservaElSnapshot(t *testing.T) {
	p := &stubProvider{}
	store := snapshot.NewStore(nil)
	r := snapshot.NewRefresher(p, store, time.Second, logger.Nop(), nil)

	require.NoError(t, r.Refresh(context.Background()))
	before, err := store.Current()
	require.NoError(t, err)

	p.fail.Store(true)
	assert.Error(t, r.Refresh(context.Background()))

	after, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, before.FetchedAt, after.FetchedAt, "el snapshot publicado no cambió")
}

// Run se detiene al cancelar el contexto.
func TestRefresher_SeDetieneAlCancelar(t *testing.T) {
	p := &stubProvider{}
	store := snapshot.NewStore(nil)
	r := snapshot.NewRefresher(p, store, 10*time.Millisecond, logger.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	// Deja correr un par de ticks y cancela.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run no retornó tras cancelar el contexto")
	}

	_, err := store.Current()
	assert.NoError(t, err, "al menos una ronda publicó snapshot")
}

// onError se invoca en cada ronda fallida.
func TestRefresher_NotificaLosErrores(t *testing.T) {
	p := &stubProvider{}
	p.fail.Store(true)
	store := snapshot.NewStore(nil)

	var calls atomic.Int64
	r := snapshot.NewRefresher(p, store, time.Second, logger.Nop(), func(error) { calls.Add(1) })

	_ = r.Refresh(context.Background())
	assert.Equal(t, int64(1), calls.Load())
}
