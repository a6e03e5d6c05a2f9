// Package snapshot mantiene en memoria la última foto consistente del origen
// de datos y la refresca por polling explícito. Los casos de uso leen siempre
// del snapshot, nunca del proveedor directo: una ronda de polling fallida deja
// el snapshot anterior intacto.
package snapshot

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pcmejia/inventario-obras/internal/application/ports"
	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/catalog"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
	"github.com/pcmejia/inventario-obras/pkg/logger"
)

// Snapshot foto inmutable del estado del origen en un instante. Se reemplaza
// completa en cada refresco; los lectores nunca ven un estado a medias.
type Snapshot struct {
	Catalog      *catalog.Catalog
	Inventory    []entity.InventoryRecord
	Transactions []entity.Transaction
	Tools        []entity.Tool
	Movements    []entity.MovementRequest
	Progress     []entity.ProjectProgress
	Users        []entity.User

	Provider  string
	FetchedAt time.Time
}

// Load descarga todas las colecciones del proveedor en paralelo y arma el
// snapshot. Si cualquier colección falla, falla la carga completa.
func Load(ctx context.Context, provider ports.DataProvider) (*Snapshot, error) {
	snap := &Snapshot{Provider: provider.Name()}

	var (
		sites []entity.Site
		items []entity.Item
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { sites, err = provider.FetchSites(gctx); return })
	g.Go(func() (err error) { items, err = provider.FetchItems(gctx); return })
	g.Go(func() (err error) { snap.Inventory, err = provider.FetchInventory(gctx); return })
	g.Go(func() (err error) { snap.Transactions, err = provider.FetchTransactions(gctx); return })
	g.Go(func() (err error) { snap.Tools, err = provider.FetchTools(gctx); return })
	g.Go(func() (err error) { snap.Movements, err = provider.FetchMovements(gctx); return })
	g.Go(func() (err error) { snap.Progress, err = provider.FetchProgress(gctx); return })
	g.Go(func() (err error) { snap.Users, err = provider.FetchUsers(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.Catalog = catalog.New(sites, items)
	snap.FetchedAt = time.Now().UTC()
	return snap, nil
}

// Store acceso concurrente al snapshot vigente.
type Store struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// NewStore crea el store con un snapshot inicial, que puede ser nil hasta la
// primera carga exitosa.
func NewStore(initial *Snapshot) *Store {
	return &Store{snap: initial}
}

// Current devuelve el snapshot vigente. Devuelve domain.ErrUnavailable si aún
// no hubo ninguna carga exitosa.
func (s *Store) Current() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, domain.ErrUnavailable
	}
	return s.snap, nil
}

// Replace publica un snapshot nuevo.
func (s *Store) Replace(snap *Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Refresher refresca el store a intervalos fijos hasta que el contexto se cancela.
type Refresher struct {
	provider ports.DataProvider
	store    *Store
	interval time.Duration
	log      *logger.Logger

	// onError se invoca en cada ronda fallida, para métricas. Puede ser nil.
	onError func(err error)

	// OnSuccess se invoca tras cada ronda que publica snapshot. Puede ser nil.
	OnSuccess func()
}

// NewRefresher construye el refrescador. Un intervalo no positivo usa 10s.
func NewRefresher(provider ports.DataProvider, store *Store, interval time.Duration, log *logger.Logger, onError func(error)) *Refresher {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Refresher{provider: provider, store: store, interval: interval, log: log, onError: onError}
}

// Run bloquea refrescando el snapshot cada intervalo. Retorna al cancelarse el
// contexto, con el snapshot anterior todavía publicado. No hay solapamiento de
// rondas: cada tick espera a que la anterior termine.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("🛑 Polling de snapshot detenido")
			return
		case <-ticker.C:
			r.refreshOnce(ctx)
		}
	}
}

// Refresh fuerza una ronda inmediata fuera del ciclo del ticker (botón de
// "actualizar ahora" del dashboard).
func (r *Refresher) Refresh(ctx context.Context) error {
	return r.refreshOnce(ctx)
}

func (r *Refresher) refreshOnce(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, r.interval)
	defer cancel()

	snap, err := Load(loadCtx, r.provider)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			r.log.Warn().Err(err).Msg("Ronda de polling fallida, se conserva el snapshot anterior")
			if r.onError != nil {
				r.onError(err)
			}
		}
		return err
	}

	r.store.Replace(snap)
	if r.OnSuccess != nil {
		r.OnSuccess()
	}
	r.log.Debug().
		Str("provider", snap.Provider).
		Int("inventory", len(snap.Inventory)).
		Int("movements", len(snap.Movements)).
		Msg("Snapshot actualizado")
	return nil
}
