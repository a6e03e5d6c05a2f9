package usecases_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcmejia/inventario-obras/internal/application/snapshot"
	"github.com/pcmejia/inventario-obras/internal/application/usecases"
	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
)

func adminViewer() usecases.Viewer {
	return usecases.Viewer{UserID: "user-1", Role: entity.RoleAdmin}
}

func siteManagerViewer() usecases.Viewer {
	return usecases.Viewer{UserID: "user-2", Role: entity.RoleSiteManager, SiteID: "obra-1"}
}

// ──────────────────────────────────────────────────────────────────────────────
// Summary
// ──────────────────────────────────────────────────────────────────────────────

// El resumen de un ADMIN cubre todo el inventario.
func TestDashboardSummary_AdminVeTodo(t *testing.T) {
	provider := seededProvider()
	store := seededStore(provider)
	uc := usecases.NewDashboardUseCase(store, noopCache{}, entity.DefaultThresholds(), nopLog())

	summary, err := uc.Summary(context.Background(), adminViewer())
	require.NoError(t, err)

	// 100*10 + 50*20 + 3*10 = 2030
	assert.Equal(t, "2030", summary.KPIs.TotalStockValue.String())
	assert.Equal(t, "fake", summary.Provider)
	assert.NotEmpty(t, summary.SiteInvestment)
}

// Un SITE_MANAGER solo ve su obra.
func TestDashboardSummary_JefeDeObraSoloVeSuObra(t *testing.T) {
	provider := seededProvider()
	store := seededStore(provider)
	uc := usecases.NewDashboardUseCase(store, noopCache{}, entity.DefaultThresholds(), nopLog())

	summary, err := uc.Summary(context.Background(), siteManagerViewer())
	require.NoError(t, err)

	// Solo r2: 50 * 20 = 1000
	assert.Equal(t, "1000", summary.KPIs.TotalStockValue.String())
}

// Segunda consulta idéntica sale de la caché.
func TestDashboardSummary_UsaLaCache(t *testing.T) {
	provider := seededProvider()
	store := seededStore(provider)
	cache := newMemCache()
	uc := usecases.NewDashboardUseCase(store, cache, entity.DefaultThresholds(), nopLog())

	first, err := uc.Summary(context.Background(), adminViewer())
	require.NoError(t, err)
	second, err := uc.Summary(context.Background(), adminViewer())
	require.NoError(t, err)

	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.KPIs.TotalStockValue.String(), second.KPIs.TotalStockValue.String())
}

// Roles distintos no comparten entrada de caché.
func TestDashboardSummary_CachePorAlcanceDeRol(t *testing.T) {
	provider := seededProvider()
	store := seededStore(provider)
	cache := newMemCache()
	uc := usecases.NewDashboardUseCase(store, cache, entity.DefaultThresholds(), nopLog())

	_, err := uc.Summary(context.Background(), adminViewer())
	require.NoError(t, err)
	summary, err := uc.Summary(context.Background(), siteManagerViewer())
	require.NoError(t, err)

	assert.Zero(t, cache.hits, "el alcance del jefe de obra usa otra clave")
	assert.Equal(t, "1000", summary.KPIs.TotalStockValue.String())
}

// Sin snapshot inicial el caso de uso reporta el origen como no disponible.
func TestDashboardSummary_SinSnapshotInicial(t *testing.T) {
	store := snapshot.NewStore(nil)
	uc := usecases.NewDashboardUseCase(store, noopCache{}, entity.DefaultThresholds(), nopLog())

	_, err := uc.Summary(context.Background(), adminViewer())
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tools / Reconcile
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboardTools_AlcancePorRol(t *testing.T) {
	provider := seededProvider()
	store := seededStore(provider)
	uc := usecases.NewDashboardUseCase(store, noopCache{}, entity.DefaultThresholds(), nopLog())

	all, err := uc.Tools(context.Background(), adminViewer(), "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	scoped, err := uc.Tools(context.Background(), siteManagerViewer(), "")
	require.NoError(t, err)
	assert.Len(t, scoped, 1, "la única herramienta está en obra-1")
}

// Un jefe de obra no puede conciliar una obra ajena.
func TestDashboardReconcile_ObraAjenaProhibida(t *testing.T) {
	provider := seededProvider()
	store := seededStore(provider)
	uc := usecases.NewDashboardUseCase(store, noopCache{}, entity.DefaultThresholds(), nopLog())

	_, _, err := uc.Reconcile(context.Background(), siteManagerViewer(), "obra-2")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, _, err = uc.Reconcile(context.Background(), siteManagerViewer(), "obra-1")
	assert.NoError(t, err)
}

func TestDashboardReconcile_SedeInexistente(t *testing.T) {
	provider := seededProvider()
	store := seededStore(provider)
	uc := usecases.NewDashboardUseCase(store, noopCache{}, entity.DefaultThresholds(), nopLog())

	_, _, err := uc.Reconcile(context.Background(), adminViewer(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
