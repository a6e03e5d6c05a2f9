package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
	"github.com/pcmejia/inventario-obras/internal/infrastructure/remote"
)

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_FetchInventory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/inventory", r.URL.Path)
		require.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"inv-1","itemId":"HJ000099","siteId":"s1","quantity":100.5,"lastMovedDate":"2025-06-01T10:00:00Z"}
		]`))
	}))
	defer srv.Close()

	c := remote.NewClient(srv.URL, time.Second)
	records, err := c.FetchInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "HJ000099", records[0].ItemID)
	assert.True(t, records[0].Quantity.Equal(decimal.NewFromFloat(100.5)))
	assert.Equal(t, 2025, records[0].LastMovedDate.Year())
}

func TestClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin", body["username"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u1","username":"admin","name":"Carlos Admin","role":"ADMIN"}`))
	}))
	defer srv.Close()

	c := remote.NewClient(srv.URL, time.Second)
	user, err := c.Login(context.Background(), "admin", "secreta")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, user.Role)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clasificación de errores
// ──────────────────────────────────────────────────────────────────────────────

// Un origen caído se clasifica como no disponible (habilita el degradado a demo).
func TestClient_OrigenCaidoEsErrUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // conexión rechazada

	c := remote.NewClient(srv.URL, time.Second)
	_, err := c.FetchSites(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

// Un 401/403 es problema de credenciales, nunca de conectividad.
func TestClient_401EsErrUnauthorized(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		c := remote.NewClient(srv.URL, time.Second)
		_, err := c.Login(context.Background(), "admin", "mala")
		assert.ErrorIs(t, err, domain.ErrUnauthorized, "status %d", status)
		assert.NotErrorIs(t, err, domain.ErrUnavailable)
		srv.Close()
	}
}

func TestClient_404EsErrNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := remote.NewClient(srv.URL, time.Second)
	_, err := c.UpdateToolStatus(context.Background(), "no-existe", entity.ToolBaja)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_RespuestaInvalidaNoEsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("esto no es JSON"))
	}))
	defer srv.Close()

	c := remote.NewClient(srv.URL, time.Second)
	_, err := c.FetchSites(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnavailable, "el origen respondió; el payload es el problema")
}

// ──────────────────────────────────────────────────────────────────────────────
// Escrituras
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_UpdateMovementStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/movements/m1/status", r.URL.Path)
		require.Equal(t, http.MethodPut, r.Method)

		var body dto.MovementStatusUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, entity.MovementRejected, body.NewStatus)
		assert.Equal(t, "stock insuficiente", body.Reason)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id":"m1","itemId":"i1","fromSiteId":"s1","toSiteId":"s2","quantity":5,
			"requestDate":"2025-06-10T09:00:00Z","requesterId":"u3",
			"status":"REJECTED","rejectionReason":"stock insuficiente"
		}`))
	}))
	defer srv.Close()

	c := remote.NewClient(srv.URL, time.Second)
	updated, err := c.UpdateMovementStatus(context.Background(), dto.MovementStatusUpdate{
		RequestID: "m1", NewStatus: entity.MovementRejected, Reason: "stock insuficiente", DeciderID: "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementRejected, updated.Status)
	assert.Equal(t, "stock insuficiente", updated.RejectionReason)
}

func TestClient_CreateMovements(t *testing.T) {
	var received int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/movements", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		var payload []map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		received = len(payload)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := remote.NewClient(srv.URL, time.Second)
	err := c.CreateMovements(context.Background(), []entity.MovementRequest{
		{ID: "m1", BatchID: "b1", ItemID: "i1", FromSiteID: "s1", ToSiteID: "s2",
			Quantity: decimal.NewFromInt(5), RequestDate: time.Now(), RequesterID: "u3", Status: entity.MovementPending},
		{ID: "m2", BatchID: "b1", ItemID: "i2", FromSiteID: "s1", ToSiteID: "s2",
			Quantity: decimal.NewFromInt(2), RequestDate: time.Now(), RequesterID: "u3", Status: entity.MovementPending},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, received)
}
