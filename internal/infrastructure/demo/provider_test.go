package demo_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
	"github.com/pcmejia/inventario-obras/internal/infrastructure/demo"
)

// ──────────────────────────────────────────────────────────────────────────────
// Estado sembrado
// ──────────────────────────────────────────────────────────────────────────────

func TestProvider_EstadoSembrado(t *testing.T) {
	p := demo.NewProvider()
	ctx := context.Background()

	sites, err := p.FetchSites(ctx)
	require.NoError(t, err)
	assert.Len(t, sites, 13)

	items, err := p.FetchItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 62)
	for _, it := range items {
		assert.NotEmpty(t, it.Category, "toda referencia queda clasificada")
		assert.True(t, it.Cost.IsPositive(), "costo estimado de %s", it.SKU)
		assert.Len(t, it.PriceHistory, 6)
	}

	tools, err := p.FetchTools(ctx)
	require.NoError(t, err)
	assert.Len(t, tools, 80)

	movements, err := p.FetchMovements(ctx)
	require.NoError(t, err)
	require.Len(t, movements, 30)

	var pending, approved, rejected int
	for _, m := range movements {
		switch m.Status {
		case entity.MovementPending:
			pending++
		case entity.MovementApproved:
			approved++
		case entity.MovementRejected:
			rejected++
			assert.NotEmpty(t, m.RejectionReason, "todo rechazo sembrado lleva motivo")
		}
	}
	assert.Equal(t, 10, pending)
	assert.Equal(t, 15, approved)
	assert.Equal(t, 5, rejected)

	users, err := p.FetchUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 4)
}

// Dos instancias generan el mismo estado (misma semilla).
func TestProvider_GeneracionDeterminista(t *testing.T) {
	ctx := context.Background()
	a, _ := demo.NewProvider().FetchInventory(ctx)
	b, _ := demo.NewProvider().FetchInventory(ctx)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
		assert.True(t, a[i].Quantity.Equal(b[i].Quantity))
	}
}

// La suma distribuida de cada referencia coincide con el kárdex fuente.
func TestProvider_DistribucionConservaCantidades(t *testing.T) {
	p := demo.NewProvider()
	ctx := context.Background()

	inventory, err := p.FetchInventory(ctx)
	require.NoError(t, err)

	bySKU := make(map[string]decimal.Decimal)
	for _, rec := range inventory {
		bySKU[rec.ItemID] = bySKU[rec.ItemID].Add(rec.Quantity)
	}
	assert.True(t, bySKU["HJ000099"].Equal(decimal.NewFromInt(29365)))
	assert.True(t, bySKU["005644"].Equal(decimal.NewFromInt(22698)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestProvider_Login(t *testing.T) {
	p := demo.NewProvider()
	ctx := context.Background()

	user, err := p.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, user.Role)

	_, err = p.Login(ctx, "admin", "incorrecta")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = p.Login(ctx, "nadie", "admin123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escrituras
// ──────────────────────────────────────────────────────────────────────────────

// Aprobar un traslado mueve stock y asienta el par TRANSFER_OUT/TRANSFER_IN.
func TestProvider_AprobarTrasladoMueveStock(t *testing.T) {
	p := demo.NewProvider()
	ctx := context.Background()

	req := entity.MovementRequest{
		ID: "mv-test", BatchID: "b-test", ItemID: "HJ000099",
		FromSiteID: "s1", ToSiteID: "s3",
		Quantity:    decimal.NewFromInt(10),
		RequestDate: time.Now().UTC(),
		RequesterID: "u3",
		Status:      entity.MovementPending,
	}
	require.NoError(t, p.CreateMovements(ctx, []entity.MovementRequest{req}))

	decided := time.Now().UTC()
	updated, err := p.UpdateMovementStatus(ctx, dto.MovementStatusUpdate{
		RequestID: "mv-test", NewStatus: entity.MovementApproved, DeciderID: "u1", DecidedAt: decided,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementApproved, updated.Status)
	require.NotNil(t, updated.ApprovalDate)
	assert.Equal(t, decided, *updated.ApprovalDate)

	txs, err := p.FetchTransactions(ctx)
	require.NoError(t, err)
	var out, in bool
	for _, tx := range txs {
		if tx.ID == "tx_out_mv-test" {
			out = true
			assert.True(t, tx.Quantity.IsNegative())
		}
		if tx.ID == "tx_in_mv-test" {
			in = true
			assert.True(t, tx.Quantity.IsPositive())
		}
	}
	assert.True(t, out && in, "el libro registra ambos asientos del traslado")
}

// Una solicitud ya decidida no admite una segunda decisión.
func TestProvider_DecisionDobleEsConflicto(t *testing.T) {
	p := demo.NewProvider()
	ctx := context.Background()

	// mov10 está sembrada como APPROVED.
	_, err := p.UpdateMovementStatus(ctx, dto.MovementStatusUpdate{
		RequestID: "mov10", NewStatus: entity.MovementRejected, Reason: "tarde",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProvider_CreateUser(t *testing.T) {
	p := demo.NewProvider()
	ctx := context.Background()

	user, err := p.CreateUser(ctx, dto.CreateUserInput{
		Name: "Nuevo", Username: "nuevo", Password: "secreta123", Role: entity.RolePurchasing,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	_, err = p.Login(ctx, "nuevo", "secreta123")
	assert.NoError(t, err, "el usuario creado puede iniciar sesión")

	_, err = p.CreateUser(ctx, dto.CreateUserInput{
		Name: "Repetido", Username: "ADMIN", Password: "secreta123", Role: entity.RoleAdmin,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "el username no distingue mayúsculas")
}

func TestProvider_UpdateToolStatus(t *testing.T) {
	p := demo.NewProvider()
	ctx := context.Background()

	tool, err := p.UpdateToolStatus(ctx, "t0", entity.ToolReparacion)
	require.NoError(t, err)
	assert.Equal(t, entity.ToolReparacion, tool.Status)

	_, err = p.UpdateToolStatus(ctx, "no-existe", entity.ToolBaja)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
