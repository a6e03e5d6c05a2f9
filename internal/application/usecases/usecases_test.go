package usecases_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/application/ports"
	"github.com/pcmejia/inventario-obras/internal/application/snapshot"
	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
	"github.com/pcmejia/inventario-obras/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// fakeProvider implementación en memoria del proveedor para los tests de casos
// de uso. Registra las escrituras para poder afirmar sobre ellas.
type fakeProvider struct {
	mu        sync.Mutex
	sites     []entity.Site
	items     []entity.Item
	inventory []entity.InventoryRecord
	txs       []entity.Transaction
	tools     []entity.Tool
	movements []entity.MovementRequest
	progress  []entity.ProjectProgress
	users     []entity.User

	created []entity.MovementRequest
	updates []dto.MovementStatusUpdate

	failWrites error
}

var _ ports.DataProvider = (*fakeProvider)(nil)

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Login(ctx context.Context, username, password string) (entity.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return entity.User{}, domain.ErrUnauthorized
}

func (f *fakeProvider) FetchSites(ctx context.Context) ([]entity.Site, error) { return f.sites, nil }
func (f *fakeProvider) FetchItems(ctx context.Context) ([]entity.Item, error) { return f.items, nil }
func (f *fakeProvider) FetchInventory(ctx context.Context) ([]entity.InventoryRecord, error) {
	return f.inventory, nil
}
func (f *fakeProvider) FetchTransactions(ctx context.Context) ([]entity.Transaction, error) {
	return f.txs, nil
}
func (f *fakeProvider) FetchTools(ctx context.Context) ([]entity.Tool, error) { return f.tools, nil }
func (f *fakeProvider) FetchMovements(ctx context.Context) ([]entity.MovementRequest, error) {
	return f.movements, nil
}
func (f *fakeProvider) FetchProgress(ctx context.Context) ([]entity.ProjectProgress, error) {
	return f.progress, nil
}
func (f *fakeProvider) FetchUsers(ctx context.Context) ([]entity.User, error) { return f.users, nil }

func (f *fakeProvider) CreateMovements(ctx context.Context, requests []entity.MovementRequest) error {
	if f.failWrites != nil {
		return f.failWrites
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, requests...)
	return nil
}

func (f *fakeProvider) UpdateMovementStatus(ctx context.Context, update dto.MovementStatusUpdate) (entity.MovementRequest, error) {
	if f.failWrites != nil {
		return entity.MovementRequest{}, f.failWrites
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	for _, m := range f.movements {
		if m.ID == update.RequestID {
			m.Status = update.NewStatus
			m.ApprovalDate = &update.DecidedAt
			m.RejectionReason = update.Reason
			return m, nil
		}
	}
	return entity.MovementRequest{}, domain.ErrNotFound
}

func (f *fakeProvider) UpdateToolStatus(ctx context.Context, toolID, status string) (entity.Tool, error) {
	for _, t := range f.tools {
		if t.ID == toolID {
			t.Status = status
			return t, nil
		}
	}
	return entity.Tool{}, domain.ErrNotFound
}

func (f *fakeProvider) CreateUser(ctx context.Context, input dto.CreateUserInput) (entity.User, error) {
	u := entity.User{ID: "new-user", Name: input.Name, Username: input.Username, Role: input.Role, AssignedSiteID: input.AssignedSiteID}
	f.users = append(f.users, u)
	return u, nil
}

// noopCache caché que nunca acierta.
type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }
func (noopCache) Set(ctx context.Context, key string, payload []byte) {}

// memCache caché en memoria para verificar los aciertos.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.data[key]
	if ok {
		c.hits++
	}
	return payload, ok
}

func (c *memCache) Set(ctx context.Context, key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = payload
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

func seededProvider() *fakeProvider {
	return &fakeProvider{
		sites: []entity.Site{
			{ID: "bodega", Name: "Bodega Central", Type: entity.SiteTypeBodegaCentral},
			{ID: "obra-1", Name: "Obra Torres del Parque", Type: entity.SiteTypeResidential},
			{ID: "obra-2", Name: "Obra Centro Comercial", Type: entity.SiteTypeCommercial},
		},
		items: []entity.Item{
			{ID: "i1", SKU: "CAB-001", Name: "Cable THHN", Category: entity.CategoryCables, Unit: "m", Cost: decimal.NewFromInt(10)},
			{ID: "i2", SKU: "PRO-001", Name: "Breaker 20A", Category: entity.CategoryProteccion, Unit: "und", Cost: decimal.NewFromInt(20)},
		},
		inventory: []entity.InventoryRecord{
			{ID: "r1", ItemID: "i1", SiteID: "bodega", Quantity: decimal.NewFromInt(100), LastMovedDate: testNow.AddDate(0, 0, -5)},
			{ID: "r2", ItemID: "i2", SiteID: "obra-1", Quantity: decimal.NewFromInt(50), LastMovedDate: testNow.AddDate(0, 0, -120)},
			{ID: "r3", ItemID: "i1", SiteID: "obra-2", Quantity: decimal.NewFromInt(3), LastMovedDate: testNow.AddDate(0, 0, -2)},
		},
		movements: []entity.MovementRequest{
			{ID: "m1", BatchID: "b1", ItemID: "i1", FromSiteID: "bodega", ToSiteID: "obra-1",
				Quantity: decimal.NewFromInt(5), RequestDate: testNow.AddDate(0, 0, -1),
				RequesterID: "user-2", Status: entity.MovementPending},
			{ID: "m2", BatchID: "b1", ItemID: "i2", FromSiteID: "bodega", ToSiteID: "obra-1",
				Quantity: decimal.NewFromInt(2), RequestDate: testNow.AddDate(0, 0, -1),
				RequesterID: "user-2", Status: entity.MovementPending},
		},
		tools: []entity.Tool{
			{ID: "t1", Name: "Taladro", SiteID: "obra-1", Status: entity.ToolOperativa,
				NextMaintenanceDate: testNow.AddDate(0, 1, 0), WarrantyExpirationDate: testNow.AddDate(1, 0, 0)},
		},
		users: []entity.User{
			{ID: "user-1", Username: "admin@pcmejia.com", Name: "Admin", Role: entity.RoleAdmin},
			{ID: "user-2", Username: "jefe@pcmejia.com", Name: "Jefe de Obra", Role: entity.RoleSiteManager, AssignedSiteID: "obra-1"},
		},
	}
}

func seededStore(provider *fakeProvider) *snapshot.Store {
	snap, err := snapshot.Load(context.Background(), provider)
	if err != nil {
		panic(err)
	}
	return snapshot.NewStore(snap)
}

func nopLog() *logger.Logger { return logger.Nop() }
