// Package demo implementa el proveedor de datos en memoria. Genera un estado
// determinista a partir del kárdex real de la operación y acepta las mismas
// escrituras que el proveedor remoto, por lo que la aplicación se comporta
// igual en ambos modos.
package demo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/application/ports"
	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
)

// Verificar en tiempo de compilación que Provider implementa DataProvider.
var _ ports.DataProvider = (*Provider)(nil)

// Provider proveedor demo. Todo el estado vive en memoria bajo un mutex; las
// lecturas devuelven copias para que el snapshot nunca comparta slices con el
// estado mutable.
type Provider struct {
	mu sync.Mutex
	ds *dataset
}

// NewProvider genera el estado demo anclado al instante actual.
func NewProvider() *Provider {
	return &Provider{ds: generate(time.Now().UTC())}
}

func (p *Provider) Name() string { return "demo" }

// Login valida credenciales contra los usuarios sembrados.
func (p *Provider) Login(ctx context.Context, username, password string) (entity.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, u := range p.ds.users {
		if !strings.EqualFold(u.Username, username) {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
			return entity.User{}, domain.ErrUnauthorized
		}
		return u, nil
	}
	return entity.User{}, domain.ErrUnauthorized
}

func (p *Provider) FetchSites(ctx context.Context) ([]entity.Site, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copySlice(p.ds.sites), nil
}

func (p *Provider) FetchItems(ctx context.Context) ([]entity.Item, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copySlice(p.ds.items), nil
}

func (p *Provider) FetchInventory(ctx context.Context) ([]entity.InventoryRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copySlice(p.ds.inventory), nil
}

func (p *Provider) FetchTransactions(ctx context.Context) ([]entity.Transaction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copySlice(p.ds.txs), nil
}

func (p *Provider) FetchTools(ctx context.Context) ([]entity.Tool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copySlice(p.ds.tools), nil
}

func (p *Provider) FetchMovements(ctx context.Context) ([]entity.MovementRequest, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copySlice(p.ds.movements), nil
}

func (p *Provider) FetchProgress(ctx context.Context) ([]entity.ProjectProgress, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copySlice(p.ds.progress), nil
}

func (p *Provider) FetchUsers(ctx context.Context) ([]entity.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copySlice(p.ds.users), nil
}

// CreateMovements agrega las solicitudes de una orden nueva.
func (p *Provider) CreateMovements(ctx context.Context, requests []entity.MovementRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ds.movements = append(p.ds.movements, requests...)
	return nil
}

// UpdateMovementStatus aplica la decisión y actualiza el inventario de origen y
// destino cuando la solicitud se aprueba.
func (p *Provider) UpdateMovementStatus(ctx context.Context, update dto.MovementStatusUpdate) (entity.MovementRequest, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.ds.movements {
		m := &p.ds.movements[i]
		if m.ID != update.RequestID {
			continue
		}
		if m.IsTerminal() {
			return entity.MovementRequest{}, fmt.Errorf("%w: la solicitud %s ya fue decidida", domain.ErrConflict, m.ID)
		}

		m.Status = update.NewStatus
		decided := update.DecidedAt
		if decided.IsZero() {
			decided = time.Now().UTC()
		}
		m.ApprovalDate = &decided
		m.RejectionReason = update.Reason

		if update.NewStatus == entity.MovementApproved {
			p.applyTransfer(*m, decided)
		}
		return *m, nil
	}
	return entity.MovementRequest{}, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, update.RequestID)
}

// applyTransfer descuenta del origen, suma al destino y asienta el par
// TRANSFER_OUT/TRANSFER_IN en el libro.
func (p *Provider) applyTransfer(m entity.MovementRequest, at time.Time) {
	fromKey := m.ItemID + "_" + m.FromSiteID
	toKey := m.ItemID + "_" + m.ToSiteID

	var fromIdx, toIdx = -1, -1
	for i, rec := range p.ds.inventory {
		switch rec.ItemID + "_" + rec.SiteID {
		case fromKey:
			fromIdx = i
		case toKey:
			toIdx = i
		}
	}

	if fromIdx >= 0 {
		qty := p.ds.inventory[fromIdx].Quantity.Sub(m.Quantity)
		if qty.IsNegative() {
			// El stock nunca queda negativo.
			qty = decimal.Zero
		}
		p.ds.inventory[fromIdx].Quantity = qty
		p.ds.inventory[fromIdx].LastMovedDate = at
	}
	if toIdx >= 0 {
		p.ds.inventory[toIdx].Quantity = p.ds.inventory[toIdx].Quantity.Add(m.Quantity)
		p.ds.inventory[toIdx].LastMovedDate = at
	} else {
		p.ds.inventory = append(p.ds.inventory, entity.InventoryRecord{
			ID:            fmt.Sprintf("inv-%s-%s", m.ItemID, m.ToSiteID),
			ItemID:        m.ItemID,
			SiteID:        m.ToSiteID,
			Quantity:      m.Quantity,
			LastMovedDate: at,
		})
	}

	p.ds.txs = append(p.ds.txs,
		entity.Transaction{
			ID:       "tx_out_" + m.ID,
			ItemID:   m.ItemID,
			SiteID:   m.FromSiteID,
			Quantity: m.Quantity.Neg(),
			Date:     at,
			Type:     entity.TxTransferOut,
		},
		entity.Transaction{
			ID:       "tx_in_" + m.ID,
			ItemID:   m.ItemID,
			SiteID:   m.ToSiteID,
			Quantity: m.Quantity,
			Date:     at,
			Type:     entity.TxTransferIn,
		},
	)
}

// UpdateToolStatus cambia el estado de una herramienta.
func (p *Provider) UpdateToolStatus(ctx context.Context, toolID, status string) (entity.Tool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.ds.tools {
		if p.ds.tools[i].ID == toolID {
			p.ds.tools[i].Status = status
			return p.ds.tools[i], nil
		}
	}
	return entity.Tool{}, fmt.Errorf("%w: herramienta %s", domain.ErrNotFound, toolID)
}

// CreateUser da de alta un usuario nuevo. El username es único.
func (p *Provider) CreateUser(ctx context.Context, input dto.CreateUserInput) (entity.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, u := range p.ds.users {
		if strings.EqualFold(u.Username, input.Username) {
			return entity.User{}, fmt.Errorf("%w: username %s", domain.ErrDuplicate, input.Username)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return entity.User{}, fmt.Errorf("hashear contraseña: %w", err)
	}

	user := entity.User{
		ID:             uuid.NewString(),
		Username:       input.Username,
		Name:           input.Name,
		Role:           input.Role,
		AssignedSiteID: input.AssignedSiteID,
		PasswordHash:   string(hash),
	}
	p.ds.users = append(p.ds.users, user)
	return user, nil
}

func copySlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
