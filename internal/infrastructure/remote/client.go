// Package remote implementa el proveedor de datos contra la API REST del
// sistema de inventario en producción (inventario.pcmejia.com).
//
// Clasificación de errores: un fallo de transporte (DNS, conexión rechazada,
// timeout) se reporta como domain.ErrUnavailable, que habilita el degradado a
// modo demo; un 401/403 se reporta como domain.ErrUnauthorized y nunca degrada,
// porque un problema de credenciales no es un problema de conectividad.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/application/ports"
	"github.com/pcmejia/inventario-obras/internal/domain"
	"github.com/pcmejia/inventario-obras/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa DataProvider.
var _ ports.DataProvider = (*Client)(nil)

const maxBodyBytes = 8 << 20 // las colecciones completas caben de sobra en 8 MiB

// Client cliente REST del origen remoto.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient crea el cliente. timeout acota cada petición individual; el caller
// puede acotar más con el contexto.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string { return "remote" }

// Login autentica contra POST /login.
func (c *Client) Login(ctx context.Context, username, password string) (entity.User, error) {
	var user userPayload
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", body, &user); err != nil {
		return entity.User{}, err
	}
	return user.toEntity(), nil
}

func (c *Client) FetchSites(ctx context.Context) ([]entity.Site, error) {
	var payload []sitePayload
	if err := c.do(ctx, http.MethodGet, "/sites", nil, &payload); err != nil {
		return nil, err
	}
	out := make([]entity.Site, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.toEntity())
	}
	return out, nil
}

func (c *Client) FetchItems(ctx context.Context) ([]entity.Item, error) {
	var payload []itemPayload
	if err := c.do(ctx, http.MethodGet, "/items", nil, &payload); err != nil {
		return nil, err
	}
	out := make([]entity.Item, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.toEntity())
	}
	return out, nil
}

func (c *Client) FetchInventory(ctx context.Context) ([]entity.InventoryRecord, error) {
	var payload []inventoryPayload
	if err := c.do(ctx, http.MethodGet, "/inventory", nil, &payload); err != nil {
		return nil, err
	}
	out := make([]entity.InventoryRecord, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.toEntity())
	}
	return out, nil
}

func (c *Client) FetchTransactions(ctx context.Context) ([]entity.Transaction, error) {
	var payload []transactionPayload
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &payload); err != nil {
		return nil, err
	}
	out := make([]entity.Transaction, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.toEntity())
	}
	return out, nil
}

func (c *Client) FetchTools(ctx context.Context) ([]entity.Tool, error) {
	var payload []toolPayload
	if err := c.do(ctx, http.MethodGet, "/tools", nil, &payload); err != nil {
		return nil, err
	}
	out := make([]entity.Tool, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.toEntity())
	}
	return out, nil
}

func (c *Client) FetchMovements(ctx context.Context) ([]entity.MovementRequest, error) {
	var payload []movementPayload
	if err := c.do(ctx, http.MethodGet, "/movements", nil, &payload); err != nil {
		return nil, err
	}
	out := make([]entity.MovementRequest, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.toEntity())
	}
	return out, nil
}

func (c *Client) FetchProgress(ctx context.Context) ([]entity.ProjectProgress, error) {
	var payload []progressPayload
	if err := c.do(ctx, http.MethodGet, "/project-progress", nil, &payload); err != nil {
		return nil, err
	}
	out := make([]entity.ProjectProgress, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.toEntity())
	}
	return out, nil
}

func (c *Client) FetchUsers(ctx context.Context) ([]entity.User, error) {
	var payload []userPayload
	if err := c.do(ctx, http.MethodGet, "/users", nil, &payload); err != nil {
		return nil, err
	}
	out := make([]entity.User, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.toEntity())
	}
	return out, nil
}

func (c *Client) CreateMovements(ctx context.Context, requests []entity.MovementRequest) error {
	payload := make([]movementPayload, 0, len(requests))
	for _, r := range requests {
		payload = append(payload, movementFromEntity(r))
	}
	return c.do(ctx, http.MethodPost, "/movements", payload, nil)
}

func (c *Client) UpdateMovementStatus(ctx context.Context, update dto.MovementStatusUpdate) (entity.MovementRequest, error) {
	var out movementPayload
	path := fmt.Sprintf("/movements/%s/status", update.RequestID)
	if err := c.do(ctx, http.MethodPut, path, update, &out); err != nil {
		return entity.MovementRequest{}, err
	}
	return out.toEntity(), nil
}

func (c *Client) UpdateToolStatus(ctx context.Context, toolID, status string) (entity.Tool, error) {
	var out toolPayload
	path := fmt.Sprintf("/tools/%s/status", toolID)
	if err := c.do(ctx, http.MethodPut, path, map[string]string{"status": status}, &out); err != nil {
		return entity.Tool{}, err
	}
	return out.toEntity(), nil
}

func (c *Client) CreateUser(ctx context.Context, input dto.CreateUserInput) (entity.User, error) {
	var out userPayload
	if err := c.do(ctx, http.MethodPost, "/users", input, &out); err != nil {
		return entity.User{}, err
	}
	return out.toEntity(), nil
}

// do ejecuta la petición y decodifica la respuesta en out (si out no es nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: serializar request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("remote: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Fallo de transporte: el origen no respondió.
		return fmt.Errorf("%w: %s %s: %v", domain.ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: leer respuesta de %s: %v", domain.ErrUnavailable, path, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s respondió %d", domain.ErrUnauthorized, path, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrConflict, path)
	case resp.StatusCode >= 400:
		return fmt.Errorf("remote: %s respondió %d: %s", path, resp.StatusCode, truncate(raw, 200))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("remote: respuesta de %s no es JSON válido: %w", path, err)
	}
	return nil
}

func truncate(raw []byte, n int) string {
	if len(raw) <= n {
		return string(raw)
	}
	return string(raw[:n]) + "..."
}
