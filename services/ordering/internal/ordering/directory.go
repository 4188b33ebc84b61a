package ordering

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// Directory exposes the catalog lookups the ordering service needs when an
// order begins: the table anchors the order to a restaurant, the restaurant
// supplies currency and timezone, and the menu is checked for ownership.
type Directory interface {
	Table(ctx context.Context, id uuid.UUID) (*TableRef, error)
	Restaurant(ctx context.Context, id uuid.UUID) (*RestaurantRef, error)
	Menu(ctx context.Context, id uuid.UUID) (*MenuRef, error)
}

type TableRef struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Code         string    `json:"code"`
}

type RestaurantRef struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Currency string    `json:"currency"`
	Timezone string    `json:"timezone"`
}

type MenuRef struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Name         string    `json:"name"`
}

const tableCacheTTL = 30 * time.Second

// DirectoryClient implements Directory against the directory service.
// Table lookups sit on the hot path of every order start, so they go
// through a small TTL cache; restaurant and menu lookups are infrequent
// enough to hit the service directly.
type DirectoryClient struct {
	client *apt.ServiceClient
	logger apt.Logger

	mu     sync.RWMutex
	tables map[uuid.UUID]cachedTable
}

type cachedTable struct {
	table     *TableRef
	fetchedAt time.Time
}

func NewDirectoryClient(client *apt.ServiceClient, logger apt.Logger) *DirectoryClient {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &DirectoryClient{
		client: client,
		logger: logger,
		tables: make(map[uuid.UUID]cachedTable),
	}
}

func (c *DirectoryClient) Table(ctx context.Context, id uuid.UUID) (*TableRef, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid table id")
	}

	if table, ok := c.cachedTable(id); ok {
		return table, nil
	}

	resp, err := c.client.Get(ctx, "tables", id.String())
	if err != nil {
		return nil, fmt.Errorf("cannot fetch table %s: %w", id, err)
	}

	var table TableRef
	if err := rehydrate(resp.Data, &table); err != nil {
		return nil, fmt.Errorf("cannot decode table %s: %w", id, err)
	}

	c.mu.Lock()
	c.tables[id] = cachedTable{table: &table, fetchedAt: time.Now()}
	c.mu.Unlock()

	return &table, nil
}

func (c *DirectoryClient) cachedTable(id uuid.UUID) (*TableRef, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.tables[id]
	if !ok || time.Since(entry.fetchedAt) > tableCacheTTL {
		return nil, false
	}
	return entry.table, true
}

func (c *DirectoryClient) Restaurant(ctx context.Context, id uuid.UUID) (*RestaurantRef, error) {
	resp, err := c.client.Get(ctx, "restaurants", id.String())
	if err != nil {
		return nil, fmt.Errorf("cannot fetch restaurant %s: %w", id, err)
	}

	var restaurant RestaurantRef
	if err := rehydrate(resp.Data, &restaurant); err != nil {
		return nil, fmt.Errorf("cannot decode restaurant %s: %w", id, err)
	}
	return &restaurant, nil
}

func (c *DirectoryClient) Menu(ctx context.Context, id uuid.UUID) (*MenuRef, error) {
	resp, err := c.client.Get(ctx, "menus", id.String())
	if err != nil {
		return nil, fmt.Errorf("cannot fetch menu %s: %w", id, err)
	}

	var menu MenuRef
	if err := rehydrate(resp.Data, &menu); err != nil {
		return nil, fmt.Errorf("cannot decode menu %s: %w", id, err)
	}
	return &menu, nil
}

func rehydrate(data interface{}, out interface{}) error {
	bytes, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, out)
}
