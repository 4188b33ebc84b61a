package directory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/edotat/edotat/pkg/money"
)

func itemPrice(cents int64) money.Amount {
	return money.Amount{Units: cents, Currency: money.EUR}
}

// MockRestaurantRepo is an in-memory RestaurantRepo for testing.
type MockRestaurantRepo struct {
	mu          sync.RWMutex
	restaurants map[uuid.UUID]*Restaurant
	ListFunc    func(ctx context.Context) ([]*Restaurant, error)
	GetFunc     func(ctx context.Context, id uuid.UUID) (*Restaurant, error)
}

func NewMockRestaurantRepo() *MockRestaurantRepo {
	return &MockRestaurantRepo{
		restaurants: make(map[uuid.UUID]*Restaurant),
	}
}

func (m *MockRestaurantRepo) Create(ctx context.Context, restaurant *Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restaurants[restaurant.ID] = restaurant
	return nil
}

func (m *MockRestaurantRepo) Get(ctx context.Context, id uuid.UUID) (*Restaurant, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.restaurants[id], nil
}

func (m *MockRestaurantRepo) List(ctx context.Context) ([]*Restaurant, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Restaurant
	for _, r := range m.restaurants {
		result = append(result, r)
	}
	return result, nil
}

// MockTableRepo is an in-memory TableRepo for testing.
type MockTableRepo struct {
	mu     sync.RWMutex
	tables map[uuid.UUID]*Table
}

func NewMockTableRepo() *MockTableRepo {
	return &MockTableRepo{
		tables: make(map[uuid.UUID]*Table),
	}
}

func (m *MockTableRepo) Create(ctx context.Context, table *Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.ID] = table
	return nil
}

func (m *MockTableRepo) Get(ctx context.Context, id uuid.UUID) (*Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables[id], nil
}

func (m *MockTableRepo) GetByCode(ctx context.Context, restaurantID uuid.UUID, code string) (*Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, table := range m.tables {
		if table.RestaurantID == restaurantID && table.Code == code {
			return table, nil
		}
	}
	return nil, nil
}

func (m *MockTableRepo) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Table
	for _, table := range m.tables {
		if table.RestaurantID == restaurantID {
			result = append(result, table)
		}
	}
	return result, nil
}

// MockMenuRepo is an in-memory MenuRepo for testing.
type MockMenuRepo struct {
	mu    sync.RWMutex
	menus map[uuid.UUID]*Menu
}

func NewMockMenuRepo() *MockMenuRepo {
	return &MockMenuRepo{
		menus: make(map[uuid.UUID]*Menu),
	}
}

func (m *MockMenuRepo) Create(ctx context.Context, menu *Menu) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.menus[menu.ID] = menu
	return nil
}

func (m *MockMenuRepo) Get(ctx context.Context, id uuid.UUID) (*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.menus[id], nil
}

func (m *MockMenuRepo) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Menu
	for _, menu := range m.menus {
		if menu.RestaurantID == restaurantID {
			result = append(result, menu)
		}
	}
	return result, nil
}

// MockMenuItemRepo is an in-memory MenuItemRepo for testing.
type MockMenuItemRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*MenuItem
}

func NewMockMenuItemRepo() *MockMenuItemRepo {
	return &MockMenuItemRepo{
		items: make(map[uuid.UUID]*MenuItem),
	}
}

func (m *MockMenuItemRepo) Create(ctx context.Context, item *MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *MockMenuItemRepo) Get(ctx context.Context, id uuid.UUID) (*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items[id], nil
}

func (m *MockMenuItemRepo) ListByMenu(ctx context.Context, menuID uuid.UUID) ([]*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*MenuItem
	for _, item := range m.items {
		if item.MenuID == menuID {
			result = append(result, item)
		}
	}
	return result, nil
}
