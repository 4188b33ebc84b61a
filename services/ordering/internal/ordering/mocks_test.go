package ordering

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/edotat/edotat/pkg/money"
)

// MockOrderRepo is an in-memory OrderRepo for testing
type MockOrderRepo struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*Order

	CreateFunc           func(ctx context.Context, order *Order) error
	GetOpenByAccountFunc func(ctx context.Context, accountID uuid.UUID) (*Order, error)
	SaveFunc             func(ctx context.Context, order *Order) error
}

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{
		orders: make(map[uuid.UUID]*Order),
	}
}

func (m *MockOrderRepo) Create(ctx context.Context, order *Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepo) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return order, nil
}

func (m *MockOrderRepo) GetOpenByAccount(ctx context.Context, accountID uuid.UUID) (*Order, error) {
	if m.GetOpenByAccountFunc != nil {
		return m.GetOpenByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.AccountID == accountID && o.Status == OrderOpen {
			return o, nil
		}
	}
	return nil, nil
}

func (m *MockOrderRepo) ListEndedByAccount(ctx context.Context, accountID uuid.UUID) ([]*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Order
	for _, o := range m.orders {
		if o.AccountID == accountID && o.Status == OrderEnded {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EndedAt.Before(*result[j].EndedAt)
	})
	return result, nil
}

func (m *MockOrderRepo) Save(ctx context.Context, order *Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.ID]; !ok {
		return fmt.Errorf("order not found")
	}
	m.orders[order.ID] = order
	return nil
}

// MockSuborderRepo is an in-memory SuborderRepo for testing
type MockSuborderRepo struct {
	mu        sync.RWMutex
	suborders map[uuid.UUID]*Suborder

	CreateFunc          func(ctx context.Context, suborder *Suborder) error
	ListSentByOrderFunc func(ctx context.Context, orderID uuid.UUID) ([]*Suborder, error)
	SaveFunc            func(ctx context.Context, suborder *Suborder) error
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
}

func NewMockSuborderRepo() *MockSuborderRepo {
	return &MockSuborderRepo{
		suborders: make(map[uuid.UUID]*Suborder),
	}
}

func (m *MockSuborderRepo) Create(ctx context.Context, suborder *Suborder) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, suborder)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suborders[suborder.ID] = suborder
	return nil
}

func (m *MockSuborderRepo) GetActiveByOrder(ctx context.Context, orderID uuid.UUID) (*Suborder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.suborders {
		if s.OrderID == orderID && s.Active() {
			return s, nil
		}
	}
	return nil, nil
}

func (m *MockSuborderRepo) ListSentByOrder(ctx context.Context, orderID uuid.UUID) ([]*Suborder, error) {
	if m.ListSentByOrderFunc != nil {
		return m.ListSentByOrderFunc(ctx, orderID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Suborder
	for _, s := range m.suborders {
		if s.OrderID == orderID && !s.Active() {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Seq < result[j].Seq
	})
	return result, nil
}

func (m *MockSuborderRepo) Save(ctx context.Context, suborder *Suborder) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, suborder)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.suborders[suborder.ID]; !ok {
		return fmt.Errorf("suborder not found")
	}
	m.suborders[suborder.ID] = suborder
	return nil
}

func (m *MockSuborderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.suborders[id]; !ok {
		return fmt.Errorf("suborder not found")
	}
	delete(m.suborders, id)
	return nil
}

// MockDirectory is a canned Directory for testing
type MockDirectory struct {
	Tables      map[uuid.UUID]*TableRef
	Restaurants map[uuid.UUID]*RestaurantRef
	Menus       map[uuid.UUID]*MenuRef
}

func NewMockDirectory() *MockDirectory {
	return &MockDirectory{
		Tables:      make(map[uuid.UUID]*TableRef),
		Restaurants: make(map[uuid.UUID]*RestaurantRef),
		Menus:       make(map[uuid.UUID]*MenuRef),
	}
}

func (m *MockDirectory) Table(ctx context.Context, id uuid.UUID) (*TableRef, error) {
	return m.Tables[id], nil
}

func (m *MockDirectory) Restaurant(ctx context.Context, id uuid.UUID) (*RestaurantRef, error) {
	return m.Restaurants[id], nil
}

func (m *MockDirectory) Menu(ctx context.Context, id uuid.UUID) (*MenuRef, error) {
	return m.Menus[id], nil
}

// MockAccountResolver resolves every configured token to its account
type MockAccountResolver struct {
	Sessions map[string]uuid.UUID
}

func NewMockAccountResolver() *MockAccountResolver {
	return &MockAccountResolver{
		Sessions: make(map[string]uuid.UUID),
	}
}

func (m *MockAccountResolver) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	return m.Sessions[token], nil
}

// MockPublisher records published messages for assertions
type MockPublisher struct {
	mu       sync.Mutex
	Messages map[string][][]byte

	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Messages: make(map[string][][]byte),
	}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages[topic] = append(m.Messages[topic], msg)
	return nil
}

func eur(units int64) money.Amount {
	return money.Amount{Units: units, Currency: money.EUR}
}

func testItem(name string, units int64) ItemRef {
	return ItemRef{
		MenuItemID: uuid.New(),
		Name:       name,
		UnitPrice:  eur(units),
	}
}
