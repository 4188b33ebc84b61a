package authn

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockAccountRepo is an in-memory AccountRepo for testing
type MockAccountRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*Account

	CreateFunc     func(ctx context.Context, account *Account) error
	GetByEmailFunc func(ctx context.Context, email string) (*Account, error)
}

func NewMockAccountRepo() *MockAccountRepo {
	return &MockAccountRepo{
		accounts: make(map[uuid.UUID]*Account),
	}
}

func (m *MockAccountRepo) Create(ctx context.Context, account *Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepo) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[id]
	if !ok {
		return nil, nil
	}
	return account, nil
}

func (m *MockAccountRepo) GetByEmail(ctx context.Context, email string) (*Account, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, nil
}

func (m *MockAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return fmt.Errorf("account not found")
	}
	delete(m.accounts, id)
	return nil
}

// MockSessionRepo is an in-memory SessionRepo for testing
type MockSessionRepo struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewMockSessionRepo() *MockSessionRepo {
	return &MockSessionRepo{
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (m *MockSessionRepo) Create(ctx context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

func (m *MockSessionRepo) GetByToken(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.Token == token {
			return s, nil
		}
	}
	return nil, nil
}

func (m *MockSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionRepo) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.AccountID == accountID {
			delete(m.sessions, id)
		}
	}
	return nil
}
