package authn

import (
	"context"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// Account is a diner identity. The email is the login handle and is unique;
// the password is stored only as a bcrypt hash.
type Account struct {
	ID           uuid.UUID `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash []byte    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

func (a *Account) GetID() uuid.UUID {
	return a.ID
}

func (a *Account) ResourceType() string {
	return "account"
}

func (a *Account) SetID(id uuid.UUID) {
	a.ID = id
}

func NewAccount() *Account {
	return &Account{
		ID: apt.GenerateNewID(),
	}
}

func (a *Account) EnsureID() {
	if a.ID == uuid.Nil {
		a.ID = apt.GenerateNewID()
	}
}

func (a *Account) BeforeCreate() {
	a.EnsureID()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
}

type AccountRepo interface {
	Create(ctx context.Context, account *Account) error
	Get(ctx context.Context, id uuid.UUID) (*Account, error)
	// GetByEmail returns the account with the given email, or nil when no
	// account claims it.
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
