package authn

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

const (
	// TokenLength is the length of an encoded session token. Tokens are
	// opaque: 192 random bytes, base64-encoded to 256 characters. They
	// carry no claims; validity lives server-side in the session record.
	TokenLength = 256
	tokenBytes  = 192

	// TokenDuration is how long a session stays valid after sign-in.
	TokenDuration = 100 * 24 * time.Hour
)

// Session binds an opaque token to an account until it expires or the
// account signs out.
type Session struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	AccountID uuid.UUID `json:"account_id" bson:"account_id"`
	Token     string    `json:"token" bson:"token"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

func (s *Session) GetID() uuid.UUID {
	return s.ID
}

func (s *Session) ResourceType() string {
	return "session"
}

func (s *Session) SetID(id uuid.UUID) {
	s.ID = id
}

func NewSession(accountID uuid.UUID) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:        apt.GenerateNewID(),
		AccountID: accountID,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(TokenDuration),
	}, nil
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

func generateToken() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("cannot generate session token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

type SessionRepo interface {
	Create(ctx context.Context, session *Session) error
	// GetByToken returns the session holding the token, or nil when no
	// session does.
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByAccount removes every session belonging to the account.
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
}
