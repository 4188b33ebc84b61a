package authn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
)

const minPasswordLength = 8

// Register creates an account for an unused email.
func Register(ctx context.Context, accounts AccountRepo, email, password string) (*Account, error) {
	if accounts == nil {
		return nil, errors.New("account repository is required")
	}

	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	existing, err := accounts.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if existing != nil {
		return nil, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := NewAccount()
	account.Email = normalized
	account.PasswordHash = hash
	account.BeforeCreate()

	if err := accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}

// SignIn authenticates the credentials and opens a session. The returned
// session carries the opaque token the client presents on every call.
func SignIn(ctx context.Context, accounts AccountRepo, sessions SessionRepo, email, password string) (*Account, *Session, error) {
	if accounts == nil || sessions == nil {
		return nil, nil, errors.New("repositories are required")
	}

	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	account, err := accounts.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup account: %w", err)
	}
	if account == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := NewSession(account.ID)
	if err != nil {
		return nil, nil, err
	}
	if err := sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	return account, session, nil
}

// ValidateToken resolves a token to its session. Unknown and expired tokens
// yield ErrSessionNotFound; expired sessions are removed on sight.
func ValidateToken(ctx context.Context, sessions SessionRepo, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	session, err := sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.Expired(time.Now()) {
		_ = sessions.Delete(ctx, session.ID)
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// CloseSession signs the token out.
func CloseSession(ctx context.Context, sessions SessionRepo, token string) error {
	session, err := ValidateToken(ctx, sessions, token)
	if err != nil {
		return err
	}
	if err := sessions.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteAccount removes the token's account and every session it holds.
func DeleteAccount(ctx context.Context, accounts AccountRepo, sessions SessionRepo, token string) error {
	session, err := ValidateToken(ctx, sessions, token)
	if err != nil {
		return err
	}

	if err := sessions.DeleteByAccount(ctx, session.AccountID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	if err := accounts.Delete(ctx, session.AccountID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", errors.New("email is required")
	}
	at := strings.Index(normalized, "@")
	if at < 1 || at == len(normalized)-1 {
		return "", errors.New("email is invalid")
	}
	return normalized, nil
}
