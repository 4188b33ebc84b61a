package authn

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRegister(t *testing.T) {
	accounts := NewMockAccountRepo()
	ctx := context.Background()

	account, err := Register(ctx, accounts, "Mario@Example.com", "trattoria1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if account.Email != "mario@example.com" {
		t.Errorf("email must be normalized, got %q", account.Email)
	}
	if len(account.PasswordHash) == 0 {
		t.Errorf("expected a stored password hash")
	}
	if string(account.PasswordHash) == "trattoria1" {
		t.Errorf("password must never be stored in the clear")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	accounts := NewMockAccountRepo()
	ctx := context.Background()

	if _, err := Register(ctx, accounts, "mario@example.com", "trattoria1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := Register(ctx, accounts, "MARIO@example.com", "different9")
	if !errors.Is(err, ErrAccountExists) {
		t.Errorf("expected ErrAccountExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	accounts := NewMockAccountRepo()
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "trattoria1"},
		{"malformed email", "not-an-email", "trattoria1"},
		{"short password", "mario@example.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Register(ctx, accounts, tt.email, tt.password); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestSignIn(t *testing.T) {
	accounts := NewMockAccountRepo()
	sessions := NewMockSessionRepo()
	ctx := context.Background()

	registered, err := Register(ctx, accounts, "mario@example.com", "trattoria1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	account, session, err := SignIn(ctx, accounts, sessions, "mario@example.com", "trattoria1")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if account.ID != registered.ID {
		t.Errorf("signed in as the wrong account")
	}
	if len(session.Token) != TokenLength {
		t.Errorf("expected token of %d characters, got %d", TokenLength, len(session.Token))
	}
	if session.AccountID != registered.ID {
		t.Errorf("session bound to wrong account")
	}

	wantExpiry := time.Now().Add(TokenDuration)
	if session.ExpiresAt.Before(wantExpiry.Add(-time.Minute)) || session.ExpiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("expected expiry around %v, got %v", wantExpiry, session.ExpiresAt)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	accounts := NewMockAccountRepo()
	sessions := NewMockSessionRepo()
	ctx := context.Background()

	if _, err := Register(ctx, accounts, "mario@example.com", "trattoria1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, _, err := SignIn(ctx, accounts, sessions, "mario@example.com", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	_, _, err = SignIn(ctx, accounts, sessions, "luigi@example.com", "trattoria1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignInTokensAreUnique(t *testing.T) {
	accounts := NewMockAccountRepo()
	sessions := NewMockSessionRepo()
	ctx := context.Background()

	if _, err := Register(ctx, accounts, "mario@example.com", "trattoria1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		_, session, err := SignIn(ctx, accounts, sessions, "mario@example.com", "trattoria1")
		if err != nil {
			t.Fatalf("SignIn failed: %v", err)
		}
		if seen[session.Token] {
			t.Fatalf("token repeated on sign-in %d", i)
		}
		seen[session.Token] = true
	}
}

func TestValidateToken(t *testing.T) {
	accounts := NewMockAccountRepo()
	sessions := NewMockSessionRepo()
	ctx := context.Background()

	if _, err := Register(ctx, accounts, "mario@example.com", "trattoria1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	_, session, err := SignIn(ctx, accounts, sessions, "mario@example.com", "trattoria1")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	resolved, err := ValidateToken(ctx, sessions, session.Token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if resolved.AccountID != session.AccountID {
		t.Errorf("resolved wrong account")
	}

	if _, err := ValidateToken(ctx, sessions, "bogus"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound for unknown token, got %v", err)
	}
	if _, err := ValidateToken(ctx, sessions, ""); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound for empty token, got %v", err)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	sessions := NewMockSessionRepo()
	ctx := context.Background()

	session, err := NewSession(NewAccount().ID)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	session.ExpiresAt = time.Now().Add(-time.Hour)
	if err := sessions.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := ValidateToken(ctx, sessions, session.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound for expired token, got %v", err)
	}

	// Expired sessions are reaped on validation.
	if got, _ := sessions.GetByToken(ctx, session.Token); got != nil {
		t.Errorf("expired session should have been removed")
	}
}

func TestCloseSession(t *testing.T) {
	accounts := NewMockAccountRepo()
	sessions := NewMockSessionRepo()
	ctx := context.Background()

	if _, err := Register(ctx, accounts, "mario@example.com", "trattoria1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	_, session, err := SignIn(ctx, accounts, sessions, "mario@example.com", "trattoria1")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	if err := CloseSession(ctx, sessions, session.Token); err != nil {
		t.Fatalf("CloseSession failed: %v", err)
	}

	if _, err := ValidateToken(ctx, sessions, session.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("closed session must no longer validate")
	}

	if err := CloseSession(ctx, sessions, session.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second close must fail with ErrSessionNotFound, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	accounts := NewMockAccountRepo()
	sessions := NewMockSessionRepo()
	ctx := context.Background()

	registered, err := Register(ctx, accounts, "mario@example.com", "trattoria1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Two parallel sessions; deleting the account kills both.
	_, first, err := SignIn(ctx, accounts, sessions, "mario@example.com", "trattoria1")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	_, second, err := SignIn(ctx, accounts, sessions, "mario@example.com", "trattoria1")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	if err := DeleteAccount(ctx, accounts, sessions, first.Token); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	if got, _ := accounts.Get(ctx, registered.ID); got != nil {
		t.Errorf("account should be gone")
	}
	if _, err := ValidateToken(ctx, sessions, second.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("all account sessions must be revoked")
	}
}
