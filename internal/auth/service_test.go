package auth

import (
	"context"
	"testing"
	"time"

	"github.com/almas-d/gogallery/internal/config"
	"github.com/google/uuid"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     time.Minute,
		RefreshTokenTTL:    time.Hour,
		BcryptCost:         4,
	}
}

func TestRegisterSuccess(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, testAuthConfig())

	result, err := service.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	if result.Account.PasswordHash != "" {
		t.Fatalf("expected password hash to be stripped from response")
	}
	if result.Account.Role != RoleUser {
		t.Fatalf("expected user role, got %s", result.Account.Role)
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatalf("expected tokens to be issued")
	}
	if len(store.accounts) != 1 {
		t.Fatalf("expected account stored; got %d", len(store.accounts))
	}
}

func TestRegisterBootstrapAdminRole(t *testing.T) {
	store := newMemoryStore()
	cfg := testAuthConfig()
	cfg.AdminBootstrapEmail = "ops@example.com"
	service := NewService(store, cfg)

	result, err := service.Register(context.Background(), RegisterInput{
		Email:    "Ops@Example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if result.Account.Role != RoleAdmin {
		t.Fatalf("expected admin role for bootstrap email, got %s", result.Account.Role)
	}

	other, err := service.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if other.Account.Role != RoleUser {
		t.Fatalf("expected user role for other emails, got %s", other.Account.Role)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, testAuthConfig())

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("initial registration returned error: %v", err)
	}

	_, err = service.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "AnotherPass2!",
	})
	if err == nil || err != ErrEmailAlreadyExists {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLoginTouchesLastLogin(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, testAuthConfig())

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	result, err := service.Login(context.Background(), LoginInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("login returned error: %v", err)
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatalf("expected tokens")
	}
	if store.lastLoginTouches != 1 {
		t.Fatalf("expected last login recorded, got %d touches", store.lastLoginTouches)
	}
}

func TestLoginInvalidPassword(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, testAuthConfig())

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	_, err = service.Login(context.Background(), LoginInput{
		Email:    "user@example.com",
		Password: "WrongPass9!",
	})
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateAccessTokenRoundTrip(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, testAuthConfig())

	result, err := service.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	claims, err := service.ValidateAccessToken(result.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if claims.AccountID != result.Account.ID {
		t.Fatalf("account id mismatch: %s vs %s", claims.AccountID, result.Account.ID)
	}
	if claims.Role != RoleUser {
		t.Fatalf("expected role claim, got %q", claims.Role)
	}

	if _, err := service.ValidateAccessToken("not-a-token"); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for garbage token, got %v", err)
	}
}

func TestValidateAccessTokenExpired(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, testAuthConfig())

	result, err := service.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	service.nowFunc = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, err := service.ValidateAccessToken(result.Tokens.AccessToken); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

// --- fakes ---

type memoryStore struct {
	accounts         map[string]Account
	lastLoginTouches int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{accounts: map[string]Account{}}
}

func (m *memoryStore) CreateAccount(ctx context.Context, email, passwordHash, role string) (Account, error) {
	if _, exists := m.accounts[email]; exists {
		return Account{}, ErrEmailAlreadyExists
	}
	account := Account{
		ID:           uuid.New(),
		Email:        email,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.accounts[email] = account
	return account, nil
}

func (m *memoryStore) FindAccountByEmail(ctx context.Context, email string) (Account, error) {
	account, ok := m.accounts[email]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return account, nil
}

func (m *memoryStore) TouchLastLogin(ctx context.Context, accountID uuid.UUID) error {
	m.lastLoginTouches++
	return nil
}

func (m *memoryStore) StoreRefreshToken(ctx context.Context, accountID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	return nil
}

func (m *memoryStore) RevokeToken(ctx context.Context, accountID uuid.UUID, tokenHash string) error {
	return nil
}
