package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultQueryTimeout = 5 * time.Second

// Repository provides database access for account identity concerns. The
// accounts table also carries the usage counters, so creating an account
// initializes its counters to zero in the same insert.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateAccount persists a new account record with zeroed counters.
func (r *Repository) CreateAccount(ctx context.Context, email, passwordHash, role string) (Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := `
INSERT INTO accounts (email, password_hash, role, bytes_used, file_count, last_login)
VALUES ($1, $2, $3, 0, 0, NOW())
RETURNING id, email, password_hash, role, created_at, updated_at, last_login;`

	row := r.pool.QueryRow(ctx, query, email, passwordHash, role)

	var account Account
	if err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.Role, &account.CreatedAt, &account.UpdatedAt, &account.LastLogin); err != nil {
		if isUniqueViolation(err) {
			return Account{}, ErrEmailAlreadyExists
		}
		return Account{}, fmt.Errorf("scan account: %w", err)
	}

	return account, nil
}

// FindAccountByEmail fetches an account by email.
func (r *Repository) FindAccountByEmail(ctx context.Context, email string) (Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := `
SELECT id, email, password_hash, role, created_at, updated_at, last_login
FROM accounts
WHERE email = $1;`

	var account Account
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("find account: %w", err)
	}

	return account, nil
}

// TouchLastLogin records a successful login.
func (r *Repository) TouchLastLogin(ctx context.Context, accountID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx, `UPDATE accounts SET last_login = NOW() WHERE id = $1;`, accountID); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

// StoreRefreshToken saves or updates a refresh token hash for the account.
func (r *Repository) StoreRefreshToken(ctx context.Context, accountID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := `
INSERT INTO refresh_tokens (account_id, token_hash, expires_at, revoked_at)
VALUES ($1, $2, $3, NULL)
ON CONFLICT (account_id, token_hash)
DO UPDATE SET expires_at = EXCLUDED.expires_at, revoked_at = NULL, created_at = NOW();`

	if _, err := r.pool.Exec(ctx, query, accountID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}

	return nil
}

// RevokeToken marks a refresh token as revoked.
func (r *Repository) RevokeToken(ctx context.Context, accountID uuid.UUID, tokenHash string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	query := `
UPDATE refresh_tokens
SET revoked_at = NOW()
WHERE account_id = $1 AND token_hash = $2;`

	if _, err := r.pool.Exec(ctx, query, accountID, tokenHash); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
