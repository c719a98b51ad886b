package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const storeTimeout = 5 * time.Second

// Store persists per-account counters. Counters live on the accounts table,
// so an account and its counter record share a lifecycle: created together at
// registration, never deleted by this service.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a counter store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ReadCounters returns the last persisted counters for the account. A missing
// account reads as zero usage.
func (s *Store) ReadCounters(ctx context.Context, accountID uuid.UUID) (Counters, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	query := `
SELECT bytes_used, file_count
FROM accounts
WHERE id = $1;`

	var counters Counters
	err := s.pool.QueryRow(ctx, query, accountID).Scan(&counters.BytesUsed, &counters.FileCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Counters{}, nil
		}
		return Counters{}, fmt.Errorf("read counters: %w", err)
	}
	return counters, nil
}

// IncrementRelative applies a relative delta to the account counters in a
// single atomic statement. Results are clamped at zero so repeated decrements
// can never drive a counter negative.
func (s *Store) IncrementRelative(ctx context.Context, accountID uuid.UUID, deltaBytes, deltaFiles int64) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	query := `
UPDATE accounts
SET bytes_used = GREATEST(bytes_used + $2, 0),
    file_count = GREATEST(file_count + $3, 0),
    updated_at = NOW()
WHERE id = $1;`

	if _, err := s.pool.Exec(ctx, query, accountID, deltaBytes, deltaFiles); err != nil {
		return fmt.Errorf("increment counters: %w", err)
	}
	return nil
}

// OverwriteAbsolute replaces the stored counters with recomputed totals.
// No coordination exists between this overwrite and concurrent relative
// increments; a pass racing an in-flight upload can momentarily undercount,
// which the next pass corrects.
func (s *Store) OverwriteAbsolute(ctx context.Context, accountID uuid.UUID, bytesUsed, fileCount int64) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	query := `
UPDATE accounts
SET bytes_used = GREATEST($2, 0),
    file_count = GREATEST($3, 0),
    updated_at = NOW()
WHERE id = $1;`

	if _, err := s.pool.Exec(ctx, query, accountID, bytesUsed, fileCount); err != nil {
		return fmt.Errorf("overwrite counters: %w", err)
	}
	return nil
}

// ListAllAccounts returns every account's counter record. Account count is
// assumed bounded; there is no pagination.
func (s *Store) ListAllAccounts(ctx context.Context) ([]AccountUsage, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	query := `
SELECT id, email, role, bytes_used, file_count, created_at, last_login
FROM accounts
ORDER BY bytes_used DESC, email ASC;`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []AccountUsage
	for rows.Next() {
		var usage AccountUsage
		if err := rows.Scan(&usage.AccountID, &usage.Email, &usage.Role, &usage.BytesUsed, &usage.FileCount, &usage.CreatedAt, &usage.LastLogin); err != nil {
			return nil, fmt.Errorf("scan account usage: %w", err)
		}
		accounts = append(accounts, usage)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}
