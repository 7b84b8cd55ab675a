package rewards

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed reward store.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

// Credit atomically adds tokens to a wallet's ledger entry, creating it with
// the first-time bonus if absent. The conflict branch adds only the base
// amount, so the bonus lands at most once per wallet even when two first
// credits race; the loser degrades to a base-reward credit.
func (s *pgStore) Credit(ctx context.Context, wallet string, base, bonus int64) (Reward, error) {
	var (
		total int64
		count int64
	)
	row := s.DB.QueryRowContext(ctx, `
INSERT INTO token_rewards (wallet_address, total_tokens, analyses_count, created_at, updated_at)
VALUES ($1, $2, 1, $3, $3)
ON CONFLICT (wallet_address) DO UPDATE
SET total_tokens = token_rewards.total_tokens + $4,
    analyses_count = token_rewards.analyses_count + 1,
    updated_at = $3
RETURNING total_tokens, analyses_count`,
		wallet, base+bonus, time.Now().UTC(), base)
	if err := row.Scan(&total, &count); err != nil {
		return Reward{}, err
	}
	if count == 1 {
		return Reward{Earned: base + bonus, Total: total, IsNewUser: true}, nil
	}
	return Reward{Earned: base, Total: total, IsNewUser: false}, nil
}

// Get returns the current ledger entry without modifying it.
func (s *pgStore) Get(ctx context.Context, wallet string) (Reward, error) {
	var total int64
	row := s.DB.QueryRowContext(ctx, `
SELECT total_tokens FROM token_rewards WHERE wallet_address = $1`, wallet)
	if err := row.Scan(&total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reward{}, nil
		}
		return Reward{}, err
	}
	return Reward{Total: total}, nil
}
