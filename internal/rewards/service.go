package rewards

import (
	"context"
	"strings"
)

// Reward amounts per completed analysis. The new-user bonus is granted at
// most once per wallet; the store enforces that under concurrency.
const (
	BaseReward   = 10
	NewUserBonus = 40
)

type store interface {
	Credit(ctx context.Context, wallet string, base, bonus int64) (Reward, error)
	Get(ctx context.Context, wallet string) (Reward, error)
}

// Service manages the token reward ledger via an underlying store.
type Service struct {
	store store
}

// NewService constructs a Service with in-memory store.
func NewService() *Service {
	return &Service{store: newMemoryStore()}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore store) *Service {
	return &Service{store: pgStore}
}

// RewardForAnalysis credits a wallet for one completed analysis and returns
// the earned amount, the new running total, and whether this was the
// wallet's first reward.
func (s *Service) RewardForAnalysis(ctx context.Context, wallet string) (Reward, error) {
	if strings.TrimSpace(wallet) == "" {
		return Reward{}, ErrWalletRequired
	}
	return s.store.Credit(ctx, wallet, BaseReward, NewUserBonus)
}

// Balance returns the current ledger entry for a wallet without crediting.
func (s *Service) Balance(ctx context.Context, wallet string) (Reward, error) {
	if strings.TrimSpace(wallet) == "" {
		return Reward{}, ErrWalletRequired
	}
	return s.store.Get(ctx, wallet)
}
