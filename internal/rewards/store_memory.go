package rewards

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu     sync.Mutex
	totals map[string]int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{totals: make(map[string]int64)}
}

func (s *memoryStore) Credit(ctx context.Context, wallet string, base, bonus int64) (Reward, error) {
	if err := ctx.Err(); err != nil {
		return Reward{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	total, exists := s.totals[wallet]
	earned := base
	if !exists {
		earned += bonus
	}
	total += earned
	s.totals[wallet] = total
	return Reward{Earned: earned, Total: total, IsNewUser: !exists}, nil
}

func (s *memoryStore) Get(ctx context.Context, wallet string) (Reward, error) {
	if err := ctx.Err(); err != nil {
		return Reward{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Reward{Total: s.totals[wallet]}, nil
}
