package analyses

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Analysis // wallet -> analyses
	byID map[string]Analysis
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Analysis),
		byID: make(map[string]Analysis),
	}
}

// Create stores a new analysis record.
func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[analysis.WalletAddress] = append(r.data[analysis.WalletAddress], analysis)
	r.byID[analysis.ID] = analysis
	return nil
}

// GetByID returns an analysis by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

// ListByWallet returns analyses for a wallet, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByWallet(ctx context.Context, wallet string, limit, offset int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	walletAnalyses := r.data[wallet]
	r.mu.RUnlock()

	if len(walletAnalyses) == 0 || offset >= len(walletAnalyses) {
		return []Analysis{}, nil
	}

	out := make([]Analysis, len(walletAnalyses))
	copy(out, walletAnalyses)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return out[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
