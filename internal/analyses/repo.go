package analyses

import "context"

// Repo persists analysis records.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	ListByWallet(ctx context.Context, wallet string, limit, offset int) ([]Analysis, error)
}
