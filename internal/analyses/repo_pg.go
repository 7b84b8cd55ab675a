package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis record.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (
    id,
    wallet_address,
    file_name,
    file_size,
    file_type,
    analysis_format,
    result,
    storage_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	format := analysis.Format
	if format == "" {
		format = "json"
	}

	result, err := json.Marshal(analysis.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	var storageKey sql.NullString
	if analysis.StorageKey != "" {
		storageKey = sql.NullString{String: analysis.StorageKey, Valid: true}
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		analysis.ID,
		analysis.WalletAddress,
		analysis.FileName,
		analysis.FileSize,
		analysis.FileType,
		format,
		result,
		storageKey,
		analysis.CreatedAt,
	)
	return err
}

// GetByID fetches an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	const query = `
SELECT id, wallet_address, file_name, file_size, file_type, analysis_format, result, storage_key, created_at
FROM analyses
WHERE id = $1
LIMIT 1`
	var (
		analysis   Analysis
		result     []byte
		storageKey sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, analysisID).Scan(
		&analysis.ID,
		&analysis.WalletAddress,
		&analysis.FileName,
		&analysis.FileSize,
		&analysis.FileType,
		&analysis.Format,
		&result,
		&storageKey,
		&analysis.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	if err := json.Unmarshal(result, &analysis.Result); err != nil {
		return Analysis{}, fmt.Errorf("unmarshal result: %w", err)
	}
	if storageKey.Valid {
		analysis.StorageKey = storageKey.String
	}
	return analysis, nil
}

// ListByWallet lists analyses for a wallet ordered newest-first.
func (r *PGRepo) ListByWallet(ctx context.Context, wallet string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, wallet_address, file_name, file_size, file_type, analysis_format, result, storage_key, created_at
FROM analyses
WHERE wallet_address = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, wallet, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		var (
			analysis   Analysis
			result     []byte
			storageKey sql.NullString
		)
		if err := rows.Scan(
			&analysis.ID,
			&analysis.WalletAddress,
			&analysis.FileName,
			&analysis.FileSize,
			&analysis.FileType,
			&analysis.Format,
			&result,
			&storageKey,
			&analysis.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(result, &analysis.Result); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		if storageKey.Valid {
			analysis.StorageKey = storageKey.String
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
