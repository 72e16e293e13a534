package featureflags

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrFlagNotFound = errors.New("feature flag not found")

// Repository provides data access for feature flags.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new feature flag repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert creates or replaces the flag definition for a key.
func (r *Repository) Upsert(ctx context.Context, key string, req UpsertRequest) (Flag, error) {
	envJSON, err := json.Marshal(req.Environments)
	if err != nil {
		return Flag{}, err
	}

	f := Flag{Key: key, Description: req.Description, Environments: req.Environments, RolloutPercentage: req.RolloutPercentage}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO feature_flags (key, description, environments, rollout_percentage)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET description = $2, environments = $3, rollout_percentage = $4, updated_at = now()
		RETURNING created_at, updated_at`,
		key, req.Description, envJSON, req.RolloutPercentage,
	).Scan(&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return Flag{}, err
	}
	return f, nil
}

// GetByKey retrieves one flag.
func (r *Repository) GetByKey(ctx context.Context, key string) (Flag, error) {
	var f Flag
	var envJSON []byte
	err := r.pool.QueryRow(ctx, `
		SELECT key, description, environments, rollout_percentage, created_at, updated_at
		FROM feature_flags WHERE key = $1`, key,
	).Scan(&f.Key, &f.Description, &envJSON, &f.RolloutPercentage, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Flag{}, ErrFlagNotFound
	}
	if err != nil {
		return Flag{}, err
	}
	if err := json.Unmarshal(envJSON, &f.Environments); err != nil {
		return Flag{}, err
	}
	return f, nil
}

// List returns every flag, sorted by key.
func (r *Repository) List(ctx context.Context) ([]Flag, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT key, description, environments, rollout_percentage, created_at, updated_at
		FROM feature_flags ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flags []Flag
	for rows.Next() {
		var f Flag
		var envJSON []byte
		if err := rows.Scan(&f.Key, &f.Description, &envJSON, &f.RolloutPercentage, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(envJSON, &f.Environments); err != nil {
			return nil, err
		}
		flags = append(flags, f)
	}
	return flags, rows.Err()
}

// Delete removes a flag.
func (r *Repository) Delete(ctx context.Context, key string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM feature_flags WHERE key = $1`, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFlagNotFound
	}
	return nil
}
