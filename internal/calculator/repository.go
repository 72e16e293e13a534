package calculator

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Request kinds recorded in the log.
const (
	KindROI      = "roi"
	KindEstimate = "estimate"
)

// Repository logs calculator usage for the sales funnel analytics.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new calculator repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LogRequest records one calculator invocation with its input and output.
// Callers treat failures as non-fatal: a calculation never fails because
// the usage log is down.
func (r *Repository) LogRequest(ctx context.Context, kind, locale string, input, result any) error {
	inputJSON, err := json.Marshal(input)
	if err != nil {
		return err
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO calculator_requests (kind, locale, input, result)
		VALUES ($1, $2, $3, $4)`,
		kind, locale, inputJSON, resultJSON)
	return err
}
