package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("assessment not found")

type storedAssessment struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Company   string
	Locale    string
	Answers   map[string]int
	Result    Result
	CreatedAt time.Time
}

// Repository provides data access for assessment submissions.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new assessment repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create stores a submission together with its scored result.
// Answers and result are persisted as jsonb so the rubric can evolve
// without schema churn.
func (r *Repository) Create(ctx context.Context, a storedAssessment) (storedAssessment, error) {
	answersJSON, err := json.Marshal(a.Answers)
	if err != nil {
		return storedAssessment{}, err
	}
	resultJSON, err := json.Marshal(a.Result)
	if err != nil {
		return storedAssessment{}, err
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO assessments (name, email, company, locale, answers, result, score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		a.Name, a.Email, a.Company, a.Locale, answersJSON, resultJSON, a.Result.Score,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return storedAssessment{}, err
	}
	return a, nil
}

// GetByID retrieves a single submission.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (storedAssessment, error) {
	var a storedAssessment
	var answersJSON, resultJSON []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, company, locale, answers, result, created_at
		FROM assessments WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name, &a.Email, &a.Company, &a.Locale, &answersJSON, &resultJSON, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storedAssessment{}, ErrNotFound
	}
	if err != nil {
		return storedAssessment{}, err
	}
	if err := json.Unmarshal(answersJSON, &a.Answers); err != nil {
		return storedAssessment{}, err
	}
	if err := json.Unmarshal(resultJSON, &a.Result); err != nil {
		return storedAssessment{}, err
	}
	return a, nil
}

// List returns submissions matching the filter, newest first.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]storedAssessment, error) {
	limit := q.Limit
	if limit < 1 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, company, locale, answers, result, created_at
		FROM assessments
		WHERE score >= $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, q.MinScore, limit, q.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storedAssessment
	for rows.Next() {
		var a storedAssessment
		var answersJSON, resultJSON []byte
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Company, &a.Locale, &answersJSON, &resultJSON, &a.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(answersJSON, &a.Answers); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(resultJSON, &a.Result); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
