// Package repository provides data access for captured leads.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrLeadNotFound = errors.New("lead not found")

// Lead statuses driven by capture and by marketing-automation webhooks.
const (
	StatusNew          = "new"
	StatusEngaged      = "engaged"
	StatusQualified    = "qualified"
	StatusUnsubscribed = "unsubscribed"
)

// Lead is a captured contact record with its computed score.
type Lead struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Company      string
	Phone        string
	Message      string
	Tier         *string
	Source       string
	Locale       string
	Score        int
	Status       string
	Unsubscribed bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListFilter narrows admin lead listings.
type ListFilter struct {
	MinScore int
	Status   string
	Limit    int
	Offset   int
}

// Repository provides data access for leads.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, name, email, company, phone, message, tier, source, locale,
	score, status, unsubscribed, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Company, &l.Phone, &l.Message, &l.Tier,
		&l.Source, &l.Locale, &l.Score, &l.Status, &l.Unsubscribed,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// Create inserts a new lead and returns the stored record.
func (r *Repository) Create(ctx context.Context, l Lead) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		INSERT INTO leads (name, email, company, phone, message, tier, source, locale, score, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+leadColumns,
		l.Name, l.Email, l.Company, l.Phone, l.Message, l.Tier, l.Source, l.Locale, l.Score, StatusNew,
	))
}

// GetByID retrieves a lead by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	l, err := scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrLeadNotFound
	}
	return l, err
}

// FindByEmail retrieves the most recent lead for an email address.
func (r *Repository) FindByEmail(ctx context.Context, email string) (Lead, error) {
	l, err := scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE lower(email) = lower($1)
		ORDER BY created_at DESC
		LIMIT 1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrLeadNotFound
	}
	return l, err
}

// FindRecentDuplicate returns the ID of a lead with the same email captured
// within the given window, or nil when none exists.
func (r *Repository) FindRecentDuplicate(ctx context.Context, email string, window time.Duration) (*uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT id FROM leads
		WHERE lower(email) = lower($1) AND created_at > now() - ($2 * interval '1 second')
		ORDER BY created_at DESC
		LIMIT 1`, email, int64(window.Seconds())).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// List returns leads matching the filter, newest first.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]Lead, error) {
	limit := f.Limit
	if limit < 1 {
		limit = 50
	}
	status := f.Status
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE score >= $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, f.MinScore, status, limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// UpdateStatus transitions a lead's status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET status = $2, updated_at = now()
		WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// MarkUnsubscribed flags every lead for the email as unsubscribed.
func (r *Repository) MarkUnsubscribed(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET unsubscribed = true, status = $2, updated_at = now()
		WHERE lower(email) = lower($1)`, email, StatusUnsubscribed)
	return err
}
