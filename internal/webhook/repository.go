// Package webhook provides the marketing-automation webhook bounded
// context. It handles API key management, inbound marketing events, and
// campaign tracking links with QR codes.
package webhook

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAPIKeyNotFound   = errors.New("webhook API key not found")
	ErrCampaignNotFound = errors.New("campaign not found")
)

// APIKey represents a webhook API key stored in the database.
// Only the hash is stored; the plaintext is shown once at creation.
type APIKey struct {
	ID             uuid.UUID
	Name           string
	KeyHash        string
	KeyPrefix      string
	AllowedDomains []string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Touchpoint is one recorded marketing interaction.
type Touchpoint struct {
	ID           uuid.UUID
	LeadID       *uuid.UUID
	Email        string
	EventType    string
	SourceDomain string
	Handled      bool
	Metadata     map[string]any
	OccurredAt   time.Time
	CreatedAt    time.Time
}

// Campaign is a trackable marketing campaign with a landing URL.
type Campaign struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	LandingURL string    `json:"landingUrl"`
	UTMSource  string    `json:"utmSource"`
	UTMMedium  string    `json:"utmMedium"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Repository provides data access for webhook API keys, touchpoints,
// and campaigns.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new webhook repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GenerateAPIKey creates a new random API key and returns the plaintext key and its hash.
// The plaintext key is returned only once; only the hash is stored.
func GenerateAPIKey() (plaintext string, hash string, prefix string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", "", err
	}
	plaintext = "whk_" + hex.EncodeToString(bytes)
	h := sha256.Sum256([]byte(plaintext))
	hash = hex.EncodeToString(h[:])
	prefix = plaintext[:12] // "whk_" + 8 hex chars
	return plaintext, hash, prefix, nil
}

// HashKey hashes a plaintext API key for lookup.
func HashKey(plaintext string) string {
	h := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(h[:])
}

// CreateKey creates a new API key record.
func (r *Repository) CreateKey(ctx context.Context, name, keyHash, keyPrefix string, allowedDomains []string) (APIKey, error) {
	var key APIKey
	err := r.pool.QueryRow(ctx, `
		INSERT INTO webhook_api_keys (name, key_hash, key_prefix, allowed_domains)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, key_hash, key_prefix, allowed_domains, is_active, created_at, updated_at`,
		name, keyHash, keyPrefix, allowedDomains).Scan(
		&key.ID, &key.Name, &key.KeyHash, &key.KeyPrefix,
		&key.AllowedDomains, &key.IsActive, &key.CreatedAt, &key.UpdatedAt,
	)
	return key, err
}

// GetKeyByHash retrieves an active API key by its hash.
func (r *Repository) GetKeyByHash(ctx context.Context, keyHash string) (APIKey, error) {
	var key APIKey
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, key_hash, key_prefix, allowed_domains, is_active, created_at, updated_at
		FROM webhook_api_keys
		WHERE key_hash = $1 AND is_active = true`, keyHash).Scan(
		&key.ID, &key.Name, &key.KeyHash, &key.KeyPrefix,
		&key.AllowedDomains, &key.IsActive, &key.CreatedAt, &key.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return APIKey{}, ErrAPIKeyNotFound
	}
	return key, err
}

// ListKeys returns all API keys, newest first.
func (r *Repository) ListKeys(ctx context.Context) ([]APIKey, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, key_hash, key_prefix, allowed_domains, is_active, created_at, updated_at
		FROM webhook_api_keys
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []APIKey
	for rows.Next() {
		var key APIKey
		if err := rows.Scan(
			&key.ID, &key.Name, &key.KeyHash, &key.KeyPrefix,
			&key.AllowedDomains, &key.IsActive, &key.CreatedAt, &key.UpdatedAt,
		); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// RevokeKey deactivates an API key.
func (r *Repository) RevokeKey(ctx context.Context, keyID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE webhook_api_keys SET is_active = false, updated_at = now()
		WHERE id = $1`, keyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAPIKeyNotFound
	}
	return nil
}

// InsertTouchpoint records a marketing interaction. Unknown event types
// are stored too, with handled=false, so nothing the automation platform
// sends is silently lost.
func (r *Repository) InsertTouchpoint(ctx context.Context, tp Touchpoint) error {
	metaJSON, err := json.Marshal(tp.Metadata)
	if err != nil {
		return err
	}
	occurredAt := tp.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO touchpoints (lead_id, email, event_type, source_domain, handled, metadata, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tp.LeadID, tp.Email, tp.EventType, tp.SourceDomain, tp.Handled, metaJSON, occurredAt)
	return err
}

// ListTouchpointsByEmail returns a contact's interactions, newest first.
func (r *Repository) ListTouchpointsByEmail(ctx context.Context, email string, limit int) ([]Touchpoint, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, email, event_type, source_domain, handled, metadata, occurred_at, created_at
		FROM touchpoints
		WHERE lower(email) = lower($1)
		ORDER BY occurred_at DESC
		LIMIT $2`, email, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tps []Touchpoint
	for rows.Next() {
		var tp Touchpoint
		var metaJSON []byte
		if err := rows.Scan(&tp.ID, &tp.LeadID, &tp.Email, &tp.EventType, &tp.SourceDomain,
			&tp.Handled, &metaJSON, &tp.OccurredAt, &tp.CreatedAt); err != nil {
			return nil, err
		}
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &tp.Metadata); err != nil {
				return nil, err
			}
		}
		tps = append(tps, tp)
	}
	return tps, rows.Err()
}

// CreateCampaign stores a new campaign.
func (r *Repository) CreateCampaign(ctx context.Context, c Campaign) (Campaign, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (name, slug, landing_url, utm_source, utm_medium)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		c.Name, c.Slug, c.LandingURL, c.UTMSource, c.UTMMedium,
	).Scan(&c.ID, &c.CreatedAt)
	return c, err
}

// GetCampaign retrieves one campaign.
func (r *Repository) GetCampaign(ctx context.Context, id uuid.UUID) (Campaign, error) {
	var c Campaign
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, slug, landing_url, utm_source, utm_medium, created_at
		FROM campaigns WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.LandingURL, &c.UTMSource, &c.UTMMedium, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Campaign{}, ErrCampaignNotFound
	}
	return c, err
}

// ListCampaigns returns all campaigns, newest first.
func (r *Repository) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, slug, landing_url, utm_source, utm_medium, created_at
		FROM campaigns ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		var c Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.LandingURL, &c.UTMSource, &c.UTMMedium, &c.CreatedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}
