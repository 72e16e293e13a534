// Package featureflags provides environment-scoped feature flags with
// deterministic percentage rollouts, backed by postgres with a short-TTL
// redis cache in front of the hot evaluation path.
package featureflags

import "time"

// Environments a flag can be toggled for.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Flag is one feature flag definition. A nil RolloutPercentage means no
// rollout is configured and the environment toggle alone decides.
type Flag struct {
	Key               string          `json:"key"`
	Description       string          `json:"description"`
	Environments      map[string]bool `json:"environments"`
	RolloutPercentage *int            `json:"rolloutPercentage,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// UpsertRequest creates or replaces a flag definition.
type UpsertRequest struct {
	Description       string          `json:"description" validate:"omitempty,max=500"`
	Environments      map[string]bool `json:"environments" validate:"required,dive,keys,oneof=development staging production,endkeys"`
	RolloutPercentage *int            `json:"rolloutPercentage" validate:"omitempty,min=0,max=100"`
}

// EvaluationResponse is the public evaluation result.
type EvaluationResponse struct {
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
}
