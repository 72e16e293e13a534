// Package domain holds the leads bounded context's enumerated types.
package domain

import (
	"strings"

	"madfam_site_backend/platform/apperr"
)

// Tier is one of the five service packages offered to customers,
// ordered by scope and price.
type Tier string

const (
	TierEssentials Tier = "essentials"
	TierAdvanced   Tier = "advanced"
	TierConsulting Tier = "consulting"
	TierPlatforms  Tier = "platforms"
	TierStrategic  Tier = "strategic"
)

// Level returns the 1-based tier level (essentials=1 ... strategic=5).
func (t Tier) Level() int {
	switch t {
	case TierEssentials:
		return 1
	case TierAdvanced:
		return 2
	case TierConsulting:
		return 3
	case TierPlatforms:
		return 4
	case TierStrategic:
		return 5
	default:
		return 0
	}
}

// ParseTier converts a wire value into a Tier. Unknown values are an
// explicit validation error; there is no silent fallback bucket.
func ParseTier(raw string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(raw)))
	if t.Level() == 0 {
		return "", apperr.Validation("unknown service tier: " + raw)
	}
	return t, nil
}

// TierForAverageCost maps an average project cost onto a recommended tier
// using four ascending breakpoints.
func TierForAverageCost(avg float64, breakpoints [4]float64) Tier {
	switch {
	case avg < breakpoints[0]:
		return TierEssentials
	case avg < breakpoints[1]:
		return TierAdvanced
	case avg < breakpoints[2]:
		return TierConsulting
	case avg < breakpoints[3]:
		return TierPlatforms
	default:
		return TierStrategic
	}
}
