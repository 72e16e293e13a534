// Package scoring computes a 0-100 qualification score for inbound leads.
//
// The model is an additive point accumulation over a handful of form
// signals, capped at 100. It is a pure function of its inputs plus an
// injected table of point values, so alternate tables can be supplied in
// tests without touching module state.
package scoring

import (
	"strings"

	"madfam_site_backend/internal/leads/domain"
)

const maxScore = 100

// Tables holds the point values for each signal. Injected at module
// initialization rather than read from package globals.
type Tables struct {
	BusinessEmailPoints int
	CompanyPoints       int
	PhonePoints         int
	TierLevelPoints     int // per tier level, essentials=1 ... strategic=5
	MessagePoints       int
	MessageMinLength    int // message must be strictly longer than this
	FreeEmailDomains    []string
}

// DefaultTables returns the production scoring model.
func DefaultTables() Tables {
	return Tables{
		BusinessEmailPoints: 20,
		CompanyPoints:       15,
		PhonePoints:         10,
		TierLevelPoints:     10,
		MessagePoints:       15,
		MessageMinLength:    50,
		FreeEmailDomains:    []string{"gmail", "hotmail", "yahoo"},
	}
}

// Signal captures the scorable fields of an inbound contact form.
// Absent fields simply contribute zero points.
type Signal struct {
	Email   string
	Company string
	Phone   string
	Message string
	Tier    *domain.Tier
}

// Score computes the lead score. Always within [0, maxScore].
func Score(sig Signal, tbl Tables) int {
	score := 0

	if d := emailDomain(sig.Email); d != "" && !isFreeEmailDomain(d, tbl.FreeEmailDomains) {
		score += tbl.BusinessEmailPoints
	}
	if strings.TrimSpace(sig.Company) != "" {
		score += tbl.CompanyPoints
	}
	if strings.TrimSpace(sig.Phone) != "" {
		score += tbl.PhonePoints
	}
	if sig.Tier != nil {
		score += sig.Tier.Level() * tbl.TierLevelPoints
	}
	if len(strings.TrimSpace(sig.Message)) > tbl.MessageMinLength {
		score += tbl.MessagePoints
	}

	if score > maxScore {
		return maxScore
	}
	return score
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}

func isFreeEmailDomain(domain string, blocklist []string) bool {
	for _, free := range blocklist {
		if strings.Contains(domain, free) {
			return true
		}
	}
	return false
}
