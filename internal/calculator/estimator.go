package calculator

import (
	"math"

	"madfam_site_backend/internal/leads/domain"
	"madfam_site_backend/platform/apperr"
)

// EstimateInput describes the requested project.
type EstimateInput struct {
	ProjectType  string   `json:"projectType" validate:"required"`
	Complexity   string   `json:"complexity" validate:"required"`
	Timeline     string   `json:"timeline" validate:"required"`
	TeamSize     string   `json:"teamSize" validate:"omitempty"`
	Features     []string `json:"features" validate:"omitempty,max=50,dive,max=200"`
	Deliverables []string `json:"deliverables" validate:"omitempty,max=50,dive,max=200"`
}

// EstimateResult is the produced quote range.
type EstimateResult struct {
	CostMin           float64     `json:"costMin"`
	CostMax           float64     `json:"costMax"`
	Currency          string      `json:"currency"`
	DurationWeeksMin  float64     `json:"durationWeeksMin"`
	DurationWeeksMax  float64     `json:"durationWeeksMax"`
	DurationMonthsMin float64     `json:"durationMonthsMin"`
	DurationMonthsMax float64     `json:"durationMonthsMax"`
	RecommendedTier   domain.Tier `json:"recommendedTier"`
	TeamRoles         []string    `json:"teamRoles"`
	SuggestedFeatures []string    `json:"suggestedFeatures"`
}

// EstimateProject produces a cost and duration range from the rate tables.
// Unknown project types, complexities, timelines, or team sizes are a
// validation error rather than being coerced to a default.
func EstimateProject(in EstimateInput, rates EstimatorRates) (EstimateResult, error) {
	byComplexity, ok := rates.Base[in.ProjectType]
	if !ok {
		return EstimateResult{}, apperr.Validation("unknown project type: " + in.ProjectType)
	}
	base, ok := byComplexity[in.Complexity]
	if !ok {
		return EstimateResult{}, apperr.Validation("unknown complexity: " + in.Complexity)
	}
	timelineMult, ok := rates.TimelineCostMult[in.Timeline]
	if !ok {
		return EstimateResult{}, apperr.Validation("unknown timeline: " + in.Timeline)
	}
	// Team size is optional; without one the base rates stand as-is.
	teamMult := 1.0
	if in.TeamSize != "" {
		teamMult, ok = rates.TeamCostMult[in.TeamSize]
		if !ok {
			return EstimateResult{}, apperr.Validation("unknown team size: " + in.TeamSize)
		}
	}

	features := float64(len(in.Features))
	deliverables := float64(len(in.Deliverables))

	// Multipliers apply to the base range only; feature and deliverable
	// increments are flat.
	costMin := base.Cost.Min*timelineMult*teamMult + features*rates.FeatureCost.Min + deliverables*rates.DeliverableCost.Min
	costMax := base.Cost.Max*timelineMult*teamMult + features*rates.FeatureCost.Max + deliverables*rates.DeliverableCost.Max

	durationMin := base.DurationWeeks.Min
	durationMax := base.DurationWeeks.Max
	switch in.Timeline {
	case TimelineUrgent:
		durationMin = roundHalfWeek(durationMin * rates.UrgentDurationMult)
		durationMax = roundHalfWeek(durationMax * rates.UrgentDurationMult)
	case TimelineFlexible:
		durationMax = roundHalfWeek(durationMax * rates.FlexibleDurationCap)
	}

	avgCost := (costMin + costMax) / 2

	return EstimateResult{
		CostMin:           costMin,
		CostMax:           costMax,
		Currency:          rates.Currency,
		DurationWeeksMin:  durationMin,
		DurationWeeksMax:  durationMax,
		DurationMonthsMin: weeksToMonths(durationMin),
		DurationMonthsMax: weeksToMonths(durationMax),
		RecommendedTier:   domain.TierForAverageCost(avgCost, rates.TierBreakpoints),
		TeamRoles:         teamRoles(in.ProjectType, in.Complexity),
		SuggestedFeatures: suggestedFeatures(in.ProjectType, in.Complexity),
	}, nil
}

// teamRoles assembles the recommended staffing for the engagement. Mobile
// projects and complex builds add specialists; every project gets a project
// manager and a designer.
func teamRoles(projectType, complexity string) []string {
	var roles []string

	switch projectType {
	case TypeWebsite:
		roles = append(roles, "Frontend Developer")
	case TypeWebApp:
		roles = append(roles, "Full-Stack Developer")
	case TypeMobile:
		roles = append(roles, "iOS Developer", "Android Developer")
	case TypeEcommerce:
		roles = append(roles, "Full-Stack Developer", "Payments Specialist")
	case TypeAISolution:
		roles = append(roles, "ML Engineer", "Data Engineer")
	case TypeAutomation:
		roles = append(roles, "Automation Engineer")
	}

	if complexity == ComplexityComplex {
		roles = append(roles, "Solutions Architect", "QA Lead")
	}

	return append(roles, "Project Manager", "UI/UX Designer")
}

// suggestedFeatures proposes common add-ons for the project type.
func suggestedFeatures(projectType, complexity string) []string {
	var features []string

	switch projectType {
	case TypeWebsite:
		features = append(features, "SEO optimization", "Analytics integration")
	case TypeWebApp:
		features = append(features, "Role-based access control", "Audit logging")
	case TypeMobile:
		features = append(features, "Push notifications", "Offline mode")
	case TypeEcommerce:
		features = append(features, "Payment gateway integration", "Inventory sync")
	case TypeAISolution:
		features = append(features, "Model monitoring dashboard", "Human review workflow")
	case TypeAutomation:
		features = append(features, "Process analytics dashboard", "Alerting integration")
	}

	if complexity == ComplexityComplex {
		features = append(features, "Dedicated staging environment")
	}

	return features
}

func weeksToMonths(weeks float64) float64 {
	return math.Round(weeks/weeksPerMonth*10) / 10
}

func roundHalfWeek(weeks float64) float64 {
	return math.Round(weeks*2) / 2
}
