package calculator

import (
	"reflect"
	"testing"

	"madfam_site_backend/internal/leads/domain"
	"madfam_site_backend/platform/apperr"
)

func TestEstimateProjectAutomationSimpleUrgent(t *testing.T) {
	got, err := EstimateProject(EstimateInput{
		ProjectType: TypeAutomation,
		Complexity:  ComplexitySimple,
		Timeline:    TimelineUrgent,
		TeamSize:    TeamSmall,
	}, DefaultTables().Estimator)
	if err != nil {
		t.Fatalf("EstimateProject() error = %v", err)
	}

	if !almostEqual(got.CostMin, 75000) {
		t.Errorf("CostMin = %v, want 75000", got.CostMin)
	}
	if !almostEqual(got.CostMax, 135000) {
		t.Errorf("CostMax = %v, want 135000", got.CostMax)
	}
	if got.Currency != "MXN" {
		t.Errorf("Currency = %q, want MXN", got.Currency)
	}
	// 4-6 weeks compressed by the urgent multiplier.
	if !almostEqual(got.DurationWeeksMin, 3) || !almostEqual(got.DurationWeeksMax, 4) {
		t.Errorf("Duration = %v-%v weeks, want 3-4", got.DurationWeeksMin, got.DurationWeeksMax)
	}
}

func TestEstimateProjectUrgentCostsAtLeastFlexible(t *testing.T) {
	rates := DefaultTables().Estimator
	for projectType, byComplexity := range rates.Base {
		for complexity := range byComplexity {
			urgent, err := EstimateProject(EstimateInput{
				ProjectType: projectType, Complexity: complexity,
				Timeline: TimelineUrgent, TeamSize: TeamMedium,
			}, rates)
			if err != nil {
				t.Fatalf("urgent estimate: %v", err)
			}
			flexible, err := EstimateProject(EstimateInput{
				ProjectType: projectType, Complexity: complexity,
				Timeline: TimelineFlexible, TeamSize: TeamMedium,
			}, rates)
			if err != nil {
				t.Fatalf("flexible estimate: %v", err)
			}
			if urgent.CostMin < flexible.CostMin || urgent.CostMax < flexible.CostMax {
				t.Errorf("%s/%s: urgent cost below flexible", projectType, complexity)
			}
		}
	}
}

func TestEstimateProjectFeaturesIncreaseCost(t *testing.T) {
	rates := DefaultTables().Estimator
	base := EstimateInput{
		ProjectType: TypeWebApp,
		Complexity:  ComplexityMedium,
		Timeline:    TimelineStandard,
		TeamSize:    TeamSmall,
	}
	withExtras := base
	withExtras.Features = []string{"auth", "payments", "reporting"}
	withExtras.Deliverables = []string{"brand guide"}

	plain, err := EstimateProject(base, rates)
	if err != nil {
		t.Fatalf("EstimateProject() error = %v", err)
	}
	extras, err := EstimateProject(withExtras, rates)
	if err != nil {
		t.Fatalf("EstimateProject() error = %v", err)
	}

	wantMin := plain.CostMin + 3*rates.FeatureCost.Min + rates.DeliverableCost.Min
	wantMax := plain.CostMax + 3*rates.FeatureCost.Max + rates.DeliverableCost.Max
	if !almostEqual(extras.CostMin, wantMin) {
		t.Errorf("CostMin = %v, want %v", extras.CostMin, wantMin)
	}
	if !almostEqual(extras.CostMax, wantMax) {
		t.Errorf("CostMax = %v, want %v", extras.CostMax, wantMax)
	}
}

func TestEstimateProjectIncrementsStayFlatUnderMultipliers(t *testing.T) {
	rates := DefaultTables().Estimator
	base := EstimateInput{
		ProjectType: TypeWebApp,
		Complexity:  ComplexityMedium,
		Timeline:    TimelineUrgent,
		TeamSize:    TeamLarge,
	}
	withExtras := base
	withExtras.Features = []string{"auth", "payments"}
	withExtras.Deliverables = []string{"brand guide"}

	plain, err := EstimateProject(base, rates)
	if err != nil {
		t.Fatalf("EstimateProject() error = %v", err)
	}
	extras, err := EstimateProject(withExtras, rates)
	if err != nil {
		t.Fatalf("EstimateProject() error = %v", err)
	}

	// The 1.5x timeline and 2.2x team multipliers apply to the base range
	// only; each feature still adds exactly its table value.
	wantMin := plain.CostMin + 2*rates.FeatureCost.Min + rates.DeliverableCost.Min
	wantMax := plain.CostMax + 2*rates.FeatureCost.Max + rates.DeliverableCost.Max
	if !almostEqual(extras.CostMin, wantMin) {
		t.Errorf("CostMin = %v, want %v", extras.CostMin, wantMin)
	}
	if !almostEqual(extras.CostMax, wantMax) {
		t.Errorf("CostMax = %v, want %v", extras.CostMax, wantMax)
	}
}

func TestEstimateProjectTeamSizeOptional(t *testing.T) {
	rates := DefaultTables().Estimator
	noTeam, err := EstimateProject(EstimateInput{
		ProjectType: TypeAutomation,
		Complexity:  ComplexitySimple,
		Timeline:    TimelineUrgent,
	}, rates)
	if err != nil {
		t.Fatalf("EstimateProject() error = %v", err)
	}

	// Without a team size the base range stands: 50,000 x 1.5 = 75,000.
	if !almostEqual(noTeam.CostMin, 75000) {
		t.Errorf("CostMin = %v, want 75000", noTeam.CostMin)
	}
	if !almostEqual(noTeam.CostMax, 135000) {
		t.Errorf("CostMax = %v, want 135000", noTeam.CostMax)
	}

	small, err := EstimateProject(EstimateInput{
		ProjectType: TypeAutomation,
		Complexity:  ComplexitySimple,
		Timeline:    TimelineUrgent,
		TeamSize:    TeamSmall,
	}, rates)
	if err != nil {
		t.Fatalf("EstimateProject() error = %v", err)
	}
	if !reflect.DeepEqual(noTeam, small) {
		t.Errorf("omitted team size should match the small-team factor: %+v vs %+v", noTeam, small)
	}
}

func TestEstimateProjectUnknownCategoricals(t *testing.T) {
	rates := DefaultTables().Estimator
	tests := []struct {
		name string
		in   EstimateInput
	}{
		{"project type", EstimateInput{ProjectType: "blockchain", Complexity: ComplexitySimple, Timeline: TimelineStandard, TeamSize: TeamSmall}},
		{"complexity", EstimateInput{ProjectType: TypeWebsite, Complexity: "extreme", Timeline: TimelineStandard, TeamSize: TeamSmall}},
		{"timeline", EstimateInput{ProjectType: TypeWebsite, Complexity: ComplexitySimple, Timeline: "yesterday", TeamSize: TeamSmall}},
		{"team size", EstimateInput{ProjectType: TypeWebsite, Complexity: ComplexitySimple, Timeline: TimelineStandard, TeamSize: "huge"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EstimateProject(tt.in, rates)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("error = %v, want validation error", err)
			}
		})
	}
}

func TestEstimateProjectRecommendedTier(t *testing.T) {
	rates := DefaultTables().Estimator
	tests := []struct {
		name string
		in   EstimateInput
		want domain.Tier
	}{
		{
			"small website maps to essentials",
			EstimateInput{ProjectType: TypeWebsite, Complexity: ComplexitySimple, Timeline: TimelineStandard, TeamSize: TeamSmall},
			domain.TierEssentials,
		},
		{
			"complex ai solution maps to strategic",
			EstimateInput{ProjectType: TypeAISolution, Complexity: ComplexityComplex, Timeline: TimelineStandard, TeamSize: TeamSmall},
			domain.TierStrategic,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EstimateProject(tt.in, rates)
			if err != nil {
				t.Fatalf("EstimateProject() error = %v", err)
			}
			if got.RecommendedTier != tt.want {
				t.Errorf("RecommendedTier = %q, want %q", got.RecommendedTier, tt.want)
			}
		})
	}
}

func TestEstimateProjectIdempotent(t *testing.T) {
	rates := DefaultTables().Estimator
	in := EstimateInput{
		ProjectType:  TypeEcommerce,
		Complexity:   ComplexityComplex,
		Timeline:     TimelineFlexible,
		TeamSize:     TeamLarge,
		Features:     []string{"inventory sync", "multi-currency"},
		Deliverables: []string{"launch plan"},
	}

	first, err := EstimateProject(in, rates)
	if err != nil {
		t.Fatalf("EstimateProject() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := EstimateProject(in, rates)
		if err != nil {
			t.Fatalf("EstimateProject() error = %v", err)
		}
		if !reflect.DeepEqual(again, first) {
			t.Fatalf("estimate changed between identical calls: %+v vs %+v", again, first)
		}
	}
}

func TestEstimateProjectTeamAndSuggestions(t *testing.T) {
	rates := DefaultTables().Estimator

	mobile, err := EstimateProject(EstimateInput{
		ProjectType: TypeMobile, Complexity: ComplexityComplex,
		Timeline: TimelineStandard, TeamSize: TeamMedium,
	}, rates)
	if err != nil {
		t.Fatalf("EstimateProject() error = %v", err)
	}
	for _, role := range []string{"iOS Developer", "Android Developer", "Solutions Architect", "QA Lead", "Project Manager", "UI/UX Designer"} {
		if !contains(mobile.TeamRoles, role) {
			t.Errorf("complex mobile roles missing %q: %v", role, mobile.TeamRoles)
		}
	}
	if !contains(mobile.SuggestedFeatures, "Push notifications") {
		t.Errorf("mobile suggestions missing push notifications: %v", mobile.SuggestedFeatures)
	}

	simple, err := EstimateProject(EstimateInput{
		ProjectType: TypeWebsite, Complexity: ComplexitySimple,
		Timeline: TimelineStandard, TeamSize: TeamSmall,
	}, rates)
	if err != nil {
		t.Fatalf("EstimateProject() error = %v", err)
	}
	if contains(simple.TeamRoles, "Solutions Architect") {
		t.Errorf("simple website should not need an architect: %v", simple.TeamRoles)
	}
	if simple.TeamRoles[len(simple.TeamRoles)-1] != "UI/UX Designer" {
		t.Errorf("generic roles should close the list: %v", simple.TeamRoles)
	}
}

func TestEstimateProjectDurationMonths(t *testing.T) {
	got, err := EstimateProject(EstimateInput{
		ProjectType: TypeWebApp, Complexity: ComplexityMedium,
		Timeline: TimelineStandard, TeamSize: TeamSmall,
	}, DefaultTables().Estimator)
	if err != nil {
		t.Fatalf("EstimateProject() error = %v", err)
	}

	// 10-18 weeks at 4.33 weeks/month, rounded to one decimal.
	if !almostEqual(got.DurationMonthsMin, 2.3) {
		t.Errorf("DurationMonthsMin = %v, want 2.3", got.DurationMonthsMin)
	}
	if !almostEqual(got.DurationMonthsMax, 4.2) {
		t.Errorf("DurationMonthsMax = %v, want 4.2", got.DurationMonthsMax)
	}
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
