// Package assessment provides the AI-readiness assessment bounded context:
// a fixed ten-question quiz scored across four weighted categories.
package assessment

import "math"

// Categories, in the fixed order used for deterministic output assembly.
const (
	CategoryTechnology = "technology"
	CategoryProcess    = "process"
	CategoryTeam       = "team"
	CategoryStrategy   = "strategy"
)

var categoryOrder = []string{CategoryTechnology, CategoryProcess, CategoryTeam, CategoryStrategy}

// Question is one quiz item with its category and weight.
type Question struct {
	ID       string
	Category string
	Weight   int
}

// Rubric holds the question set, thresholds, and recommendation copy.
// Injected at module initialization so tests can supply alternate tables.
type Rubric struct {
	Questions          []Question
	StrengthThreshold  float64 // category percentage at or above -> strength
	WeaknessThreshold  float64 // category percentage below -> weakness
	MaxAnswer          int
	Strengths          map[string]string   // per-category strength copy
	Weaknesses         map[string]string   // per-category weakness copy
	Recommendations    map[string][]string // two per weak category
	BandRecommendation func(score int) string
}

// DefaultRubric returns the production assessment model.
func DefaultRubric() Rubric {
	return Rubric{
		Questions: []Question{
			{ID: "digital_tools", Category: CategoryTechnology, Weight: 3},
			{ID: "data_collection", Category: CategoryTechnology, Weight: 2},
			{ID: "cloud_adoption", Category: CategoryTechnology, Weight: 2},
			{ID: "documented_processes", Category: CategoryProcess, Weight: 2},
			{ID: "repetitive_tasks", Category: CategoryProcess, Weight: 3},
			{ID: "team_tech_skills", Category: CategoryTeam, Weight: 2},
			{ID: "change_readiness", Category: CategoryTeam, Weight: 1},
			{ID: "ai_strategy", Category: CategoryStrategy, Weight: 3},
			{ID: "innovation_budget", Category: CategoryStrategy, Weight: 2},
			{ID: "leadership_buyin", Category: CategoryStrategy, Weight: 2},
		},
		StrengthThreshold: 70,
		WeaknessThreshold: 40,
		MaxAnswer:         5,
		Strengths: map[string]string{
			CategoryTechnology: "Solid digital tooling and data foundation",
			CategoryProcess:    "Well-documented, automation-ready processes",
			CategoryTeam:       "A team prepared to adopt new technology",
			CategoryStrategy:   "Clear strategic direction for AI adoption",
		},
		Weaknesses: map[string]string{
			CategoryTechnology: "Limited digital infrastructure",
			CategoryProcess:    "Processes are informal or undocumented",
			CategoryTeam:       "Team needs upskilling before AI adoption",
			CategoryStrategy:   "No defined AI strategy or budget",
		},
		Recommendations: map[string][]string{
			CategoryTechnology: {
				"Centralize your operational data before automating on top of it",
				"Adopt cloud-based tooling to replace manual spreadsheets",
			},
			CategoryProcess: {
				"Document your three most repetitive workflows end to end",
				"Map which process steps consume the most team hours",
			},
			CategoryTeam: {
				"Run a hands-on AI literacy workshop with your team",
				"Identify internal champions to lead adoption",
			},
			CategoryStrategy: {
				"Define one measurable business outcome for your first AI project",
				"Allocate a dedicated innovation budget, even a small one",
			},
		},
		BandRecommendation: func(score int) string {
			switch {
			case score < 30:
				return "Start with a digitalization roadmap before investing in AI"
			case score < 60:
				return "Pilot one focused automation project to build momentum"
			default:
				return "You are ready for an AI integration program; scope a flagship project"
			}
		},
	}
}

// Result is the scored assessment.
type Result struct {
	Score           int            `json:"score"`
	CategoryScores  map[string]int `json:"categoryScores"`
	Strengths       []string       `json:"strengths"`
	Weaknesses      []string       `json:"weaknesses"`
	Recommendations []string       `json:"recommendations"`
}

// ScoreAssessment computes the weighted overall score and derives the
// strength, weakness, and recommendation lists. Answers map question ID to
// a 1-5 value; missing answers count as zero. Output lists are capped at
// 3/3/5 in insertion order (category order, then the overall band entry).
func ScoreAssessment(answers map[string]int, rubric Rubric) Result {
	type categoryTotals struct {
		weighted int
		weight   int
	}

	totals := make(map[string]*categoryTotals, len(categoryOrder))
	for _, cat := range categoryOrder {
		totals[cat] = &categoryTotals{}
	}

	totalWeighted := 0
	totalWeight := 0
	for _, q := range rubric.Questions {
		answer := answers[q.ID]
		if answer < 0 {
			answer = 0
		}
		if answer > rubric.MaxAnswer {
			answer = rubric.MaxAnswer
		}
		weighted := answer * q.Weight
		totalWeighted += weighted
		totalWeight += q.Weight

		ct := totals[q.Category]
		if ct == nil {
			ct = &categoryTotals{}
			totals[q.Category] = ct
		}
		ct.weighted += weighted
		ct.weight += q.Weight
	}

	result := Result{
		CategoryScores:  make(map[string]int, len(categoryOrder)),
		Strengths:       []string{},
		Weaknesses:      []string{},
		Recommendations: []string{},
	}

	// Zero total weight cannot happen with the fixed question set, but a
	// division by zero must never leak out as NaN.
	if totalWeight == 0 {
		result.Score = 0
		return result
	}

	maxAnswer := float64(rubric.MaxAnswer)
	result.Score = int(math.Round(float64(totalWeighted) / (float64(totalWeight) * maxAnswer) * 100))

	for _, cat := range categoryOrder {
		ct := totals[cat]
		if ct.weight == 0 {
			continue
		}
		pct := float64(ct.weighted) / (float64(ct.weight) * maxAnswer) * 100
		result.CategoryScores[cat] = int(math.Round(pct))

		switch {
		case pct >= rubric.StrengthThreshold:
			result.Strengths = append(result.Strengths, rubric.Strengths[cat])
		case pct < rubric.WeaknessThreshold:
			result.Weaknesses = append(result.Weaknesses, rubric.Weaknesses[cat])
			result.Recommendations = append(result.Recommendations, rubric.Recommendations[cat]...)
		}
	}

	if rubric.BandRecommendation != nil {
		result.Recommendations = append(result.Recommendations, rubric.BandRecommendation(result.Score))
	}

	result.Strengths = capList(result.Strengths, 3)
	result.Weaknesses = capList(result.Weaknesses, 3)
	result.Recommendations = capList(result.Recommendations, 5)
	return result
}

func capList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}
