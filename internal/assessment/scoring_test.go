package assessment

import "testing"

func answersForAll(value int) map[string]int {
	rubric := DefaultRubric()
	answers := make(map[string]int, len(rubric.Questions))
	for _, q := range rubric.Questions {
		answers[q.ID] = value
	}
	return answers
}

func TestScoreAssessmentUniformAnswers(t *testing.T) {
	tests := []struct {
		name      string
		answer    int
		wantScore int
	}{
		{"all ones", 1, 20},
		{"all threes", 3, 60},
		{"all fives", 5, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreAssessment(answersForAll(tt.answer), DefaultRubric())
			if result.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", result.Score, tt.wantScore)
			}
		})
	}
}

func TestScoreAssessmentAllFivesEveryCategoryStrength(t *testing.T) {
	result := ScoreAssessment(answersForAll(5), DefaultRubric())

	if len(result.Strengths) != 3 {
		t.Errorf("Strengths = %d entries, want cap of 3", len(result.Strengths))
	}
	if len(result.Weaknesses) != 0 {
		t.Errorf("Weaknesses = %v, want none", result.Weaknesses)
	}
	for cat, score := range result.CategoryScores {
		if score != 100 {
			t.Errorf("CategoryScores[%s] = %d, want 100", cat, score)
		}
	}
}

func TestScoreAssessmentAllOnesWeaknessAndRecommendationCaps(t *testing.T) {
	result := ScoreAssessment(answersForAll(1), DefaultRubric())

	if len(result.Strengths) != 0 {
		t.Errorf("Strengths = %v, want none", result.Strengths)
	}
	if len(result.Weaknesses) != 3 {
		t.Errorf("Weaknesses = %d entries, want cap of 3", len(result.Weaknesses))
	}
	if len(result.Recommendations) != 5 {
		t.Errorf("Recommendations = %d entries, want cap of 5", len(result.Recommendations))
	}
}

func TestScoreAssessmentMidBandIsNeitherStrengthNorWeakness(t *testing.T) {
	// 60% per category: below the 70 strength threshold, above the 40
	// weakness threshold.
	result := ScoreAssessment(answersForAll(3), DefaultRubric())

	if len(result.Strengths) != 0 {
		t.Errorf("Strengths = %v, want none", result.Strengths)
	}
	if len(result.Weaknesses) != 0 {
		t.Errorf("Weaknesses = %v, want none", result.Weaknesses)
	}
	// Only the overall band recommendation remains.
	if len(result.Recommendations) != 1 {
		t.Errorf("Recommendations = %v, want exactly the band entry", result.Recommendations)
	}
}

func TestScoreAssessmentMissingAnswersCountAsZero(t *testing.T) {
	result := ScoreAssessment(map[string]int{}, DefaultRubric())
	if result.Score != 0 {
		t.Errorf("Score = %d, want 0 for no answers", result.Score)
	}

	partial := ScoreAssessment(map[string]int{"digital_tools": 5}, DefaultRubric())
	// 5 * 3 = 15 weighted out of 22 * 5 = 110, rounds to 14.
	if partial.Score != 14 {
		t.Errorf("Score = %d, want 14 for single answered question", partial.Score)
	}
}

func TestScoreAssessmentCategoryExclusivity(t *testing.T) {
	// Strong technology, weak strategy, mid everything else.
	answers := map[string]int{
		"digital_tools":        5,
		"data_collection":      5,
		"cloud_adoption":       5,
		"documented_processes": 3,
		"repetitive_tasks":     3,
		"team_tech_skills":     3,
		"change_readiness":     3,
		"ai_strategy":          1,
		"innovation_budget":    1,
		"leadership_buyin":     1,
	}
	result := ScoreAssessment(answers, DefaultRubric())
	rubric := DefaultRubric()

	wantStrength := rubric.Strengths[CategoryTechnology]
	if len(result.Strengths) != 1 || result.Strengths[0] != wantStrength {
		t.Errorf("Strengths = %v, want [%q]", result.Strengths, wantStrength)
	}

	wantWeakness := rubric.Weaknesses[CategoryStrategy]
	if len(result.Weaknesses) != 1 || result.Weaknesses[0] != wantWeakness {
		t.Errorf("Weaknesses = %v, want [%q]", result.Weaknesses, wantWeakness)
	}

	// Two strategy recommendations plus the band entry.
	if len(result.Recommendations) != 3 {
		t.Errorf("Recommendations = %v, want 3 entries", result.Recommendations)
	}
}

func TestScoreAssessmentZeroWeightRubric(t *testing.T) {
	result := ScoreAssessment(map[string]int{"anything": 5}, Rubric{MaxAnswer: 5})
	if result.Score != 0 {
		t.Errorf("Score = %d, want 0 for empty question set", result.Score)
	}
}

func TestScoreAssessmentClampsOutOfRangeAnswers(t *testing.T) {
	high := answersForAll(9)
	result := ScoreAssessment(high, DefaultRubric())
	if result.Score != 100 {
		t.Errorf("Score = %d, want clamped 100", result.Score)
	}

	low := answersForAll(-2)
	result = ScoreAssessment(low, DefaultRubric())
	if result.Score != 0 {
		t.Errorf("Score = %d, want clamped 0", result.Score)
	}
}

func TestScoreAssessmentDeterministicOrdering(t *testing.T) {
	answers := answersForAll(1)
	first := ScoreAssessment(answers, DefaultRubric())
	for i := 0; i < 20; i++ {
		again := ScoreAssessment(answers, DefaultRubric())
		if len(again.Weaknesses) != len(first.Weaknesses) {
			t.Fatalf("weakness count changed between runs")
		}
		for j := range first.Weaknesses {
			if again.Weaknesses[j] != first.Weaknesses[j] {
				t.Fatalf("weakness order changed: %v vs %v", again.Weaknesses, first.Weaknesses)
			}
		}
	}
}
