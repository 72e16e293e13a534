// Package calculator provides the ROI calculator and project estimator
// bounded context. All rates live in a Tables value that can be overridden
// from a YAML file so sales can retune pricing without a deploy.
package calculator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Project types accepted by the estimator.
const (
	TypeWebsite    = "website"
	TypeWebApp     = "webapp"
	TypeMobile     = "mobile"
	TypeEcommerce  = "ecommerce"
	TypeAISolution = "ai_solution"
	TypeAutomation = "automation"
)

// Complexity levels.
const (
	ComplexitySimple  = "simple"
	ComplexityMedium  = "medium"
	ComplexityComplex = "complex"
)

// Timeline options.
const (
	TimelineUrgent   = "urgent"
	TimelineStandard = "standard"
	TimelineFlexible = "flexible"
)

// Team sizes.
const (
	TeamSmall  = "small"
	TeamMedium = "medium"
	TeamLarge  = "large"
)

// weeksPerMonth is the average-week convention shared by both calculators.
const weeksPerMonth = 4.33

// Range is a min/max pair for costs and durations.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// BaseRate holds the starting cost and duration for one type/complexity cell.
type BaseRate struct {
	Cost          Range `yaml:"cost"`
	DurationWeeks Range `yaml:"durationWeeks"`
}

// ROIRates holds the savings model coefficients. The expected savings
// percentages and implementation window come in with each request.
type ROIRates struct {
	WeeksPerMonth  float64 `yaml:"weeksPerMonth"`
	ImplCostFactor float64 `yaml:"implCostFactor"`
}

// EstimatorRates holds the project estimate model.
type EstimatorRates struct {
	Base                map[string]map[string]BaseRate `yaml:"base"`
	TimelineCostMult    map[string]float64             `yaml:"timelineCostMult"`
	TeamCostMult        map[string]float64             `yaml:"teamCostMult"`
	FeatureCost         Range                          `yaml:"featureCost"`
	DeliverableCost     Range                          `yaml:"deliverableCost"`
	UrgentDurationMult  float64                        `yaml:"urgentDurationMult"`
	FlexibleDurationCap float64                        `yaml:"flexibleDurationCap"`
	TierBreakpoints     [4]float64                     `yaml:"tierBreakpoints"`
	Currency            string                         `yaml:"currency"`
}

// Tables is the full rate configuration for both calculators.
type Tables struct {
	ROI       ROIRates       `yaml:"roi"`
	Estimator EstimatorRates `yaml:"estimator"`
}

// DefaultTables returns the production rates. Costs are MXN.
func DefaultTables() Tables {
	return Tables{
		ROI: ROIRates{
			WeeksPerMonth:  weeksPerMonth,
			ImplCostFactor: 0.8,
		},
		Estimator: EstimatorRates{
			Base: map[string]map[string]BaseRate{
				TypeWebsite: {
					ComplexitySimple:  {Cost: Range{25000, 45000}, DurationWeeks: Range{2, 4}},
					ComplexityMedium:  {Cost: Range{50000, 90000}, DurationWeeks: Range{4, 8}},
					ComplexityComplex: {Cost: Range{100000, 180000}, DurationWeeks: Range{8, 14}},
				},
				TypeWebApp: {
					ComplexitySimple:  {Cost: Range{80000, 140000}, DurationWeeks: Range{6, 10}},
					ComplexityMedium:  {Cost: Range{160000, 280000}, DurationWeeks: Range{10, 18}},
					ComplexityComplex: {Cost: Range{320000, 560000}, DurationWeeks: Range{18, 30}},
				},
				TypeMobile: {
					ComplexitySimple:  {Cost: Range{100000, 170000}, DurationWeeks: Range{8, 12}},
					ComplexityMedium:  {Cost: Range{200000, 340000}, DurationWeeks: Range{12, 20}},
					ComplexityComplex: {Cost: Range{400000, 680000}, DurationWeeks: Range{20, 32}},
				},
				TypeEcommerce: {
					ComplexitySimple:  {Cost: Range{60000, 110000}, DurationWeeks: Range{4, 8}},
					ComplexityMedium:  {Cost: Range{120000, 220000}, DurationWeeks: Range{8, 14}},
					ComplexityComplex: {Cost: Range{240000, 440000}, DurationWeeks: Range{14, 24}},
				},
				TypeAISolution: {
					ComplexitySimple:  {Cost: Range{150000, 250000}, DurationWeeks: Range{8, 14}},
					ComplexityMedium:  {Cost: Range{300000, 500000}, DurationWeeks: Range{14, 24}},
					ComplexityComplex: {Cost: Range{600000, 1000000}, DurationWeeks: Range{24, 40}},
				},
				TypeAutomation: {
					ComplexitySimple:  {Cost: Range{50000, 90000}, DurationWeeks: Range{4, 6}},
					ComplexityMedium:  {Cost: Range{100000, 180000}, DurationWeeks: Range{6, 12}},
					ComplexityComplex: {Cost: Range{200000, 360000}, DurationWeeks: Range{12, 20}},
				},
			},
			TimelineCostMult: map[string]float64{
				TimelineUrgent:   1.5,
				TimelineStandard: 1.0,
				TimelineFlexible: 0.9,
			},
			TeamCostMult: map[string]float64{
				TeamSmall:  1.0,
				TeamMedium: 1.5,
				TeamLarge:  2.2,
			},
			FeatureCost:         Range{8000, 12000},
			DeliverableCost:     Range{5000, 8000},
			UrgentDurationMult:  0.7,
			FlexibleDurationCap: 1.2,
			TierBreakpoints:     [4]float64{80000, 200000, 400000, 700000},
			Currency:            "MXN",
		},
	}
}

// LoadTables returns the defaults, overlaid with the YAML file at path when
// path is non-empty. The file only needs to name the values it changes.
func LoadTables(path string) (Tables, error) {
	tables := DefaultTables()
	if path == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read rate tables: %w", err)
	}
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return Tables{}, fmt.Errorf("parse rate tables: %w", err)
	}
	return tables, nil
}
