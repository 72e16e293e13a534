package calculator

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCalculateROIConcreteScenario(t *testing.T) {
	// 2 employees at $200/hr spending 10 manual hours a week, on top of
	// $10,000 in itemized monthly costs, expecting to automate 50% of the
	// spend and save 30% of the manual time over a 6-month rollout.
	in := ROIInput{
		CurrentCosts: ROICurrentCosts{
			Software:       4000,
			Infrastructure: 2500,
			Maintenance:    1500,
			Errors:         1200,
			Other:          800,
		},
		Employees:              2,
		HourlyRate:             200,
		ManualHoursPerWeek:     10,
		ExpectedAutomationPct:  50,
		ExpectedTimeSavingsPct: 30,
		ImplementationMonths:   6,
	}

	got := CalculateROI(in, DefaultTables().ROI)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"MonthlyLaborHours", got.MonthlyLaborHours, 43.3},
		{"MonthlyLaborCost", got.MonthlyLaborCost, 17320},
		{"CostsBefore", got.CostsBefore, 27320},
		{"MonthlySavings", got.MonthlySavings, 18856},
		{"CostsAfter", got.CostsAfter, 8464},
		{"AnnualSavings", got.AnnualSavings, 226272},
		{"AnnualCostsBefore", got.AnnualCostsBefore, 327840},
		{"AnnualCostsAfter", got.AnnualCostsAfter, 101568},
		{"ImplementationCost", got.ImplementationCost, 90508.8},
		{"FirstYearNet", got.FirstYearNet, 135763.2},
		{"ROIPercentage", got.ROIPercentage, 150},
		{"FiveYearNet", got.FiveYearNet, 1040851.2},
	}
	for _, c := range checks {
		if !almostEqual(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if got.PaybackMonths == nil {
		t.Fatal("PaybackMonths = nil, want 5")
	}
	if *got.PaybackMonths != 5 {
		t.Errorf("PaybackMonths = %d, want 5", *got.PaybackMonths)
	}
	if got.Benefits.HoursRecoveredMonthly != 26 {
		t.Errorf("HoursRecoveredMonthly = %d, want 26", got.Benefits.HoursRecoveredMonthly)
	}
	if got.Benefits.ProductivityGain != "30%" {
		t.Errorf("ProductivityGain = %q, want 30%%", got.Benefits.ProductivityGain)
	}
	if got.Benefits.CapacityIncrease != "50%" {
		t.Errorf("CapacityIncrease = %q, want 50%%", got.Benefits.CapacityIncrease)
	}
}

func TestCalculateROIRespectsExpectationInputs(t *testing.T) {
	base := ROIInput{
		CurrentCosts:           ROICurrentCosts{Software: 10000},
		Employees:              2,
		HourlyRate:             200,
		ManualHoursPerWeek:     10,
		ExpectedAutomationPct:  5,
		ExpectedTimeSavingsPct: 5,
		ImplementationMonths:   24,
	}
	aggressive := base
	aggressive.ExpectedAutomationPct = 90
	aggressive.ExpectedTimeSavingsPct = 90
	aggressive.ImplementationMonths = 1

	conservative := CalculateROI(base, DefaultTables().ROI)
	optimistic := CalculateROI(aggressive, DefaultTables().ROI)

	// 5%/5%: 27320*0.05 + 17320*0.05 = 2232; 90%/90%: 27320*0.9 + 17320*0.9.
	if !almostEqual(conservative.MonthlySavings, 2232) {
		t.Errorf("conservative MonthlySavings = %v, want 2232", conservative.MonthlySavings)
	}
	if !almostEqual(optimistic.MonthlySavings, 40176) {
		t.Errorf("optimistic MonthlySavings = %v, want 40176", optimistic.MonthlySavings)
	}
	if conservative.MonthlySavings >= optimistic.MonthlySavings {
		t.Error("savings must follow the supplied expectation percentages")
	}

	// Implementation cost scales with the requested window: 2232*24*0.8
	// vs 40176*1*0.8.
	if !almostEqual(conservative.ImplementationCost, 42854.4) {
		t.Errorf("conservative ImplementationCost = %v, want 42854.4", conservative.ImplementationCost)
	}
	if !almostEqual(optimistic.ImplementationCost, 32140.8) {
		t.Errorf("optimistic ImplementationCost = %v, want 32140.8", optimistic.ImplementationCost)
	}
}

func TestCalculateROINoSavingsHasNilPayback(t *testing.T) {
	in := ROIInput{
		Employees:            1,
		HourlyRate:           0,
		ManualHoursPerWeek:   0,
		ImplementationMonths: 6,
	}

	got := CalculateROI(in, DefaultTables().ROI)

	if got.PaybackMonths != nil {
		t.Errorf("PaybackMonths = %d, want nil when there are no savings", *got.PaybackMonths)
	}
	if got.ROIPercentage != 0 {
		t.Errorf("ROIPercentage = %v, want 0", got.ROIPercentage)
	}
	if got.CostsAfter != 0 {
		t.Errorf("CostsAfter = %v, want 0", got.CostsAfter)
	}
}

func TestCalculateROICostsAfterNeverNegative(t *testing.T) {
	// Full automation plus full time savings push the raw after-costs
	// negative; the result clamps at zero.
	in := ROIInput{
		CurrentCosts:           ROICurrentCosts{Other: 100},
		Employees:              5,
		HourlyRate:             300,
		ManualHoursPerWeek:     40,
		ExpectedAutomationPct:  100,
		ExpectedTimeSavingsPct: 100,
		ImplementationMonths:   3,
	}

	got := CalculateROI(in, DefaultTables().ROI)
	if got.CostsAfter < 0 {
		t.Errorf("CostsAfter = %v, want >= 0", got.CostsAfter)
	}
	if got.AnnualCostsAfter < 0 {
		t.Errorf("AnnualCostsAfter = %v, want >= 0", got.AnnualCostsAfter)
	}
}

func TestCalculateROISavingsScaleWithTeamSize(t *testing.T) {
	base := ROIInput{
		CurrentCosts:           ROICurrentCosts{Software: 5000},
		Employees:              1,
		HourlyRate:             150,
		ManualHoursPerWeek:     8,
		ExpectedAutomationPct:  40,
		ExpectedTimeSavingsPct: 25,
		ImplementationMonths:   6,
	}
	bigger := base
	bigger.Employees = 4

	small := CalculateROI(base, DefaultTables().ROI)
	large := CalculateROI(bigger, DefaultTables().ROI)

	if large.MonthlySavings <= small.MonthlySavings {
		t.Errorf("MonthlySavings did not grow with team size: %v vs %v",
			large.MonthlySavings, small.MonthlySavings)
	}
	if large.Benefits.HoursRecoveredMonthly <= small.Benefits.HoursRecoveredMonthly {
		t.Errorf("HoursRecoveredMonthly did not grow with team size")
	}
}
