package calculator

import (
	"fmt"
	"math"
)

// ROICurrentCosts itemizes what the operation costs per month today.
type ROICurrentCosts struct {
	Software       float64 `json:"software" validate:"min=0"`
	Infrastructure float64 `json:"infrastructure" validate:"min=0"`
	Maintenance    float64 `json:"maintenance" validate:"min=0"`
	Errors         float64 `json:"errors" validate:"min=0"`
	Other          float64 `json:"other" validate:"min=0"`
}

// Total sums the itemized costs.
func (c ROICurrentCosts) Total() float64 {
	return c.Software + c.Infrastructure + c.Maintenance + c.Errors + c.Other
}

// ROIInput describes the prospect's current monthly operation and their
// automation expectations.
type ROIInput struct {
	CurrentCosts           ROICurrentCosts `json:"currentCosts"`
	Employees              int             `json:"employees" validate:"required,min=1,max=100000"`
	HourlyRate             float64         `json:"hourlyRate" validate:"required,min=0"`
	ManualHoursPerWeek     float64         `json:"manualHoursPerWeek" validate:"required,min=0,max=168"`
	ExpectedAutomationPct  float64         `json:"expectedAutomationPct" validate:"min=0,max=100"`
	ExpectedTimeSavingsPct float64         `json:"expectedTimeSavingsPct" validate:"min=0,max=100"`
	ImplementationMonths   int             `json:"implementationMonths" validate:"required,min=1,max=24"`
}

// ROIBenefits are the qualitative outcomes shown alongside the numbers.
type ROIBenefits struct {
	ProductivityGain      string `json:"productivityGain"`
	CapacityIncrease      string `json:"capacityIncrease"`
	HoursRecoveredMonthly int    `json:"hoursRecoveredMonthly"`
}

// ROIResult is the full savings projection.
type ROIResult struct {
	MonthlyLaborHours  float64     `json:"monthlyLaborHours"`
	MonthlyLaborCost   float64     `json:"monthlyLaborCost"`
	CostsBefore        float64     `json:"costsBefore"`
	CostsAfter         float64     `json:"costsAfter"`
	MonthlySavings     float64     `json:"monthlySavings"`
	AnnualSavings      float64     `json:"annualSavings"`
	AnnualCostsBefore  float64     `json:"annualCostsBefore"`
	AnnualCostsAfter   float64     `json:"annualCostsAfter"`
	ImplementationCost float64     `json:"implementationCost"`
	FirstYearNet       float64     `json:"firstYearNet"`
	ROIPercentage      float64     `json:"roiPercentage"`
	PaybackMonths      *int        `json:"paybackMonths"`
	FiveYearNet        float64     `json:"fiveYearNet"`
	Benefits           ROIBenefits `json:"benefits"`
}

// CalculateROI projects the savings from automating the described manual
// work. Automation saves a share of the total current spend; the time
// savings apply to the labor cost only. PaybackMonths is nil when there
// are no savings to pay anything back with.
func CalculateROI(in ROIInput, rates ROIRates) ROIResult {
	laborHours := in.ManualHoursPerWeek * rates.WeeksPerMonth
	laborCost := float64(in.Employees) * in.HourlyRate * laborHours

	costsBefore := in.CurrentCosts.Total() + laborCost
	automationSavings := costsBefore * in.ExpectedAutomationPct / 100
	timeSavings := laborCost * in.ExpectedTimeSavingsPct / 100
	monthlySavings := automationSavings + timeSavings

	costsAfter := costsBefore - monthlySavings
	if costsAfter < 0 {
		costsAfter = 0
	}

	annualSavings := monthlySavings * 12
	implCost := monthlySavings * float64(in.ImplementationMonths) * rates.ImplCostFactor

	result := ROIResult{
		MonthlyLaborHours:  laborHours,
		MonthlyLaborCost:   laborCost,
		CostsBefore:        costsBefore,
		CostsAfter:         costsAfter,
		MonthlySavings:     monthlySavings,
		AnnualSavings:      annualSavings,
		AnnualCostsBefore:  costsBefore * 12,
		AnnualCostsAfter:   costsAfter * 12,
		ImplementationCost: implCost,
		FirstYearNet:       annualSavings - implCost,
		FiveYearNet:        annualSavings*5 - implCost,
		Benefits: ROIBenefits{
			ProductivityGain:      formatPct(in.ExpectedTimeSavingsPct),
			CapacityIncrease:      formatPct(in.ExpectedAutomationPct),
			HoursRecoveredMonthly: int(math.Round(laborHours * float64(in.Employees) * in.ExpectedTimeSavingsPct / 100)),
		},
	}

	if implCost > 0 {
		result.ROIPercentage = (annualSavings - implCost) / implCost * 100
	}
	if monthlySavings > 0 {
		payback := int(math.Ceil(implCost / monthlySavings))
		result.PaybackMonths = &payback
	}

	return result
}

func formatPct(pct float64) string {
	return fmt.Sprintf("%g%%", pct)
}
