package budget

import (
	"fmt"
	"math"

	appErrors "github.com/pocketpilot/budget-engine/errors"
)

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// CalculateBudget projects a month's budget from the source month's
// category spending and validates it against net income.
//
// Fixed needs are taken at their exact logged totals. Flexible needs
// (food, transport) are daily averages projected over the target
// month, floored to a minimum daily rate. Validation distinguishes
// three cases, reported through Warnings rather than errors:
//
//	Case A: fixed alone exceeds net income
//	Case B: fixed fits but fixed+flexible does not; flexible is
//	        scaled proportionally, then re-floored
//	Case C: even fixed plus floor-minimum flexible does not fit
func CalculateBudget(netIncome float64, spending CategorySpending, loggedDays, daysInTargetMonth int, params Params) (BudgetAnalysis, error) {
	if netIncome <= 0 {
		return BudgetAnalysis{}, fmt.Errorf("%w: net income must be positive, got %.2f", appErrors.ErrInvalidInput, netIncome)
	}
	if loggedDays <= 0 {
		return BudgetAnalysis{}, fmt.Errorf("%w: logged days must be positive, got %d", appErrors.ErrInvalidInput, loggedDays)
	}
	if daysInTargetMonth <= 0 {
		return BudgetAnalysis{}, fmt.Errorf("%w: days in target month must be positive, got %d", appErrors.ErrInvalidInput, daysInTargetMonth)
	}

	fixed := FixedNeeds{
		HousingUtilities:   spending[CategoryHousingUtilities],
		Debt:               spending[CategoryDebt],
		Groceries:          spending[CategoryGroceries],
		HealthPersonalCare: spending[CategoryHealth],
		Education:          spending[CategoryEducation],
		Childcare:          spending[CategoryChildcare],
	}
	fixed.Total = round2(fixed.HousingUtilities + fixed.Debt + fixed.Groceries +
		fixed.HealthPersonalCare + fixed.Education + fixed.Childcare)

	days := float64(daysInTargetMonth)
	foodFloor := params.FoodDailyFloor * days
	transportFloor := params.TransportDailyFloor * days

	// The floor always wins over a zero or near-zero observed average.
	food := math.Max(spending[CategoryFood]/float64(loggedDays)*days, foodFloor)
	transport := math.Max(spending[CategoryTransport]/float64(loggedDays)*days, transportFloor)

	analysis := BudgetAnalysis{
		NetIncome:     netIncome,
		Fixed:         fixed,
		IsSustainable: true,
	}

	switch {
	case fixed.Total > netIncome:
		// Case A: nothing is left for flexible spending, force floors.
		food = foodFloor
		transport = transportFloor
		analysis.IsSustainable = fixed.Total+food+transport <= netIncome
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("fixed needs (%.2f) alone exceed net income (%.2f); flexible categories forced to their minimums", fixed.Total, netIncome))
		analysis.Adjustments = append(analysis.Adjustments,
			fmt.Sprintf("food set to floor %.2f", round2(food)),
			fmt.Sprintf("transport set to floor %.2f", round2(transport)))

	case fixed.Total+food+transport > netIncome:
		if fixed.Total+foodFloor+transportFloor > netIncome {
			// Case C: even floor-minimum flexible does not fit. No
			// scaling is attempted; the budget is reported as-is.
			food = foodFloor
			transport = transportFloor
			analysis.IsSustainable = false
			analysis.Warnings = append(analysis.Warnings,
				fmt.Sprintf("fixed needs plus minimum flexible spending (%.2f) exceed net income (%.2f); budget is unsustainable", fixed.Total+food+transport, netIncome))
		} else {
			// Case B: scale flexible down to what is left, then
			// re-floor per category.
			available := netIncome - fixed.Total
			scale := available / (food + transport)
			food *= scale
			transport *= scale
			analysis.Adjustments = append(analysis.Adjustments,
				fmt.Sprintf("flexible categories scaled by %.4f to fit net income", scale))
			if food < foodFloor {
				food = foodFloor
				transport = available - food
				analysis.Adjustments = append(analysis.Adjustments,
					"scaled food fell below its floor; food reset to floor, transport re-derived from the remainder")
			}
			if transport < transportFloor {
				transport = transportFloor
				analysis.Adjustments = append(analysis.Adjustments,
					"scaled transport fell below its floor; transport reset to floor")
			}
			// Re-flooring can push the total back above net income.
			analysis.IsSustainable = fixed.Total+food+transport <= netIncome
			analysis.Warnings = append(analysis.Warnings,
				fmt.Sprintf("projected spending exceeded net income (%.2f); flexible categories were scaled down", netIncome))
		}
	}

	analysis.Flexible = FlexibleNeeds{
		Food:      round2(food),
		Transport: round2(transport),
	}
	analysis.Flexible.Total = round2(analysis.Flexible.Food + analysis.Flexible.Transport)
	analysis.ProjectedBudget = round2(analysis.Fixed.Total + analysis.Flexible.Total)
	analysis.RemainingBudget = round2(netIncome - analysis.ProjectedBudget)

	return analysis, nil
}
