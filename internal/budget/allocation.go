package budget

import (
	"fmt"
	"time"
)

// BuildAllocations converts a validated analysis into per-day caps
// for the flexible categories and per-month caps for the fixed ones.
// When params.MaxDailyCap is set and the combined daily total exceeds
// it, both daily allocations are scaled down uniformly.
func BuildAllocations(analysis BudgetAnalysis, daysInMonth int, params Params) ([]DailyAllocation, []MonthlyAllocation) {
	days := float64(daysInMonth)

	foodDaily := analysis.Flexible.Food / days
	transportDaily := analysis.Flexible.Transport / days

	if params.MaxDailyCap > 0 && foodDaily+transportDaily > params.MaxDailyCap {
		scale := params.MaxDailyCap / (foodDaily + transportDaily)
		foodDaily *= scale
		transportDaily *= scale
	}

	daily := []DailyAllocation{
		{
			Category:    CategoryFood,
			DailyAmount: round2(foodDaily),
			Description: fmt.Sprintf("daily food budget over %d days", daysInMonth),
		},
		{
			Category:    CategoryTransport,
			DailyAmount: round2(transportDaily),
			Description: fmt.Sprintf("daily transport budget over %d days", daysInMonth),
		},
	}

	fixedAmounts := []struct {
		category string
		amount   float64
	}{
		{CategoryHousingUtilities, analysis.Fixed.HousingUtilities},
		{CategoryDebt, analysis.Fixed.Debt},
		{CategoryGroceries, analysis.Fixed.Groceries},
		{CategoryHealth, analysis.Fixed.HealthPersonalCare},
		{CategoryEducation, analysis.Fixed.Education},
		{CategoryChildcare, analysis.Fixed.Childcare},
	}

	var monthly []MonthlyAllocation
	for _, f := range fixedAmounts {
		if f.amount <= 0 {
			continue
		}
		monthly = append(monthly, MonthlyAllocation{
			Category:      f.category,
			MonthlyAmount: round2(f.amount),
			IsFixed:       true,
		})
	}

	return daily, monthly
}

func isPayday(date time.Time) bool {
	day := date.Day()
	if day == 15 || day == 30 {
		return true
	}
	// Months shorter than 30 days pay out on their last day instead.
	last := daysIn(date.Year(), date.Month())
	return last < 30 && day == last
}

// ComputeAdjustments derives the behavior adjustments for one
// calendar day. All four rules may fire together and compose
// additively; nothing is clamped, so the effective budget can go
// negative and callers must treat that as a valid signal.
func ComputeAdjustments(date time.Time, baseDaily, yesterdayBudget, yesterdaySpent float64, params Params) []BehaviorAdjustment {
	var adjustments []BehaviorAdjustment

	if yesterdaySpent < yesterdayBudget {
		unused := round2(yesterdayBudget - yesterdaySpent)
		adjustments = append(adjustments, BehaviorAdjustment{
			Type:   AdjustmentRollover,
			Amount: unused,
			Reason: fmt.Sprintf("%.2f unspent yesterday rolls over", unused),
			Date:   date,
		})
	} else if yesterdaySpent > yesterdayBudget {
		excess := round2(yesterdaySpent - yesterdayBudget)
		adjustments = append(adjustments, BehaviorAdjustment{
			Type:   AdjustmentOverspending,
			Amount: -excess,
			Reason: fmt.Sprintf("%.2f overspent yesterday is deducted today", excess),
			Date:   date,
		})
	}

	if date.Weekday() == time.Friday || date.Weekday() == time.Saturday {
		adjustments = append(adjustments, BehaviorAdjustment{
			Type:   AdjustmentWeekend,
			Amount: round2(baseDaily * params.WeekendBonusRate),
			Reason: "weekend bonus",
			Date:   date,
		})
	}

	if isPayday(date) {
		adjustments = append(adjustments, BehaviorAdjustment{
			Type:   AdjustmentPayday,
			Amount: round2(baseDaily * params.PaydayBonusRate),
			Reason: "payday bonus",
			Date:   date,
		})
	}

	return adjustments
}

// EffectiveDailyBudget applies adjustments to a base daily budget.
// Order-independent because the composition is a plain sum.
func EffectiveDailyBudget(base float64, adjustments []BehaviorAdjustment) float64 {
	total := base
	for _, adj := range adjustments {
		total += adj.Amount
	}
	return round2(total)
}
