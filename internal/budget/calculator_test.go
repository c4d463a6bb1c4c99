package budget

import (
	"errors"
	"testing"

	appErrors "github.com/pocketpilot/budget-engine/errors"
	"github.com/stretchr/testify/require"
)

func TestCalculateBudgetRejectsBadInput(t *testing.T) {
	params := DefaultParams()
	spending := CategorySpending{CategoryFood: 3000}

	tests := []struct {
		name       string
		netIncome  float64
		loggedDays int
		targetDays int
	}{
		{name: "zero net income", netIncome: 0, loggedDays: 30, targetDays: 30},
		{name: "negative net income", netIncome: -500, loggedDays: 30, targetDays: 30},
		{name: "zero logged days", netIncome: 30000, loggedDays: 0, targetDays: 30},
		{name: "zero target days", netIncome: 30000, loggedDays: 30, targetDays: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateBudget(tt.netIncome, spending, tt.loggedDays, tt.targetDays, params)
			if !errors.Is(err, appErrors.ErrInvalidInput) {
				t.Errorf("Got error %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCalculateBudgetHappyPath(t *testing.T) {
	params := DefaultParams()
	spending := CategorySpending{
		CategoryHousingUtilities: 8000,
		CategoryGroceries:        4000,
		CategoryFood:             4500, // 150/day over 30 logged days
		CategoryTransport:        2400, // 80/day
	}

	analysis, err := CalculateBudget(40000, spending, 30, 30, params)
	require.NoError(t, err)

	require.True(t, analysis.IsSustainable)
	require.Empty(t, analysis.Warnings)
	require.Equal(t, 12000.0, analysis.Fixed.Total)
	require.Equal(t, 4500.0, analysis.Flexible.Food)
	require.Equal(t, 2400.0, analysis.Flexible.Transport)
	require.Equal(t, analysis.Fixed.Total+analysis.Flexible.Total, analysis.ProjectedBudget)
	require.Equal(t, 40000.0-analysis.ProjectedBudget, analysis.RemainingBudget)
}

func TestCalculateBudgetFloorsWinOverLowAverages(t *testing.T) {
	params := DefaultParams()
	// Barely any logged food or transport spending.
	spending := CategorySpending{
		CategoryFood:      90, // 3/day
		CategoryTransport: 0,
	}

	analysis, err := CalculateBudget(50000, spending, 30, 31, params)
	require.NoError(t, err)

	require.Equal(t, params.FoodDailyFloor*31, analysis.Flexible.Food)
	require.Equal(t, params.TransportDailyFloor*31, analysis.Flexible.Transport)
}

func TestCalculateBudgetCaseA(t *testing.T) {
	params := DefaultParams()
	spending := CategorySpending{
		CategoryHousingUtilities: 20000,
		CategoryDebt:             15000,
		CategoryFood:             9000, // would be 300/day, irrelevant under Case A
		CategoryTransport:        6000,
	}

	analysis, err := CalculateBudget(30000, spending, 30, 30, params)
	require.NoError(t, err)

	// Fixed alone exceeds net income: flexible is exactly at the
	// floor regardless of historical spending.
	require.Equal(t, params.FoodDailyFloor*30, analysis.Flexible.Food)
	require.Equal(t, params.TransportDailyFloor*30, analysis.Flexible.Transport)
	require.False(t, analysis.IsSustainable)
	require.Negative(t, analysis.RemainingBudget)
	require.NotEmpty(t, analysis.Warnings)
}

func TestCalculateBudgetCaseBScaling(t *testing.T) {
	params := DefaultParams()
	// netIncome=30000, fixed=25000, flexible unscaled=8000 over a
	// 30-day month: scale = (30000-25000)/8000 = 0.625.
	spending := CategorySpending{
		CategoryHousingUtilities: 25000,
		CategoryFood:             5000,
		CategoryTransport:        3000,
	}

	analysis, err := CalculateBudget(30000, spending, 30, 30, params)
	require.NoError(t, err)

	require.Equal(t, 5000*0.625, analysis.Flexible.Food)
	require.Equal(t, 3000*0.625, analysis.Flexible.Transport)
	require.True(t, analysis.IsSustainable)
	require.Equal(t, 30000.0, analysis.ProjectedBudget)
	require.Equal(t, 0.0, analysis.RemainingBudget)
	require.NotEmpty(t, analysis.Adjustments)
}

func TestCalculateBudgetCaseBRefloor(t *testing.T) {
	params := DefaultParams()
	// Scaling pushes food below its floor: food resets to the floor
	// and transport is re-derived from the remainder.
	spending := CategorySpending{
		CategoryHousingUtilities: 25000,
		CategoryFood:             3200, // scaled: 3200*0.4098... < 3000 floor
		CategoryTransport:        9000,
	}

	analysis, err := CalculateBudget(30000, spending, 30, 30, params)
	require.NoError(t, err)

	require.Equal(t, params.FoodDailyFloor*30, analysis.Flexible.Food)
	require.Equal(t, 30000.0-25000.0-3000.0, analysis.Flexible.Transport)
	require.True(t, analysis.IsSustainable)
	require.LessOrEqual(t, analysis.ProjectedBudget, 30000.0)
}

func TestCalculateBudgetCaseC(t *testing.T) {
	params := DefaultParams()
	// Fixed fits alone, but fixed plus floor-minimum flexible does
	// not: unsustainable, no scaling attempted.
	spending := CategorySpending{
		CategoryHousingUtilities: 27500,
		CategoryFood:             9000,
		CategoryTransport:        6000,
	}

	analysis, err := CalculateBudget(30000, spending, 30, 30, params)
	require.NoError(t, err)

	require.False(t, analysis.IsSustainable)
	require.Equal(t, params.FoodDailyFloor*30, analysis.Flexible.Food)
	require.Equal(t, params.TransportDailyFloor*30, analysis.Flexible.Transport)
	require.Negative(t, analysis.RemainingBudget)
}

func TestCalculateBudgetProjectionInvariant(t *testing.T) {
	params := DefaultParams()
	cases := []CategorySpending{
		{CategoryFood: 4500, CategoryTransport: 2000},
		{CategoryHousingUtilities: 12000, CategoryFood: 100},
		{CategoryHousingUtilities: 40000, CategoryFood: 9000, CategoryTransport: 3000},
		{CategoryDebt: 28000, CategoryEducation: 1500, CategoryFood: 6000},
	}

	for _, spending := range cases {
		analysis, err := CalculateBudget(30000, spending, 28, 31, params)
		require.NoError(t, err)
		require.InDelta(t, analysis.Fixed.Total+analysis.Flexible.Total, analysis.ProjectedBudget, 0.011)
		require.InDelta(t, 30000-analysis.ProjectedBudget, analysis.RemainingBudget, 0.011)
		if analysis.RemainingBudget < 0 {
			require.False(t, analysis.IsSustainable)
		}
	}
}
