package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var classifyNow = time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)

func birthYear(age int) time.Time {
	return time.Date(classifyNow.Year()-age, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func TestClassifyStrategy(t *testing.T) {
	tests := []struct {
		name     string
		profile  UserProfile
		expected BudgetStrategy
	}{
		{
			name: "two debts win over everything",
			profile: UserProfile{
				DebtTypes:       []DebtType{DebtCreditCard, DebtLoan},
				IncomeFrequency: IncomeFixed,
				CivilStatus:     CivilMarried,
				HasChildren:     true,
				ChildCount:      3,
			},
			expected: StrategyDebtHeavyRecovery,
		},
		{
			name: "two credit card debts still debt heavy",
			profile: UserProfile{
				DebtTypes:       []DebtType{DebtCreditCard, DebtCreditCard},
				IncomeFrequency: IncomeIrregular,
				BirthDate:       birthYear(60),
			},
			expected: StrategyDebtHeavyRecovery,
		},
		{
			name: "none entries do not count as debt",
			profile: UserProfile{
				DebtTypes:       []DebtType{DebtNone, DebtNone},
				IncomeFrequency: IncomeIrregular,
			},
			expected: StrategyRiskControl,
		},
		{
			name: "irregular income is risk control",
			profile: UserProfile{
				IncomeFrequency: IncomeIrregular,
				CivilStatus:     CivilSingle,
			},
			expected: StrategyRiskControl,
		},
		{
			name: "unemployed is risk control",
			profile: UserProfile{
				IncomeFrequency: IncomeFixed,
				Profession:      ProfessionUnemployed,
			},
			expected: StrategyRiskControl,
		},
		{
			name: "business owner is risk control even with fixed income",
			profile: UserProfile{
				IncomeFrequency: IncomeFixed,
				BusinessOwner:   true,
				CivilStatus:     CivilMarried,
			},
			expected: StrategyRiskControl,
		},
		{
			name: "55 with fixed income is conservative",
			profile: UserProfile{
				IncomeFrequency: IncomeFixed,
				BirthDate:       birthYear(55),
				CivilStatus:     CivilMarried,
			},
			expected: StrategyConservative,
		},
		{
			name: "retired with fixed income is conservative",
			profile: UserProfile{
				IncomeFrequency: IncomeFixed,
				Profession:      ProfessionRetired,
				BirthDate:       birthYear(48),
			},
			expected: StrategyConservative,
		},
		{
			name: "retired with irregular income is risk control first",
			profile: UserProfile{
				IncomeFrequency: IncomeIrregular,
				Profession:      ProfessionRetired,
			},
			expected: StrategyRiskControl,
		},
		{
			name: "children with fixed income is family centric",
			profile: UserProfile{
				IncomeFrequency: IncomeFixed,
				CivilStatus:     CivilLivingWithPartner,
				HasChildren:     true,
				ChildCount:      2,
				BirthDate:       birthYear(34),
			},
			expected: StrategyFamilyCentric,
		},
		{
			name: "children with other civil status falls through to default",
			profile: UserProfile{
				IncomeFrequency: IncomeFixed,
				CivilStatus:     CivilOther,
				HasChildren:     true,
				ChildCount:      1,
			},
			expected: StrategyBalanced,
		},
		{
			name: "mortgage without children is builder",
			profile: UserProfile{
				IncomeFrequency: IncomeFixed,
				CivilStatus:     CivilSingle,
				Housing:         HousingMortgage,
				BirthDate:       birthYear(30),
			},
			expected: StrategyBuilder,
		},
		{
			name: "renting single fixed income is balanced",
			profile: UserProfile{
				IncomeFrequency: IncomeFixed,
				CivilStatus:     CivilSingle,
				Housing:         HousingRenting,
				BirthDate:       birthYear(28),
			},
			expected: StrategyBalanced,
		},
		{
			name:     "empty profile defaults to balanced",
			profile:  UserProfile{},
			expected: StrategyBalanced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStrategy(tt.profile, classifyNow)
			if got != tt.expected {
				t.Errorf("Got strategy %q, want %q", got, tt.expected)
			}

			// Classification is pure; a second run must agree.
			if again := ClassifyStrategy(tt.profile, classifyNow); again != got {
				t.Errorf("Re-evaluation changed strategy from %q to %q", got, again)
			}
		})
	}
}

func TestFamilySplitTiers(t *testing.T) {
	tests := []struct {
		children int
		expected StrategySplit
	}{
		{children: 1, expected: StrategySplit{Needs: 60, Wants: 25, Savings: 15}},
		{children: 2, expected: StrategySplit{Needs: 60, Wants: 25, Savings: 15}},
		{children: 3, expected: StrategySplit{Needs: 65, Wants: 20, Savings: 15}},
		{children: 5, expected: StrategySplit{Needs: 65, Wants: 20, Savings: 15}},
		{children: 6, expected: StrategySplit{Needs: 70, Wants: 15, Savings: 15}},
		{children: 9, expected: StrategySplit{Needs: 70, Wants: 15, Savings: 15}},
	}

	for _, tt := range tests {
		got := SplitFor(StrategyFamilyCentric, tt.children)
		if got != tt.expected {
			t.Errorf("SplitFor(family, %d children) = %+v, want %+v", tt.children, got, tt.expected)
		}
	}
}

func TestAllSplitsSumTo100(t *testing.T) {
	strategies := []BudgetStrategy{
		StrategyDebtHeavyRecovery, StrategyRiskControl, StrategyConservative,
		StrategyBuilder, StrategyBalanced,
	}
	for _, strategy := range strategies {
		split := SplitFor(strategy, 0)
		require.Equalf(t, 100, split.Needs+split.Wants+split.Savings, "split for %s", strategy)
	}
	for _, children := range []int{1, 3, 6} {
		split := SplitFor(StrategyFamilyCentric, children)
		require.Equalf(t, 100, split.Needs+split.Wants+split.Savings, "family split with %d children", children)
	}
}

func TestAgeDerivation(t *testing.T) {
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	p := UserProfile{BirthDate: time.Date(1971, time.July, 1, 0, 0, 0, 0, time.UTC)}
	if got := p.Age(now); got != 54 {
		t.Errorf("Age before birthday: got %d, want 54", got)
	}

	p.BirthDate = time.Date(1971, time.May, 1, 0, 0, 0, 0, time.UTC)
	if got := p.Age(now); got != 55 {
		t.Errorf("Age after birthday: got %d, want 55", got)
	}

	if got := (UserProfile{}).Age(now); got != 0 {
		t.Errorf("Age with no birth date: got %d, want 0", got)
	}
}
