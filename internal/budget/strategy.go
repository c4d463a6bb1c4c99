package budget

import "time"

type BudgetStrategy string

const (
	StrategyDebtHeavyRecovery BudgetStrategy = "debt-heavy-recovery"
	StrategyRiskControl       BudgetStrategy = "risk-control"
	StrategyConservative      BudgetStrategy = "conservative"
	StrategyFamilyCentric     BudgetStrategy = "family-centric"
	StrategyBuilder           BudgetStrategy = "builder"
	StrategyBalanced          BudgetStrategy = "balanced"
)

// StrategySplit is a Needs/Wants/Savings percentage split. Every
// table row below sums to 100.
type StrategySplit struct {
	Needs   int
	Wants   int
	Savings int
}

var strategySplits = map[BudgetStrategy]StrategySplit{
	StrategyDebtHeavyRecovery: {Needs: 55, Wants: 15, Savings: 30},
	StrategyRiskControl:       {Needs: 50, Wants: 20, Savings: 30},
	StrategyConservative:      {Needs: 45, Wants: 30, Savings: 25},
	StrategyBuilder:           {Needs: 55, Wants: 25, Savings: 20},
	StrategyBalanced:          {Needs: 50, Wants: 30, Savings: 20},
}

// familySplits is tiered by child count; boundary values belong to
// the lower tier.
var familySplits = []struct {
	maxChildren int
	split       StrategySplit
}{
	{maxChildren: 2, split: StrategySplit{Needs: 60, Wants: 25, Savings: 15}},
	{maxChildren: 5, split: StrategySplit{Needs: 65, Wants: 20, Savings: 15}},
	{maxChildren: -1, split: StrategySplit{Needs: 70, Wants: 15, Savings: 15}},
}

// SplitFor looks up the percentage split of a strategy. childCount
// only matters for the family-centric strategy.
func SplitFor(strategy BudgetStrategy, childCount int) StrategySplit {
	if strategy == StrategyFamilyCentric {
		for _, tier := range familySplits {
			if tier.maxChildren < 0 || childCount <= tier.maxChildren {
				return tier.split
			}
		}
	}
	return strategySplits[strategy]
}

func partneredStatus(status CivilStatus) bool {
	switch status {
	case CivilSingle, CivilMarried, CivilWidowed, CivilLivingWithPartner:
		return true
	}
	return false
}

func settledStatus(status CivilStatus) bool {
	switch status {
	case CivilSingle, CivilMarried, CivilWidowed:
		return true
	}
	return false
}

// activeDebts counts the profile's active debt entries. Duplicate
// types count separately: two credit-card debts are still two debts.
func activeDebts(p UserProfile) int {
	count := 0
	for _, debt := range p.DebtTypes {
		if debt == DebtNone || debt == "" {
			continue
		}
		count++
	}
	return count
}

type strategyRule struct {
	strategy BudgetStrategy
	matches  func(p UserProfile, now time.Time) bool
}

// strategyRules is the decision tree as an ordered rule list; the
// first match wins and ordering is part of the contract.
var strategyRules = []strategyRule{
	{
		strategy: StrategyDebtHeavyRecovery,
		matches: func(p UserProfile, _ time.Time) bool {
			return activeDebts(p) >= 2
		},
	},
	{
		strategy: StrategyRiskControl,
		matches: func(p UserProfile, _ time.Time) bool {
			return p.IncomeFrequency == IncomeIrregular ||
				p.Profession == ProfessionUnemployed ||
				p.BusinessOwner
		},
	},
	{
		strategy: StrategyConservative,
		matches: func(p UserProfile, now time.Time) bool {
			return (p.Age(now) >= 55 || p.Profession == ProfessionRetired) &&
				p.IncomeFrequency == IncomeFixed
		},
	},
	{
		strategy: StrategyFamilyCentric,
		matches: func(p UserProfile, _ time.Time) bool {
			return p.HasChildren &&
				p.IncomeFrequency == IncomeFixed &&
				partneredStatus(p.CivilStatus)
		},
	},
	{
		strategy: StrategyBuilder,
		matches: func(p UserProfile, _ time.Time) bool {
			return partneredStatus(p.CivilStatus) &&
				!p.HasChildren &&
				p.Housing == HousingMortgage
		},
	},
	{
		strategy: StrategyBalanced,
		matches: func(p UserProfile, _ time.Time) bool {
			return !p.HasChildren &&
				p.Housing != HousingMortgage &&
				p.IncomeFrequency == IncomeFixed &&
				settledStatus(p.CivilStatus)
		},
	},
}

// ClassifyStrategy maps a profile to exactly one budgeting strategy.
// Pure and deterministic; Balanced is the fallback when no rule
// matches.
func ClassifyStrategy(p UserProfile, now time.Time) BudgetStrategy {
	for _, rule := range strategyRules {
		if rule.matches(p, now) {
			return rule.strategy
		}
	}
	return StrategyBalanced
}
