package budget

import "fmt"

// Static tip tables are lookup data, not logic; the notification
// layer consumes them verbatim.

var strategyTips = map[BudgetStrategy][]string{
	StrategyDebtHeavyRecovery: {
		"Pay more than the minimum on your highest-interest debt first.",
		"Every peso of your savings split goes toward clearing debt until you hold one debt type or none.",
	},
	StrategyRiskControl: {
		"Irregular income needs a buffer: treat your savings split as next month's income.",
		"Keep fixed obligations as low as you can until your income stabilizes.",
	},
	StrategyConservative: {
		"Protect what you have built: keep your emergency fund topped up before anything else.",
		"Favor low-risk instruments for your savings split.",
	},
	StrategyFamilyCentric: {
		"Groceries and childcare come first; review both lines every month as your family grows.",
		"Small recurring subscriptions add up fast in a family budget. Audit them quarterly.",
	},
	StrategyBuilder: {
		"Your mortgage is forced savings; keep your flexible spending lean to stay ahead of it.",
		"Round up your monthly amortization payment when your remaining budget allows it.",
	},
	StrategyBalanced: {
		"A steady 50/30/20 rhythm beats occasional big savings pushes.",
		"Track your daily food and transport spend; those two lines decide your month.",
	},
}

func StrategyTips(strategy BudgetStrategy) []string {
	tips, ok := strategyTips[strategy]
	if !ok {
		return strategyTips[StrategyBalanced]
	}
	return tips
}

// CompletenessTips nudges the user toward logging more days so the
// next prescription is built on better data.
func CompletenessTips(completeness float64) []string {
	switch {
	case completeness >= 80:
		return []string{"Great logging habit! Your budget is built on solid data."}
	case completeness >= 50:
		return []string{
			fmt.Sprintf("You logged %.0f%% of days last month. A few more days of tracking will sharpen your budget.", completeness),
		}
	default:
		return []string{
			fmt.Sprintf("Only %.0f%% of days had entries. Log daily for a week and your next budget will be far more accurate.", completeness),
			"Even a single small entry marks a day as tracked.",
		}
	}
}

// DailySpendTip picks a message for the day based on how much of the
// daily budget is already spent.
func DailySpendTip(spentPercent int) string {
	switch {
	case spentPercent >= 100:
		return "Budget fully used! Consider saving for tomorrow."
	case spentPercent >= 90:
		return "Budget almost used! Consider saving for tomorrow."
	case spentPercent >= 70:
		return fmt.Sprintf("Watch your spending! You're at %d%% of budget.", spentPercent)
	case spentPercent >= 50:
		return "Halfway through your budget. Stay mindful of expenses."
	case spentPercent >= 25:
		return "Good spending pace! Keep tracking your expenses."
	default:
		return "Great start! Every peso saved builds wealth."
	}
}
