package budget

import (
	"strings"
	"testing"
)

func TestDailySpendTipLadder(t *testing.T) {
	tests := []struct {
		percent  int
		fragment string
	}{
		{percent: 120, fragment: "fully used"},
		{percent: 100, fragment: "fully used"},
		{percent: 95, fragment: "almost used"},
		{percent: 75, fragment: "Watch your spending"},
		{percent: 50, fragment: "Halfway"},
		{percent: 30, fragment: "Good spending pace"},
		{percent: 10, fragment: "Great start"},
	}

	for _, tt := range tests {
		tip := DailySpendTip(tt.percent)
		if !strings.Contains(tip, tt.fragment) {
			t.Errorf("DailySpendTip(%d) = %q, want it to contain %q", tt.percent, tip, tt.fragment)
		}
	}
}

func TestStrategyTipsAlwaysPresent(t *testing.T) {
	strategies := []BudgetStrategy{
		StrategyDebtHeavyRecovery, StrategyRiskControl, StrategyConservative,
		StrategyFamilyCentric, StrategyBuilder, StrategyBalanced,
		BudgetStrategy("unknown"),
	}
	for _, strategy := range strategies {
		if len(StrategyTips(strategy)) == 0 {
			t.Errorf("no tips for strategy %q", strategy)
		}
	}
}

func TestCompletenessTips(t *testing.T) {
	if tips := CompletenessTips(90); len(tips) != 1 {
		t.Errorf("high completeness should give one tip, got %d", len(tips))
	}
	if tips := CompletenessTips(30); len(tips) < 2 {
		t.Errorf("low completeness should push harder, got %d tip(s)", len(tips))
	}
}
