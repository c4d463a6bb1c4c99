package budget

import "time"

// Params holds every numeric policy value of the engine. Callers that
// need different floors or windows override fields on DefaultParams()
// instead of editing literals.
type Params struct {
	FoodDailyFloor      float64 // minimum daily food budget
	TransportDailyFloor float64 // minimum daily transport budget

	WeekendBonusRate float64 // share of base daily budget added on Friday and Saturday
	PaydayBonusRate  float64 // share of base daily budget added on payday

	ReliableCompleteness       float64 // percent, month considered reliable at or above this
	HighConfidenceCompleteness float64 // percent
	FirstTimerMinCompleteness  float64 // percent, first prescription gate
	FirstTimerMinTransactions  int     // alternative first prescription gate

	LookbackMonths       int           // how many elapsed months the selector scans
	FreshnessWindow      time.Duration // prescriptions older than this are stale
	IncomeEstimateFactor float64       // net income fallback: factor x expenses

	MaxDailyCap float64 // 0 disables the cap on combined daily allocations
}

func DefaultParams() Params {
	return Params{
		FoodDailyFloor:      100,
		TransportDailyFloor: 50,

		WeekendBonusRate: 0.20,
		PaydayBonusRate:  0.15,

		ReliableCompleteness:       50,
		HighConfidenceCompleteness: 80,
		FirstTimerMinCompleteness:  50,
		FirstTimerMinTransactions:  15,

		LookbackMonths:       3,
		FreshnessWindow:      6 * time.Hour,
		IncomeEstimateFactor: 1.2,

		MaxDailyCap: 0,
	}
}
