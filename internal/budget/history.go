package budget

import (
	"context"
	"fmt"
	"time"

	appErrors "github.com/pocketpilot/budget-engine/errors"
)

// SelectionReason is the enumerated tag explaining why a source month
// was chosen. It is persisted on the prescription so audits can
// replay the decision.
type SelectionReason string

const (
	ReasonMostRecentMonth SelectionReason = "most_recent_month"
	ReasonCarryForward    SelectionReason = "carry_forward_reliable"
	ReasonBestAvailable   SelectionReason = "best_available"
)

func (r SelectionReason) Explain() string {
	switch r {
	case ReasonMostRecentMonth:
		return "the most recent fully elapsed month had reliable data"
	case ReasonCarryForward:
		return "the most recent month was unreliable, carried forward the last reliable month"
	case ReasonBestAvailable:
		return "no month met the reliability threshold, picked the month with the most activity"
	default:
		return "unknown selection reason"
	}
}

// MonthFetcher loads every transaction of one calendar month.
type MonthFetcher func(ctx context.Context, year int, month time.Month) ([]Transaction, error)

type MonthData struct {
	Year             int
	Month            time.Month
	Spending         CategorySpending
	Transactions     []Transaction
	TransactionCount int
	DaysWithData     int
	DaysInMonth      int
}

// Completeness is the percentage of days in the month with at least
// one logged transaction.
func (m MonthData) Completeness() float64 {
	if m.DaysInMonth == 0 {
		return 0
	}
	return float64(m.DaysWithData) / float64(m.DaysInMonth) * 100
}

type HistoricalSelection struct {
	MonthData
	DataCompleteness float64
	Reason           SelectionReason
	Explanation      string
}

// selectorState drives the fallback policy as an explicit state
// machine; the selection reason falls out of the state that accepted
// a candidate rather than being reconstructed afterwards.
type selectorState int

const (
	stateMostRecent selectorState = iota
	stateLookback
	stateBestAvailable
	stateExhausted
)

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func buildMonthData(year int, month time.Month, transactions []Transaction) MonthData {
	days := map[int]bool{}
	for _, t := range transactions {
		if t.Date.Year() == year && t.Date.Month() == month {
			days[t.Date.Day()] = true
		}
	}
	return MonthData{
		Year:             year,
		Month:            month,
		Spending:         BuildSpendingMap(transactions),
		Transactions:     transactions,
		TransactionCount: len(transactions),
		DaysWithData:     len(days),
		DaysInMonth:      daysIn(year, month),
	}
}

// SelectSourceMonth inspects up to params.LookbackMonths elapsed
// months before "now" and picks the one to base a new budget on.
// A month with zero transactions is never selected; if no candidate
// has any data the call fails with ErrInsufficientData.
func SelectSourceMonth(ctx context.Context, now time.Time, fetch MonthFetcher, params Params) (HistoricalSelection, error) {
	lookback := params.LookbackMonths
	if lookback < 1 {
		lookback = 1
	}

	candidates := make([]MonthData, 0, lookback)
	for i := 1; i <= lookback; i++ {
		ref := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		transactions, err := fetch(ctx, ref.Year(), ref.Month())
		if err != nil {
			return HistoricalSelection{}, fmt.Errorf("failed to fetch transactions for %d-%02d: %w", ref.Year(), int(ref.Month()), err)
		}
		candidates = append(candidates, buildMonthData(ref.Year(), ref.Month(), transactions))
	}

	state := stateMostRecent
	for state != stateExhausted {
		switch state {
		case stateMostRecent:
			recent := candidates[0]
			if recent.TransactionCount > 0 && recent.Completeness() >= params.ReliableCompleteness {
				return accepted(recent, ReasonMostRecentMonth), nil
			}
			state = stateLookback

		case stateLookback:
			for _, candidate := range candidates[1:] {
				if candidate.TransactionCount > 0 && candidate.Completeness() >= params.ReliableCompleteness {
					return accepted(candidate, ReasonCarryForward), nil
				}
			}
			state = stateBestAvailable

		case stateBestAvailable:
			best := MonthData{}
			for _, candidate := range candidates {
				if candidate.TransactionCount > best.TransactionCount {
					best = candidate
				}
			}
			if best.TransactionCount > 0 {
				return accepted(best, ReasonBestAvailable), nil
			}
			state = stateExhausted
		}
	}

	return HistoricalSelection{}, fmt.Errorf("%w: no month with transactions in the last %d month(s)", appErrors.ErrInsufficientData, lookback)
}

func accepted(month MonthData, reason SelectionReason) HistoricalSelection {
	return HistoricalSelection{
		MonthData:        month,
		DataCompleteness: month.Completeness(),
		Reason:           reason,
		Explanation:      reason.Explain(),
	}
}
