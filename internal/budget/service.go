package budget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	appErrors "github.com/pocketpilot/budget-engine/errors"
	"github.com/pocketpilot/budget-engine/logging"
)

type Storage interface {
	SaveUserProfile(ctx context.Context, profile UserProfile) error
	GetUserProfile(ctx context.Context, userID string) (UserProfile, error)
	SaveTransaction(ctx context.Context, t Transaction) error
	DeleteTransaction(ctx context.Context, userID string, transactionID string) error
	GetTransactionByID(ctx context.Context, userID string, transactionID string) (Transaction, error)
	GetTransactionsByDateRange(ctx context.Context, userID string, from, to time.Time) ([]Transaction, error)
	GetPrescription(ctx context.Context, userID string, year int, month time.Month) (*BudgetPrescription, error)
	SavePrescription(ctx context.Context, p BudgetPrescription) error
	DeletePrescriptionsBySourceMonth(ctx context.Context, userID string, year int, month time.Month) error
	DeletePrescriptionsOlderThan(ctx context.Context, cutoff time.Time) error
	GetStorageType() string
}

// BudgetEngine orchestrates the computation pipeline: source-month
// selection, strategy classification, budget calculation, allocation
// and prescription persistence.
type BudgetEngine struct {
	storage     Storage
	params      Params
	StorageType string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewBudgetEngine(s Storage, params Params) *BudgetEngine {
	return &BudgetEngine{
		storage:     s,
		params:      params,
		StorageType: s.GetStorageType(),
		locks:       map[string]*sync.Mutex{},
	}
}

// lockFor serializes regeneration per (user, year, month) key so
// concurrent readers never trigger interleaved writes of the same
// prescription. Last writer wins.
func (e *BudgetEngine) lockFor(key string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[key] = lock
	}
	return lock
}

// PROFILE OPERATIONS:

func (e *BudgetEngine) SaveProfile(ctx context.Context, userID string, req ProfileRequest) (UserProfile, error) {
	if userID == "" {
		return UserProfile{}, fmt.Errorf("%w: user id is required", appErrors.ErrInvalidInput)
	}
	if req.IncomeFrequency != IncomeFixed && req.IncomeFrequency != IncomeIrregular {
		return UserProfile{}, fmt.Errorf("%w: income frequency must be %q or %q", appErrors.ErrInvalidInput, IncomeFixed, IncomeIrregular)
	}
	if req.NetIncome < 0 || req.GrossIncome < 0 {
		return UserProfile{}, fmt.Errorf("%w: income amounts cannot be negative", appErrors.ErrInvalidInput)
	}
	if req.HasChildren && req.ChildCount < 1 {
		return UserProfile{}, fmt.Errorf("%w: child count must be at least 1 when has_children is set", appErrors.ErrInvalidInput)
	}

	now := time.Now().UTC()
	profile := UserProfile{
		ID:                 userID,
		FullName:           req.FullName,
		BirthDate:          req.BirthDate,
		NetIncome:          req.NetIncome,
		GrossIncome:        req.GrossIncome,
		IncomeFrequency:    req.IncomeFrequency,
		Profession:         req.Profession,
		CivilStatus:        req.CivilStatus,
		Housing:            req.Housing,
		HasChildren:        req.HasChildren,
		ChildCount:         req.ChildCount,
		BusinessOwner:      req.BusinessOwner,
		DebtTypes:          req.DebtTypes,
		SavingsInstruments: req.SavingsInstruments,
		EmergencyFund:      req.EmergencyFund,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if existing, err := e.storage.GetUserProfile(ctx, userID); err == nil {
		profile.CreatedAt = existing.CreatedAt
		profile.FirstPrescribedAt = existing.FirstPrescribedAt
	}

	if err := e.storage.SaveUserProfile(ctx, profile); err != nil {
		return UserProfile{}, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

func (e *BudgetEngine) GetProfile(ctx context.Context, userID string) (UserProfile, error) {
	profile, err := e.storage.GetUserProfile(ctx, userID)
	if err != nil {
		return UserProfile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// StrategyFor classifies the user's current profile. Exposed so the
// UI can show the archetype without generating a prescription.
func (e *BudgetEngine) StrategyFor(ctx context.Context, userID string, now time.Time) (BudgetStrategy, StrategySplit, error) {
	profile, err := e.storage.GetUserProfile(ctx, userID)
	if err != nil {
		return "", StrategySplit{}, fmt.Errorf("failed to get profile: %w", err)
	}
	strategy := ClassifyStrategy(profile, now)
	return strategy, SplitFor(strategy, profile.ChildCount), nil
}

// TRANSACTION OPERATIONS:

func (e *BudgetEngine) SaveTransaction(ctx context.Context, userID string, req TransactionRequest) (Transaction, error) {
	if req.Amount <= 0 {
		return Transaction{}, fmt.Errorf("%w: transaction amount must be positive", appErrors.ErrInvalidInput)
	}
	if !req.Type.IsValid() {
		return Transaction{}, fmt.Errorf("%w: unknown transaction type: %s", appErrors.ErrInvalidInput, req.Type)
	}
	if req.Type.IsSpending() && req.Category == "" {
		return Transaction{}, fmt.Errorf("%w: category is required for spending transactions", appErrors.ErrInvalidInput)
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	txn := Transaction{
		ID:        uuid.New().String(),
		Type:      req.Type,
		Category:  req.Category,
		Amount:    req.Amount,
		Date:      date,
		Note:      req.Note,
		CreatedBy: userID,
		CreatedAt: time.Now().UTC(),
	}

	if err := e.storage.SaveTransaction(ctx, txn); err != nil {
		return Transaction{}, fmt.Errorf("failed to save transaction: %w", err)
	}

	// Borrowed money arrives as spendable cash, so a debt entry posts
	// a derived income offset alongside it.
	if txn.Type == TransactionDebt {
		offset := Transaction{
			ID:        uuid.New().String(),
			Type:      TransactionIncome,
			Category:  "Debt Proceeds",
			Amount:    txn.Amount,
			Date:      txn.Date,
			Note:      "income offset for debt " + txn.ID,
			CreatedBy: userID,
			CreatedAt: txn.CreatedAt,
		}
		if err := e.storage.SaveTransaction(ctx, offset); err != nil {
			return Transaction{}, fmt.Errorf("failed to save income offset: %w", err)
		}
	}

	if err := e.invalidateForDate(ctx, userID, date); err != nil {
		return Transaction{}, err
	}
	return txn, nil
}

func (e *BudgetEngine) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	txn, err := e.storage.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return fmt.Errorf("failed to get transaction: %w", err)
	}
	if err := e.storage.DeleteTransaction(ctx, userID, transactionID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return e.invalidateForDate(ctx, userID, txn.Date)
}

func (e *BudgetEngine) GetTransactions(ctx context.Context, userID string, from, to time.Time) ([]Transaction, error) {
	transactions, err := e.storage.GetTransactionsByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}

// invalidateForDate drops every prescription whose source month
// contains the given date, so the next read regenerates it.
func (e *BudgetEngine) invalidateForDate(ctx context.Context, userID string, date time.Time) error {
	if err := e.storage.DeletePrescriptionsBySourceMonth(ctx, userID, date.Year(), date.Month()); err != nil {
		return fmt.Errorf("failed to invalidate prescriptions: %w", err)
	}
	return nil
}

// PRESCRIPTION OPERATIONS:

// GetPrescription returns the persisted prescription for the current
// month when it is still fresh, regenerating it otherwise. A nil
// prescription with a nil error means there is not enough data yet.
func (e *BudgetEngine) GetPrescription(ctx context.Context, userID string, now time.Time) (*BudgetPrescription, error) {
	existing, err := e.storage.GetPrescription(ctx, userID, now.Year(), now.Month())
	if err != nil && !errors.Is(err, appErrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to read prescription: %w", err)
	}
	if existing != nil && now.Sub(existing.GeneratedAt) <= e.params.FreshnessWindow {
		return existing, nil
	}
	return e.Generate(ctx, userID, now)
}

// Generate runs the full pipeline for one user and month. It returns
// (nil, nil) when the data is insufficient to prescribe: no usable
// source month, unresolvable net income, or a first-time user below
// the data-sufficiency gate.
func (e *BudgetEngine) Generate(ctx context.Context, userID string, now time.Time) (*BudgetPrescription, error) {
	profile, err := e.storage.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	key := fmt.Sprintf("%s-%d-%02d", userID, now.Year(), int(now.Month()))
	lock := e.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	selection, err := SelectSourceMonth(ctx, now, e.monthFetcher(userID), e.params)
	if err != nil {
		if errors.Is(err, appErrors.ErrInsufficientData) {
			logging.Logger.Infof("no usable source month for user %s: %v", userID, err)
			return nil, nil
		}
		return nil, err
	}

	// Need categories from the month before the source month keep
	// their budget lines even when the source month skipped them.
	spending := selection.Spending
	prevStart := time.Date(selection.Year, selection.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	prevTxns, err := e.storage.GetTransactionsByDateRange(ctx, userID, prevStart, prevStart.AddDate(0, 1, 0).Add(-time.Nanosecond))
	if err == nil {
		spending = PreserveCategories(spending, BuildSpendingMap(prevTxns))
	}

	netIncome := e.resolveNetIncome(profile, selection)
	if netIncome <= 0 {
		logging.Logger.Infof("could not resolve a positive net income for user %s", userID)
		return nil, nil
	}

	// The gate applies only before the first prescription ever. The
	// profile marker is the authority here: stored prescriptions are
	// deleted routinely (invalidation, staleness sweep), so their
	// count says nothing about whether the user is new.
	if profile.FirstPrescribedAt.IsZero() &&
		selection.DataCompleteness < e.params.FirstTimerMinCompleteness &&
		selection.TransactionCount < e.params.FirstTimerMinTransactions {
		logging.Logger.Infof("first prescription for user %s refused: %.0f%% completeness, %d transactions",
			userID, selection.DataCompleteness, selection.TransactionCount)
		return nil, nil
	}

	daysInTarget := daysIn(now.Year(), now.Month())
	analysis, err := CalculateBudget(netIncome, spending, selection.DaysWithData, daysInTarget, e.params)
	if err != nil {
		return nil, err
	}

	daily, monthly := BuildAllocations(analysis, daysInTarget, e.params)

	baseDaily := analysis.Flexible.Total / float64(daysInTarget)
	yesterdaySpent, todaySpent := e.flexibleSpendAround(ctx, userID, now)

	// On the 1st of a month yesterday's allowance came from the
	// previous month's prescription, when one survives.
	yesterdayBudget := baseDaily
	if prevDay := now.AddDate(0, 0, -1); prevDay.Month() != now.Month() {
		if prev, err := e.storage.GetPrescription(ctx, userID, prevDay.Year(), prevDay.Month()); err == nil && prev != nil {
			yesterdayBudget = prev.Analysis.Flexible.Total / float64(daysIn(prevDay.Year(), prevDay.Month()))
		}
	}
	adjustments := ComputeAdjustments(now, baseDaily, yesterdayBudget, yesterdaySpent, e.params)

	strategy := ClassifyStrategy(profile, now)
	split := SplitFor(strategy, profile.ChildCount)

	tips := append([]string{}, StrategyTips(strategy)...)
	tips = append(tips, CompletenessTips(selection.DataCompleteness)...)
	if effective := EffectiveDailyBudget(baseDaily, adjustments); effective > 0 {
		tips = append(tips, DailySpendTip(int(todaySpent/effective*100)))
	}

	prescription := BudgetPrescription{
		ID:                 key,
		UserID:             userID,
		Year:               now.Year(),
		Month:              now.Month(),
		SourceYear:         selection.Year,
		SourceMonth:        selection.Month,
		SelectionReason:    selection.Reason,
		DataCompleteness:   selection.DataCompleteness,
		Confidence:         e.confidenceFor(selection.DataCompleteness),
		Strategy:           strategy,
		Split:              split,
		NetIncome:          netIncome,
		Analysis:           analysis,
		DailyAllocations:   daily,
		MonthlyAllocations: monthly,
		Adjustments:        adjustments,
		Tips:               tips,
		GeneratedAt:        now,
	}

	if err := e.storage.SavePrescription(ctx, prescription); err != nil {
		return nil, fmt.Errorf("%w: failed to persist prescription: %v", appErrors.ErrPersistence, err)
	}

	if profile.FirstPrescribedAt.IsZero() {
		profile.FirstPrescribedAt = now
		if err := e.storage.SaveUserProfile(ctx, profile); err != nil {
			logging.Logger.Warnf("failed to record first prescription for user %s: %v", userID, err)
		}
	}

	logging.Logger.Infof("prescription %s generated from %d-%02d (%s, %.0f%% complete)",
		prescription.ID, selection.Year, int(selection.Month), selection.Reason, selection.DataCompleteness)
	return &prescription, nil
}

// SweepStale deletes prescriptions older than the freshness window.
// Wired to a scheduled job; the next read regenerates them.
func (e *BudgetEngine) SweepStale(ctx context.Context, now time.Time) error {
	if err := e.storage.DeletePrescriptionsOlderThan(ctx, now.Add(-e.params.FreshnessWindow)); err != nil {
		return fmt.Errorf("%w: failed to sweep stale prescriptions: %v", appErrors.ErrPersistence, err)
	}
	return nil
}

func (e *BudgetEngine) monthFetcher(userID string) MonthFetcher {
	return func(ctx context.Context, year int, month time.Month) ([]Transaction, error) {
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
		return e.storage.GetTransactionsByDateRange(ctx, userID, start, end)
	}
}

// resolveNetIncome prefers the declared value, then the source
// month's income transactions, then an estimate from expenses.
func (e *BudgetEngine) resolveNetIncome(profile UserProfile, selection HistoricalSelection) float64 {
	if profile.NetIncome > 0 {
		return profile.NetIncome
	}

	var income, expenses float64
	for _, t := range selection.Transactions {
		switch {
		case t.Type == TransactionIncome:
			income += t.Amount
		case t.Type.IsSpending():
			expenses += t.Amount
		}
	}
	if income > 0 {
		return round2(income)
	}
	return round2(expenses * e.params.IncomeEstimateFactor)
}

func (e *BudgetEngine) confidenceFor(completeness float64) ConfidenceLevel {
	switch {
	case completeness >= e.params.HighConfidenceCompleteness:
		return ConfidenceHigh
	case completeness >= e.params.ReliableCompleteness:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// flexibleSpendAround totals yesterday's and today's spending in the
// flexible categories, for the behavior adjustments and daily tip.
func (e *BudgetEngine) flexibleSpendAround(ctx context.Context, userID string, now time.Time) (yesterday, today float64) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	transactions, err := e.storage.GetTransactionsByDateRange(ctx, userID, dayStart.AddDate(0, 0, -1), now)
	if err != nil {
		logging.Logger.Warnf("failed to load recent transactions for user %s: %v", userID, err)
		return 0, 0
	}
	for _, t := range transactions {
		if !t.Type.IsSpending() {
			continue
		}
		if _, class := NormalizeCategory(t.Category); class != ClassFlexibleNeed {
			continue
		}
		if t.Date.Before(dayStart) {
			yesterday += t.Amount
		} else {
			today += t.Amount
		}
	}
	return round2(yesterday), round2(today)
}
