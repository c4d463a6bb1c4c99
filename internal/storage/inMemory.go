package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	appErrors "github.com/pocketpilot/budget-engine/errors"
	budgetModel "github.com/pocketpilot/budget-engine/internal/budget"
)

// InMemoryStorage keeps everything in process memory. Used by tests
// and local demos; the mutex makes prescription swaps atomic so
// readers never see a partially written record.
type InMemoryStorage struct {
	mu            sync.RWMutex
	profiles      map[string]budgetModel.UserProfile
	transactions  []budgetModel.Transaction
	prescriptions map[string]budgetModel.BudgetPrescription
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		profiles:      map[string]budgetModel.UserProfile{},
		prescriptions: map[string]budgetModel.BudgetPrescription{},
	}
}

func (inMem *InMemoryStorage) GetStorageType() string {
	return "inmemory"
}

func prescriptionKey(userID string, year int, month time.Month) string {
	return fmt.Sprintf("%s-%d-%02d", userID, year, int(month))
}

func (inMem *InMemoryStorage) SaveUserProfile(ctx context.Context, profile budgetModel.UserProfile) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	inMem.profiles[profile.ID] = profile
	return nil
}

func (inMem *InMemoryStorage) GetUserProfile(ctx context.Context, userID string) (budgetModel.UserProfile, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	profile, ok := inMem.profiles[userID]
	if !ok {
		return budgetModel.UserProfile{}, fmt.Errorf("%w: profile for user %s", appErrors.ErrNotFound, userID)
	}
	return profile, nil
}

func (inMem *InMemoryStorage) SaveTransaction(ctx context.Context, t budgetModel.Transaction) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	inMem.transactions = append(inMem.transactions, t)
	return nil
}

func (inMem *InMemoryStorage) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	for i, t := range inMem.transactions {
		if t.ID == transactionID && t.CreatedBy == userID {
			inMem.transactions = append(inMem.transactions[:i], inMem.transactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: transaction %s", appErrors.ErrNotFound, transactionID)
}

func (inMem *InMemoryStorage) GetTransactionByID(ctx context.Context, userID string, transactionID string) (budgetModel.Transaction, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	for _, t := range inMem.transactions {
		if t.ID == transactionID && t.CreatedBy == userID {
			return t, nil
		}
	}
	return budgetModel.Transaction{}, fmt.Errorf("%w: transaction %s", appErrors.ErrNotFound, transactionID)
}

func (inMem *InMemoryStorage) GetTransactionsByDateRange(ctx context.Context, userID string, from, to time.Time) ([]budgetModel.Transaction, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	var result []budgetModel.Transaction
	for _, t := range inMem.transactions {
		if t.CreatedBy != userID {
			continue
		}
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (inMem *InMemoryStorage) GetPrescription(ctx context.Context, userID string, year int, month time.Month) (*budgetModel.BudgetPrescription, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	p, ok := inMem.prescriptions[prescriptionKey(userID, year, month)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (inMem *InMemoryStorage) SavePrescription(ctx context.Context, p budgetModel.BudgetPrescription) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	inMem.prescriptions[prescriptionKey(p.UserID, p.Year, p.Month)] = p
	return nil
}

func (inMem *InMemoryStorage) DeletePrescriptionsBySourceMonth(ctx context.Context, userID string, year int, month time.Month) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	for key, p := range inMem.prescriptions {
		if p.UserID == userID && p.SourceYear == year && p.SourceMonth == month {
			delete(inMem.prescriptions, key)
		}
	}
	return nil
}

func (inMem *InMemoryStorage) DeletePrescriptionsOlderThan(ctx context.Context, cutoff time.Time) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	for key, p := range inMem.prescriptions {
		if p.GeneratedAt.Before(cutoff) {
			delete(inMem.prescriptions, key)
		}
	}
	return nil
}
