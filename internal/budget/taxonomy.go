package budget

import (
	"strings"
)

// Canonical category names. Keys of a CategorySpending map are always
// exact, case-sensitive values from this set or free-form "wants".
const (
	CategoryHousingUtilities = "Housing & Utilities"
	CategoryDebt             = "Debt"
	CategoryGroceries        = "Groceries"
	CategoryHealth           = "Health & Personal Care"
	CategoryEducation        = "Education"
	CategoryChildcare        = "Childcare"
	CategoryFood             = "Food"
	CategoryTransport        = "Transportation"
)

type CategoryClass string

const (
	ClassFixedNeed    CategoryClass = "fixed-need"
	ClassFlexibleNeed CategoryClass = "flexible-need"
	ClassWant         CategoryClass = "want"
)

var categoryClasses = map[string]CategoryClass{
	CategoryHousingUtilities: ClassFixedNeed,
	CategoryDebt:             ClassFixedNeed,
	CategoryGroceries:        ClassFixedNeed,
	CategoryHealth:           ClassFixedNeed,
	CategoryEducation:        ClassFixedNeed,
	CategoryChildcare:        ClassFixedNeed,
	CategoryFood:             ClassFlexibleNeed,
	CategoryTransport:        ClassFlexibleNeed,
}

// categoryAliases resolves the free-form category strings users type
// against the taxonomy. Keys are lowercased.
var categoryAliases = map[string]string{
	"housing":           CategoryHousingUtilities,
	"housing&utilities": CategoryHousingUtilities,
	"rent":              CategoryHousingUtilities,
	"utilities":         CategoryHousingUtilities,
	"electricity":       CategoryHousingUtilities,
	"water":             CategoryHousingUtilities,
	"internet":          CategoryHousingUtilities,

	"debt":         CategoryDebt,
	"loan":         CategoryDebt,
	"credit card":  CategoryDebt,
	"debt payment": CategoryDebt,

	"groceries": CategoryGroceries,
	"grocery":   CategoryGroceries,
	"market":    CategoryGroceries,

	"health":        CategoryHealth,
	"medicine":      CategoryHealth,
	"pharmacy":      CategoryHealth,
	"personal care": CategoryHealth,

	"education": CategoryEducation,
	"tuition":   CategoryEducation,
	"school":    CategoryEducation,

	"childcare": CategoryChildcare,
	"daycare":   CategoryChildcare,

	"food":        CategoryFood,
	"dining":      CategoryFood,
	"eating out":  CategoryFood,
	"restaurants": CategoryFood,
	"snacks":      CategoryFood,

	"transport":      CategoryTransport,
	"transportation": CategoryTransport,
	"commute":        CategoryTransport,
	"fuel":           CategoryTransport,
	"gas":            CategoryTransport,
	"fare":           CategoryTransport,
}

// NormalizeCategory maps a raw category string to its canonical
// taxonomy name and class. Unknown categories keep their trimmed
// original spelling and classify as wants.
func NormalizeCategory(raw string) (string, CategoryClass) {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := categoryAliases[strings.ToLower(trimmed)]; ok {
		return canonical, categoryClasses[canonical]
	}
	if class, ok := categoryClasses[trimmed]; ok {
		return trimmed, class
	}
	return trimmed, ClassWant
}

func ClassOf(canonical string) CategoryClass {
	if class, ok := categoryClasses[canonical]; ok {
		return class
	}
	return ClassWant
}

// BuildSpendingMap aggregates a month's spending-type transactions
// into a category spending map keyed by canonical names.
func BuildSpendingMap(transactions []Transaction) CategorySpending {
	spending := CategorySpending{}
	for _, t := range transactions {
		if !t.Type.IsSpending() {
			continue
		}
		canonical, _ := NormalizeCategory(t.Category)
		if canonical == "" {
			continue
		}
		spending[canonical] += t.Amount
	}
	return spending
}

// PreserveCategories carries need categories seen in a previous month
// into the current map with a zero amount, so a category the user
// skipped for one month keeps its budget line instead of vanishing.
func PreserveCategories(current, previous CategorySpending) CategorySpending {
	if current == nil {
		current = CategorySpending{}
	}
	for name := range previous {
		if ClassOf(name) == ClassWant {
			continue
		}
		if _, ok := current[name]; !ok {
			current[name] = 0
		}
	}
	return current
}
