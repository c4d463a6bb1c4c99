package budget

import (
	"time"
)

// TRANSACTION TYPES:

type TransactionType string

const (
	TransactionIncome                  TransactionType = "income"
	TransactionExpense                 TransactionType = "expense"
	TransactionRecurringExpense        TransactionType = "recurring-expense"
	TransactionSavings                 TransactionType = "savings"
	TransactionSavingsWithdrawal       TransactionType = "savings-withdrawal"
	TransactionDebt                    TransactionType = "debt"
	TransactionDebtPayment             TransactionType = "debt-payment"
	TransactionEmergencyFund           TransactionType = "emergency-fund"
	TransactionEmergencyFundWithdrawal TransactionType = "emergency-fund-withdrawal"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionIncome, TransactionExpense, TransactionRecurringExpense,
		TransactionSavings, TransactionSavingsWithdrawal, TransactionDebt,
		TransactionDebtPayment, TransactionEmergencyFund, TransactionEmergencyFundWithdrawal:
		return true
	}
	return false
}

// IsSpending reports whether the transaction type counts toward the
// category spending map of a month.
func (t TransactionType) IsSpending() bool {
	switch t {
	case TransactionExpense, TransactionRecurringExpense, TransactionDebtPayment:
		return true
	}
	return false
}

// PROFILE ENUMS:

type IncomeFrequency string

const (
	IncomeFixed     IncomeFrequency = "fixed"
	IncomeIrregular IncomeFrequency = "irregular"
)

type Profession string

const (
	ProfessionEmployee   Profession = "employee"
	ProfessionFreelancer Profession = "freelancer"
	ProfessionStudent    Profession = "student"
	ProfessionUnemployed Profession = "unemployed"
	ProfessionRetired    Profession = "retired"
	ProfessionOther      Profession = "other"
)

type CivilStatus string

const (
	CivilSingle            CivilStatus = "single"
	CivilMarried           CivilStatus = "married"
	CivilWidowed           CivilStatus = "widowed"
	CivilLivingWithPartner CivilStatus = "living-with-partner"
	CivilOther             CivilStatus = "other"
)

type HousingSituation string

const (
	HousingRenting  HousingSituation = "renting"
	HousingMortgage HousingSituation = "mortgage"
	HousingOther    HousingSituation = "other"
)

type DebtType string

const (
	DebtNone       DebtType = "none"
	DebtCreditCard DebtType = "credit-card"
	DebtLoan       DebtType = "loan"
	DebtMortgage   DebtType = "mortgage-loan"
	DebtInformal   DebtType = "informal"
)

// MODELS:

type UserProfile struct {
	ID                 string
	FullName           string
	BirthDate          time.Time
	NetIncome          float64 // declared monthly net income, 0 means not declared
	GrossIncome        float64
	IncomeFrequency    IncomeFrequency
	Profession         Profession
	CivilStatus        CivilStatus
	Housing            HousingSituation
	HasChildren        bool
	ChildCount         int
	BusinessOwner      bool
	DebtTypes          []DebtType
	SavingsInstruments []string
	EmergencyFund      float64
	// FirstPrescribedAt marks when the user's first prescription was
	// generated. Zero means never. It survives prescription deletion,
	// which the lifecycle does routinely.
	FirstPrescribedAt time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Age is derived from the birth date, never stored.
func (p UserProfile) Age(now time.Time) int {
	if p.BirthDate.IsZero() {
		return 0
	}
	age := now.Year() - p.BirthDate.Year()
	if now.YearDay() < p.BirthDate.YearDay() {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

type Transaction struct {
	ID        string
	Type      TransactionType
	Category  string
	Amount    float64
	Date      time.Time
	Note      string
	CreatedBy string
	CreatedAt time.Time
}

// CategorySpending maps a canonical category name to the summed amount
// for one month. Derived data, never persisted.
type CategorySpending map[string]float64

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

type FixedNeeds struct {
	HousingUtilities   float64
	Debt               float64
	Groceries          float64
	HealthPersonalCare float64
	Education          float64
	Childcare          float64
	Total              float64
}

type FlexibleNeeds struct {
	Food      float64
	Transport float64
	Total     float64
}

type BudgetAnalysis struct {
	NetIncome       float64
	Fixed           FixedNeeds
	Flexible        FlexibleNeeds
	ProjectedBudget float64
	RemainingBudget float64
	IsSustainable   bool
	Warnings        []string
	Adjustments     []string
}

type DailyAllocation struct {
	Category    string
	DailyAmount float64
	Description string
}

type MonthlyAllocation struct {
	Category      string
	MonthlyAmount float64
	IsFixed       bool
}

type AdjustmentType string

const (
	AdjustmentRollover     AdjustmentType = "rollover"
	AdjustmentOverspending AdjustmentType = "overspending"
	AdjustmentWeekend      AdjustmentType = "weekend"
	AdjustmentPayday       AdjustmentType = "payday"
)

type BehaviorAdjustment struct {
	Type   AdjustmentType
	Amount float64 // signed, negative for penalties
	Reason string
	Date   time.Time
}

type BudgetPrescription struct {
	ID                 string // userID-year-month
	UserID             string
	Year               int
	Month              time.Month
	SourceYear         int
	SourceMonth        time.Month
	SelectionReason    SelectionReason
	DataCompleteness   float64 // percent of days in the source month with data
	Confidence         ConfidenceLevel
	Strategy           BudgetStrategy
	Split              StrategySplit
	NetIncome          float64
	Analysis           BudgetAnalysis
	DailyAllocations   []DailyAllocation
	MonthlyAllocations []MonthlyAllocation
	Adjustments        []BehaviorAdjustment
	Tips               []string
	GeneratedAt        time.Time
}

// REQUESTS:

type TransactionRequest struct {
	Type     TransactionType
	Category string
	Amount   float64
	Date     time.Time
	Note     string
}

type ProfileRequest struct {
	FullName           string
	BirthDate          time.Time
	NetIncome          float64
	GrossIncome        float64
	IncomeFrequency    IncomeFrequency
	Profession         Profession
	CivilStatus        CivilStatus
	Housing            HousingSituation
	HasChildren        bool
	ChildCount         int
	BusinessOwner      bool
	DebtTypes          []DebtType
	SavingsInstruments []string
	EmergencyFund      float64
}
