package api

import (
	"errors"
	"fmt"
	"time"

	appErrors "github.com/pocketpilot/budget-engine/errors"
	"github.com/pocketpilot/budget-engine/internal/budget"
)

// REQUESTS START:

type CreateTransactionRequest struct {
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"` // "2006-01-02", empty means today
	Note     string  `json:"note"`
}

type SaveProfileRequest struct {
	FullName           string   `json:"fullname"`
	BirthDate          string   `json:"birth_date"` // "2006-01-02"
	NetIncome          float64  `json:"net_income"`
	GrossIncome        float64  `json:"gross_income"`
	IncomeFrequency    string   `json:"income_frequency"`
	Profession         string   `json:"profession"`
	CivilStatus        string   `json:"civil_status"`
	Housing            string   `json:"housing"`
	HasChildren        bool     `json:"has_children"`
	ChildCount         int      `json:"child_count"`
	BusinessOwner      bool     `json:"business_owner"`
	DebtTypes          []string `json:"debt_types"`
	SavingsInstruments []string `json:"savings_instruments"`
	EmergencyFund      float64  `json:"emergency_fund"`
}

// REQUESTS END:

// RESPONSES:

type TransactionItem struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Note     string  `json:"note"`
}

type ListTransactionResponse struct {
	Transactions []TransactionItem `json:"transactions"`
}

type ProfileItem struct {
	FullName           string   `json:"fullname"`
	BirthDate          string   `json:"birth_date"`
	NetIncome          float64  `json:"net_income"`
	GrossIncome        float64  `json:"gross_income"`
	IncomeFrequency    string   `json:"income_frequency"`
	Profession         string   `json:"profession"`
	CivilStatus        string   `json:"civil_status"`
	Housing            string   `json:"housing"`
	HasChildren        bool     `json:"has_children"`
	ChildCount         int      `json:"child_count"`
	BusinessOwner      bool     `json:"business_owner"`
	DebtTypes          []string `json:"debt_types"`
	SavingsInstruments []string `json:"savings_instruments"`
	EmergencyFund      float64  `json:"emergency_fund"`
}

type StrategyResponse struct {
	Strategy string `json:"strategy"`
	Needs    int    `json:"needs_percent"`
	Wants    int    `json:"wants_percent"`
	Savings  int    `json:"savings_percent"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func TransactionToHttp(transaction budget.Transaction) TransactionItem {
	return TransactionItem{
		ID:       transaction.ID,
		Type:     string(transaction.Type),
		Category: transaction.Category,
		Amount:   transaction.Amount,
		Date:     transaction.Date.Format("02/01/2006 15:04"),
		Note:     transaction.Note,
	}
}

func ProfileToHttp(profile budget.UserProfile) ProfileItem {
	birthDate := ""
	if !profile.BirthDate.IsZero() {
		birthDate = profile.BirthDate.Format("2006-01-02")
	}
	debtTypes := make([]string, 0, len(profile.DebtTypes))
	for _, d := range profile.DebtTypes {
		debtTypes = append(debtTypes, string(d))
	}
	return ProfileItem{
		FullName:           profile.FullName,
		BirthDate:          birthDate,
		NetIncome:          profile.NetIncome,
		GrossIncome:        profile.GrossIncome,
		IncomeFrequency:    string(profile.IncomeFrequency),
		Profession:         string(profile.Profession),
		CivilStatus:        string(profile.CivilStatus),
		Housing:            string(profile.Housing),
		HasChildren:        profile.HasChildren,
		ChildCount:         profile.ChildCount,
		BusinessOwner:      profile.BusinessOwner,
		DebtTypes:          debtTypes,
		SavingsInstruments: profile.SavingsInstruments,
		EmergencyFund:      profile.EmergencyFund,
	}
}

func (req SaveProfileRequest) ToProfileRequest() (budget.ProfileRequest, error) {
	var birthDate time.Time
	if req.BirthDate != "" {
		parsed, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return budget.ProfileRequest{}, fmt.Errorf("%w: invalid birth date %q, expected YYYY-MM-DD", appErrors.ErrInvalidInput, req.BirthDate)
		}
		birthDate = parsed
	}

	debtTypes := make([]budget.DebtType, 0, len(req.DebtTypes))
	for _, d := range req.DebtTypes {
		debtTypes = append(debtTypes, budget.DebtType(d))
	}

	return budget.ProfileRequest{
		FullName:           req.FullName,
		BirthDate:          birthDate,
		NetIncome:          req.NetIncome,
		GrossIncome:        req.GrossIncome,
		IncomeFrequency:    budget.IncomeFrequency(req.IncomeFrequency),
		Profession:         budget.Profession(req.Profession),
		CivilStatus:        budget.CivilStatus(req.CivilStatus),
		Housing:            budget.HousingSituation(req.Housing),
		HasChildren:        req.HasChildren,
		ChildCount:         req.ChildCount,
		BusinessOwner:      req.BusinessOwner,
		DebtTypes:          debtTypes,
		SavingsInstruments: req.SavingsInstruments,
		EmergencyFund:      req.EmergencyFund,
	}, nil
}

func (req CreateTransactionRequest) ToTransactionRequest() (budget.TransactionRequest, error) {
	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return budget.TransactionRequest{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", appErrors.ErrInvalidInput, req.Date)
		}
		date = parsed
	}
	return budget.TransactionRequest{
		Type:     budget.TransactionType(req.Type),
		Category: req.Category,
		Amount:   req.Amount,
		Date:     date,
		Note:     req.Note,
	}, nil
}

func httpStatusFromError(err error) int {
	switch {
	case errors.Is(err, appErrors.ErrNotFound):
		return 404 // not found
	case errors.Is(err, appErrors.ErrInvalidInput):
		return 400 // bad request
	case errors.Is(err, appErrors.ErrInsufficientData):
		return 404 // nothing to serve yet
	case errors.Is(err, appErrors.ErrConflict):
		return 409 // conflict
	case errors.Is(err, appErrors.ErrPersistence):
		return 503 // storage unavailable
	default:
		return 500 //internal error
	}
}
