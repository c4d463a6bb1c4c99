package storage

type dbProfile struct {
	ID                 string
	FullName           string
	NetIncome          float64
	GrossIncome        float64
	IncomeFrequency    string
	Profession         string
	CivilStatus        string
	Housing            string
	HasChildren        bool
	ChildCount         int
	BusinessOwner      bool
	DebtTypes          string // JSON array
	SavingsInstruments string // JSON array
	EmergencyFund      float64
}
