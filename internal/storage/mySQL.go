package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	appErrors "github.com/pocketpilot/budget-engine/errors"
	budgetModel "github.com/pocketpilot/budget-engine/internal/budget"
	"github.com/pocketpilot/budget-engine/internal/contextutil"
	"github.com/pocketpilot/budget-engine/logging"
)

const timeLayout = "2006-01-02 15:04:05"

// --- INIT START --- //

func Init() (*sql.DB, error) {
	username := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASS")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	dbname := os.Getenv("DB_NAME")
	fullDsn := os.Getenv("FULL_DSN")

	if dbname == "" {
		dbname = "budget_engine"
	}

	var adminDsn string
	if fullDsn != "" {
		parts := strings.Split(fullDsn, "/")
		adminDsn = strings.Join(parts[:len(parts)-1], "/") + "/"
	} else {
		if username == "" || password == "" || host == "" || port == "" {
			return nil, fmt.Errorf("missing required DB environment variables")
		}
		adminDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/?parseTime=true", username, password, host, port)
	}

	logging.Logger.Info("Connecting to MySQL server for initialization...")
	adminDb, err := sql.Open("mysql", adminDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open admin mysql handle: %v", err)
	}
	connected := false
	for i := 0; i < 15; i++ {
		if err := adminDb.Ping(); err == nil {
			connected = true
			break
		}
		logging.Logger.Warnf("Database not ready, retrying... (%d/15)", i+1)
		time.Sleep(3 * time.Second)
	}
	if !connected {
		return nil, fmt.Errorf("database unreachable after multiple attempts")
	}

	var dbnameExistence string
	checkDbnameExistQuery := "SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?"
	err = adminDb.QueryRow(checkDbnameExistQuery, dbname).Scan(&dbnameExistence)

	if err == sql.ErrNoRows {
		logging.Logger.Infof("Database '%s' does not exist, creating...", dbname)
		createDbSql := fmt.Sprintf("CREATE DATABASE `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci;", dbname)
		if _, err := adminDb.Exec(createDbSql); err != nil {
			adminDb.Close()
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	} else if err != nil {
		adminDb.Close()
		return nil, fmt.Errorf("failed to check database existence: %v", err)
	}

	adminDb.Close()

	var finalDsn string
	if fullDsn != "" {
		finalDsn = fullDsn
	} else {
		finalDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", username, password, host, port, dbname)
	}

	db, err := sql.Open("mysql", finalDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql handle: %v", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	if err := createTables(db); err != nil {
		return nil, err
	}
	return db, nil
}

func createTables(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS user_profiles (
			id VARCHAR(64) PRIMARY KEY,
			full_name VARCHAR(255) NOT NULL DEFAULT '',
			birth_date DATETIME NULL,
			net_income DOUBLE NOT NULL DEFAULT 0,
			gross_income DOUBLE NOT NULL DEFAULT 0,
			income_frequency VARCHAR(32) NOT NULL,
			profession VARCHAR(32) NOT NULL DEFAULT 'other',
			civil_status VARCHAR(32) NOT NULL DEFAULT 'other',
			housing VARCHAR(32) NOT NULL DEFAULT 'other',
			has_children TINYINT(1) NOT NULL DEFAULT 0,
			child_count INT NOT NULL DEFAULT 0,
			business_owner TINYINT(1) NOT NULL DEFAULT 0,
			debt_types TEXT,
			savings_instruments TEXT,
			emergency_fund DOUBLE NOT NULL DEFAULT 0,
			first_prescribed_at DATETIME NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		) ENGINE=InnoDB;`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id VARCHAR(36) PRIMARY KEY,
			type VARCHAR(32) NOT NULL,
			category VARCHAR(255) NOT NULL DEFAULT '',
			amount DOUBLE NOT NULL,
			tx_date DATETIME NOT NULL,
			note TEXT,
			created_by VARCHAR(64) NOT NULL,
			created_at DATETIME NOT NULL,
			INDEX idx_tx_user_date (created_by, tx_date)
		) ENGINE=InnoDB;`,
		`CREATE TABLE IF NOT EXISTS prescriptions (
			user_id VARCHAR(64) NOT NULL,
			year INT NOT NULL,
			month INT NOT NULL,
			source_year INT NOT NULL,
			source_month INT NOT NULL,
			generated_at DATETIME NOT NULL,
			payload JSON NOT NULL,
			PRIMARY KEY (user_id, year, month),
			INDEX idx_presc_source (user_id, source_year, source_month)
		) ENGINE=InnoDB;`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %v", err)
		}
	}
	return nil
}

// --- INIT END --- //

type MySQLStorage struct {
	db *sql.DB
}

func NewMySQLStorage(db *sql.DB) *MySQLStorage {
	return &MySQLStorage{db: db}
}

func (s *MySQLStorage) GetStorageType() string {
	return "MySQL"
}

func (s *MySQLStorage) SaveUserProfile(ctx context.Context, profile budgetModel.UserProfile) error {
	debtTypes, err := json.Marshal(profile.DebtTypes)
	if err != nil {
		return fmt.Errorf("failed to encode debt types: %w", err)
	}
	instruments, err := json.Marshal(profile.SavingsInstruments)
	if err != nil {
		return fmt.Errorf("failed to encode savings instruments: %w", err)
	}

	query := `INSERT INTO user_profiles
		(id, full_name, birth_date, net_income, gross_income, income_frequency, profession,
		 civil_status, housing, has_children, child_count, business_owner, debt_types,
		 savings_instruments, emergency_fund, first_prescribed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		 full_name=VALUES(full_name), birth_date=VALUES(birth_date), net_income=VALUES(net_income),
		 gross_income=VALUES(gross_income), income_frequency=VALUES(income_frequency),
		 profession=VALUES(profession), civil_status=VALUES(civil_status), housing=VALUES(housing),
		 has_children=VALUES(has_children), child_count=VALUES(child_count),
		 business_owner=VALUES(business_owner), debt_types=VALUES(debt_types),
		 savings_instruments=VALUES(savings_instruments), emergency_fund=VALUES(emergency_fund),
		 first_prescribed_at=VALUES(first_prescribed_at), updated_at=VALUES(updated_at)`

	var birthDate interface{}
	if !profile.BirthDate.IsZero() {
		birthDate = profile.BirthDate.UTC().Format(timeLayout)
	}
	var firstPrescribedAt interface{}
	if !profile.FirstPrescribedAt.IsZero() {
		firstPrescribedAt = profile.FirstPrescribedAt.UTC().Format(timeLayout)
	}

	_, err = s.db.ExecContext(ctx, query,
		profile.ID, profile.FullName, birthDate, profile.NetIncome, profile.GrossIncome,
		string(profile.IncomeFrequency), string(profile.Profession), string(profile.CivilStatus),
		string(profile.Housing), profile.HasChildren, profile.ChildCount, profile.BusinessOwner,
		string(debtTypes), string(instruments), profile.EmergencyFund, firstPrescribedAt,
		profile.CreatedAt.UTC().Format(timeLayout), profile.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to save profile [trace: %s]: %w", contextutil.TraceIDFromContext(ctx), err)
	}
	return nil
}

func (s *MySQLStorage) GetUserProfile(ctx context.Context, userID string) (budgetModel.UserProfile, error) {
	query := `SELECT id, full_name, birth_date, net_income, gross_income, income_frequency,
		profession, civil_status, housing, has_children, child_count, business_owner,
		debt_types, savings_instruments, emergency_fund, first_prescribed_at, created_at, updated_at
		FROM user_profiles WHERE id = ?`

	var row dbProfile
	var birthDate, firstPrescribedAt sql.NullTime
	var createdAt, updatedAt time.Time
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&row.ID, &row.FullName, &birthDate, &row.NetIncome, &row.GrossIncome,
		&row.IncomeFrequency, &row.Profession, &row.CivilStatus, &row.Housing,
		&row.HasChildren, &row.ChildCount, &row.BusinessOwner,
		&row.DebtTypes, &row.SavingsInstruments, &row.EmergencyFund, &firstPrescribedAt, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return budgetModel.UserProfile{}, fmt.Errorf("%w: profile for user %s", appErrors.ErrNotFound, userID)
	}
	if err != nil {
		return budgetModel.UserProfile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	var debtTypes []budgetModel.DebtType
	if row.DebtTypes != "" {
		if err := json.Unmarshal([]byte(row.DebtTypes), &debtTypes); err != nil {
			return budgetModel.UserProfile{}, fmt.Errorf("failed to decode debt types: %w", err)
		}
	}
	var instruments []string
	if row.SavingsInstruments != "" {
		if err := json.Unmarshal([]byte(row.SavingsInstruments), &instruments); err != nil {
			return budgetModel.UserProfile{}, fmt.Errorf("failed to decode savings instruments: %w", err)
		}
	}

	profile := budgetModel.UserProfile{
		ID:                 row.ID,
		FullName:           row.FullName,
		NetIncome:          row.NetIncome,
		GrossIncome:        row.GrossIncome,
		IncomeFrequency:    budgetModel.IncomeFrequency(row.IncomeFrequency),
		Profession:         budgetModel.Profession(row.Profession),
		CivilStatus:        budgetModel.CivilStatus(row.CivilStatus),
		Housing:            budgetModel.HousingSituation(row.Housing),
		HasChildren:        row.HasChildren,
		ChildCount:         row.ChildCount,
		BusinessOwner:      row.BusinessOwner,
		DebtTypes:          debtTypes,
		SavingsInstruments: instruments,
		EmergencyFund:      row.EmergencyFund,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}
	if birthDate.Valid {
		profile.BirthDate = birthDate.Time
	}
	if firstPrescribedAt.Valid {
		profile.FirstPrescribedAt = firstPrescribedAt.Time
	}
	return profile, nil
}

func (s *MySQLStorage) SaveTransaction(ctx context.Context, t budgetModel.Transaction) error {
	query := `INSERT INTO transactions (id, type, category, amount, tx_date, note, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		t.ID, string(t.Type), t.Category, t.Amount,
		t.Date.UTC().Format(timeLayout), t.Note, t.CreatedBy, t.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to save transaction [trace: %s]: %w", contextutil.TraceIDFromContext(ctx), err)
	}
	return nil
}

func (s *MySQLStorage) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND created_by = ?`, transactionID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("%w: transaction %s", appErrors.ErrNotFound, transactionID)
	}
	return nil
}

func (s *MySQLStorage) GetTransactionByID(ctx context.Context, userID string, transactionID string) (budgetModel.Transaction, error) {
	query := `SELECT id, type, category, amount, tx_date, note, created_by, created_at
		FROM transactions WHERE id = ? AND created_by = ?`
	var t budgetModel.Transaction
	var txType string
	var txDate, createdAt time.Time
	err := s.db.QueryRowContext(ctx, query, transactionID, userID).Scan(
		&t.ID, &txType, &t.Category, &t.Amount, &txDate, &t.Note, &t.CreatedBy, &createdAt)
	if err == sql.ErrNoRows {
		return budgetModel.Transaction{}, fmt.Errorf("%w: transaction %s", appErrors.ErrNotFound, transactionID)
	}
	if err != nil {
		return budgetModel.Transaction{}, fmt.Errorf("failed to get transaction: %w", err)
	}
	t.Type = budgetModel.TransactionType(txType)
	t.Date = txDate
	t.CreatedAt = createdAt
	return t, nil
}

func (s *MySQLStorage) GetTransactionsByDateRange(ctx context.Context, userID string, from, to time.Time) ([]budgetModel.Transaction, error) {
	query := `SELECT id, type, category, amount, tx_date, note, created_by, created_at
		FROM transactions WHERE created_by = ? AND tx_date BETWEEN ? AND ? ORDER BY tx_date`
	rows, err := s.db.QueryContext(ctx, query, userID, from.UTC().Format(timeLayout), to.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []budgetModel.Transaction
	for rows.Next() {
		var t budgetModel.Transaction
		var txType string
		var txDate, createdAt time.Time
		if err := rows.Scan(&t.ID, &txType, &t.Category, &t.Amount, &txDate, &t.Note, &t.CreatedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Type = budgetModel.TransactionType(txType)
		t.Date = txDate
		t.CreatedAt = createdAt
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (s *MySQLStorage) GetPrescription(ctx context.Context, userID string, year int, month time.Month) (*budgetModel.BudgetPrescription, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM prescriptions WHERE user_id = ? AND year = ? AND month = ?`,
		userID, year, int(month)).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	var p budgetModel.BudgetPrescription
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to decode prescription payload: %w", err)
	}
	return &p, nil
}

func (s *MySQLStorage) SavePrescription(ctx context.Context, p budgetModel.BudgetPrescription) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode prescription: %w", err)
	}
	query := `INSERT INTO prescriptions (user_id, year, month, source_year, source_month, generated_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		 source_year=VALUES(source_year), source_month=VALUES(source_month),
		 generated_at=VALUES(generated_at), payload=VALUES(payload)`
	_, err = s.db.ExecContext(ctx, query,
		p.UserID, p.Year, int(p.Month), p.SourceYear, int(p.SourceMonth),
		p.GeneratedAt.UTC().Format(timeLayout), payload)
	if err != nil {
		return fmt.Errorf("failed to save prescription [trace: %s]: %w", contextutil.TraceIDFromContext(ctx), err)
	}
	return nil
}

func (s *MySQLStorage) DeletePrescriptionsBySourceMonth(ctx context.Context, userID string, year int, month time.Month) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM prescriptions WHERE user_id = ? AND source_year = ? AND source_month = ?`,
		userID, year, int(month))
	if err != nil {
		return fmt.Errorf("failed to delete prescriptions by source month: %w", err)
	}
	return nil
}

func (s *MySQLStorage) DeletePrescriptionsOlderThan(ctx context.Context, cutoff time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM prescriptions WHERE generated_at < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to delete stale prescriptions: %w", err)
	}
	return nil
}
