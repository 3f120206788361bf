package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mwhitfield/storefront/internal/database"
	"github.com/mwhitfield/storefront/internal/models"
)

const accountColumns = `id, email, name, password_hash, role, is_verified, status,
	otp_hash, otp_expires, otp_attempts,
	failed_login_attempts, account_locked_until,
	password_history, last_login, created_at, updated_at`

// AccountRepository persists accounts in Postgres. Every mutation is a
// single-row read-modify-write; the unique index on email enforces the
// one-account-per-address invariant at the storage layer.
type AccountRepository struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccountRow(scanner rowScanner) (*models.Account, error) {
	var account models.Account
	var otpHash *string
	var otpExpires, lockedUntil, lastLogin *time.Time
	var historyJSON []byte

	err := scanner.Scan(
		&account.ID, &account.Email, &account.Name, &account.PasswordHash,
		&account.Role, &account.IsVerified, &account.Status,
		&otpHash, &otpExpires, &account.OTPAttempts,
		&account.FailedLoginAttempts, &lockedUntil,
		&historyJSON, &lastLogin, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if otpHash != nil {
		account.OTPHash = *otpHash
	}
	account.OTPExpires = otpExpires
	account.AccountLockedUntil = lockedUntil
	account.LastLogin = lastLogin

	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &account.PasswordHistory); err != nil {
			return nil, fmt.Errorf("failed to decode password history: %w", err)
		}
	}

	return &account, nil
}

func scanAccountRows(rows pgx.Rows) ([]*models.Account, error) {
	defer rows.Close()

	accounts := make([]*models.Account, 0)

	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return accounts, nil
}

func encodeHistory(history []models.PasswordHistoryEntry) ([]byte, error) {
	if len(history) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(history)
}

func nullableOTPHash(account *models.Account) *string {
	if account.OTPHash == "" {
		return nil
	}
	return &account.OTPHash
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccountRow(r.db.Pool.QueryRow(ctx, query, id))
}

// GetByEmail looks an account up by normalized address. The argument is
// lowercased here so every caller gets the same behavior.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccountRow(r.db.Pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}

	return scanAccountRows(rows)
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	account.ID = uuid.New().String()
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))

	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	if account.Role == "" {
		account.Role = models.RoleUser
	}
	if account.Status == "" {
		account.Status = models.StatusActive
	}

	historyJSON, err := encodeHistory(account.PasswordHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to encode password history: %w", err)
	}

	query := `
		INSERT INTO accounts (id, email, name, password_hash, role, is_verified, status,
			otp_hash, otp_expires, otp_attempts,
			failed_login_attempts, account_locked_until,
			password_history, last_login, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + accountColumns

	return scanAccountRow(r.db.Pool.QueryRow(ctx, query,
		account.ID, account.Email, account.Name, account.PasswordHash,
		account.Role, account.IsVerified, account.Status,
		nullableOTPHash(account), account.OTPExpires, account.OTPAttempts,
		account.FailedLoginAttempts, account.AccountLockedUntil,
		historyJSON, account.LastLogin, account.CreatedAt, account.UpdatedAt,
	))
}

// Save writes back every mutable field of the account in one statement.
// Callers follow a load-mutate-save cycle; last write wins.
func (r *AccountRepository) Save(ctx context.Context, account *models.Account) (*models.Account, error) {
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))
	account.UpdatedAt = time.Now()

	historyJSON, err := encodeHistory(account.PasswordHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to encode password history: %w", err)
	}

	query := `
		UPDATE accounts SET email = $1, name = $2, password_hash = $3, role = $4,
			is_verified = $5, status = $6,
			otp_hash = $7, otp_expires = $8, otp_attempts = $9,
			failed_login_attempts = $10, account_locked_until = $11,
			password_history = $12, last_login = $13, updated_at = $14
		WHERE id = $15
		RETURNING ` + accountColumns

	return scanAccountRow(r.db.Pool.QueryRow(ctx, query,
		account.Email, account.Name, account.PasswordHash, account.Role,
		account.IsVerified, account.Status,
		nullableOTPHash(account), account.OTPExpires, account.OTPAttempts,
		account.FailedLoginAttempts, account.AccountLockedUntil,
		historyJSON, account.LastLogin, account.UpdatedAt, account.ID,
	))
}

// UpdateStatus changes just the account status (admin operation).
func (r *AccountRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Account, error) {
	query := `
		UPDATE accounts SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + accountColumns

	return scanAccountRow(r.db.Pool.QueryRow(ctx, query, status, time.Now(), id))
}
