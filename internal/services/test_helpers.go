package services

import (
	"context"
	"time"

	"github.com/mwhitfield/storefront/internal/models"
)

// MockAccountRepository implements AccountRepository and
// AdminAccountRepository for testing
type MockAccountRepository struct {
	GetByIDFunc      func(ctx context.Context, id string) (*models.Account, error)
	GetByEmailFunc   func(ctx context.Context, email string) (*models.Account, error)
	CreateFunc       func(ctx context.Context, account *models.Account) (*models.Account, error)
	SaveFunc         func(ctx context.Context, account *models.Account) (*models.Account, error)
	ListFunc         func(ctx context.Context, limit, offset int) ([]*models.Account, error)
	UpdateStatusFunc func(ctx context.Context, id, status string) (*models.Account, error)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockAccountRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAccountRepository) Save(ctx context.Context, account *models.Account) (*models.Account, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, account)
	}
	return account, nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.Account{}, nil
}

func (m *MockAccountRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Account, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil, models.ErrNotFound
}

// MockEmailSender implements EmailSender for testing
type MockEmailSender struct {
	SendOTPFunc func(ctx context.Context, to, code string, expiresAt time.Time) error
}

func (m *MockEmailSender) SendOTP(ctx context.Context, to, code string, expiresAt time.Time) error {
	if m.SendOTPFunc != nil {
		return m.SendOTPFunc(ctx, to, code, expiresAt)
	}
	return nil
}

// NewTestAccount constructs a verified active account
func NewTestAccount(id, email, name string) *models.Account {
	now := time.Now()
	return &models.Account{
		ID:         id,
		Email:      email,
		Name:       name,
		Role:       models.RoleUser,
		Status:     models.StatusActive,
		IsVerified: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewTestAccountWithPassword creates an account with the given hash
func NewTestAccountWithPassword(id, email, name, passwordHash string) *models.Account {
	account := NewTestAccount(id, email, name)
	account.PasswordHash = passwordHash
	return account
}

// NewTestAccountUnverified creates an account still pending OTP verification
func NewTestAccountUnverified(id, email, name string) *models.Account {
	account := NewTestAccount(id, email, name)
	account.IsVerified = false
	return account
}

// NewTestAccountLocked creates an account inside an active lockout window
func NewTestAccountLocked(id, email, name string) *models.Account {
	account := NewTestAccount(id, email, name)
	account.FailedLoginAttempts = 5
	lockedUntil := time.Now().Add(15 * time.Minute)
	account.AccountLockedUntil = &lockedUntil
	return account
}
