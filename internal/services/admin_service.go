package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mwhitfield/storefront/internal/models"
	"github.com/mwhitfield/storefront/internal/session"
	pkglogger "github.com/mwhitfield/storefront/pkg/logger"
)

// AdminAccountRepository covers the account operations the admin surface
// needs beyond the auth core.
type AdminAccountRepository interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context, limit, offset int) ([]*models.Account, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Account, error)
}

// AdminAccountView is the account projection exposed to administrators.
type AdminAccountView struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Email               string  `json:"email"`
	Role                string  `json:"role"`
	Status              string  `json:"status"`
	IsVerified          bool    `json:"isVerified"`
	FailedLoginAttempts int     `json:"failedLoginAttempts"`
	LastLogin           *string `json:"lastLogin"`
	CreatedAt           string  `json:"createdAt"`
}

// AdminService exposes the account administration operations.
type AdminService struct {
	repo        AdminAccountRepository
	registry    session.Registry
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	repo AdminAccountRepository,
	registry session.Registry,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AdminService {
	return &AdminService{
		repo:        repo,
		registry:    registry,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

func adminView(account *models.Account) AdminAccountView {
	view := AdminAccountView{
		ID:                  account.ID,
		Name:                account.Name,
		Email:               account.Email,
		Role:                account.Role,
		Status:              account.Status,
		IsVerified:          account.IsVerified,
		FailedLoginAttempts: account.FailedLoginAttempts,
		CreatedAt:           account.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if account.LastLogin != nil {
		formatted := account.LastLogin.Format("2006-01-02T15:04:05Z07:00")
		view.LastLogin = &formatted
	}
	return view
}

// ListAccounts pages through all accounts ordered by creation time.
func (s *AdminService) ListAccounts(ctx context.Context, limit, offset int) ([]AdminAccountView, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	accounts, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list accounts", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	views := make([]AdminAccountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, adminView(account))
	}
	return views, nil
}

// GetAccount returns a single account by id.
func (s *AdminService) GetAccount(ctx context.Context, id string) (*AdminAccountView, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to load account", slog.String("account_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	view := adminView(account)
	return &view, nil
}

// UpdateStatus moves an account between active, suspended and banned.
// Leaving the active state kills every session the account holds.
func (s *AdminService) UpdateStatus(ctx context.Context, id, status, actorID string) (*AdminAccountView, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case models.StatusActive, models.StatusSuspended, models.StatusBanned:
	default:
		return nil, models.ErrBadRequest
	}

	account, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update account status", slog.String("account_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if status != models.StatusActive {
		s.registry.InvalidateAll(ctx, id)
	}

	s.auditLogger.LogAccountAction("status_changed", id, "", map[string]string{
		"status": status,
		"actor":  actorID,
	})

	view := adminView(account)
	return &view, nil
}
