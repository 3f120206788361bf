package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitfield/storefront/internal/models"
	"github.com/mwhitfield/storefront/internal/session"
	pkglogger "github.com/mwhitfield/storefront/pkg/logger"
)

func newTestAdminService(repo AdminAccountRepository, registry session.Registry) *AdminService {
	if registry == nil {
		registry = session.NewMemoryRegistry()
	}
	logger := slog.Default()
	return NewAdminService(repo, registry, logger, pkglogger.NewAuditLogger(logger))
}

func TestAdminService_ListAccounts_ClampsPaging(t *testing.T) {
	var gotLimit, gotOffset int
	repo := &MockAccountRepository{
		ListFunc: func(ctx context.Context, limit, offset int) ([]*models.Account, error) {
			gotLimit, gotOffset = limit, offset
			return []*models.Account{NewTestAccount("acct_1", "jane@example.com", "Jane")}, nil
		},
	}
	svc := newTestAdminService(repo, nil)

	views, err := svc.ListAccounts(context.Background(), -1, -10)

	require.NoError(t, err)
	assert.Equal(t, 50, gotLimit)
	assert.Equal(t, 0, gotOffset)
	require.Len(t, views, 1)
	assert.Equal(t, "acct_1", views[0].ID)
}

func TestAdminService_GetAccount_NotFound(t *testing.T) {
	svc := newTestAdminService(&MockAccountRepository{}, nil)

	_, err := svc.GetAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAdminService_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc := newTestAdminService(&MockAccountRepository{}, nil)

	_, err := svc.UpdateStatus(context.Background(), "acct_1", "frozen", "admin_1")
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestAdminService_UpdateStatus_SuspensionKillsSessions(t *testing.T) {
	account := NewTestAccount("acct_1", "jane@example.com", "Jane")
	repo := &MockAccountRepository{
		UpdateStatusFunc: func(ctx context.Context, id, status string) (*models.Account, error) {
			account.Status = status
			return account, nil
		},
	}
	registry := session.NewMemoryRegistry()
	require.NoError(t, registry.Put(context.Background(), "acct_1", "tok", time.Now().Add(time.Hour), session.ClientMeta{}))
	svc := newTestAdminService(repo, registry)

	view, err := svc.UpdateStatus(context.Background(), "acct_1", "Suspended", "admin_1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusSuspended, view.Status)
	assert.False(t, registry.IsValid(context.Background(), "acct_1"))
}

func TestAdminService_UpdateStatus_ReactivationKeepsSessions(t *testing.T) {
	account := NewTestAccount("acct_1", "jane@example.com", "Jane")
	repo := &MockAccountRepository{
		UpdateStatusFunc: func(ctx context.Context, id, status string) (*models.Account, error) {
			account.Status = status
			return account, nil
		},
	}
	registry := session.NewMemoryRegistry()
	require.NoError(t, registry.Put(context.Background(), "acct_1", "tok", time.Now().Add(time.Hour), session.ClientMeta{}))
	svc := newTestAdminService(repo, registry)

	_, err := svc.UpdateStatus(context.Background(), "acct_1", "active", "admin_1")

	require.NoError(t, err)
	assert.True(t, registry.IsValid(context.Background(), "acct_1"))
}
