package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/mwhitfield/storefront/internal/models"
	"github.com/mwhitfield/storefront/internal/services"
)

// MockAdminGateway implements AdminGateway for testing
type MockAdminGateway struct {
	ListAccountsFunc func(ctx context.Context, limit, offset int) ([]services.AdminAccountView, error)
	GetAccountFunc   func(ctx context.Context, id string) (*services.AdminAccountView, error)
	UpdateStatusFunc func(ctx context.Context, id, status, actorID string) (*services.AdminAccountView, error)
}

func (m *MockAdminGateway) ListAccounts(ctx context.Context, limit, offset int) ([]services.AdminAccountView, error) {
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *MockAdminGateway) GetAccount(ctx context.Context, id string) (*services.AdminAccountView, error) {
	if m.GetAccountFunc != nil {
		return m.GetAccountFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockAdminGateway) UpdateStatus(ctx context.Context, id, status, actorID string) (*services.AdminAccountView, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, actorID)
	}
	return nil, models.ErrNotFound
}

func adminRouter(gateway AdminGateway) *chi.Mux {
	h := NewAdminHandler(gateway)
	r := chi.NewRouter()
	r.Get("/admin/accounts", h.ListAccounts)
	r.Get("/admin/accounts/{accountID}", h.GetAccount)
	r.Put("/admin/accounts/{accountID}/status", h.UpdateStatus)
	return r
}

func TestAdminHandler_ListAccounts(t *testing.T) {
	var gotLimit, gotOffset int
	gateway := &MockAdminGateway{
		ListAccountsFunc: func(ctx context.Context, limit, offset int) ([]services.AdminAccountView, error) {
			gotLimit, gotOffset = limit, offset
			return []services.AdminAccountView{{ID: "acct_1"}, {ID: "acct_2"}}, nil
		},
	}
	router := adminRouter(gateway)

	req := httptest.NewRequest(http.MethodGet, "/admin/accounts?limit=10&offset=20", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 20, gotOffset)
	assert.Equal(t, float64(2), body(t, rec)["count"])
}

func TestAdminHandler_GetAccount_NotFound(t *testing.T) {
	router := adminRouter(&MockAdminGateway{})

	req := httptest.NewRequest(http.MethodGet, "/admin/accounts/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminHandler_UpdateStatus(t *testing.T) {
	var gotID, gotStatus string
	gateway := &MockAdminGateway{
		UpdateStatusFunc: func(ctx context.Context, id, status, actorID string) (*services.AdminAccountView, error) {
			gotID, gotStatus = id, status
			return &services.AdminAccountView{ID: id, Status: status}, nil
		},
	}
	router := adminRouter(gateway)

	req := httptest.NewRequest(http.MethodPut, "/admin/accounts/acct_1/status", strings.NewReader(`{"status":"suspended"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acct_1", gotID)
	assert.Equal(t, "suspended", gotStatus)
}

func TestAdminHandler_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	called := false
	gateway := &MockAdminGateway{
		UpdateStatusFunc: func(ctx context.Context, id, status, actorID string) (*services.AdminAccountView, error) {
			called = true
			return nil, nil
		},
	}
	router := adminRouter(gateway)

	req := httptest.NewRequest(http.MethodPut, "/admin/accounts/acct_1/status", strings.NewReader(`{"status":"frozen"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called, "validation failures must not reach the service")
}
