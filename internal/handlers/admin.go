package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mwhitfield/storefront/internal/auth"
	"github.com/mwhitfield/storefront/internal/models"
	"github.com/mwhitfield/storefront/internal/services"
	pkghttp "github.com/mwhitfield/storefront/pkg/http"
)

// AdminGateway defines the account administration operations.
type AdminGateway interface {
	ListAccounts(ctx context.Context, limit, offset int) ([]services.AdminAccountView, error)
	GetAccount(ctx context.Context, id string) (*services.AdminAccountView, error)
	UpdateStatus(ctx context.Context, id, status, actorID string) (*services.AdminAccountView, error)
}

// AdminHandler handles account administration requests
type AdminHandler struct {
	service AdminGateway
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service AdminGateway) *AdminHandler {
	return &AdminHandler{service: service}
}

// UpdateStatusRequest represents the request body for status changes
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended banned"`
}

// ListAccounts returns a page of accounts.
func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	accounts, err := h.service.ListAccounts(r.Context(), limit, offset)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, pkghttp.Envelope{
		"success":  true,
		"count":    len(accounts),
		"accounts": accounts,
	})
}

// GetAccount returns a single account.
func (h *AdminHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	account, err := h.service.GetAccount(r.Context(), accountID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Account not found.")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, pkghttp.Envelope{
		"success": true,
		"account": account,
	})
}

// UpdateStatus moves an account between active, suspended and banned.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	actorID := ""
	if identity := auth.GetIdentity(r); identity != nil {
		actorID = identity.ID
	}

	account, err := h.service.UpdateStatus(r.Context(), accountID, req.Status, actorID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Account not found.")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Status must be one of: active, suspended, banned.")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteOK(w, "Account status updated.", pkghttp.Envelope{
		"account": account,
	})
}
