package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mwhitfield/storefront/internal/auth"
	"github.com/mwhitfield/storefront/internal/models"
	"github.com/mwhitfield/storefront/internal/session"
	pkghttp "github.com/mwhitfield/storefront/pkg/http"
)

// SessionHandler exposes the session registry over HTTP.
type SessionHandler struct {
	registry session.Registry
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(registry session.Registry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

// MySessions lists the caller's active sessions.
func (h *SessionHandler) MySessions(w http.ResponseWriter, r *http.Request) {
	identity := auth.GetIdentity(r)
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Not authenticated. Please login.")
		return
	}

	sessions := h.registry.ListForAccount(r.Context(), identity.ID)
	pkghttp.WriteJSON(w, http.StatusOK, pkghttp.Envelope{
		"success":  true,
		"sessions": sessions,
	})
}

// Revoke kills the sessions of the account in the URL. Callers may revoke
// their own sessions; admins may revoke anyone's.
func (h *SessionHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	identity := auth.GetIdentity(r)
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Not authenticated. Please login.")
		return
	}

	accountID := chi.URLParam(r, "accountID")
	if accountID == "" {
		pkghttp.WriteBadRequest(w, "Missing account id.")
		return
	}

	if identity.ID != accountID && identity.Role != models.RoleAdmin {
		pkghttp.WriteForbidden(w, "You may only revoke your own sessions.")
		return
	}

	removed := h.registry.InvalidateAll(r.Context(), accountID)
	pkghttp.WriteOK(w, "Sessions revoked.", pkghttp.Envelope{
		"removed": removed,
	})
}

// ActiveSessions lists every live session. Admin only.
func (h *SessionHandler) ActiveSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.registry.ListAll(r.Context())
	pkghttp.WriteJSON(w, http.StatusOK, pkghttp.Envelope{
		"success":  true,
		"count":    len(sessions),
		"sessions": sessions,
	})
}
