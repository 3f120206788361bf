package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mwhitfield/storefront/internal/models"
	"github.com/mwhitfield/storefront/internal/session"
	pkghttp "github.com/mwhitfield/storefront/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the minimal account view attached to the request context
// once every gate has passed.
type Identity struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AccountFetcher loads the account backing a validated token.
type AccountFetcher interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
}

// Guard is the per-request gate for protected routes: it validates the
// cookie token, cross-checks the session registry, loads the account and
// enforces verification/lockout/suspension before handing the identity to
// downstream handlers.
type Guard struct {
	tm       *TokenManager
	registry session.Registry
	accounts AccountFetcher
	cookies  CookieConfig
	logger   *slog.Logger
}

// NewGuard creates an access guard.
func NewGuard(tm *TokenManager, registry session.Registry, accounts AccountFetcher, cookies CookieConfig, logger *slog.Logger) *Guard {
	return &Guard{
		tm:       tm,
		registry: registry,
		accounts: accounts,
		cookies:  cookies,
		logger:   logger,
	}
}

// Require returns the middleware enforcing the full gate sequence,
// short-circuiting at the first failure.
func (g *Guard) Require() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := GetTokenCookie(r)
			if err != nil || tokenString == "" {
				pkghttp.WriteUnauthorized(w, "Not authenticated. Please login.")
				return
			}

			claims, err := g.tm.ValidateToken(tokenString)
			if err != nil {
				ClearTokenCookie(w, g.cookies)
				reason := FailureReason(err)
				pkghttp.WriteErrorExtra(w, http.StatusUnauthorized, guardFailureMessage(reason), pkghttp.Envelope{
					"error": reason,
				})
				return
			}

			if !g.registry.IsValid(r.Context(), claims.AccountID) {
				ClearTokenCookie(w, g.cookies)
				pkghttp.WriteErrorExtra(w, http.StatusUnauthorized, "Session expired or invalid. Please login again.", pkghttp.Envelope{
					"error": "session_expired",
				})
				return
			}

			account, err := g.accounts.GetByID(r.Context(), claims.AccountID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					g.registry.Remove(r.Context(), claims.AccountID)
					ClearTokenCookie(w, g.cookies)
					pkghttp.WriteUnauthorized(w, "User account not found.")
					return
				}
				g.logger.Error("failed to load account for access check",
					slog.String("account_id", claims.AccountID),
					slog.Any("error", err))
				pkghttp.WriteInternalError(w, "Internal server error")
				return
			}

			// Account exists but is gated: no cookie clear, the login stands.
			if !account.IsVerified {
				pkghttp.WriteErrorExtra(w, http.StatusForbidden, "Please verify your email address to access this resource.", pkghttp.Envelope{
					"requiresVerification": true,
					"email":                account.Email,
				})
				return
			}

			if account.IsLocked(time.Now()) {
				pkghttp.WriteErrorExtra(w, http.StatusLocked, "Account temporarily locked. Try again later.", pkghttp.Envelope{
					"lockedUntil": account.AccountLockedUntil,
				})
				return
			}

			if account.Status == models.StatusSuspended || account.Status == models.StatusBanned {
				pkghttp.WriteForbidden(w, "Your account has been suspended. Contact support.")
				return
			}

			g.registry.Touch(r.Context(), claims.AccountID)

			identity := &Identity{
				ID:         account.ID,
				Name:       account.Name,
				Email:      account.Email,
				Role:       account.Role,
				IsVerified: account.IsVerified,
				CreatedAt:  account.CreatedAt,
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Optional performs the same checks but degrades to an anonymous request
// instead of failing. For routes where auth is advisory.
func (g *Guard) Optional() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := g.resolveIdentity(r)
			if identity == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveIdentity runs the gate sequence without writing to the response.
// Any failure yields nil.
func (g *Guard) resolveIdentity(r *http.Request) *Identity {
	tokenString, err := GetTokenCookie(r)
	if err != nil || tokenString == "" {
		return nil
	}

	claims, err := g.tm.ValidateToken(tokenString)
	if err != nil {
		return nil
	}

	if !g.registry.IsValid(r.Context(), claims.AccountID) {
		return nil
	}

	account, err := g.accounts.GetByID(r.Context(), claims.AccountID)
	if err != nil || !account.IsVerified {
		return nil
	}
	if account.IsLocked(time.Now()) || account.Status != models.StatusActive {
		return nil
	}

	g.registry.Touch(r.Context(), claims.AccountID)

	return &Identity{
		ID:         account.ID,
		Name:       account.Name,
		Email:      account.Email,
		Role:       account.Role,
		IsVerified: account.IsVerified,
		CreatedAt:  account.CreatedAt,
	}
}

// RequireAdmin enforces the admin role. Must run after Require.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := GetIdentity(r)
		if identity == nil {
			pkghttp.WriteUnauthorized(w, "Not authenticated. Please login.")
			return
		}
		if identity.Role != models.RoleAdmin {
			pkghttp.WriteForbidden(w, "Admin access denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetIdentity extracts the authenticated identity from the request context.
// Returns nil for anonymous requests.
func GetIdentity(r *http.Request) *Identity {
	identity, ok := r.Context().Value(identityContextKey).(*Identity)
	if !ok {
		return nil
	}
	return identity
}

func guardFailureMessage(reason string) string {
	switch reason {
	case "token_expired":
		return "Your session has expired. Please login again."
	case "token_not_active":
		return "Token not yet active."
	default:
		return "Invalid authentication token."
	}
}
