package middleware

import (
	"net/http"

	"github.com/frahmantamala/legal-practice/internal"
	"github.com/frahmantamala/legal-practice/internal/access"
	"github.com/frahmantamala/legal-practice/internal/core/metrics"
	"github.com/frahmantamala/legal-practice/internal/transport"
	"github.com/frahmantamala/legal-practice/pkg/logger"
)

// RequirePermissions lets the request through when the resolved context holds any of the permissions.
func RequirePermissions(permissions ...access.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		h := transport.NewBaseHandler(nil)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := access.FromContext(r.Context())
			if rc == nil {
				h.WriteAppError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeMissingPrincipal))
				return
			}

			if !rc.Permissions.HasAny(permissions...) {
				for _, p := range permissions {
					metrics.PermissionDenialsTotal.WithLabelValues(string(p)).Inc()
				}
				logger.From(r.Context()).WarnContext(r.Context(), "access denied: missing permission",
					"user_id", rc.Actor.UserID,
					"actor", rc.Actor.Kind.String(),
					"required_permissions", permissions,
					"user_permissions", rc.Permissions.Strings())
				h.WriteAppError(w, internal.ErrForbidden())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireTenant rejects actors that do not act inside a company.
func RequireTenant(next http.Handler) http.Handler {
	h := transport.NewBaseHandler(nil)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := access.FromContext(r.Context())
		if rc == nil {
			h.WriteAppError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeMissingPrincipal))
			return
		}
		if !rc.Actor.HasTenant() {
			h.WriteAppError(w, internal.ErrTenantRequired())
			return
		}
		next.ServeHTTP(w, r)
	})
}
