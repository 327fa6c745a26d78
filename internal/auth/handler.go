package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/legal-practice/internal"
	"github.com/frahmantamala/legal-practice/internal/access"
	"github.com/frahmantamala/legal-practice/internal/core/common/validation"
	"github.com/frahmantamala/legal-practice/internal/transport"
	"github.com/frahmantamala/legal-practice/pkg/logger"
)

// ContextResolver builds the per-request authorization snapshot.
type ContextResolver interface {
	Resolve(ctx context.Context, s *access.Subject) (*access.RequestContext, error)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Resolver ContextResolver
}

func NewHandler(svc ServiceAPI, resolver ContextResolver) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
		Resolver:    resolver,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	if appErr := validation.ValidateStruct(dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteAppError(w, internal.NewUnauthorizedError("missing authorization token", internal.ErrCodeMissingPrincipal))
		return
	}

	var dto LogoutDTO
	if r.ContentLength > 0 {
		if appErr := h.DecodeJSON(r, &dto); appErr != nil {
			h.WriteAppError(w, appErr)
			return
		}
	}

	if err := h.Service.Logout(r.Context(), token, dto.RefreshToken); err != nil {
		h.HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware authenticates the bearer token, reloads the user and resolves its roles,
// permissions and company ids once for the rest of the request.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, internal.NewUnauthorizedError("missing authorization token", internal.ErrCodeMissingPrincipal))
			return
		}

		claims, err := h.Service.ValidateAccessToken(ctx, token)
		if err != nil {
			logger.From(ctx).InfoContext(ctx, "auth middleware: token rejected", "error", err)
			h.HandleError(w, err)
			return
		}

		subject, err := h.Service.LoadSubject(ctx, claims.UserID)
		if err != nil {
			h.HandleError(w, err)
			return
		}
		if !subject.IsActive() {
			h.WriteAppError(w, internal.ErrUserInactive)
			return
		}

		rc, err := h.Resolver.Resolve(ctx, subject)
		if err != nil {
			h.WriteAppError(w, internal.NewInternalError("failed to resolve permissions", err))
			return
		}

		ctx = logger.With(ctx, "user_id", subject.ID, "actor", rc.Actor.Kind.String())
		ctx = access.WithRequestContext(ctx, rc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
