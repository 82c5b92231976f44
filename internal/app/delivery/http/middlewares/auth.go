package middlewares

import (
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/utils"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// bearerToken returns the access token of the request. The access cookie is
// copied into the Authorization header first so handlers see a single source.
func bearerToken(r *http.Request) string {
	if cookie, err := r.Cookie(constvars.CookieAccess); err == nil && cookie.Value != "" {
		r.Header.Set(constvars.HeaderAuthorization, constvars.AuthorizationBearerPrefix+cookie.Value)
	}

	authHeader := r.Header.Get(constvars.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, constvars.AuthorizationBearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, constvars.AuthorizationBearerPrefix))
}

// Authenticate resolves the principal from the access token unless
// APIKeyAuth already did.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if utils.GetPrincipal(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		principal, err := m.AuthUsecase.Authenticate(ctx, token)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrServerDeadlineExceeded(err))
				return
			}
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithPrincipal(r.Context(), principal)))
	})
}

// OptionalAuthenticate resolves the principal when a valid token is present
// and otherwise passes the request through anonymously.
func (m *Middlewares) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		principal, err := m.AuthUsecase.Authenticate(ctx, token)
		if err != nil {
			m.Log.Debug("Middlewares.OptionalAuthenticate ignoring invalid token",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(r.Context())),
				zap.Error(err),
			)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithPrincipal(r.Context(), principal)))
	})
}

// Authorize checks the principal's role against the casbin policy for the
// request method and path. It must run after Authenticate.
func (m *Middlewares) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := utils.GetPrincipal(r.Context())
		if principal == nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		role := principal.Role()
		ok, err := m.Enforcer.Enforce(role, r.Method, r.URL.Path)
		if err != nil {
			m.Log.Error("Middlewares.Authorize enforcer error",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(r.Context())),
				zap.String(constvars.LoggingUserTypeKey, role),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrPermissionDenied(err))
			return
		}
		if !ok {
			m.Log.Warn("Middlewares.Authorize permission denied",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(r.Context())),
				zap.String(constvars.LoggingUserTypeKey, role),
				zap.String(constvars.LoggingMethodKey, r.Method),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrPermissionDenied(nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}
