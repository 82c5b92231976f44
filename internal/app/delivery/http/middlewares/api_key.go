package middlewares

import (
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/utils"
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"
)

// APIKeyAuth authenticates internal callers that send X-API-Key as the
// service principal. Requests without the header fall through to token
// authentication. An empty configured key rejects every API key.
func (m *Middlewares) APIKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(constvars.HeaderAPIKey)
		if apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		requestID := utils.GetRequestID(r.Context())
		expected := m.InternalConfig.App.ServiceAPIKey
		if expected == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			m.Log.Warn("Middlewares.APIKeyAuth invalid api key",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		m.Log.Info("Middlewares.APIKeyAuth service authenticated",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
			zap.String(constvars.LoggingMethodKey, r.Method),
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingUserAgentKey, r.UserAgent()),
		)
		next.ServeHTTP(w, r.WithContext(utils.WithPrincipal(r.Context(), models.ServicePrincipal())))
	})
}
