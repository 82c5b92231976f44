package middlewares

import (
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/utils"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit limits every client IP to App.MaxRequests per second.
func (m *Middlewares) RateLimit() func(next http.Handler) http.Handler {
	return httprate.Limit(
		m.InternalConfig.App.MaxRequests,
		time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTooManyRequests(nil))
		}),
	)
}

// LimitBody caps the request body at App.RequestBodyLimitInMegabyte.
func (m *Middlewares) LimitBody(next http.Handler) http.Handler {
	limit := int64(m.InternalConfig.App.RequestBodyLimitInMegabyte) << 20
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limit > 0 && r.Body != nil {
			if r.ContentLength > limit {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrRequestBodyTooLarge(nil))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}
