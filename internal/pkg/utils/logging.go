package utils

import (
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"context"
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string); ok {
		return requestID
	}
	return ""
}

// WithRequestID returns a context carrying requestID, used by background
// workers to keep the id of the request that enqueued the job.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, requestID)
}

func GetPrincipal(ctx context.Context) *models.Principal {
	principal, _ := ctx.Value(constvars.CONTEXT_PRINCIPAL_KEY).(*models.Principal)
	return principal
}

func WithPrincipal(ctx context.Context, principal *models.Principal) context.Context {
	return context.WithValue(ctx, constvars.CONTEXT_PRINCIPAL_KEY, principal)
}
