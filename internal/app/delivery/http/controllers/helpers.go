package controllers

import (
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/utils"
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultRequestTimeout = 10 * time.Second

// handlerScope carries what every handler reads from the request context.
type handlerScope struct {
	requestID string
	principal *models.Principal
}

// scopeOf reads the request id and, when required, the authenticated
// principal. It writes the error response itself and returns ok=false.
func scopeOf(log *zap.Logger, w http.ResponseWriter, r *http.Request, handler string, requirePrincipal bool) (handlerScope, bool) {
	requestID := utils.GetRequestID(r.Context())
	if requestID == "" {
		log.Error(handler + " requestID not found in context")
		utils.BuildErrorResponse(log, w, exceptions.ErrMissingRequestID(nil))
		return handlerScope{}, false
	}
	log.Info(handler+" called", zap.String(constvars.LoggingRequestIDKey, requestID))

	principal := utils.GetPrincipal(r.Context())
	if requirePrincipal && principal == nil {
		log.Error(handler+" principal not found in context", zap.String(constvars.LoggingRequestIDKey, requestID))
		utils.BuildErrorResponse(log, w, exceptions.ErrTokenMissing(nil))
		return handlerScope{}, false
	}
	return handlerScope{requestID: requestID, principal: principal}, true
}

func usecaseError(log *zap.Logger, w http.ResponseWriter, handler, requestID string, err error) {
	log.Error(handler+" error from usecase",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(err),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}

func requestTimeout(seconds int) time.Duration {
	if seconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(seconds) * time.Second
}
