package controllers

import (
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/dto/responses"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/utils"
	"context"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"
)

// HealthCheck pings one backing service.
type HealthCheck func(ctx context.Context) error

type HealthController struct {
	Log    *zap.Logger
	Checks map[string]HealthCheck
}

func NewHealthController(logger *zap.Logger, checks map[string]HealthCheck) *HealthController {
	return &HealthController{
		Log:    logger,
		Checks: checks,
	}
}

func (ctrl *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(ctrl.Checks))
	for name := range ctrl.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctrl.Checks[name](ctx); err != nil {
			ctrl.Log.Warn("HealthController.Healthz dependency unavailable",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(r.Context())),
				zap.String("dependency", name),
				zap.Error(err),
			)
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrDependencyUnavailable(err, name))
			return
		}
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.HealthCheckSuccessMessage, responses.HealthCheck{Status: constvars.HealthCheckSuccessMessage})
}
