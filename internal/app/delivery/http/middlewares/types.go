package middlewares

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/pkg/metrics"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Middlewares struct {
	Log            *zap.Logger
	AuthUsecase    contracts.AuthUsecase
	Enforcer       *casbin.Enforcer
	Metrics        *metrics.Collector
	InternalConfig *config.InternalConfig
}

func NewMiddlewares(logger *zap.Logger, authUsecase contracts.AuthUsecase, enforcer *casbin.Enforcer, collector *metrics.Collector, internalConfig *config.InternalConfig) *Middlewares {
	return &Middlewares{
		Log:            logger,
		AuthUsecase:    authUsecase,
		Enforcer:       enforcer,
		Metrics:        collector,
		InternalConfig: internalConfig,
	}
}
