package controllers

import (
	"net/http"

	"go.uber.org/multierr"

	"github.com/buildforge/buildforge-backend/api/responses"
	"github.com/buildforge/buildforge-backend/pkg/config"
	"github.com/buildforge/buildforge-backend/pkg/db"
	pkgerrors "github.com/buildforge/buildforge-backend/pkg/errors"
	"github.com/buildforge/buildforge-backend/pkg/logger"
	"github.com/buildforge/buildforge-backend/pkg/redis"
)

const envHeader = "X-BuildForge-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores and reports 503 when any is down.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		var errs error
		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				errs = multierr.Append(errs, err)
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				errs = multierr.Append(errs, err)
			}
		}

		if errs != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "readiness check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
