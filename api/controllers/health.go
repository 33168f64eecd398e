package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/starconnect/starconnect-backend/api/responses"
	"github.com/starconnect/starconnect-backend/pkg/config"
	pkgerrors "github.com/starconnect/starconnect-backend/pkg/errors"
	"github.com/starconnect/starconnect-backend/pkg/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness only.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-StarConnect-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the backing services are reachable. Any failing
// dependency flips the whole check; the combined error is logged, not leaked.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-StarConnect-Env", cfg.App.Env)

		var errs []error
		status := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				errs = append(errs, err)
				status[name] = "down"
				continue
			}
			status[name] = "up"
		}

		if combined := multierr.Combine(errs...); combined != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "dependencies unavailable"))
			return
		}
		responses.WriteSuccess(w, status)
	}
}
