package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// HealthCheck reports process liveness.
func HealthCheck(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadinessCheck reports whether the gateway can serve traffic: the
// session store must be reachable.
func ReadinessCheck(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Ready(r.Context()); err != nil {
			deps.Logger().Warn("readiness check failed", zap.Error(err))
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"reason": err.Error(),
			})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
