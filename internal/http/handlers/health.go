package handlers

import (
	"context"
	"net/http"
	"time"
)

// Health reports liveness plus database reachability so load balancers can
// pull an instance whose pool has gone away.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "database": "ok"}
	if a.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			a.Logger.Warn().Err(err).Msg("health: database unreachable")
			resp["status"] = "degraded"
			resp["database"] = "unreachable"
			a.json(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	a.json(w, http.StatusOK, resp)
}
