package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/msomdec/finledger/internal/domain"
)

const healthTimeout = 2 * time.Second

// HandleHealthz reports 200 while db answers a ping and 503 otherwise.
func HandleHealthz(db domain.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			slog.Error("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, "database unavailable", map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
	}
}
