// Package health exposes a liveness/readiness probe backed by a store ping.
package health

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/course-registration-api/internal/utils/response"
)

// Pinger is satisfied by every storage backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

const pingTimeout = 2 * time.Second

// New handles GET /health. It answers 200 {"status":"ok"} when the store
// responds, 503 otherwise.
func New(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			slog.WarnContext(r.Context(), "health check failed", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusServiceUnavailable,
				response.GeneralError(errors.New("storage unavailable")))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.Response{Status: response.StatusOK})
	}
}
