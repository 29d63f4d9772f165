package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"noshowblocklist/internal/delivery/http/helpers"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type HealthController struct {
	Logger *slog.Logger
	DB     Pinger
}

// NewHealthController builds a HealthController. db may be nil when no database is configured.
func NewHealthController(logger *slog.Logger, db Pinger) *HealthController {
	return &HealthController{Logger: logger, DB: db}
}

// Health godoc
// @Summary Liveness and database check
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the health status"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{Status: "ok", Database: "disabled"}
	if c.DB != nil {
		if err := c.DB.PingContext(r.Context()); err != nil {
			c.Logger.WarnContext(r.Context(), "database ping failed", "err", err)
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeUnavailable, "database unreachable")
			return
		}
		status.Database = "ok"
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, status)
}
