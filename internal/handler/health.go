package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const healthPingTimeout = 2 * time.Second

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}

// Health handles GET /api/health. It always answers 200; store connectivity
// is reported in the database field.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	database := "connected"
	if err := h.db.Ping(ctx); err != nil {
		slog.Warn("health check: store ping failed", "error", err)
		database = "disconnected"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "Server is running",
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
		Database:  database,
	})
}
