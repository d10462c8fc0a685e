package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"dragons-den/internal/shared/errors"
	"dragons-den/internal/shared/response"
)

const (
	ServiceName = "dragons-den"
	Version     = "1.0.0"
)

type StatusResponse struct {
	Service    string `json:"service"`
	Version    string `json:"version"`
	Status     string `json:"status"`
	Players    int    `json:"players"`
	Ruins      int    `json:"ruins"`
	Uptime     string `json:"uptime"`
	ServerTime string `json:"server_time"`
}

type PlayerCounter interface {
	Count(ctx context.Context) (int, error)
}

type StatusHandler struct {
	players PlayerCounter
	ruins   int
	started time.Time
}

func NewStatusHandler(players PlayerCounter, ruins int, started time.Time) *StatusHandler {
	return &StatusHandler{players: players, ruins: ruins, started: started}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "status", "remote_addr", r.RemoteAddr)

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	count, err := h.players.Count(r.Context())
	if err != nil {
		logger.Warn("Failed to get player count", "error", err)
		count = 0
	}

	now := time.Now()
	response.Success(w, http.StatusOK, StatusResponse{
		Service:    ServiceName,
		Version:    Version,
		Status:     "ok",
		Players:    count,
		Ruins:      h.ruins,
		Uptime:     now.Sub(h.started).Truncate(time.Second).String(),
		ServerTime: now.UTC().Format(time.RFC3339),
	})
}
