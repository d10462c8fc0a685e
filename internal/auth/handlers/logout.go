package handlers

import (
	"log/slog"
	"net/http"

	"dragons-den/internal/shared/cookies"
	"dragons-den/internal/shared/errors"
	"dragons-den/internal/shared/response"
)

type LogoutHandler struct{}

func NewLogoutHandler() *LogoutHandler {
	return &LogoutHandler{}
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "auth_logout", "remote_addr", r.RemoteAddr)

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	cookies.ClearAuthCookie(w)
	logger.Info("User logged out")

	response.Success(w, http.StatusOK, map[string]bool{"success": true})
}
