package handlers

import (
	"log/slog"
	"net/http"

	"dragons-den/internal/auth"
	"dragons-den/internal/middleware"
	"dragons-den/internal/shared/cookies"
	"dragons-den/internal/shared/errors"
	"dragons-den/internal/shared/response"
)

type SessionResponse struct {
	Success bool        `json:"success"`
	Data    SessionData `json:"data"`
}

type SessionData struct {
	User auth.User `json:"user"`
}

type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "auth_session")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("Authentication required"))
		return
	}

	// Browser clients that authenticated with a bearer token keep the
	// session through the cookie from here on.
	if token := middleware.BearerToken(r); token != "" && cookies.TokenFromRequest(r) != token {
		cookies.SetAuthCookie(w, token)
		logger.Debug("Auth cookie issued", "user_id", claims.UserID)
	}

	response.Success(w, http.StatusOK, SessionResponse{
		Success: true,
		Data:    SessionData{User: claims.User()},
	})
}
