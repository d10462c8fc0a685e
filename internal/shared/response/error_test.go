package response

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"dragons-den/internal/shared/config"
	"dragons-den/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorRejectedIs400WithSuccessFalse(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/player/hire-goblin", nil)

	Error(rec, req, slog.Default(), errors.Rejected("Not enough gold to hire goblin"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "Not enough gold to hire goblin", body.Error)
	assert.Equal(t, "rejected", body.ErrorType)
}

func TestErrorUnauthorizedCarriesLoginURL(t *testing.T) {
	prev := config.GlobalConfig
	config.GlobalConfig = &config.Config{Auth: config.AuthConfig{LoginURL: "https://hatchery.example/login"}}
	t.Cleanup(func() { config.GlobalConfig = prev })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/player", nil)

	Error(rec, req, slog.Default(), errors.Unauthorized("Authentication required"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Authentication required", body.Error)
	assert.Equal(t, "https://hatchery.example/login", body.LoginURL)
}

func TestErrorInternalHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/player", nil)

	Error(rec, req, slog.Default(), fmt.Errorf("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode(t, rec).Error)
}
