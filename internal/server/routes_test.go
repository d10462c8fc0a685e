package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"dragons-den/internal/auth"
	"dragons-den/internal/gamedata"
	"dragons-den/internal/middleware"
	"dragons-den/internal/player"
	serverHandlers "dragons-den/internal/server/handlers"
	"dragons-den/internal/shared/config"
	"dragons-den/internal/shared/database"
	"dragons-den/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) http.Handler {
	t.Helper()
	prev := config.GlobalConfig
	config.GlobalConfig = &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "0123456789abcdef0123456789abcdef",
			TokenExpiration: time.Hour,
		},
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(t.TempDir(), "den.sqlite"),
		},
		Frontend:  config.FrontendConfig{URL: "http://localhost:3000"},
		RateLimit: config.RateLimitConfig{Enabled: true, RequestsPerSecond: 100, BurstSize: 100},
	}
	t.Cleanup(func() { config.GlobalConfig = prev })

	db, err := database.Open(config.GlobalConfig)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(context.Background()))

	catalog, err := gamedata.Load("")
	require.NoError(t, err)
	registry := world.Generate(world.DefaultConfig("routes-test"))

	svc := player.NewService(player.NewRepository(db, slog.Default()), player.Options{
		Catalog: catalog,
		World:   registry,
	}, slog.Default())

	limiter := middleware.NewRateLimiter(config.GlobalConfig.RateLimit)
	t.Cleanup(limiter.Close)

	mux := NewRoutes(db, svc, catalog, registry, slog.Default()).Setup()
	return Handler(mux, middleware.NewCORS(config.GlobalConfig.Frontend), limiter)
}

func bearer(t *testing.T, req *http.Request, id string) {
	t.Helper()
	token, err := auth.GenerateJWT(auth.User{ID: id, Username: id})
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
}

func TestHealthReportsDatabase(t *testing.T) {
	h := setup(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/server/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body serverHandlers.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "connected", body.Database)
}

func TestPlayerRoutesRequireToken(t *testing.T) {
	h := setup(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/player", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatusCountsPlayers(t *testing.T) {
	h := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/api/player/collect-gold", nil)
	bearer(t, req, "keeper-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body serverHandlers.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, serverHandlers.ServiceName, body.Service)
	assert.Equal(t, 1, body.Players)
	assert.Positive(t, body.Ruins)
}

func TestSessionEchoesClaims(t *testing.T) {
	h := setup(t)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	bearer(t, req, "keeper-2")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "keeper-2")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookieReq := httptest.NewRequest(http.MethodGet, "/api/player", nil)
	cookieReq.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, cookieReq)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCatalogIsPublic(t *testing.T) {
	h := setup(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/treasures", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
