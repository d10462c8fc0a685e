package server

import (
	"log/slog"
	"net/http"
	"time"

	authHandlers "dragons-den/internal/auth/handlers"
	"dragons-den/internal/gamedata"
	"dragons-den/internal/middleware"
	"dragons-den/internal/player"
	serverHandlers "dragons-den/internal/server/handlers"
	"dragons-den/internal/shared/database"
	"dragons-den/internal/world"
)

type Routes struct {
	db            *database.DB
	playerService *player.Service
	catalog       *gamedata.Catalog
	world         *world.Registry
	started       time.Time
	logger        *slog.Logger
}

func NewRoutes(db *database.DB, playerService *player.Service, catalog *gamedata.Catalog, registry *world.Registry, logger *slog.Logger) *Routes {
	return &Routes{
		db:            db,
		playerService: playerService,
		catalog:       catalog,
		world:         registry,
		started:       time.Now(),
		logger:        logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db)
	statusHandler := serverHandlers.NewStatusHandler(r.playerService, r.world.RuinCount(), r.started)
	sessionHandler := authHandlers.NewSessionHandler()
	logoutHandler := authHandlers.NewLogoutHandler()
	playerHandler := player.NewHandler(r.playerService)
	catalogHandler := gamedata.NewHandler(r.catalog)

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.Handle("/api/status", statusHandler)
	catalogHandler.Register(mux, "/api")

	// Protected endpoints
	mux.Handle("/api/auth/session", middleware.JWTMiddleware(sessionHandler))
	playerHandler.Register(mux, "/api/player", middleware.JWTMiddleware)

	mux.Handle("/api/auth/logout", logoutHandler)

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/status", "/api/constants", "/api/achievements", "/api/treasures", "/api/upgrades", "/api/upgrade-definitions"},
		"protected_endpoints", []string{"/api/player", "/api/auth/session"},
		"auth_endpoints", []string{"/api/auth/logout"},
	)

	return mux
}

// Handler wraps mux in the middleware chain: CORS, then rate limiting.
func Handler(mux http.Handler, cors *middleware.CORSMiddleware, limiter *middleware.RateLimiter) http.Handler {
	var h http.Handler = mux
	if limiter != nil {
		h = limiter.Middleware(h)
	}
	if cors != nil {
		h = cors.Middleware(h)
	}
	return h
}
