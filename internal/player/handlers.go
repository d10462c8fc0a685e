package player

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"dragons-den/internal/middleware"
	"dragons-den/internal/shared/errors"
	"dragons-den/internal/shared/response"
)

// Handler serves the authenticated /player routes. The player id is the
// token's user id.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func playerID(r *http.Request) (string, error) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil || claims.UserID == "" {
		return "", errors.Unauthorized("Authentication required")
	}
	return claims.UserID, nil
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_player")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id, err := playerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	snapshot, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, snapshot)
}

// action adapts a body-less POST action to a handler.
func (h *Handler) action(name string, fn func(ctx context.Context, playerID string) (ActionResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With("handler", name)

		if r.Method != http.MethodPost {
			response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
			return
		}

		id, err := playerID(r)
		if err != nil {
			response.Error(w, r, logger, err)
			return
		}

		result, err := fn(r.Context(), id)
		if err != nil {
			response.Error(w, r, logger, err)
			return
		}

		response.Success(w, http.StatusOK, result)
	}
}

func (h *Handler) CollectGold(w http.ResponseWriter, r *http.Request) {
	h.action("collect_gold", h.service.CollectGold)(w, r)
}

func (h *Handler) HireGoblin(w http.ResponseWriter, r *http.Request) {
	h.action("hire_goblin", h.service.HireGoblin)(w, r)
}

func (h *Handler) SendMinions(w http.ResponseWriter, r *http.Request) {
	h.action("send_minions", h.service.SendMinions)(w, r)
}

func (h *Handler) Prestige(w http.ResponseWriter, r *http.Request) {
	h.action("prestige", h.service.Prestige)(w, r)
}

func (h *Handler) ExploreRuins(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "explore_ruins")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id, err := playerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var req ExploreRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	result, err := h.service.ExploreRuins(r.Context(), id, req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

// Register mounts the player routes under prefix, each wrapped by auth.
func (h *Handler) Register(mux *http.ServeMux, prefix string, auth func(http.Handler) http.Handler) {
	mux.Handle(prefix, auth(http.HandlerFunc(h.GetPlayer)))
	mux.Handle(prefix+"/collect-gold", auth(http.HandlerFunc(h.CollectGold)))
	mux.Handle(prefix+"/hire-goblin", auth(http.HandlerFunc(h.HireGoblin)))
	mux.Handle(prefix+"/send-minions", auth(http.HandlerFunc(h.SendMinions)))
	mux.Handle(prefix+"/explore-ruins", auth(http.HandlerFunc(h.ExploreRuins)))
	mux.Handle(prefix+"/prestige", auth(http.HandlerFunc(h.Prestige)))
}
