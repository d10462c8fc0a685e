package gamedata

import (
	"log/slog"
	"net/http"

	"dragons-den/internal/shared/errors"
	"dragons-den/internal/shared/response"
)

type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// Handler serves the read-only catalog. Every route is public.
type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, name string, fn func() (any, error)) {
	logger := slog.With("handler", name)

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	data, err := fn()
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, DataResponse{Success: true, Data: data})
}

func (h *Handler) Constants(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "constants", func() (any, error) {
		return h.catalog.Constants, nil
	})
}

func (h *Handler) Constant(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "constant", func() (any, error) {
		key := r.PathValue("key")
		if key == "" {
			return nil, errors.Validation("constant key is required")
		}
		v, ok := h.catalog.Constant(key)
		if !ok {
			return nil, errors.NotFoundf("constant %s not found", key)
		}
		return map[string]any{"key": key, "value": v}, nil
	})
}

func (h *Handler) Achievements(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "achievements", func() (any, error) {
		return h.catalog.Achievements, nil
	})
}

func (h *Handler) Achievement(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "achievement", func() (any, error) {
		id := r.PathValue("id")
		a, ok := h.catalog.Achievement(id)
		if !ok {
			return nil, errors.NotFoundf("achievement %s not found", id)
		}
		return a, nil
	})
}

func (h *Handler) Treasures(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "treasures", func() (any, error) {
		return h.catalog.Treasures, nil
	})
}

func (h *Handler) Treasure(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "treasure", func() (any, error) {
		id := r.PathValue("id")
		t, ok := h.catalog.Treasure(id)
		if !ok {
			return nil, errors.NotFoundf("treasure %s not found", id)
		}
		return t, nil
	})
}

func (h *Handler) Upgrades(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "upgrades", func() (any, error) {
		return h.catalog.Upgrades, nil
	})
}

func (h *Handler) Upgrade(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "upgrade", func() (any, error) {
		id := r.PathValue("id")
		u, ok := h.catalog.Upgrade(id)
		if !ok {
			return nil, errors.NotFoundf("upgrade %s not found", id)
		}
		return u, nil
	})
}

func (h *Handler) UpgradeDefinitions(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "upgrade_definitions", func() (any, error) {
		return h.catalog.UpgradeDefinitions, nil
	})
}

func (h *Handler) UpgradeDefinition(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "upgrade_definition", func() (any, error) {
		id := r.PathValue("id")
		u, ok := h.catalog.UpgradeDefinition(id)
		if !ok {
			return nil, errors.NotFoundf("upgrade definition %s not found", id)
		}
		return u, nil
	})
}

// Register mounts every catalog route under prefix.
func (h *Handler) Register(mux *http.ServeMux, prefix string) {
	mux.HandleFunc(prefix+"/constants", h.Constants)
	mux.HandleFunc(prefix+"/constants/{key}", h.Constant)
	mux.HandleFunc(prefix+"/achievements", h.Achievements)
	mux.HandleFunc(prefix+"/achievements/{id}", h.Achievement)
	mux.HandleFunc(prefix+"/treasures", h.Treasures)
	mux.HandleFunc(prefix+"/treasures/{id}", h.Treasure)
	mux.HandleFunc(prefix+"/upgrades", h.Upgrades)
	mux.HandleFunc(prefix+"/upgrades/{id}", h.Upgrade)
	mux.HandleFunc(prefix+"/upgrade-definitions", h.UpgradeDefinitions)
	mux.HandleFunc(prefix+"/upgrade-definitions/{id}", h.UpgradeDefinition)
}
