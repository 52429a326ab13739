package character

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	charmodel "github.com/casterlin/fable-tavern/backend/internal/model/character"
	"github.com/casterlin/fable-tavern/backend/pkg/utils"
)

// Handler serves read-only character catalog lookups.
type Handler struct {
	store charmodel.Store
}

// New creates the character handler.
func New(store charmodel.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the catalog endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/characters", h.handleList)
	r.Get("/characters/{characterID}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.List())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")

	char, ok := h.store.FindByID(characterID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "character not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, char)
}
