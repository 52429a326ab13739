package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	characterHandler "github.com/casterlin/fable-tavern/backend/internal/handler/character"
	chatHandler "github.com/casterlin/fable-tavern/backend/internal/handler/chat"
	voiceHandler "github.com/casterlin/fable-tavern/backend/internal/handler/voice"
	wsHandler "github.com/casterlin/fable-tavern/backend/internal/handler/ws"
	"github.com/casterlin/fable-tavern/backend/internal/middleware"
	charmodel "github.com/casterlin/fable-tavern/backend/internal/model/character"
	chatservice "github.com/casterlin/fable-tavern/backend/internal/service/chat"
	"github.com/casterlin/fable-tavern/backend/internal/service/speech"
	"github.com/casterlin/fable-tavern/backend/pkg/utils"
)

// Status reports which optional collaborators are live.
type Status struct {
	BackendConfigured     bool
	TranscriberConfigured bool
	StoreDriver           string
}

// NewRouter wires HTTP routes to the services.
func NewRouter(characters charmodel.Store, chatSvc *chatservice.Service, transcriber speech.Transcriber, status Status) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	r.Route("/api", func(api chi.Router) {
		characterHandler.New(characters).RegisterRoutes(api)
		chatHandler.New(chatSvc, characters).RegisterRoutes(api)
		voiceHandler.New(transcriber, chatSvc).RegisterRoutes(api)
		wsHandler.New(chatSvc).RegisterRoutes(api)

		api.Get("/system/status", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]any{
				"backend": map[string]any{
					"configured": status.BackendConfigured,
				},
				"speech": map[string]any{
					"configured": status.TranscriberConfigured,
				},
				"store": map[string]any{
					"driver": status.StoreDriver,
				},
				"characters": len(characters.List()),
			})
		})
	})

	return r
}
