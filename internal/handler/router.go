package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mapplock/mapplock-web/backend/internal/handler/chat"
	knowledgeHandler "github.com/mapplock/mapplock-web/backend/internal/handler/knowledge"
	"github.com/mapplock/mapplock-web/backend/internal/handler/live"
	"github.com/mapplock/mapplock-web/backend/internal/handler/stream"
	widgetHandler "github.com/mapplock/mapplock-web/backend/internal/handler/widget"
	"github.com/mapplock/mapplock-web/backend/internal/knowledge"
	middlewarePkg "github.com/mapplock/mapplock-web/backend/internal/middleware"
	"github.com/mapplock/mapplock-web/backend/internal/model/widget"
	chatService "github.com/mapplock/mapplock-web/backend/internal/service/chat"
	"github.com/mapplock/mapplock-web/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(widgets widget.Store, chatSvc *chatService.Service, kb *knowledge.Base) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"sessions": chatSvc.Count(),
		})
	})

	r.Route("/api", func(api chi.Router) {
		widgetHandler.New(widgets).RegisterRoutes(api)
		chat.New(chatSvc).RegisterRoutes(api)
		stream.New(chatSvc).RegisterRoutes(api)
		live.New(chatSvc).RegisterRoutes(api)
		knowledgeHandler.New(kb).RegisterRoutes(api)
	})

	return r
}
