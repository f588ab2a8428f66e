package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	cartHandler "github.com/veronavoice/concierge/backend/internal/handler/cart"
	catalogHandler "github.com/veronavoice/concierge/backend/internal/handler/catalog"
	sessionHandler "github.com/veronavoice/concierge/backend/internal/handler/session"
	middlewarePkg "github.com/veronavoice/concierge/backend/internal/middleware"
	catalogModel "github.com/veronavoice/concierge/backend/internal/model/catalog"
	cartService "github.com/veronavoice/concierge/backend/internal/service/cart"
	"github.com/veronavoice/concierge/backend/internal/service/orchestrator"
	"github.com/veronavoice/concierge/backend/internal/service/speech"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(
	store *catalogModel.Store,
	cartSvc *cartService.Service,
	orch *orchestrator.Orchestrator,
	input *speech.Input,
	output *speech.Output,
	notifier *orchestrator.Notifier,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	r.Route("/api", func(api chi.Router) {
		catalogHandler.New(store).RegisterRoutes(api)
		cartHandler.New(cartSvc).RegisterRoutes(api)
		sessionHandler.New(orch, input, output, notifier).RegisterRoutes(api)
	})

	return r
}
