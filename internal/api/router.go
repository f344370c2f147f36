package api

import (
	"net/http"

	"github.com/dom/battle-arena/internal/api/handlers"
	"github.com/dom/battle-arena/internal/api/middleware"
	"github.com/dom/battle-arena/internal/service"
	"github.com/dom/battle-arena/internal/ws"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterOptions carries the optional pieces of the HTTP surface.
type RouterOptions struct {
	// ArtifactDir, when set, is served under /artifacts/ (disk storage only).
	ArtifactDir string
}

func NewRouter(services *service.Services, hub *ws.Hub, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	roomHandler := handlers.NewRoomHandler(services.Room, services.Status)
	playerHandler := handlers.NewPlayerHandler(services.Claim, services.Character, hub)
	battleHandler := handlers.NewBattleHandler(services.Battle, hub)
	galleryHandler := handlers.NewGalleryHandler(services.Gallery)
	wsHandler := handlers.NewWSHandler(services.Room, hub)

	r.Route("/rooms", func(r chi.Router) {
		r.Post("/create", roomHandler.Create)
		r.Post("/join", roomHandler.Join)

		r.Route("/{code}", func(r chi.Router) {
			r.Post("/claim", playerHandler.Claim)
			r.Post("/submit", playerHandler.Submit)
			r.Post("/edit", playerHandler.Edit)
			r.Post("/battle", battleHandler.Start)
			r.Post("/status", roomHandler.Status)
			r.Get("/ws", wsHandler.Subscribe)
		})
	})

	r.Get("/gallery", galleryHandler.List)

	if opts.ArtifactDir != "" {
		fileServer := http.StripPrefix("/artifacts/", http.FileServer(http.Dir(opts.ArtifactDir)))
		r.Get("/artifacts/*", fileServer.ServeHTTP)
	}

	return r
}
