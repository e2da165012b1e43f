package routes

import (
	"github.com/Nikachu96/Ready-2-Dink-sub000/handlers"
	"github.com/Nikachu96/Ready-2-Dink-sub000/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Tournament *handlers.TournamentHandler
	Match      *handlers.MatchHandler
	Admin      *handlers.AdminHandler
	WebSocket  *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, auth *middleware.Authenticator) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/{id}/bracket", h.Tournament.GetBracket)
		r.Get("/{id}/matches", h.Match.ListByTournament)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireRole("admin"))

			r.Post("/{id}/bracket", h.Tournament.GenerateBracket)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Post("/{id}/result", h.Match.SubmitResult)
		r.Post("/{id}/scoresheet", h.Match.UploadScoreSheet)
	})

	router.Route("/admin/matches", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.RequireRole("admin"))

		r.Post("/{id}/complete", h.Admin.CompleteMatch)
	})

	router.Get("/ws/tournaments/{id}", h.WebSocket.TournamentFeed)

	return router
}
