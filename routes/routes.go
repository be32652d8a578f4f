package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/arenadraw/bracket-engine/handlers"
)

// SetupRoutes mounts the full HTTP surface of the engine.
func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	tournamentHandler *handlers.TournamentHandler,
	bracketHandler *handlers.BracketHandler,
	matchHandler *handlers.MatchHandler,
	awardHandler *handlers.AwardHandler,
	formatHandler *handlers.FormatHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/formats", func(r chi.Router) {
		r.Post("/", formatHandler.CreateHandler)
		r.Get("/", formatHandler.ListHandler)
		r.Get("/{formatID}", formatHandler.GetByIDHandler)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Post("/", tournamentHandler.CreateHandler)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetByIDHandler)
			r.Post("/logo", tournamentHandler.UploadLogoHandler)

			r.Post("/bracket", bracketHandler.GenerateHandler)
			r.Post("/lock", bracketHandler.LockHandler)

			r.Get("/matches", matchHandler.ListByTournamentHandler)
			r.Get("/standings", tournamentHandler.StandingsHandler)
			r.Get("/champions", tournamentHandler.ChampionsHandler)

			r.Post("/events", tournamentHandler.CreateEventHandler)
			r.Get("/events", tournamentHandler.ListEventsHandler)
		})
	})

	router.Route("/matches/{matchID}", func(r chi.Router) {
		r.Get("/", matchHandler.GetByIDHandler)
		r.Post("/result", matchHandler.SubmitResultHandler)
	})

	router.Route("/events/{eventID}", func(r chi.Router) {
		r.Put("/medals", awardHandler.AssignMedalsHandler)
		r.Get("/medals", awardHandler.GetMedalsHandler)
		r.Put("/points", awardHandler.AssignPointsHandler)
		r.Get("/points", awardHandler.GetPointsHandler)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
