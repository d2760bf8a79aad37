package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/mapbuddy/internal/httpserver/deps"
	"github.com/MrSnakeDoc/mapbuddy/internal/httpserver/handlers"
)

func init() { Register("sessions", registerSessions) }

func registerSessions(r chi.Router, d deps.Deps) {
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", handlers.CreateSession(d))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.GetSession(d))
			r.Delete("/", handlers.DeleteSession(d))
			r.Post("/messages", handlers.PostMessage(d))
			r.Post("/reset", handlers.ResetSession(d))
			r.Put("/date", handlers.SetDate(d))
			r.Post("/select", handlers.SelectEvent(d))
			r.Get("/highlight", handlers.GetHighlight(d))
			r.Delete("/highlight", handlers.ClearHighlight(d))
		})
	})
}
