package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/mapbuddy/internal/httpserver/deps"
	"github.com/MrSnakeDoc/mapbuddy/internal/httpserver/handlers"
)

func init() { Register("events", registerEvents) }

func registerEvents(r chi.Router, d deps.Deps) {
	r.Get("/api/events", handlers.ListEvents(d))
	r.Get("/api/events.ics", handlers.ExportEvents(d))
	r.Get("/api/events/{id}", handlers.GetEvent(d))
}
