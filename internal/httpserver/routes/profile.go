package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/mapbuddy/internal/httpserver/deps"
	"github.com/MrSnakeDoc/mapbuddy/internal/httpserver/handlers"
)

func init() { Register("profile", registerProfile) }

func registerProfile(r chi.Router, d deps.Deps) {
	r.Get("/api/preferences", handlers.GetPreferences(d))
	r.Put("/api/preferences", handlers.PutPreferences(d))
	r.Delete("/api/preferences", handlers.DeletePreferences(d))

	r.Get("/api/credential", handlers.GetCredential(d))
	r.Put("/api/credential", handlers.PutCredential(d))
	r.Delete("/api/credential", handlers.DeleteCredential(d))
}
