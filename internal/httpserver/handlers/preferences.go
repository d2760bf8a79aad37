package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/mapbuddy/internal/domain"
	"github.com/MrSnakeDoc/mapbuddy/internal/httpserver/deps"
	"github.com/MrSnakeDoc/mapbuddy/internal/logger"
	"github.com/MrSnakeDoc/mapbuddy/internal/profile"
)

func GetPreferences(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := d.Preferences.Load(r.Context())
		switch {
		case errors.Is(err, profile.ErrMalformed):
			d.Logger.Warn("stored preferences unreadable", logger.Error(err))
			writeError(w, http.StatusNotFound, "no preferences saved")
			return
		case err != nil:
			d.Logger.Error("failed to load preferences", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		case p == nil:
			writeError(w, http.StatusNotFound, "no preferences saved")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func PutPreferences(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p domain.UserPreferences
		if err := decode(r, &p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}

		err := d.Preferences.Save(r.Context(), &p)
		var verr validator.ValidationErrors
		switch {
		case errors.As(err, &verr):
			fields := make([]string, 0, len(verr))
			for _, fe := range verr {
				fields = append(fields, fe.Field())
			}
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid preferences", Fields: fields})
			return
		case err != nil:
			d.Logger.Error("failed to save preferences", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, p.Normalize())
	}
}

func DeletePreferences(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Preferences.Clear(r.Context()); err != nil {
			d.Logger.Error("failed to clear preferences", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
