package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/mapbuddy/internal/calendar"
	"github.com/MrSnakeDoc/mapbuddy/internal/catalog"
	"github.com/MrSnakeDoc/mapbuddy/internal/domain"
	"github.com/MrSnakeDoc/mapbuddy/internal/httpserver/deps"
)

type eventsResponse struct {
	Date   string          `json:"date"`
	Query  string          `json:"query,omitempty"`
	Count  int             `json:"count"`
	Events []*domain.Event `json:"events"`
}

// ListEvents returns the events visible on ?date, optionally searched
// with ?q and restricted with ?kind. ?sort=relevance ranks the matches
// by word instead of a plain substring match in catalog order.
func ListEvents(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		day, err := parseDate(d, params.Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}

		var kinds []domain.Kind
		if raw := params.Get("kind"); raw != "" {
			k, ok := domain.ParseKind(raw)
			if !ok {
				writeError(w, http.StatusBadRequest, "unknown kind "+raw)
				return
			}
			kinds = append(kinds, k)
		}

		q := params.Get("q")
		visible := d.Catalog.Visible(day, d.Now())
		var events []*domain.Event
		switch params.Get("sort") {
		case "":
			events = catalog.Search(visible, q, kinds...)
		case "relevance":
			events = catalog.Rank(visible, q, kinds...)
		default:
			writeError(w, http.StatusBadRequest, "sort must be relevance")
			return
		}
		writeJSON(w, http.StatusOK, eventsResponse{
			Date:   day.Format(time.DateOnly),
			Query:  q,
			Count:  len(events),
			Events: events,
		})
	}
}

func GetEvent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := d.Catalog.Get(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// ExportEvents serves the events visible on ?date as text/calendar.
func ExportEvents(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := parseDate(d, r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}

		now := d.Now()
		body := calendar.Export(d.Catalog.Visible(day, now), day, now)

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="mapbuddy-`+day.Format(time.DateOnly)+`.ics"`)
		_, _ = w.Write([]byte(body))
	}
}
