package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/mapbuddy/internal/conversation"
	"github.com/MrSnakeDoc/mapbuddy/internal/domain"
	"github.com/MrSnakeDoc/mapbuddy/internal/highlight"
	"github.com/MrSnakeDoc/mapbuddy/internal/httpserver/deps"
	"github.com/MrSnakeDoc/mapbuddy/internal/logger"
	"github.com/MrSnakeDoc/mapbuddy/internal/reasoning"
)

type sessionResponse struct {
	conversation.View
	Mode string `json:"mode"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Message   domain.Message `json:"message"`
	Tokens    []domain.Token `json:"tokens"`
	Plain     string         `json:"plain"`
	Strategy  string         `json:"strategy"`
	Highlight highlight.Set  `json:"highlight"`
	Error     string         `json:"error,omitempty"`
}

func labelOnly(label, _ string) string { return label }

type dateRequest struct {
	Date string `json:"date"`
}

type selectRequest struct {
	ID string `json:"id"`
}

func CreateSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := d.Sessions.Create()
		writeJSON(w, http.StatusCreated, sessionResponse{View: s.View(), Mode: d.Manager.Mode(r.Context())})
	}
}

func GetSession(d deps.Deps) http.HandlerFunc {
	return withSession(d, func(w http.ResponseWriter, r *http.Request, s *conversation.Session) {
		writeJSON(w, http.StatusOK, sessionResponse{View: s.View(), Mode: d.Manager.Mode(r.Context())})
	})
}

func DeleteSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !d.Sessions.Delete(chi.URLParam(r, "id")) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PostMessage runs one conversation turn. A failed turn is still a 200:
// the reply is the error message and Error names its kind.
func PostMessage(d deps.Deps) http.HandlerFunc {
	return withSession(d, func(w http.ResponseWriter, r *http.Request, s *conversation.Session) {
		var req messageRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}

		out, err := s.Submit(r.Context(), req.Text)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		resp := messageResponse{
			Message:   out.Message,
			Tokens:    domain.Tokenize(out.Message.Text),
			Plain:     domain.Render(out.Message.Text, labelOnly),
			Strategy:  out.Strategy,
			Highlight: out.Highlight,
		}
		if out.Err != nil {
			resp.Error = reasoning.KindLabel(out.Err)
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

func ResetSession(d deps.Deps) http.HandlerFunc {
	return withSession(d, func(w http.ResponseWriter, r *http.Request, s *conversation.Session) {
		if err := s.Reset(); err != nil {
			writeSessionError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func SetDate(d deps.Deps) http.HandlerFunc {
	return withSession(d, func(w http.ResponseWriter, r *http.Request, s *conversation.Session) {
		var req dateRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}
		day, err := parseDate(d, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		if err := s.SetDate(day); err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{View: s.View(), Mode: d.Manager.Mode(r.Context())})
	})
}

func SelectEvent(d deps.Deps) http.HandlerFunc {
	return withSession(d, func(w http.ResponseWriter, r *http.Request, s *conversation.Session) {
		var req selectRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}
		set, err := s.Select(req.ID)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, set)
	})
}

func GetHighlight(d deps.Deps) http.HandlerFunc {
	return withSession(d, func(w http.ResponseWriter, r *http.Request, s *conversation.Session) {
		writeJSON(w, http.StatusOK, s.Highlight())
	})
}

func ClearHighlight(d deps.Deps) http.HandlerFunc {
	return withSession(d, func(w http.ResponseWriter, r *http.Request, s *conversation.Session) {
		s.ClearHighlight()
		w.WriteHeader(http.StatusNoContent)
	})
}

func withSession(d deps.Deps, h func(http.ResponseWriter, *http.Request, *conversation.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s, ok := d.Sessions.Get(id)
		if !ok {
			d.Logger.Debug("unknown session", logger.String("session", id))
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h(w, r, s)
	}
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, conversation.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, conversation.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, conversation.ErrUnknownEvent):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, conversation.ErrClosed):
		writeError(w, http.StatusGone, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
