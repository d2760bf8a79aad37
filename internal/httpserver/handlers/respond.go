package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/mapbuddy/internal/httpserver/deps"
)

const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decode reads a JSON body into v, refusing unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parseDate reads YYYY-MM-DD in the service calendar. Empty means today.
func parseDate(d deps.Deps, raw string) (time.Time, error) {
	now := d.Now()
	if raw == "" {
		return now, nil
	}
	day, err := time.ParseInLocation(time.DateOnly, raw, now.Location())
	if err != nil {
		return time.Time{}, err
	}
	return day, nil
}
