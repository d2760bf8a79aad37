package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/mapbuddy/internal/httpserver/deps"
)

type buildInfo struct {
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

type healthzResponse struct {
	Status   string    `json:"status"`
	Uptime   string    `json:"uptime"`
	Events   int       `json:"events"`
	Sessions int       `json:"sessions"`
	Build    buildInfo `json:"build"`
}

// Healthz is liveness only; it never touches the slot store.
func Healthz(d deps.Deps) http.HandlerFunc {
	build := buildInfo{
		Version:   d.Version,
		Commit:    d.Commit,
		BuildDate: d.BuildDate,
		GoVersion: d.GoVersion,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthzResponse{
			Status: "ok",
			Uptime: time.Since(d.StartTime).Truncate(time.Second).String(),
			Build:  build,
		}
		if d.Catalog != nil {
			resp.Events = d.Catalog.Len()
		}
		if d.Sessions != nil {
			resp.Sessions = d.Sessions.Len()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
