package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/mapbuddy/internal/httpserver/deps"
)

type componentStatus struct {
	OK    bool   `json:"ok"`
	Mode  string `json:"mode,omitempty"`
	Error string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Assistant  string                     `json:"assistant"`
	Components map[string]componentStatus `json:"components"`
}

func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		catalogStatus := componentStatus{OK: d.Catalog != nil && d.Catalog.Len() > 0}
		if !catalogStatus.OK {
			catalogStatus.Error = "no events loaded"
		}

		storeStatus := componentStatus{OK: true, Mode: d.StoreMode}
		if d.Slots == nil {
			storeStatus = componentStatus{OK: false, Error: "store not initialized"}
		} else if err := d.Slots.Ping(ctx); err != nil {
			storeStatus.OK = false
			storeStatus.Error = err.Error()
		}

		resp := readyzResponse{
			Ready: catalogStatus.OK && storeStatus.OK,
			Components: map[string]componentStatus{
				"catalog": catalogStatus,
				"store":   storeStatus,
			},
		}

		if d.Manager != nil {
			resp.Assistant = d.Manager.Mode(ctx)
		}

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
