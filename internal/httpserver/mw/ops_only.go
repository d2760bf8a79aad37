package mw

import (
	"net/http"
	"sync/atomic"

	"github.com/MrSnakeDoc/mapbuddy/internal/logger"
	"github.com/MrSnakeDoc/mapbuddy/internal/utils"
)

// OpsOnly restricts readiness and metrics to the given addresses or CIDRs.
// An empty list leaves the routes open.
func OpsOnly(cidrs []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(cidrs)
	if m.IsEmpty() {
		return func(next http.Handler) http.Handler { return next }
	}

	var rejected atomic.Int64
	log.Debug("ops allow list active", logger.Int("rules", len(cidrs)), logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if m.Allow(ip) {
				next.ServeHTTP(w, r)
				return
			}
			log.Debug("ops request rejected",
				logger.String("ip", ip),
				logger.String("path", r.URL.Path),
				logger.Int64("rejected_total", rejected.Add(1)),
			)
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}
