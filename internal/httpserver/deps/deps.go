package deps

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/mapbuddy/internal/catalog"
	"github.com/MrSnakeDoc/mapbuddy/internal/conversation"
	"github.com/MrSnakeDoc/mapbuddy/internal/logger"
	"github.com/MrSnakeDoc/mapbuddy/internal/profile"
	"github.com/MrSnakeDoc/mapbuddy/internal/reasoning"
	"github.com/MrSnakeDoc/mapbuddy/internal/store"
)

// KeyValidator checks a credential against the reasoning service.
type KeyValidator interface {
	Validate(ctx context.Context, credential string) error
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now
	Location  *time.Location   // calendar for dates without an explicit zone

	Catalog     *catalog.Catalog
	Manager     *conversation.Manager
	Sessions    *conversation.Registry
	Preferences *profile.Repository
	Credentials *reasoning.Credentials
	Validator   KeyValidator
	Slots       store.Slots // pinged by /readyz
	StoreMode   string      // "redis" | "memory"

	Gatherer   prometheus.Gatherer // served on /metrics
	OpsCIDRS   []string            // IPs allowed on /metrics and /readyz
	TrustProxy bool                // true if running behind a trusted reverse proxy
}

// Now returns the current time in the service calendar.
func (d Deps) Now() time.Time {
	now := time.Now
	if d.TimeNow != nil {
		now = d.TimeNow
	}
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}
