package utils

import (
	"io"

	"github.com/MrSnakeDoc/mapbuddy/internal/logger"
)

// Close is for deferred cleanup where the error has nowhere to go,
// typically response bodies.
func Close(c io.Closer) {
	_ = c.Close()
}

// MustClose closes a long-lived resource at shutdown and reports a
// failure under the resource's name. A nil closer is a no-op.
func MustClose(name string, c io.Closer, log logger.Logger) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("close failed", logger.String("resource", name), logger.Error(err))
		return
	}
	log.Debug("closed", logger.String("resource", name))
}
