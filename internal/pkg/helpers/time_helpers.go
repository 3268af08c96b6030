package helpers

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a config duration string, falling back to the given
// default when the value is empty or malformed.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if strings.TrimSpace(durationStr) == "" {
		return defaultDuration
	}

	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).
			Str("value", durationStr).
			Dur("default", defaultDuration).
			Msg("Invalid duration in configuration, using default")
		return defaultDuration
	}
	return duration
}
