package config

import (
	"strconv"
	"strings"

	"github.com/vellum-ui/vellum/internal/errors"
)

// Validate rejects configurations that cannot be served.
func Validate(config *Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			"server.port out of range: "+strconv.Itoa(config.Server.Port))
	}

	for _, origin := range config.Server.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid,
				"allowed origin must be * or an http(s) URL: "+origin)
		}
	}

	if config.Runtime.ID == "" || strings.ContainsAny(config.Runtime.ID, "|<>&") {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			"runtime.id must be non-empty and free of markup metacharacters")
	}
	for _, prefix := range config.Runtime.SearchPaths {
		if !strings.HasPrefix(prefix, "/") {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid,
				"runtime search path must be absolute: "+prefix)
		}
	}

	if config.Watch.DebounceMillis < 0 {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			"watch.debounce_millis must not be negative")
	}

	switch config.Log.Format {
	case "text", "json":
	default:
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			"log.format must be text or json: "+config.Log.Format)
	}

	return nil
}
