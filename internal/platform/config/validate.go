package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalid wraps every problem Validate reports.
var ErrInvalid = errors.New("invalid config")

// problems collects validation failures keyed by their config path.
type problems []error

func (p *problems) addf(key, format string, args ...any) {
	*p = append(*p, fmt.Errorf("%w: %s %s", ErrInvalid, key, fmt.Sprintf(format, args...)))
}

func (p *problems) positive(key string, ok bool) {
	if !ok {
		p.addf(key, "must be positive")
	}
}

func (p *problems) oneOf(key, got string, allowed ...string) {
	if !slices.Contains(allowed, got) {
		p.addf(key, "must be one of: %s; got %q", strings.Join(allowed, ", "), got)
	}
}

// Validate reports every invalid value at once, joined into one error.
// Each part wraps ErrInvalid.
func (c *Config) Validate() error {
	var p problems

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		p.addf("server.port", "must be between 1 and 65535, got %d", c.Server.Port)
	}
	p.positive("server.read_timeout", c.Server.ReadTimeout > 0)
	p.positive("server.write_timeout", c.Server.WriteTimeout > 0)
	p.positive("server.request_timeout", c.Server.RequestTimeout > 0)

	p.oneOf("log.level", c.Log.Level, "debug", "info", "warn", "error")
	p.oneOf("log.format", c.Log.Format, "json", "text")

	p.oneOf("store.driver", c.Store.Driver, StoreDriverMemory, StoreDriverSQLite)

	if c.RateLimit.Enabled {
		p.positive("rate_limit.requests_per_second", c.RateLimit.RequestsPerSecond > 0)
		if c.RateLimit.Burst < 1 {
			p.addf("rate_limit.burst", "must be >= 1, got %d", c.RateLimit.Burst)
		}
	}

	// Exporter names mirror telemetry.ExporterStdout and telemetry.ExporterOTLP.
	if c.Telemetry.Enabled {
		p.oneOf("telemetry.exporter", c.Telemetry.Exporter, "stdout", "otlp")
		if c.Telemetry.Exporter == "otlp" && c.Telemetry.Endpoint == "" {
			p.addf("telemetry.endpoint", "must not be empty when exporter is otlp")
		}
	}

	return errors.Join(p...)
}
