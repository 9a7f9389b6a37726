package config

const (
	defaultServerPort = 8080

	defaultRateLimitRPS   = 50.0
	defaultRateLimitBurst = 100
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":            "0.0.0.0",
		"server.port":            defaultServerPort,
		"server.read_timeout":    "5s",
		"server.write_timeout":   "10s",
		"server.idle_timeout":    "120s",
		"server.request_timeout": "5s",

		"log.level":  "info",
		"log.format": "json",

		"store.driver": StoreDriverMemory,
		"store.dsn":    "",

		"rate_limit.enabled":             false,
		"rate_limit.requests_per_second": defaultRateLimitRPS,
		"rate_limit.burst":               defaultRateLimitBurst,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "go-todo-service",
	}
}
