package config

const (
	defaultServerPort = 8080

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultFetchMaxParallel = 8
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"backend.base_url":                        "http://localhost:8081",
		"backend.timeout":                         "30s",
		"backend.retry.max_attempts":              defaultRetryMaxAttempts,
		"backend.retry.initial_interval":          "100ms",
		"backend.retry.max_interval":              "10s",
		"backend.retry.multiplier":                defaultRetryMultiplier,
		"backend.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"backend.circuit_breaker.timeout":         "30s",
		"backend.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,

		"fetch.max_parallel": defaultFetchMaxParallel,

		"telemetry.enabled":  false,
		"telemetry.exporter": "stdout",
		"telemetry.endpoint": "",
	}
}
