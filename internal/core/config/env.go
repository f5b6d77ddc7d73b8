package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: APIDOCGEN_[SECTION]_[KEY] (e.g., APIDOCGEN_OBSERVABILITY_PORT).
func ApplyEnvOverrides(cfg *Config) {
	setEnvInt(&cfg.Workers, "APIDOCGEN_WORKERS")

	// Source
	setEnvString(&cfg.Source.RawBaseURL, "APIDOCGEN_SOURCE_RAW_BASE_URL")
	setEnvString(&cfg.Source.HTMLBaseURL, "APIDOCGEN_SOURCE_HTML_BASE_URL")
	setEnvString(&cfg.Source.LocalDir, "APIDOCGEN_SOURCE_LOCAL_DIR")
	setEnvDuration(&cfg.Source.Timeout.Duration, "APIDOCGEN_SOURCE_TIMEOUT")
	setEnvFloat64(&cfg.Source.RateLimit, "APIDOCGEN_SOURCE_RATE_LIMIT")

	// Cache
	setEnvBoolPtr(&cfg.Cache.Enabled, "APIDOCGEN_CACHE_ENABLED")
	setEnvString(&cfg.Cache.Path, "APIDOCGEN_CACHE_PATH")
	setEnvDuration(&cfg.Cache.TTL.Duration, "APIDOCGEN_CACHE_TTL")

	// Output
	setEnvString(&cfg.Output.Path, "APIDOCGEN_OUTPUT_PATH")
	setEnvString(&cfg.Output.SchemaPath, "APIDOCGEN_OUTPUT_SCHEMA_PATH")
	setEnvString(&cfg.Output.SARIFPath, "APIDOCGEN_OUTPUT_SARIF_PATH")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce.Duration, "APIDOCGEN_WATCH_DEBOUNCE")

	// Observability
	setEnvBool(&cfg.Observability.Enabled, "APIDOCGEN_OBSERVABILITY_ENABLED")
	setEnvInt(&cfg.Observability.Port, "APIDOCGEN_OBSERVABILITY_PORT")
	setEnvString(&cfg.Observability.OTLPEndpoint, "APIDOCGEN_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.EnableTracing, "APIDOCGEN_OBSERVABILITY_ENABLE_TRACING")
	setEnvBool(&cfg.Observability.EnableMetrics, "APIDOCGEN_OBSERVABILITY_ENABLE_METRICS")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvBoolPtr(target **bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = &b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
