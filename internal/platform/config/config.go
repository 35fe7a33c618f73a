// Package config builds runtime configuration from the environment so main
// stays lean. Every knob has a default suited to a single field device.
package config

import (
	"os"
	"strings"
	"time"
)

// Config captures server and storage configuration for the verification engine.
type Config struct {
	Addr string

	// RedisURL selects the Redis-backed record store when set.
	RedisURL string
	// PostgresDSN selects the Postgres-backed record store when set and
	// RedisURL is empty. With neither set the in-memory store is used.
	PostgresDSN string
	// StorePrefix namespaces persisted investigation keys. Injected rather
	// than hardcoded so multiple engines can share one store in tests.
	StorePrefix string

	// KafkaBrokers enables the completed-investigation publisher when non-empty.
	KafkaBrokers []string
	KafkaTopic   string

	// AutosaveDebounce is the coalescing window for persistence after a
	// mutation. Edits inside the window collapse into one write.
	AutosaveDebounce time.Duration

	// JWTSigningKey enables the investigator auth middleware when set.
	JWTSigningKey string
}

const (
	defaultAddr             = ":8080"
	defaultStorePrefix      = "invc_"
	defaultKafkaTopic       = "invc.completed"
	defaultAutosaveDebounce = 500 * time.Millisecond
)

// FromEnv reads configuration from INVC_* environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:             envOr("INVC_ADDR", defaultAddr),
		RedisURL:         os.Getenv("INVC_REDIS_URL"),
		PostgresDSN:      os.Getenv("INVC_POSTGRES_DSN"),
		StorePrefix:      envOr("INVC_STORE_PREFIX", defaultStorePrefix),
		KafkaTopic:       envOr("INVC_KAFKA_TOPIC", defaultKafkaTopic),
		AutosaveDebounce: defaultAutosaveDebounce,
		JWTSigningKey:    os.Getenv("INVC_JWT_SIGNING_KEY"),
	}
	if brokers := os.Getenv("INVC_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if raw := os.Getenv("INVC_AUTOSAVE_DEBOUNCE"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.AutosaveDebounce = d
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
