// Package config builds the engine's Config from environment variables, the
// way components/ledger/internal/service/config.go does for its services:
// struct tags read via reflection, not a config file parser.
package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"
)

// Config is the top-level configuration for the command-processing engine.
type Config struct {
	EnvName string `env:"ENV_NAME"`

	PrimaryDBHost     string `env:"DB_HOST"`
	PrimaryDBUser     string `env:"DB_USER"`
	PrimaryDBPassword string `env:"DB_PASSWORD"`
	PrimaryDBName     string `env:"DB_NAME"`
	PrimaryDBPort     string `env:"DB_PORT"`
	PrimaryDBSSLMode  string `env:"DB_SSL_MODE"`

	ReplicaDBHost     string `env:"DB_REPLICA_HOST"`
	ReplicaDBUser     string `env:"DB_REPLICA_USER"`
	ReplicaDBPassword string `env:"DB_REPLICA_PASSWORD"`
	ReplicaDBName     string `env:"DB_REPLICA_NAME"`
	ReplicaDBPort     string `env:"DB_REPLICA_PORT"`

	OtelServiceName    string `env:"OTEL_RESOURCE_SERVICE_NAME"`
	OtelServiceVersion string `env:"OTEL_RESOURCE_SERVICE_VERSION"`
	OtelDeploymentEnv  string `env:"OTEL_RESOURCE_DEPLOYMENT_ENVIRONMENT"`

	// Engine tunables, spec §6.
	MaxRetries        int    `env:"MAX_RETRIES"`
	RetryIntervalMS   int    `env:"RETRY_INTERVAL_MS"`
	MaxOCCRetries     int    `env:"MAX_OCC_RETRIES"`
	OCCBackoffBaseMS  int    `env:"OCC_BACKOFF_BASE_MS"`
	IdempotencySecret string `env:"IDEMPOTENCY_SECRET"`

	// Worker pool.
	WorkerCount       int `env:"WORKER_COUNT"`
	ClaimPollMS       int `env:"CLAIM_POLL_MS"`
}

// defaults applied when the corresponding env var is unset or unparsable.
var defaults = map[string]any{
	"MaxRetries":       5,
	"RetryIntervalMS":  1000,
	"MaxOCCRetries":    3,
	"OCCBackoffBaseMS": 25,
	"WorkerCount":      4,
	"ClaimPollMS":      200,
}

// NewConfig builds a Config from the process environment, applying sane
// defaults for tunables the deployment doesn't override.
func NewConfig() *Config {
	cfg := &Config{}
	if err := setFromEnvVars(cfg); err != nil {
		panic(err)
	}

	applyDefaults(cfg)

	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaults["MaxRetries"].(int)
	}
	if cfg.RetryIntervalMS == 0 {
		cfg.RetryIntervalMS = defaults["RetryIntervalMS"].(int)
	}
	if cfg.MaxOCCRetries == 0 {
		cfg.MaxOCCRetries = defaults["MaxOCCRetries"].(int)
	}
	if cfg.OCCBackoffBaseMS == 0 {
		cfg.OCCBackoffBaseMS = defaults["OCCBackoffBaseMS"].(int)
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = defaults["WorkerCount"].(int)
	}
	if cfg.ClaimPollMS == 0 {
		cfg.ClaimPollMS = defaults["ClaimPollMS"].(int)
	}
}

// setFromEnvVars mirrors common.SetConfigFromEnvVars: it walks
// the struct's exported fields and sets each from the env var named by its
// `env` tag, converting to the field's underlying kind.
func setFromEnvVars(s any) error {
	v := reflect.ValueOf(s).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		tag, ok := field.Tag.Lookup("env")
		if !ok {
			continue
		}

		raw := os.Getenv(tag)
		if strings.TrimSpace(raw) == "" {
			continue
		}

		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				continue
			}
			fv.SetInt(n)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				continue
			}
			fv.SetBool(b)
		default:
			fv.SetString(raw)
		}
	}

	return nil
}
