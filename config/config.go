// Package config loads application and database settings with koanf.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envSections are the top-level keys environment variables may set.
var envSections = []string{"app.", "database.", "databases.", "log.", "observability."}

// Load loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. config.<env>.yaml, then config.yaml
// 3. Default values (lowest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// YAML files are optional
	_ = k.Load(file.Provider("config.yaml"), yaml.Parser())
	if env := k.String("app.env"); env != "" {
		_ = k.Load(file.Provider(fmt.Sprintf("config.%s.yaml", env)), yaml.Parser())
	}

	if err := loadEnv(k); err != nil {
		return nil, err
	}
	return unmarshal(k)
}

// LoadBytes loads configuration from YAML content over the defaults,
// followed by environment variables.
func LoadBytes(content []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if err := loadEnv(k); err != nil {
		return nil, err
	}
	return unmarshal(k)
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name": "sqlmodel-service",
		"app.env":  EnvDevelopment,

		// Database connection defaults not provided for deterministic behavior
		"database.pool.max.connections":  25,
		"database.pool.idle.connections": 2,
		"database.pool.idle.time":        "5m",
		"database.pool.lifetime.max":     "30m",
		"database.query.slow.threshold":  "200ms",
		"database.query.slow.enabled":    true,
		"database.query.log.parameters":  false,
		"database.query.log.max":         defaultMaxQueryLength,

		"log.level":  "info",
		"log.pretty": false,

		"observability.enabled":          false,
		"observability.trace.protocol":   "http",
		"observability.trace.sample":     1.0,
		"observability.metrics.protocol": "http",
		"observability.metrics.interval": "30s",
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

// loadEnv maps DATABASE_POOL_MAX_CONNECTIONS to database.pool.max.connections.
func loadEnv(k *koanf.Koanf) error {
	provider := envprovider.Provider(".", envprovider.Opt{
		TransformFunc: func(key, value string) (string, any) {
			path := strings.ReplaceAll(strings.ToLower(key), "_", ".")
			for _, section := range envSections {
				if strings.HasPrefix(path, section) {
					return path, value
				}
			}
			return "", nil
		},
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	return nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
