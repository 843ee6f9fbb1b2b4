package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultSlowQueryThreshold = 200 * time.Millisecond
	defaultMaxQueryLength     = 1000
	defaultMaxConnections     = 25
)

// Database type constants
const (
	PostgreSQL = "postgresql"
	MySQL      = "mysql"
	SQLite     = "sqlite"
	SQLServer  = "sqlserver"
	Oracle     = "oracle"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

var defaultPorts = map[string]int{
	PostgreSQL: 5432,
	MySQL:      3306,
	SQLServer:  1433,
	Oracle:     1521,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their configuration key
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks struct-level rules, then the database settings, filling in
// per-vendor defaults for zero values.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return translate(err)
	}

	if err := validateDatabase("database", &cfg.Database); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	names := make([]string, 0, len(cfg.Databases))
	for name := range cfg.Databases {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		db := cfg.Databases[name]
		if !IsDatabaseConfigured(&db) {
			return NewMissingFieldError("databases."+name+".type",
				"DATABASES_"+strings.ToUpper(name)+"_TYPE", "databases."+name+".type")
		}
		if err := validateDatabase("databases."+name, &db); err != nil {
			return fmt.Errorf("database %q config: %w", name, err)
		}
		cfg.Databases[name] = db
	}
	return nil
}

// translate turns the first validator failure into a ConfigError.
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))

	if fe.Tag() == "oneof" {
		return NewInvalidFieldError(field, fmt.Sprintf("invalid value %q", fmt.Sprint(fe.Value())), strings.Fields(fe.Param()))
	}
	if fe.Tag() == "required" {
		return NewMissingFieldError(field, strings.ToUpper(strings.ReplaceAll(field, ".", "_")), field)
	}
	return NewValidationError(field, fmt.Sprintf("failed %s=%s (got %v)", fe.Tag(), fe.Param(), fe.Value()))
}

// IsDatabaseConfigured determines if database is intentionally configured.
func IsDatabaseConfigured(cfg *DatabaseConfig) bool {
	return cfg.ConnectionString != "" || cfg.Host != "" || cfg.Type != ""
}

func validateDatabase(path string, cfg *DatabaseConfig) error {
	if !IsDatabaseConfigured(cfg) {
		return nil
	}

	if cfg.Type == "" {
		return NewMissingFieldError(path+".type", envName(path+".type"), path+".type")
	}

	if cfg.ConnectionString == "" {
		if err := validateDatabaseCoreFields(path, cfg); err != nil {
			return err
		}
	}

	applyDatabaseDefaults(cfg)
	return nil
}

// validateDatabaseCoreFields checks the fields a connection string would otherwise carry.
func validateDatabaseCoreFields(path string, cfg *DatabaseConfig) error {
	if cfg.Type == SQLite {
		if cfg.Database == "" {
			return NewMissingFieldError(path+".database", envName(path+".database"), path+".database")
		}
		return nil
	}

	if cfg.Host == "" {
		return NewMissingFieldError(path+".host", envName(path+".host"), path+".host")
	}

	if cfg.Type == Oracle {
		if cfg.Oracle.Service.Name == "" && cfg.Oracle.Service.SID == "" && cfg.Database == "" {
			return NewValidationError(path+".oracle.service",
				"one of oracle.service.name, oracle.service.sid or database is required")
		}
	} else if cfg.Database == "" {
		return NewMissingFieldError(path+".database", envName(path+".database"), path+".database")
	}

	if cfg.Username == "" {
		return NewMissingFieldError(path+".username", envName(path+".username"), path+".username")
	}
	return nil
}

// applyDatabaseDefaults fills in the port, pool and query logging settings left at zero.
func applyDatabaseDefaults(cfg *DatabaseConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPorts[cfg.Type]
	}
	if cfg.Pool.Max.Connections == 0 {
		cfg.Pool.Max.Connections = defaultMaxConnections
	}
	if cfg.Query.Log.MaxLength == 0 {
		cfg.Query.Log.MaxLength = defaultMaxQueryLength
	}
	if cfg.Query.Slow.Threshold == 0 {
		cfg.Query.Slow.Threshold = defaultSlowQueryThreshold
	}
}

func envName(path string) string {
	return strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
}
