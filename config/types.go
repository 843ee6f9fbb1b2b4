package config

import "time"

// Config represents the complete configuration of an application using the
// statement builders: the default database, optional named databases and logging.
type Config struct {
	App       AppConfig                 `koanf:"app" json:"app" yaml:"app"`
	Database  DatabaseConfig            `koanf:"database" json:"database" yaml:"database"`
	Databases map[string]DatabaseConfig `koanf:"databases" json:"databases" yaml:"databases" validate:"dive"`
	Log       LogConfig                 `koanf:"log" json:"log" yaml:"log"`

	Observability ObservabilityConfig `koanf:"observability" json:"observability" yaml:"observability"`
}

// AppConfig identifies the running application in logs.
type AppConfig struct {
	Name string `koanf:"name" json:"name" yaml:"name" validate:"required"`
	Env  string `koanf:"env" json:"env" yaml:"env" validate:"oneof=development staging production"`
}

// DatabaseConfig holds the connection settings of one database.
type DatabaseConfig struct {
	Type     string `koanf:"type" json:"type" yaml:"type" validate:"omitempty,oneof=postgresql mysql sqlite sqlserver oracle"`
	Host     string `koanf:"host" json:"host" yaml:"host"`
	Port     int    `koanf:"port" json:"port" yaml:"port" validate:"gte=0,lte=65535"`
	Database string `koanf:"database" json:"database" yaml:"database"`
	Username string `koanf:"username" json:"username" yaml:"username"`
	Password string `koanf:"password" json:"password" yaml:"password"`
	// ConnectionString, when set, is handed to the driver verbatim
	ConnectionString string `koanf:"connectionstring" json:"connectionstring" yaml:"connectionstring"`

	Pool  PoolConfig  `koanf:"pool" json:"pool" yaml:"pool"`
	Query QueryConfig `koanf:"query" json:"query" yaml:"query"`
	TLS   TLSConfig   `koanf:"tls" json:"tls" yaml:"tls"`

	Oracle    OracleConfig    `koanf:"oracle" json:"oracle" yaml:"oracle"`
	SQLServer SQLServerConfig `koanf:"sqlserver" json:"sqlserver" yaml:"sqlserver"`
}

// PoolConfig holds database/sql pool settings.
type PoolConfig struct {
	Max      PoolMaxConfig  `koanf:"max" json:"max" yaml:"max"`
	Idle     PoolIdleConfig `koanf:"idle" json:"idle" yaml:"idle"`
	Lifetime LifetimeConfig `koanf:"lifetime" json:"lifetime" yaml:"lifetime"`
}

// PoolMaxConfig caps open connections.
type PoolMaxConfig struct {
	Connections int32 `koanf:"connections" json:"connections" yaml:"connections" validate:"gte=0"`
}

// PoolIdleConfig bounds idle connections.
type PoolIdleConfig struct {
	Connections int32         `koanf:"connections" json:"connections" yaml:"connections" validate:"gte=0"`
	Time        time.Duration `koanf:"time" json:"time" yaml:"time" validate:"gte=0"`
}

// LifetimeConfig bounds how long a connection is reused.
type LifetimeConfig struct {
	Max time.Duration `koanf:"max" json:"max" yaml:"max" validate:"gte=0"`
}

// QueryConfig controls statement logging.
type QueryConfig struct {
	Slow SlowQueryConfig `koanf:"slow" json:"slow" yaml:"slow"`
	Log  QueryLogConfig  `koanf:"log" json:"log" yaml:"log"`
}

// SlowQueryConfig flags statements running longer than Threshold.
type SlowQueryConfig struct {
	Threshold time.Duration `koanf:"threshold" json:"threshold" yaml:"threshold" validate:"gte=0"`
	Enabled   bool          `koanf:"enabled" json:"enabled" yaml:"enabled"`
}

// QueryLogConfig controls what statement logs include.
type QueryLogConfig struct {
	// Parameters includes bound arguments in logs
	Parameters bool `koanf:"parameters" json:"parameters" yaml:"parameters"`
	MaxLength  int  `koanf:"max" json:"max" yaml:"max" validate:"gte=0"`
}

// TLSConfig holds transport security settings.
type TLSConfig struct {
	// Mode is the PostgreSQL sslmode, or the MySQL tls parameter
	Mode string `koanf:"mode" json:"mode" yaml:"mode"`
}

// OracleConfig holds Oracle-specific settings.
type OracleConfig struct {
	Service ServiceConfig `koanf:"service" json:"service" yaml:"service"`
}

// ServiceConfig addresses an Oracle database by service name or SID.
type ServiceConfig struct {
	Name string `koanf:"name" json:"name" yaml:"name"`
	SID  string `koanf:"sid" json:"sid" yaml:"sid"`
}

// SQLServerConfig holds SQL Server-specific settings.
type SQLServerConfig struct {
	// Encrypt is passed as the encrypt connection parameter (true, false, disable)
	Encrypt string `koanf:"encrypt" json:"encrypt" yaml:"encrypt" validate:"omitempty,oneof=true false disable strict"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" validate:"oneof=trace debug info warn error fatal panic"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty"`
}

// ObservabilityConfig selects where statement spans and metrics are exported.
// An empty endpoint disables that signal.
type ObservabilityConfig struct {
	Enabled bool          `koanf:"enabled" json:"enabled" yaml:"enabled"`
	Version string        `koanf:"version" json:"version" yaml:"version"`
	Trace   TraceConfig   `koanf:"trace" json:"trace" yaml:"trace"`
	Metrics MetricsConfig `koanf:"metrics" json:"metrics" yaml:"metrics"`
}

// TraceConfig configures the span exporter.
type TraceConfig struct {
	// Endpoint is "stdout" or an OTLP collector address
	Endpoint string            `koanf:"endpoint" json:"endpoint" yaml:"endpoint"`
	Protocol string            `koanf:"protocol" json:"protocol" yaml:"protocol" validate:"omitempty,oneof=http grpc"`
	Insecure bool              `koanf:"insecure" json:"insecure" yaml:"insecure"`
	Headers  map[string]string `koanf:"headers" json:"headers" yaml:"headers"`
	Sample   float64           `koanf:"sample" json:"sample" yaml:"sample" validate:"gte=0,lte=1"`
}

// MetricsConfig configures the metric exporter.
type MetricsConfig struct {
	// Endpoint is "stdout" or an OTLP collector address
	Endpoint string            `koanf:"endpoint" json:"endpoint" yaml:"endpoint"`
	Protocol string            `koanf:"protocol" json:"protocol" yaml:"protocol" validate:"omitempty,oneof=http grpc"`
	Insecure bool              `koanf:"insecure" json:"insecure" yaml:"insecure"`
	Headers  map[string]string `koanf:"headers" json:"headers" yaml:"headers"`
	Interval time.Duration     `koanf:"interval" json:"interval" yaml:"interval" validate:"gte=0"`
}
