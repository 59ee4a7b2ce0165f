package types

import "errors"

// Config holds storage selection, transport settings and numeric limits.
// Tags cover the three sources the CLI merges: environment (env), config.yaml
// (yaml, mapstructure) and JSON output.
type Config struct {
	Driver       string `json:"driver" yaml:"driver" mapstructure:"driver" env:"TOFICO_STORAGE_DRIVER" envDefault:"sqlite"`
	DataDir      string `json:"data_dir" yaml:"data_dir,omitempty" mapstructure:"data_dir" env:"TOFICO_DATA_DIR"`
	PostgresDSN  string `json:"-" yaml:"postgres_dsn,omitempty" mapstructure:"postgres_dsn" env:"TOFICO_POSTGRES_DSN"`
	LogLevel     string `json:"log_level" yaml:"log_level" mapstructure:"log_level" env:"TOFICO_LOG_LEVEL" envDefault:"info"`
	HTTPAddr     string `json:"http_addr" yaml:"http_addr" mapstructure:"http_addr" env:"TOFICO_HTTP_ADDR" envDefault:":8000"`
	CORSOrigin   string `json:"cors_origin" yaml:"cors_origin" mapstructure:"cors_origin" env:"TOFICO_CORS_ORIGIN" envDefault:"*"`
	OTelEndpoint string `json:"otel_endpoint,omitempty" yaml:"otel_endpoint,omitempty" mapstructure:"otel_endpoint" env:"TOFICO_OTEL_ENDPOINT"`
	Limits       Limits `json:"limits" yaml:"limits" mapstructure:"limits" envPrefix:"TOFICO_LIMIT_"`
}

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config validation errors.
var (
	ErrDriverEmpty      = errors.New("storage driver must not be empty")
	ErrDriverUnknown    = errors.New("unknown storage driver")
	ErrPostgresDSNEmpty = errors.New("postgres driver requires a DSN")
)

var knownDrivers = map[string]bool{
	DriverSQLite:   true,
	DriverPostgres: true,
	DriverMemory:   true,
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Driver:     DriverSQLite,
		LogLevel:   "info",
		HTTPAddr:   ":8000",
		CORSOrigin: "*",
		Limits:     DefaultLimits(),
	}
}

// Validate checks that the Config is well-formed and returns a sentinel from
// this package on failure.
func (c Config) Validate() error {
	if c.Driver == "" {
		return ErrDriverEmpty
	}
	if !knownDrivers[c.Driver] {
		return ErrDriverUnknown
	}
	if c.Driver == DriverPostgres && c.PostgresDSN == "" {
		return ErrPostgresDSNEmpty
	}
	return c.Limits.Validate()
}
