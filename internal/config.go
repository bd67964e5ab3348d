package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/screentime/internal/api"
	"github.com/starford/screentime/internal/store"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Database DatabaseConfig    `yaml:"database"`
	Auth     AuthConfig        `yaml:"auth"`
	Events   EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level" env:"SCREENTIME_LOG_LEVEL"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host string `yaml:"host" env:"SERVER_ADDRESS"`
	Port int    `yaml:"port" env:"SERVER_PORT"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DatabaseConfig selects the SQL driver and its data source.
//
// Driver is "sqlite3" (DSN is a file path) or "pgx" (DSN is a PostgreSQL URL).
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"SCREENTIME_DB_DRIVER"`
	DSN    string `yaml:"dsn" env:"DATABASE_URL"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(store.DriverSQLite, store.DriverPostgres)),
		validation.Field(&c.DSN, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": static Bearer token; Token must be non-empty.
//   - "jwt": HS256-signed Bearer JWT; JWTSecret must be non-empty.
type AuthConfig struct {
	Mode      string `yaml:"mode" env:"SCREENTIME_AUTH_MODE"`
	Token     string `yaml:"token" env:"SCREENTIME_AUTH_TOKEN"`
	JWTSecret string `yaml:"jwt_secret" env:"SCREENTIME_JWT_SECRET"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = api.AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(api.AuthModeDisabled, api.AuthModeToken, api.AuthModeJWT)),
	); err != nil {
		return err
	}
	switch {
	case c.Mode == api.AuthModeToken && c.Token == "":
		return fmt.Errorf("auth: mode is %q but token is empty", api.AuthModeToken)
	case c.Mode == api.AuthModeJWT && c.JWTSecret == "":
		return fmt.Errorf("auth: mode is %q but jwt_secret is empty", api.AuthModeJWT)
	}
	return nil
}

// Secret returns the credential the configured mode checks against.
func (c *AuthConfig) Secret() string {
	if c.Mode == api.AuthModeJWT {
		return c.JWTSecret
	}
	return c.Token
}

// EventsConfig toggles the live update stream.
type EventsConfig struct {
	Enabled bool `yaml:"enabled" env:"SCREENTIME_EVENTS_ENABLED"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Database: DatabaseConfig{
			Driver: store.DriverSQLite,
			DSN:    "./screentime.db",
		},
		Auth: AuthConfig{
			Mode: api.AuthModeDisabled,
		},
		Events: EventsConfig{
			Enabled: true,
		},
	}
}
