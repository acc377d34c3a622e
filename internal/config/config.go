package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// JWTSecret is the symmetric signing key. Signing with a short or
	// missing secret is a fatal misconfiguration, caught at load time.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenTTLSeconds is the fixed lifetime of issued tokens, and the
	// Max-Age of the ACCESS_TOKEN cookie.
	TokenTTLSeconds int `mapstructure:"token_ttl_seconds" validate:"required,gt=0"`

	// CookieSecure toggles the Secure attribute on the auth cookie.
	// Disabled only for plain-HTTP local development.
	CookieSecure bool `mapstructure:"cookie_secure"`
}
