package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	// Store settings
	StoreDriver string `validate:"oneof=mongo sqlite"`
	MongoURL    string `validate:"required_if=StoreDriver mongo"`
	MongoDB     string `validate:"required_if=StoreDriver mongo"`
	SQLitePath  string `validate:"required_if=StoreDriver sqlite"`

	// Media configuration file
	MediaPath string `validate:"required"`

	// Server settings
	ServerHost string
	ServerPort int    `validate:"min=1,max=65535"`
	Rev        string `validate:"required,alphanum"`

	// Observability
	TelemetryAuth string
	SentryDSN     string `validate:"omitempty,url"`
	Production    bool

	// Log settings
	LogLevel zerolog.Level
}

// DefaultConfig returns an initial configuration seeded from the environment.
// Command line flags may override any field afterwards.
func DefaultConfig() *Config {
	logLevel, _ := zerolog.ParseLevel(DefaultLogLevel)

	return &Config{
		StoreDriver:   GetEnvString("STORE_DRIVER", DefaultStoreDriver),
		MongoURL:      GetEnvString("MONGO_URL", ""),
		MongoDB:       GetEnvString("MONGO_DB", DefaultMongoDB),
		SQLitePath:    GetEnvString("SQLITE_PATH", DefaultSQLitePath),
		MediaPath:     GetEnvString("MEDIA_CONFIG", DefaultMediaPath),
		ServerHost:    GetEnvString("HOST", DefaultHost),
		ServerPort:    GetEnvInt("PORT", DefaultPort),
		Rev:           GetEnvString("REV", DefaultRev),
		TelemetryAuth: GetEnvString("EXPECTED_TELEMETRY_AUTH", ""),
		SentryDSN:     GetEnvString("SENTRY_DSN", ""),
		Production:    IsProduction(),
		LogLevel:      GetEnvLogLevel("LOG_LEVEL", logLevel),
	}
}

// Validate checks the assembled configuration. Any violation is a fatal
// startup error for the caller.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, ", "))
}

// ListenAddr returns the formatted listen address for the HTTP server.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.ServerHost, strconv.Itoa(c.ServerPort))
}

// BasePath returns the versioned path prefix, e.g. "/v2".
func (c *Config) BasePath() string {
	return "/v" + c.Rev
}
