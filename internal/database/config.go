package database

import "time"

const (
	defaultMaxIdleConns    = 4
	defaultMaxOpenConns    = 4
	defaultConnMaxLifetime = time.Hour

	// DefaultConnectTimeout bounds the initial connection attempt of every store.
	DefaultConnectTimeout = 5 * time.Second

	// MongoAppName is reported to the MongoDB server in the handshake.
	MongoAppName = "OpenTitles API"
)

// Config holds SQLite configuration settings
type Config struct {
	// Required settings
	DBPath string

	// Optional settings (will use defaults if not set)
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	CacheSizeKB     int
	BusyTimeoutMS   int
}

// NewConfig creates a new database configuration with default values
func NewConfig(dbPath string) *Config {
	return &Config{
		DBPath:          dbPath,
		ConnMaxLifetime: defaultConnMaxLifetime,
		CacheSizeKB:     -16000, // 16MB
		BusyTimeoutMS:   5000,
	}
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URL            string
	Database       string
	AppName        string
	ConnectTimeout time.Duration
}

// NewMongoConfig creates a MongoDB configuration with default values.
func NewMongoConfig(url, database string) *MongoConfig {
	return &MongoConfig{
		URL:            url,
		Database:       database,
		AppName:        MongoAppName,
		ConnectTimeout: DefaultConnectTimeout,
	}
}
