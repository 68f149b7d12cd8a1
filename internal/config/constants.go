package config

// Defaults applied when neither a flag nor an environment variable is set.
const (
	DefaultPort = 8059
	DefaultHost = "" // all interfaces
	DefaultRev  = "2"

	DefaultStoreDriver = StoreDriverMongo
	DefaultMongoDB     = "opentitles"
	DefaultSQLitePath  = "./opentitles.db"
	DefaultMediaPath   = "./media.json"

	DefaultLogLevel = "info"

	// DefaultHealthPath is the path probed by the healthcheck subcommand.
	DefaultHealthPath = "/health"
)

// Supported store drivers.
const (
	StoreDriverMongo  = "mongo"
	StoreDriverSQLite = "sqlite"
)

// EnvProduction is the APP_ENV value that disables .env loading.
const EnvProduction = "production"
