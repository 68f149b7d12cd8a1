package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"opentitles/api/internal/config"
	"opentitles/api/internal/database"
	"opentitles/api/internal/errreport"
	"opentitles/api/internal/healthcheck"
	importarticles "opentitles/api/internal/import"
	"opentitles/api/internal/metrics"
	"opentitles/api/internal/server"
	"opentitles/api/internal/server/storage"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	usage           = "Usage: opentitles [command] [options]"
	commandsHelp    = "Commands: server, import, migrate, healthcheck"
	subcommandsHelp = "\nFor command-specific options, use: opentitles [command] -h"

	errorFlushTimeout = 2 * time.Second
	importTimeout     = 30 * time.Minute
)

func init() {
	if config.IsProduction() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	cfg := config.DefaultConfig()

	serverCmd := flag.NewFlagSet("server", flag.ExitOnError)
	addStoreFlags(serverCmd, cfg)
	serverCmd.StringVar(&cfg.MediaPath, "media", cfg.MediaPath, "Path to the media definition file (env: MEDIA_CONFIG)")
	serverCmd.StringVar(&cfg.ServerHost, "host", cfg.ServerHost, "Host to bind the server to (env: HOST)")
	serverCmd.IntVar(&cfg.ServerPort, "port", cfg.ServerPort, "Port to listen on (env: PORT)")
	serverCmd.StringVar(&cfg.Rev, "rev", cfg.Rev, "API revision used in the /v{rev} prefix (env: REV)")
	serverLogLevel := serverCmd.String("log-level", cfg.LogLevel.String(), "Log level: debug, info, warn, error (env: LOG_LEVEL)")

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	addStoreFlags(importCmd, cfg)
	importFile := importCmd.String("file", "", "JSON array of articles, local path or http(s) URL")
	importLogLevel := importCmd.String("log-level", cfg.LogLevel.String(), "Log level: debug, info, warn, error (env: LOG_LEVEL)")

	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	migrateCmd.StringVar(&cfg.SQLitePath, "db", cfg.SQLitePath, "Path to the SQLite database file (env: SQLITE_PATH)")
	migrateDown := migrateCmd.Int("down", 0, "Number of migrations to roll back, 0 to only apply pending ones")

	healthCmd := flag.NewFlagSet("healthcheck", flag.ExitOnError)
	healthPath := healthCmd.String("path", config.DefaultHealthPath, "Path to probe")
	healthTimeout := healthCmd.Duration("timeout", config.GetEnvDuration("HEALTHCHECK_TIMEOUT", healthcheck.DefaultTimeout),
		"Probe timeout (env: HEALTHCHECK_TIMEOUT)")
	healthCmd.IntVar(&cfg.ServerPort, "port", cfg.ServerPort, "Port the server listens on (env: PORT)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "server":
		serverCmd.Parse(os.Args[2:])
		applyLogLevel(cfg, *serverLogLevel)

		if err := runServer(cfg); err != nil {
			log.Error().Err(err).Msg("Server failed")
			os.Exit(1)
		}

	case "import":
		importCmd.Parse(os.Args[2:])
		applyLogLevel(cfg, *importLogLevel)

		if *importFile == "" {
			log.Error().Msg("import requires -file")
			importCmd.Usage()
			os.Exit(1)
		}

		if err := runImport(cfg, *importFile); err != nil {
			log.Error().Err(err).Msg("Import failed")
			os.Exit(1)
		}

	case "migrate":
		migrateCmd.Parse(os.Args[2:])
		zerolog.SetGlobalLevel(cfg.LogLevel)

		if err := runMigrate(cfg, *migrateDown); err != nil {
			log.Error().Err(err).Msg("Migration failed")
			os.Exit(1)
		}

	case "healthcheck":
		healthCmd.Parse(os.Args[2:])
		zerolog.SetGlobalLevel(zerolog.WarnLevel)

		url := healthcheck.URL(cfg.ServerPort, *healthPath)
		if err := healthcheck.Probe(context.Background(), nil, url, *healthTimeout); err != nil {
			log.Error().Err(err).Str("url", url).Msg("Health check failed")
			os.Exit(1)
		}

	case "version":
		fmt.Println(version)

	case "-h", "--help", "help":
		printUsage()
		os.Exit(0)

	default:
		log.Error().Str("command", os.Args[1]).Msg("Unknown command")
		fmt.Println(commandsHelp)
		fmt.Println(subcommandsHelp)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(usage)
	fmt.Println(commandsHelp)
	fmt.Println(subcommandsHelp)
}

func addStoreFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "Store driver: mongo or sqlite (env: STORE_DRIVER)")
	fs.StringVar(&cfg.MongoURL, "mongo-url", cfg.MongoURL, "MongoDB connection string (env: MONGO_URL)")
	fs.StringVar(&cfg.MongoDB, "mongo-db", cfg.MongoDB, "MongoDB database name (env: MONGO_DB)")
	fs.StringVar(&cfg.SQLitePath, "db", cfg.SQLitePath, "Path to the SQLite database file (env: SQLITE_PATH)")
}

func applyLogLevel(cfg *config.Config, s string) {
	if level, err := zerolog.ParseLevel(s); err == nil {
		cfg.LogLevel = level
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
}

// openStore connects the configured backend.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		db, err := database.NewDB(ctx, database.NewConfig(cfg.SQLitePath))
		if err != nil {
			log.Error().Err(err).Str("path", cfg.SQLitePath).Msg("Failed to initialize database")
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return storage.NewSQLiteStore(db), nil

	default:
		conn, err := database.ConnectMongo(ctx, database.NewMongoConfig(cfg.MongoURL, cfg.MongoDB))
		if err != nil {
			log.Error().Err(err).Str("database", cfg.MongoDB).Msg("Failed to connect to MongoDB")
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		if err := conn.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to ensure indexes")
		}
		return storage.NewMongoStore(conn), nil
	}
}

// runServer starts the HTTP API server with the provided configuration.
func runServer(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	media, err := config.LoadMedia(cfg.MediaPath)
	if err != nil {
		return err
	}
	log.Info().Str("path", cfg.MediaPath).Int("countries", len(media.Feeds.Countries())).Msg("Media definition loaded")

	ctx, cancel := context.WithTimeout(context.Background(), database.DefaultConnectTimeout*2)
	store, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), database.DefaultConnectTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("Failed to close store")
		}
	}()

	environment := "development"
	if cfg.Production {
		environment = config.EnvProduction
	}
	reporter, err := errreport.NewSentry(cfg.SentryDSN, version, environment)
	if err != nil {
		return fmt.Errorf("failed to initialize error reporting: %w", err)
	}
	defer reporter.Flush(errorFlushTimeout)

	log.Debug().Msg("Starting server with debug logging enabled")

	return server.RunServer(server.Options{
		BasePath:      cfg.BasePath(),
		Media:         media,
		Store:         store,
		Metrics:       metrics.New(),
		TelemetryAuth: cfg.TelemetryAuth,
		Reporter:      reporter,
		Logger:        log.Logger,
	}, cfg.ListenAddr())
}

// runImport loads a JSON article dump into the configured store.
func runImport(cfg *config.Config, source string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	_, err = importarticles.NewImporter(store).ImportFile(ctx, source)
	return err
}

// runMigrate brings the SQLite schema up to date, then rolls back the last
// down migrations when down is positive. MongoDB needs no schema.
func runMigrate(cfg *config.Config, down int) error {
	if down < 0 {
		return fmt.Errorf("-down must not be negative, got %d", down)
	}

	ctx, cancel := context.WithTimeout(context.Background(), database.DefaultConnectTimeout*2)
	defer cancel()

	db, err := database.NewDB(ctx, database.NewConfig(cfg.SQLitePath))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if down == 0 {
		log.Info().Str("path", cfg.SQLitePath).Msg("Schema is up to date")
		return nil
	}
	return db.Rollback(down)
}
