package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrMissingMongoURL is returned when no connection string was configured.
var ErrMissingMongoURL = errors.New("MONGO_URL is not set")

// Collection names.
const (
	ArticlesCollection    = "articles"
	SuggestionsCollection = "suggestions"
)

// Mongo is the single MongoDB connection shared by every request.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// ConnectMongo connects once and verifies the server answers. The initial
// attempt is not retried.
func ConnectMongo(ctx context.Context, cfg *MongoConfig) (*Mongo, error) {
	if cfg.URL == "" {
		return nil, ErrMissingMongoURL
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URL).
		SetAppName(cfg.AppName).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		// Free-form suggestion fields decode to maps so they render as plain JSON objects.
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	log.Info().Str("database", cfg.Database).Msg("MongoDB connection successful")
	return &Mongo{Client: client, DB: client.Database(cfg.Database)}, nil
}

// EnsureIndexes creates the lookup indexes used by the API. They are not unique:
// (org, articleID) and suggestion URLs are natural keys only.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.DB.Collection(ArticlesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "org", Value: 1}, {Key: "articleID", Value: 1}}},
		{Keys: bson.D{{Key: "lang", Value: 1}, {Key: "org", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create article indexes: %w", err)
	}

	_, err = m.DB.Collection(SuggestionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "url", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create suggestion index: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
