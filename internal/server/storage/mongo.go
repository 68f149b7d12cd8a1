package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"opentitles/api/internal/database"
	"opentitles/api/internal/models"
)

// mongoStore implements Store on top of a single shared MongoDB connection.
type mongoStore struct {
	conn        *database.Mongo
	articles    *mongo.Collection
	suggestions *mongo.Collection
}

// NewMongoStore wraps an established MongoDB connection.
func NewMongoStore(conn *database.Mongo) Store {
	return &mongoStore{
		conn:        conn,
		articles:    conn.DB.Collection(database.ArticlesCollection),
		suggestions: conn.DB.Collection(database.SuggestionsCollection),
	}
}

func articleQuery(f ArticleFilter) bson.D {
	q := bson.D{}
	if f.Lang != "" {
		q = append(q, bson.E{Key: "lang", Value: f.Lang})
	}
	q = append(q, bson.E{Key: "org", Value: f.Org})
	if f.ArticleID != "" {
		q = append(q, bson.E{Key: "articleID", Value: f.ArticleID})
	}
	return q
}

// FindArticle implements ArticleRepository.
func (s *mongoStore) FindArticle(ctx context.Context, filter ArticleFilter) (*models.Article, error) {
	if err := filter.validateLookup(); err != nil {
		return nil, err
	}

	var article models.Article
	err := s.articles.FindOne(ctx, articleQuery(filter)).Decode(&article)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article: %w", err)
	}
	return &article, nil
}

// FindRecentArticles implements ArticleRepository. ObjectIDs start with their
// creation time, so sorting on _id orders by insertion.
func (s *mongoStore) FindRecentArticles(ctx context.Context, filter ArticleFilter, limit int) ([]models.Article, error) {
	if err := filter.validateListing(); err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(normalizeLimit(limit)))

	cur, err := s.articles.Find(ctx, articleQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find recent articles: %w", err)
	}

	articles := []models.Article{}
	if err := cur.All(ctx, &articles); err != nil {
		return nil, fmt.Errorf("decode recent articles: %w", err)
	}
	return articles, nil
}

// InsertArticle implements ArticleRepository.
func (s *mongoStore) InsertArticle(ctx context.Context, article *models.Article) error {
	doc := *article
	doc.ID = ""
	res, err := s.articles.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	article.ID = insertedID(res)
	return nil
}

// FindSuggestionByURL implements SuggestionRepository.
func (s *mongoStore) FindSuggestionByURL(ctx context.Context, url string) (*models.Suggestion, error) {
	var suggestion models.Suggestion
	err := s.suggestions.FindOne(ctx, bson.D{{Key: "url", Value: url}}).Decode(&suggestion)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find suggestion: %w", err)
	}
	return &suggestion, nil
}

// ListSuggestions implements SuggestionRepository.
func (s *mongoStore) ListSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	cur, err := s.suggestions.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}

	suggestions := []models.Suggestion{}
	if err := cur.All(ctx, &suggestions); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	return suggestions, nil
}

// InsertSuggestion implements SuggestionRepository.
func (s *mongoStore) InsertSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	doc := *suggestion
	doc.ID = ""
	res, err := s.suggestions.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert suggestion: %w", err)
	}
	suggestion.ID = insertedID(res)
	return nil
}

// Ping implements Store.
func (s *mongoStore) Ping(ctx context.Context) error {
	return s.conn.Client.Ping(ctx, readpref.Primary())
}

// Close implements Store.
func (s *mongoStore) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

func insertedID(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(res.InsertedID)
}
