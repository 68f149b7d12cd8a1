//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

package storage

import (
	"context"
	"errors"

	"opentitles/api/internal/models"
)

// DefaultRecentLimit is the number of articles returned by recency listings.
const DefaultRecentLimit = 20

// ErrInvalidFilter is returned when a filter lacks the fields an operation needs.
var ErrInvalidFilter = errors.New("invalid article filter")

// ArticleFilter selects articles. An empty Lang matches every language.
type ArticleFilter struct {
	Lang      string
	Org       string
	ArticleID string
}

// ArticleRepository defines read access to tracked articles plus the insert
// used by the import command.
type ArticleRepository interface {
	// FindArticle returns nil, nil when no article matches.
	FindArticle(ctx context.Context, filter ArticleFilter) (*models.Article, error)
	// FindRecentArticles returns at most limit articles, most recently inserted first.
	FindRecentArticles(ctx context.Context, filter ArticleFilter, limit int) ([]models.Article, error)
	InsertArticle(ctx context.Context, article *models.Article) error
}

// SuggestionRepository defines access to user submitted suggestions.
type SuggestionRepository interface {
	// FindSuggestionByURL returns nil, nil when no suggestion has this URL.
	FindSuggestionByURL(ctx context.Context, url string) (*models.Suggestion, error)
	ListSuggestions(ctx context.Context) ([]models.Suggestion, error)
	InsertSuggestion(ctx context.Context, suggestion *models.Suggestion) error
}

// Store is the full data access layer owned by the process.
type Store interface {
	ArticleRepository
	SuggestionRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func (f ArticleFilter) validateLookup() error {
	if f.Org == "" || f.ArticleID == "" {
		return ErrInvalidFilter
	}
	return nil
}

func (f ArticleFilter) validateListing() error {
	if f.Org == "" {
		return ErrInvalidFilter
	}
	return nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecentLimit
	}
	return limit
}
