package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"opentitles/api/internal/database"
	"opentitles/api/internal/models"
)

// sqlxRepository implements Store on the SQLite database.
type sqlxRepository struct {
	db *database.DB
}

// NewSQLiteStore creates a store backed by an open SQLite database.
func NewSQLiteStore(db *database.DB) Store {
	return &sqlxRepository{db: db}
}

const articleColumns = `id, org, article_id, feedtitle, sourcefeed, lang, link, guid, titles, first_seen, pub_date`

func articleWhere(f ArticleFilter) (string, []any) {
	where := `WHERE org = ?`
	args := []any{f.Org}
	if f.Lang != "" {
		where += ` AND lang = ?`
		args = append(args, f.Lang)
	}
	if f.ArticleID != "" {
		where += ` AND article_id = ?`
		args = append(args, f.ArticleID)
	}
	return where, args
}

// FindArticle implements ArticleRepository.
func (r *sqlxRepository) FindArticle(ctx context.Context, filter ArticleFilter) (*models.Article, error) {
	if err := filter.validateLookup(); err != nil {
		return nil, err
	}

	where, args := articleWhere(filter)
	query := `SELECT ` + articleColumns + ` FROM articles ` + where + ` ORDER BY id ASC LIMIT 1`

	var article models.Article
	err := r.db.GetContext(ctx, &article, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return &article, nil
}

// FindRecentArticles implements ArticleRepository.
func (r *sqlxRepository) FindRecentArticles(ctx context.Context, filter ArticleFilter, limit int) ([]models.Article, error) {
	if err := filter.validateListing(); err != nil {
		return nil, err
	}

	where, args := articleWhere(filter)
	query := `SELECT ` + articleColumns + ` FROM articles ` + where + ` ORDER BY id DESC LIMIT ?`
	args = append(args, normalizeLimit(limit))

	articles := []models.Article{}
	if err := r.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return articles, nil
}

// InsertArticle implements ArticleRepository.
func (r *sqlxRepository) InsertArticle(ctx context.Context, article *models.Article) error {
	res, err := r.db.NamedExecContext(ctx, `
		INSERT INTO articles (org, article_id, feedtitle, sourcefeed, lang, link, guid, titles, first_seen, pub_date)
		VALUES (:org, :article_id, :feedtitle, :sourcefeed, :lang, :link, :guid, :titles, :first_seen, :pub_date)
	`, article)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	article.ID = strconv.FormatInt(id, 10)
	return nil
}

// suggestionRow is the SQLite shape of a suggestion. Free-form client fields
// are kept as JSON text.
type suggestionRow struct {
	ID          int64          `db:"id"`
	URL         string         `db:"url"`
	RSSPresent  sql.NullString `db:"rss_present"`
	RSSOverview sql.NullString `db:"rss_overview"`
	HasID       sql.NullString `db:"has_id"`
	Datetime    string         `db:"datetime"`
}

func encodeLoose(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeLoose(ns sql.NullString) (any, error) {
	if !ns.Valid {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(ns.String), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (row suggestionRow) toModel() (models.Suggestion, error) {
	s := models.Suggestion{
		ID:       strconv.FormatInt(row.ID, 10),
		URL:      row.URL,
		Datetime: row.Datetime,
	}
	var err error
	if s.RSSPresent, err = decodeLoose(row.RSSPresent); err != nil {
		return s, fmt.Errorf("decode rss_present: %w", err)
	}
	if s.RSSOverview, err = decodeLoose(row.RSSOverview); err != nil {
		return s, fmt.Errorf("decode rss_overview: %w", err)
	}
	if s.HasID, err = decodeLoose(row.HasID); err != nil {
		return s, fmt.Errorf("decode has_id: %w", err)
	}
	return s, nil
}

// FindSuggestionByURL implements SuggestionRepository.
func (r *sqlxRepository) FindSuggestionByURL(ctx context.Context, url string) (*models.Suggestion, error) {
	var row suggestionRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM suggestions WHERE url = ? ORDER BY id ASC LIMIT 1`, url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	s, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSuggestions implements SuggestionRepository.
func (r *sqlxRepository) ListSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	var rows []suggestionRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM suggestions`); err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	suggestions := make([]models.Suggestion, 0, len(rows))
	for _, row := range rows {
		s, err := row.toModel()
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, nil
}

// InsertSuggestion implements SuggestionRepository.
func (r *sqlxRepository) InsertSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	row := suggestionRow{URL: suggestion.URL, Datetime: suggestion.Datetime}

	var err error
	if row.RSSPresent, err = encodeLoose(suggestion.RSSPresent); err != nil {
		return fmt.Errorf("encode rss_present: %w", err)
	}
	if row.RSSOverview, err = encodeLoose(suggestion.RSSOverview); err != nil {
		return fmt.Errorf("encode rss_overview: %w", err)
	}
	if row.HasID, err = encodeLoose(suggestion.HasID); err != nil {
		return fmt.Errorf("encode has_id: %w", err)
	}

	res, err := r.db.NamedExecContext(ctx, `
		INSERT INTO suggestions (url, rss_present, rss_overview, has_id, datetime)
		VALUES (:url, :rss_present, :rss_overview, :has_id, :datetime)
	`, row)
	if err != nil {
		return fmt.Errorf("insert suggestion: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert suggestion: %w", err)
	}
	suggestion.ID = strconv.FormatInt(id, 10)
	return nil
}

// Ping implements Store.
func (r *sqlxRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close implements Store.
func (r *sqlxRepository) Close(_ context.Context) error {
	return r.db.Close()
}
