package importarticles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"opentitles/api/internal/models"
	"opentitles/api/internal/server/storage"
)

const downloadTimeout = 30 * time.Second

// Importer loads article dumps into a store.
type Importer struct {
	repo   storage.ArticleRepository
	client *http.Client
}

// NewImporter creates a new article importer
func NewImporter(repo storage.ArticleRepository) *Importer {
	return &Importer{
		repo:   repo,
		client: &http.Client{Timeout: downloadTimeout},
	}
}

// ImportFile imports a JSON array of articles from a local path or an
// http(s) URL and returns how many were stored.
func (i *Importer) ImportFile(ctx context.Context, source string) (int, error) {
	log.Info().Str("source", source).Msg("Starting article import")

	r, err := i.open(ctx, source)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer r.Close()

	count, err := i.Import(ctx, r)
	if err != nil {
		return count, fmt.Errorf("failed to import articles: %w", err)
	}

	log.Info().Int("count", count).Msg("Import completed successfully")
	return count, nil
}

func (i *Importer) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.Open(source)
	}

	log.Debug().Str("url", source).Msg("Downloading article dump")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Import streams a JSON array of articles from r into the store. Entries
// without an org or with an unusable article id are skipped.
func (i *Importer) Import(ctx context.Context, r io.Reader) (int, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return 0, fmt.Errorf("read opening token: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return 0, errors.New("expected a JSON array of articles")
	}

	var imported, skipped int
	for index := 0; dec.More(); index++ {
		if err := ctx.Err(); err != nil {
			return imported, err
		}

		var article models.Article
		if err := dec.Decode(&article); err != nil {
			return imported, fmt.Errorf("decode article %d: %w", index, err)
		}

		if article.Org == "" || !models.IsValidArticleID(article.ArticleID) {
			log.Warn().Int("index", index).Str("org", article.Org).Str("article_id", article.ArticleID).
				Msg("Skipping article with missing org or invalid id")
			skipped++
			continue
		}

		// Ids belong to the target store.
		article.ID = ""
		if err := i.repo.InsertArticle(ctx, &article); err != nil {
			return imported, fmt.Errorf("insert article %d: %w", index, err)
		}
		imported++

		event := log.Debug().Str("org", article.Org).Str("article_id", article.ArticleID).Int("titles", len(article.Titles))
		if latest, ok := article.Titles.Latest(); ok {
			event = event.Str("latest_title", latest.Title)
		}
		event.Msg("Article imported")
	}

	if _, err := dec.Token(); err != nil {
		return imported, fmt.Errorf("read closing token: %w", err)
	}

	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("Some articles were skipped")
	}
	return imported, nil
}
