package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opentitles/api/internal/models"
)

func newArticle(lang, org, id string) *models.Article {
	return &models.Article{
		Org:        org,
		ArticleID:  id,
		FeedTitle:  "Nieuws",
		SourceFeed: "https://feeds.example.com/" + org,
		Lang:       lang,
		Link:       "https://example.com/" + id,
		GUID:       "guid-" + id,
		Titles: models.Titles{
			{Title: "First " + id, Datetime: "2024-01-01 10:00", Timestamp: 1704103200000},
			{Title: "Second " + id, Datetime: "2024-01-01 11:00", Timestamp: 1704106800000},
		},
		FirstSeen: "2024-01-01 10:00",
		PubDate:   "2024-01-01 09:55",
	}
}

// testStoreContract exercises behaviour every Store backend must share.
// newStore must return an empty store.
func testStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("FindArticle", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		stored := newArticle("nl", "NOS", "2353584")
		require.NoError(t, store.InsertArticle(ctx, stored))
		require.NotEmpty(t, stored.ID)
		require.NoError(t, store.InsertArticle(ctx, newArticle("de", "NOS", "999")))

		got, err := store.FindArticle(ctx, ArticleFilter{Org: "NOS", ArticleID: "2353584"})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, *stored, *got)

		got, err = store.FindArticle(ctx, ArticleFilter{Lang: "nl", Org: "NOS", ArticleID: "2353584"})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, stored.ID, got.ID)

		got, err = store.FindArticle(ctx, ArticleFilter{Lang: "de", Org: "NOS", ArticleID: "2353584"})
		require.NoError(t, err)
		assert.Nil(t, got, "language filter applies")

		got, err = store.FindArticle(ctx, ArticleFilter{Org: "NU.nl", ArticleID: "2353584"})
		require.NoError(t, err)
		assert.Nil(t, got)

		_, err = store.FindArticle(ctx, ArticleFilter{Org: "NOS"})
		assert.ErrorIs(t, err, ErrInvalidFilter)
	})

	t.Run("FindRecentArticles", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		for i := 0; i < DefaultRecentLimit+5; i++ {
			require.NoError(t, store.InsertArticle(ctx, newArticle("nl", "NOS", fmt.Sprintf("%d", i))))
		}
		require.NoError(t, store.InsertArticle(ctx, newArticle("de", "NOS", "other-lang")))
		require.NoError(t, store.InsertArticle(ctx, newArticle("nl", "NU.nl", "other-org")))

		recent, err := store.FindRecentArticles(ctx, ArticleFilter{Lang: "nl", Org: "NOS"}, DefaultRecentLimit)
		require.NoError(t, err)
		require.Len(t, recent, DefaultRecentLimit)

		for i, a := range recent {
			assert.Equal(t, fmt.Sprintf("%d", DefaultRecentLimit+4-i), a.ArticleID)
			assert.Equal(t, "nl", a.Lang)
			assert.Equal(t, "NOS", a.Org)
		}

		few, err := store.FindRecentArticles(ctx, ArticleFilter{Lang: "nl", Org: "NOS"}, 3)
		require.NoError(t, err)
		assert.Len(t, few, 3)

		none, err := store.FindRecentArticles(ctx, ArticleFilter{Lang: "xx", Org: "NOS"}, 0)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("Suggestions", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		missing, err := store.FindSuggestionByURL(ctx, "https://example.com/feed")
		require.NoError(t, err)
		assert.Nil(t, missing)

		listed, err := store.ListSuggestions(ctx)
		require.NoError(t, err)
		assert.NotNil(t, listed)
		assert.Empty(t, listed)

		now := time.Date(2026, time.October, 15, 15, 4, 5, 0, time.UTC)
		first := models.NewSuggestion("https://example.com/feed", true, "one feed", false, now)
		require.NoError(t, store.InsertSuggestion(ctx, first))
		require.NotEmpty(t, first.ID)
		require.NoError(t, store.InsertSuggestion(ctx, models.NewSuggestion("https://example.org", nil, nil, nil, now)))

		found, err := store.FindSuggestionByURL(ctx, "https://example.com/feed")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, first.ID, found.ID)
		assert.Equal(t, true, found.RSSPresent)
		assert.Equal(t, "one feed", found.RSSOverview)
		assert.Equal(t, false, found.HasID)
		assert.Equal(t, "October 15th 2026, 3:04:05 pm", found.Datetime)

		listed, err = store.ListSuggestions(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 2)

		urls := []string{listed[0].URL, listed[1].URL}
		assert.ElementsMatch(t, []string{"https://example.com/feed", "https://example.org"}, urls)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}
