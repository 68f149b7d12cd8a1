package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"opentitles/api/internal/database"
	"opentitles/api/internal/metrics"
	"opentitles/api/internal/models"
	"opentitles/api/internal/server/api"
	"opentitles/api/internal/server/storage"
	"opentitles/api/internal/server/storage/mocks"
)

const testMedia = `{
  "feeds": {
    "nl": [
      {"name": "NOS", "prefix": "", "suffix": "", "feeds": ["https://feeds.nos.nl/nosnieuwsalgemeen"],
       "id_container": "guid", "id_mask": "[0-9]{7}", "page_id_location": "", "page_id_query": "",
       "match_domains": ["nos.nl"], "title_query": "h1"},
      {"name": "NU.nl", "feeds": ["https://www.nu.nl/rss"]}
    ],
    "de": [{"name": "Tagesschau"}]
  }
}`

var fixedNow = time.Date(2026, time.October, 15, 15, 4, 5, 0, time.UTC)

func loadTestMedia(t *testing.T) *models.MediaDefinition {
	t.Helper()
	var def models.MediaDefinition
	require.NoError(t, json.Unmarshal([]byte(testMedia), &def))
	return &def
}

type ServerTestSuite struct {
	suite.Suite

	store   storage.Store
	metrics *metrics.Metrics
	srv     *Server
}

func (s *ServerTestSuite) SetupTest() {
	db, err := database.NewDB(context.Background(), database.NewConfig(filepath.Join(s.T().TempDir(), "api.db")))
	s.Require().NoError(err)

	s.store = storage.NewSQLiteStore(db)
	s.metrics = metrics.New()
	s.srv = New(Options{
		BasePath:          "/v2",
		Media:             loadTestMedia(s.T()),
		Store:             s.store,
		Metrics:           s.metrics,
		TelemetryAuth:     "telemetry-secret",
		Logger:            zerolog.Nop(),
		SuggestionOptions: []api.SuggestionsOption{api.WithClock(func() time.Time { return fixedNow })},
	})
}

func (s *ServerTestSuite) TearDownTest() {
	s.Require().NoError(s.srv.Drain(context.Background()))
	s.store.Close(context.Background())
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().Equal("application/json", rec.Header().Get("Content-Type"))
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v))
}

func (s *ServerTestSuite) insertArticle(lang, org, id string) *models.Article {
	a := &models.Article{
		Org:        org,
		ArticleID:  id,
		FeedTitle:  "NOS Nieuws",
		SourceFeed: "https://feeds.nos.nl/nosnieuwsalgemeen",
		Lang:       lang,
		Link:       "https://nos.nl/artikel/" + id,
		GUID:       "https://nos.nl/l/" + id,
		Titles: models.Titles{
			{Title: "Eerste titel", Datetime: "2024-01-01 10:00", Timestamp: 1704103200000},
			{Title: "Tweede titel", Datetime: "2024-01-01 11:00", Timestamp: 1704106800000},
		},
		FirstSeen: "2024-01-01 10:00",
		PubDate:   "2024-01-01 09:55",
	}
	s.Require().NoError(s.store.InsertArticle(context.Background(), a))
	return a
}

func (s *ServerTestSuite) TestListCountries() {
	first := s.do(http.MethodGet, "/v2/country", "")
	s.Require().Equal(http.StatusOK, first.Code)

	var countries []string
	s.decode(first, &countries)
	s.Equal([]string{"nl", "de"}, countries)

	second := s.do(http.MethodGet, "/v2/country", "")
	s.Equal(first.Body.String(), second.Body.String(), "repeated calls are identical")
}

func (s *ServerTestSuite) TestListOrgs() {
	rec := s.do(http.MethodGet, "/v2/country/nl/org", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var orgs []string
	s.decode(rec, &orgs)
	s.Equal([]string{"NOS", "NU.nl"}, orgs)
}

func (s *ServerTestSuite) TestListOrgsUnknownCountry() {
	rec := s.do(http.MethodGet, "/v2/country/xx/org", "")
	s.Require().Equal(http.StatusNotFound, rec.Code)
	s.JSONEq(`{"error": "No such country", "lookat": "/v2/country"}`, rec.Body.String())
}

func (s *ServerTestSuite) TestGetOrg() {
	rec := s.do(http.MethodGet, "/v2/country/nl/org/NOS", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var org models.MediumDefinition
	s.decode(rec, &org)
	s.Equal("NOS", org.Name)
	s.Equal("guid", org.IDContainer)
	s.Equal([]string{"nos.nl"}, org.MatchDomains)
	s.Equal("h1", org.TitleQuery)
}

func (s *ServerTestSuite) TestGetOrgPercentDecoded() {
	rec := s.do(http.MethodGet, "/v2/country/nl/org/NU%2Enl", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var org models.MediumDefinition
	s.decode(rec, &org)
	s.Equal("NU.nl", org.Name)
}

func (s *ServerTestSuite) TestGetOrgNotFound() {
	rec := s.do(http.MethodGet, "/v2/country/xx/org/NOS", "")
	s.Require().Equal(http.StatusNotFound, rec.Code)
	s.JSONEq(`{"error": "No such country", "lookat": "/v2/country"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/v2/country/de/org/NOS", "")
	s.Require().Equal(http.StatusNotFound, rec.Code)
	s.JSONEq(`{"error": "No such organisation", "lookat": "/v2/country/de/org"}`, rec.Body.String())
}

func (s *ServerTestSuite) TestListRecentArticles() {
	for i := 0; i < 25; i++ {
		s.insertArticle("nl", "NOS", fmt.Sprintf("%07d", i))
	}
	s.insertArticle("de", "NOS", "1111111")

	rec := s.do(http.MethodGet, "/v2/country/nl/org/NOS/article", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var articles []models.Article
	s.decode(rec, &articles)
	s.Require().Len(articles, 20)
	s.Equal("0000024", articles[0].ArticleID)
	s.Equal("0000005", articles[19].ArticleID)
	for _, a := range articles {
		s.Equal("nl", a.Lang)
	}
}

func (s *ServerTestSuite) TestListRecentArticlesEmpty() {
	rec := s.do(http.MethodGet, "/v2/country/nl/org/NOS/article", "")
	s.Require().Equal(http.StatusNotFound, rec.Code)

	var body map[string]string
	s.decode(rec, &body)
	s.NotEmpty(body["error"])
}

func (s *ServerTestSuite) TestGetArticle() {
	stored := s.insertArticle("nl", "NOS", "2353584")

	rec := s.do(http.MethodGet, "/v2/country/nl/org/NOS/article/2353584", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	expected, err := json.Marshal(stored)
	s.Require().NoError(err)
	s.Equal(string(expected), rec.Body.String())
}

func (s *ServerTestSuite) TestGetArticleMissingIsNull() {
	s.insertArticle("nl", "NOS", "2353584")

	rec := s.do(http.MethodGet, "/v2/country/de/org/NOS/article/2353584", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("null", rec.Body.String())
}

func (s *ServerTestSuite) TestGetArticleInvalidID() {
	for _, id := range []string{"not%20valid", "%3Cscript%3E", strings.Repeat("9", models.MaxArticleIDLength+1)} {
		rec := s.do(http.MethodGet, "/v2/country/nl/org/NOS/article/"+id, "")
		s.Equal(http.StatusBadRequest, rec.Code, id)
		s.Empty(rec.Body.String(), id)
	}
}

func (s *ServerTestSuite) TestArticleTextIsNotHTMLEscaped() {
	a := &models.Article{
		Org:       "NOS",
		ArticleID: "2353585",
		Lang:      "nl",
		Link:      "https://nos.nl/artikel/2353585?a=1&b=2",
		Titles:    models.Titles{{Title: "A & B <live>", Datetime: "2024-01-01 10:00", Timestamp: 1704103200000}},
	}
	s.Require().NoError(s.store.InsertArticle(context.Background(), a))

	for _, path := range []string{"/v2/country/nl/org/NOS/article/2353585", "/v2/country/nl/org/NOS/article", "/opentitles/article/NOS/2353585"} {
		rec := s.do(http.MethodGet, path, "")
		s.Require().Equal(http.StatusOK, rec.Code, path)
		s.Contains(rec.Body.String(), `"A & B <live>"`, path)
		s.Contains(rec.Body.String(), `?a=1&b=2`, path)
		s.NotContains(rec.Body.String(), `\u0026`, path)
		s.False(strings.HasSuffix(rec.Body.String(), "\n"), path)
	}
}

func (s *ServerTestSuite) TestLegacyArticle() {
	stored := s.insertArticle("nl", "NOS", "2353584")

	rec := s.do(http.MethodGet, "/opentitles/article/NOS/2353584", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	expected, err := json.MarshalIndent(stored, "", "    ")
	s.Require().NoError(err)
	s.Equal(string(expected), rec.Body.String())

	rec = s.do(http.MethodGet, "/opentitles/article/NOS/bad%20id", "")
	s.Equal(http.StatusBadRequest, rec.Code)

	for _, path := range []string{"/opentitles/article/NOS/", "/opentitles/article/NOS", "/opentitles/article/NOS/1/extra"} {
		rec = s.do(http.MethodGet, path, "")
		s.Equal(http.StatusBadRequest, rec.Code, path)
		s.Empty(rec.Body.String(), path)
	}
}

func (s *ServerTestSuite) TestSuggestThenList() {
	rec := s.do(http.MethodPost, "/v2/suggest", `{"url": "https://example.com/feed", "hasrss": true, "rss_overview": "1 feed", "has_id": false}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Empty(rec.Body.String())

	s.Require().NoError(s.srv.Drain(context.Background()))

	rec = s.do(http.MethodGet, "/v2/suggest", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var suggestions []models.Suggestion
	s.decode(rec, &suggestions)
	s.Require().Len(suggestions, 1)
	s.Equal("https://example.com/feed", suggestions[0].URL)
	s.Equal(true, suggestions[0].RSSPresent)
	s.Equal("1 feed", suggestions[0].RSSOverview)
	s.Equal(false, suggestions[0].HasID)
	s.Equal("October 15th 2026, 3:04:05 pm", suggestions[0].Datetime)
}

func (s *ServerTestSuite) TestSuggestDeduplicatesSequentialSubmissions() {
	for i := 0; i < 3; i++ {
		rec := s.do(http.MethodPost, "/v2/suggest", `{"url": "https://example.com/feed"}`)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Require().NoError(s.srv.Drain(context.Background()))
	}

	suggestions, err := s.store.ListSuggestions(context.Background())
	s.Require().NoError(err)
	s.Len(suggestions, 1)
}

func (s *ServerTestSuite) TestSuggestWithoutURLIsIgnored() {
	for _, body := range []string{`{}`, `{"url": ""}`, `{"hasrss": true}`, `null`} {
		rec := s.do(http.MethodPost, "/v2/suggest", body)
		s.Equal(http.StatusOK, rec.Code, body)
	}
	s.Require().NoError(s.srv.Drain(context.Background()))

	suggestions, err := s.store.ListSuggestions(context.Background())
	s.Require().NoError(err)
	s.Empty(suggestions)
}

func (s *ServerTestSuite) TestSuggestMalformedBody() {
	for _, body := range []string{`{"url": `, `"{\"url\": \"https://example.com\"}"`, `[1,2]`, `{"url": 5}`, `{"url":"a"} {"url":"b"}`} {
		rec := s.do(http.MethodPost, "/v2/suggest", body)
		s.Equal(http.StatusBadRequest, rec.Code, body)
		s.Empty(rec.Body.String(), body)
	}
}

func (s *ServerTestSuite) TestSuggestEmptyOrNonJSONBodyIsIgnored() {
	requests := []struct {
		contentType string
		body        string
	}{
		{"application/json", ""},
		{"application/json; charset=utf-8", "  \n"},
		{"application/x-www-form-urlencoded", "url=https%3A%2F%2Fexample.com"},
		{"text/plain", `{"url": "https://example.com"}`},
		{"", `{"url": "https://example.com"}`},
	}

	for _, tc := range requests {
		req := httptest.NewRequest(http.MethodPost, "/v2/suggest", strings.NewReader(tc.body))
		if tc.contentType != "" {
			req.Header.Set("Content-Type", tc.contentType)
		}
		rec := httptest.NewRecorder()
		s.srv.Handler().ServeHTTP(rec, req)

		s.Equal(http.StatusOK, rec.Code, tc.contentType)
		s.Empty(rec.Body.String(), tc.contentType)
	}
	s.Require().NoError(s.srv.Drain(context.Background()))

	suggestions, err := s.store.ListSuggestions(context.Background())
	s.Require().NoError(err)
	s.Empty(suggestions)
}

func (s *ServerTestSuite) TestListSuggestionsKeepsAbsentFieldsAsNull() {
	rec := s.do(http.MethodPost, "/v2/suggest", `{"url": "https://example.com/bare"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NoError(s.srv.Drain(context.Background()))

	rec = s.do(http.MethodGet, "/v2/suggest", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var listed []map[string]any
	s.decode(rec, &listed)
	s.Require().Len(listed, 1)
	for _, key := range []string{"rss_present", "rss_overview", "has_id"} {
		value, ok := listed[0][key]
		s.True(ok, key)
		s.Nil(value, key)
	}
}

func (s *ServerTestSuite) TestLegacySuggestRoutes() {
	rec := s.do(http.MethodPost, "/opentitles/suggest", `{"url": "https://example.org"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NoError(s.srv.Drain(context.Background()))

	rec = s.do(http.MethodGet, "/opentitles/suggest", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "\n    {")

	var suggestions []models.Suggestion
	s.decode(rec, &suggestions)
	s.Require().Len(suggestions, 1)
	s.Equal("https://example.org", suggestions[0].URL)
}

func (s *ServerTestSuite) TestHealth() {
	rec := s.do(http.MethodGet, HealthPath, "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("OK", rec.Body.String())
}

func (s *ServerTestSuite) TestMetricsEndpoint() {
	s.do(http.MethodGet, "/v2/country", "")

	rec := s.do(http.MethodGet, "/v2/metrics", "")
	s.Equal(http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v2/metrics", nil)
	req.Header.Set("Authorization", "telemetry-secret")
	rec = httptest.NewRecorder()
	s.srv.Handler().ServeHTTP(rec, req)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `opentitles_http_requests_total{method="GET",route="GET /v2/country",status="200"} 1`)
}

func (s *ServerTestSuite) TestCORS() {
	req := httptest.NewRequest(http.MethodGet, "/v2/country", nil)
	req.Header.Set("Origin", "https://opentitles.info")
	rec := httptest.NewRecorder()
	s.srv.Handler().ServeHTTP(rec, req)

	s.Equal("https://opentitles.info", rec.Header().Get("Access-Control-Allow-Origin"))
	s.Equal("true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func (s *ServerTestSuite) TestRequestIDHeader() {
	rec := s.do(http.MethodGet, "/v2/country", "")
	s.NotEmpty(rec.Header().Get("Request-Id"))
}

func TestMetricsEndpointDisabledWithoutCredential(t *testing.T) {
	ctrl := gomock.NewController(t)
	srv := New(Options{
		BasePath: "/v2",
		Media:    loadTestMedia(t),
		Store:    mocks.NewMockStore(ctrl),
		Metrics:  metrics.New(),
		Logger:   zerolog.Nop(),
	})

	req := httptest.NewRequest(http.MethodGet, "/v2/metrics", nil)
	req.Header.Set("Authorization", "")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRevisionPrefix(t *testing.T) {
	ctrl := gomock.NewController(t)
	srv := New(Options{
		BasePath: "/v3",
		Media:    loadTestMedia(t),
		Store:    mocks.NewMockStore(ctrl),
		Logger:   zerolog.Nop(),
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v3/country/xx/org", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "No such country", "lookat": "/v3/country"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v2/country", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func newMockServer(t *testing.T) (*Server, *mocks.MockStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	srv := New(Options{
		BasePath: "/v2",
		Media:    loadTestMedia(t),
		Store:    store,
		Logger:   zerolog.Nop(),
	})
	return srv, store
}

func serve(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestStoreFailuresReturnServerErrors(t *testing.T) {
	srv, store := newMockServer(t)
	boom := errors.New("connection reset")

	store.EXPECT().FindRecentArticles(gomock.Any(), storage.ArticleFilter{Lang: "nl", Org: "NOS"}, storage.DefaultRecentLimit).Return(nil, boom)
	store.EXPECT().FindArticle(gomock.Any(), storage.ArticleFilter{Lang: "nl", Org: "NOS", ArticleID: "1"}).Return(nil, boom)
	store.EXPECT().ListSuggestions(gomock.Any()).Return(nil, boom)
	store.EXPECT().Ping(gomock.Any()).Return(boom)

	rec := serve(srv, http.MethodGet, "/v2/country/nl/org/NOS/article", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)

	rec = serve(srv, http.MethodGet, "/v2/country/nl/org/NOS/article/1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = serve(srv, http.MethodGet, "/v2/suggest", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = serve(srv, http.MethodGet, HealthPath, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestInvalidArticleIDNeverReachesStore(t *testing.T) {
	srv, _ := newMockServer(t)

	rec := serve(srv, http.MethodGet, "/v2/country/nl/org/NOS/article/a%3Bb%3Cc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestRespondsBeforeWriteCompletes(t *testing.T) {
	srv, store := newMockServer(t)

	release := make(chan struct{})
	store.EXPECT().FindSuggestionByURL(gomock.Any(), "https://example.com/feed").
		DoAndReturn(func(ctx context.Context, url string) (*models.Suggestion, error) {
			<-release
			return nil, nil
		})
	store.EXPECT().InsertSuggestion(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, s *models.Suggestion) error {
			assert.Equal(t, "https://example.com/feed", s.URL)
			assert.NotEmpty(t, s.Datetime)
			return nil
		})

	rec := serve(srv, http.MethodPost, "/v2/suggest", `{"url": "https://example.com/feed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, srv.Drain(ctx), context.DeadlineExceeded, "write still pending")

	close(release)
	require.NoError(t, srv.Drain(context.Background()))
}

func TestSuggestWriteErrorsAreNotSurfaced(t *testing.T) {
	srv, store := newMockServer(t)

	store.EXPECT().FindSuggestionByURL(gomock.Any(), "https://example.com").Return(nil, errors.New("timeout"))

	rec := serve(srv, http.MethodPost, "/v2/suggest", `{"url": "https://example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	require.NoError(t, srv.Drain(context.Background()))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv, store := newMockServer(t)
	store.EXPECT().Ping(gomock.Any()).Return(nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + HealthPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
