package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"opentitles/api/internal/errreport"
	"opentitles/api/internal/metrics"
	"opentitles/api/internal/models"
	"opentitles/api/internal/server/storage"
)

const (
	maxSuggestionBytes         = 64 << 10
	defaultSuggestWriteTimeout = 10 * time.Second
)

type suggestionRequest struct {
	URL         string `json:"url" validate:"required"`
	HasRSS      any    `json:"hasrss"`
	RSSOverview any    `json:"rss_overview"`
	HasID       any    `json:"has_id"`
}

// SuggestionsHandler accepts and lists user suggestions. Submissions are
// acknowledged before they are written; the write runs in the background.
type SuggestionsHandler struct {
	repo         storage.SuggestionRepository
	reporter     errreport.Reporter
	metrics      *metrics.Metrics
	validate     *validator.Validate
	now          func() time.Time
	writeTimeout time.Duration

	pending sync.WaitGroup
}

// SuggestionsOption customises a SuggestionsHandler.
type SuggestionsOption func(*SuggestionsHandler)

// WithClock overrides the time source used for the suggestion datetime.
func WithClock(now func() time.Time) SuggestionsOption {
	return func(h *SuggestionsHandler) { h.now = now }
}

// WithWriteTimeout bounds each background write.
func WithWriteTimeout(d time.Duration) SuggestionsOption {
	return func(h *SuggestionsHandler) { h.writeTimeout = d }
}

// NewSuggestionsHandler creates a new handler instance. reporter and m may be nil.
func NewSuggestionsHandler(repo storage.SuggestionRepository, reporter errreport.Reporter, m *metrics.Metrics, opts ...SuggestionsOption) *SuggestionsHandler {
	if reporter == nil {
		reporter = errreport.Nop{}
	}
	h := &SuggestionsHandler{
		repo:         repo,
		reporter:     reporter,
		metrics:      m,
		validate:     newValidator(),
		now:          time.Now,
		writeTimeout: defaultSuggestWriteTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Submit handles POST /v{rev}/suggest. A JSON body is decoded once and
// malformed JSON is rejected. Anything else gets an empty 200 before the store
// is touched. Empty bodies, non-JSON content types and bodies without url are
// dropped.
func (h *SuggestionsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	if !isJSONContent(r) {
		log.Debug().Str("content_type", r.Header.Get("Content-Type")).Msg("Non-JSON suggestion ignored")
		w.WriteHeader(http.StatusOK)
		return
	}

	req, err := decodeSuggestion(http.MaxBytesReader(w, r.Body, maxSuggestionBytes))
	if errors.Is(err, io.EOF) {
		log.Debug().Msg("Empty suggestion body ignored")
		w.WriteHeader(http.StatusOK)
		return
	}
	if err != nil {
		log.Warn().Err(err).Msg("Malformed suggestion body")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)

	if err := h.validate.Struct(req); err != nil {
		log.Debug().Err(err).Msg("Suggestion without url ignored")
		return
	}

	logger := log.With().Str("url", req.URL).Logger()
	h.pending.Add(1)
	go h.store(logger, req)
}

func isJSONContent(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeSuggestion returns io.EOF unwrapped for an empty body.
func decodeSuggestion(body io.Reader) (suggestionRequest, error) {
	var req suggestionRequest

	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	if dec.More() {
		return req, errors.New("unexpected data after suggestion object")
	}
	return req, nil
}

// store runs detached from the request. Its outcome is only visible in logs,
// metrics and the error reporter. Check-then-insert is not atomic: two
// concurrent submissions of one URL can both be stored.
func (h *SuggestionsHandler) store(logger zerolog.Logger, req suggestionRequest) {
	defer h.pending.Done()

	ctx, cancel := context.WithTimeout(context.Background(), h.writeTimeout)
	defer cancel()

	existing, err := h.repo.FindSuggestionByURL(ctx, req.URL)
	if err != nil {
		logger.Error().Err(err).Msg("Error checking for existing suggestion")
		h.reporter.Report(err)
		h.metrics.RecordSuggestion(metrics.SuggestionError)
		return
	}
	if existing != nil {
		logger.Debug().Str("id", existing.ID).Msg("Suggestion already known")
		h.metrics.RecordSuggestion(metrics.SuggestionDuplicate)
		return
	}

	suggestion := models.NewSuggestion(req.URL, req.HasRSS, req.RSSOverview, req.HasID, h.now())
	if err := h.repo.InsertSuggestion(ctx, suggestion); err != nil {
		logger.Error().Err(err).Msg("Error storing suggestion")
		h.reporter.Report(err)
		h.metrics.RecordSuggestion(metrics.SuggestionError)
		return
	}

	logger.Info().Str("id", suggestion.ID).Msg("Suggestion stored")
	h.metrics.RecordSuggestion(metrics.SuggestionStored)
}

// Wait blocks until every background write has finished or ctx is done.
func (h *SuggestionsHandler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// List handles GET /v{rev}/suggest.
func (h *SuggestionsHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// ListLegacy handles GET /opentitles/suggest.
func (h *SuggestionsHandler) ListLegacy(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *SuggestionsHandler) list(w http.ResponseWriter, r *http.Request, pretty bool) {
	suggestions, err := h.repo.ListSuggestions(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Error listing suggestions")
		h.reporter.Report(err)
		writeError(w, r, http.StatusInternalServerError, "Could not retrieve suggestions", "")
		return
	}
	writeJSON(w, r, http.StatusOK, suggestions, pretty)
}
