package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"

	"opentitles/api/internal/errreport"
	"opentitles/api/internal/server/storage"
)

// ArticlesHandler serves stored articles.
type ArticlesHandler struct {
	repo     storage.ArticleRepository
	reporter errreport.Reporter
	validate *validator.Validate
}

// NewArticlesHandler creates a new handler instance.
func NewArticlesHandler(repo storage.ArticleRepository, reporter errreport.Reporter) *ArticlesHandler {
	if reporter == nil {
		reporter = errreport.Nop{}
	}
	return &ArticlesHandler{
		repo:     repo,
		reporter: reporter,
		validate: newValidator(),
	}
}

// ListRecent handles GET /v{rev}/country/{country}/org/{org}/article and
// returns the most recently inserted articles. An empty result is a 404.
func (h *ArticlesHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	filter := storage.ArticleFilter{
		Lang: r.PathValue("country"),
		Org:  r.PathValue("org"),
	}

	articles, err := h.repo.FindRecentArticles(r.Context(), filter, storage.DefaultRecentLimit)
	if err != nil {
		log.Error().Err(err).Str("lang", filter.Lang).Str("org", filter.Org).Msg("Error fetching recent articles")
		h.reporter.Report(err)
		writeError(w, r, http.StatusInternalServerError, "Could not retrieve articles", "")
		return
	}

	if len(articles) == 0 {
		writeError(w, r, http.StatusNotFound, "No articles found for this organisation", "")
		return
	}

	writeJSON(w, r, http.StatusOK, articles, false)
}

// Get handles GET /v{rev}/country/{country}/org/{org}/article/{id}. A missing
// article is a 200 with a null body.
func (h *ArticlesHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.find(w, r, storage.ArticleFilter{
		Lang:      r.PathValue("country"),
		Org:       r.PathValue("org"),
		ArticleID: r.PathValue("id"),
	}, false)
}

// GetLegacy handles GET /opentitles/article/{org}/{id}, which has no language
// filter and pretty prints its output.
func (h *ArticlesHandler) GetLegacy(w http.ResponseWriter, r *http.Request) {
	h.find(w, r, storage.ArticleFilter{
		Org:       r.PathValue("org"),
		ArticleID: r.PathValue("id"),
	}, true)
}

func (h *ArticlesHandler) find(w http.ResponseWriter, r *http.Request, filter storage.ArticleFilter, pretty bool) {
	log := hlog.FromRequest(r)

	if filter.Org == "" || h.validate.Var(filter.ArticleID, "articleid") != nil {
		log.Warn().Str("org", filter.Org).Str("id", filter.ArticleID).Msg("Invalid article lookup parameters")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	article, err := h.repo.FindArticle(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Str("org", filter.Org).Str("id", filter.ArticleID).Msg("Error fetching article")
		h.reporter.Report(err)
		writeError(w, r, http.StatusInternalServerError, "Could not retrieve article", "")
		return
	}

	writeJSON(w, r, http.StatusOK, article, pretty)
}
