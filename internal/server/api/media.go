package api

import (
	"net/http"

	"github.com/rs/zerolog/hlog"

	"opentitles/api/internal/models"
)

// MediaHandler serves the static media configuration.
type MediaHandler struct {
	media    *models.MediaDefinition
	basePath string
}

// NewMediaHandler creates a handler over an immutable media definition.
// basePath is the versioned prefix, e.g. "/v2", used in lookat hints.
func NewMediaHandler(media *models.MediaDefinition, basePath string) *MediaHandler {
	return &MediaHandler{media: media, basePath: basePath}
}

// ListCountries handles GET /v{rev}/country.
func (h *MediaHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.media.Feeds.Countries(), false)
}

// ListOrgs handles GET /v{rev}/country/{country}/org.
func (h *MediaHandler) ListOrgs(w http.ResponseWriter, r *http.Request) {
	country := r.PathValue("country")

	media, ok := h.media.Feeds.Media(country)
	if !ok {
		h.noSuchCountry(w, r, country)
		return
	}

	names := make([]string, 0, len(media))
	for _, m := range media {
		names = append(names, m.Name)
	}
	writeJSON(w, r, http.StatusOK, names, false)
}

// GetOrg handles GET /v{rev}/country/{country}/org/{org}.
func (h *MediaHandler) GetOrg(w http.ResponseWriter, r *http.Request) {
	country := r.PathValue("country")
	org := r.PathValue("org")

	if _, ok := h.media.Feeds.Media(country); !ok {
		h.noSuchCountry(w, r, country)
		return
	}

	medium, ok := h.media.Feeds.Medium(country, org)
	if !ok {
		hlog.FromRequest(r).Debug().Str("country", country).Str("org", org).Msg("Unknown organisation")
		writeError(w, r, http.StatusNotFound, "No such organisation", h.basePath+"/country/"+country+"/org")
		return
	}
	writeJSON(w, r, http.StatusOK, medium, false)
}

func (h *MediaHandler) noSuchCountry(w http.ResponseWriter, r *http.Request, country string) {
	hlog.FromRequest(r).Debug().Str("country", country).Msg("Unknown country")
	writeError(w, r, http.StatusNotFound, "No such country", h.basePath+"/country")
}
