package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

// legacyIndent is the indentation used by the unversioned /opentitles routes.
const legacyIndent = "    "

type errorResponse struct {
	Error  string `json:"error"`
	LookAt string `json:"lookat,omitempty"`
}

// encodeJSON renders v without HTML escaping, so stored text such as
// "A & B <live>" is returned byte for byte.
func encodeJSON(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", legacyIndent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// writeJSON marshals v and writes it with the given status. Marshal failures
// become a 500 since nothing has been written yet.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any, pretty bool) {
	log := hlog.FromRequest(r)

	body, err := encodeJSON(v, pretty)
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling JSON response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("Error writing JSON response body to client")
		return
	}
	log.Debug().Int("bytes_written", len(body)).Msg("Response completed")
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg, lookAt string) {
	writeJSON(w, r, status, errorResponse{Error: msg, LookAt: lookAt}, false)
}
