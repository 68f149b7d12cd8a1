package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"opentitles/api/internal/models"
)

// ErrMediaMissingFeeds is returned when media.json has no "feeds" object.
var ErrMediaMissingFeeds = errors.New("media config has no feeds")

// LoadMedia reads and parses the media definition file. The result is never
// mutated afterwards and may be shared between goroutines.
func LoadMedia(path string) (*models.MediaDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read media config: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse media config: %w", err)
	}
	if _, ok := raw["feeds"]; !ok {
		return nil, fmt.Errorf("parse media config %s: %w", path, ErrMediaMissingFeeds)
	}

	var def models.MediaDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse media config: %w", err)
	}

	return &def, nil
}
