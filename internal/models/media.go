package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MediaDefinition is the root of media.json.
type MediaDefinition struct {
	Feeds FeedList `json:"feeds"`
}

// MediumDefinition describes one tracked organisation and how its feeds are read.
type MediumDefinition struct {
	Name           string   `json:"name"`
	Prefix         string   `json:"prefix"`
	Suffix         string   `json:"suffix"`
	Feeds          []string `json:"feeds"`
	IDContainer    string   `json:"id_container"`
	IDMask         string   `json:"id_mask"`
	PageIDLocation string   `json:"page_id_location"`
	PageIDQuery    string   `json:"page_id_query"`
	MatchDomains   []string `json:"match_domains"`
	TitleQuery     string   `json:"title_query"`
}

// FeedList maps a country code to its organisations. Country order follows
// the order of keys in the source document.
type FeedList struct {
	order     []string
	byCountry map[string][]MediumDefinition
}

// Countries returns the configured country codes.
func (f FeedList) Countries() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Media returns the organisations configured for a country.
func (f FeedList) Media(country string) ([]MediumDefinition, bool) {
	media, ok := f.byCountry[country]
	return media, ok
}

// Medium looks up an organisation by name within a country.
func (f FeedList) Medium(country, name string) (*MediumDefinition, bool) {
	media, ok := f.byCountry[country]
	if !ok {
		return nil, false
	}
	for i := range media {
		if media[i].Name == name {
			return &media[i], true
		}
	}
	return nil, false
}

// UnmarshalJSON decodes the feeds object while remembering key order.
// A repeated key keeps its first position and its last value.
func (f *FeedList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("feeds: expected object, got %v", tok)
	}

	list := FeedList{byCountry: make(map[string][]MediumDefinition)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		country, ok := tok.(string)
		if !ok {
			return fmt.Errorf("feeds: expected country key, got %v", tok)
		}

		var media []MediumDefinition
		if err := dec.Decode(&media); err != nil {
			return fmt.Errorf("feeds[%s]: %w", country, err)
		}

		if _, seen := list.byCountry[country]; !seen {
			list.order = append(list.order, country)
		}
		list.byCountry[country] = media
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*f = list
	return nil
}

// MarshalJSON encodes the feeds object with countries in their original order.
func (f FeedList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, country := range f.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(country)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.byCountry[country])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
