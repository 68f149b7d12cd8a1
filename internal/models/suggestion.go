package models

import (
	"strconv"
	"time"
)

// Suggestion is a user submitted feed or site proposed for tracking.
// The flag fields hold whatever the client sent and are listed as null when
// the client sent nothing.
type Suggestion struct {
	ID          string `json:"_id,omitempty" bson:"_id,omitempty"`
	URL         string `json:"url" bson:"url"`
	RSSPresent  any    `json:"rss_present" bson:"rss_present"`
	RSSOverview any    `json:"rss_overview" bson:"rss_overview"`
	HasID       any    `json:"has_id" bson:"has_id"`
	Datetime    string `json:"datetime" bson:"datetime"`
}

// NewSuggestion creates a suggestion stamped with the given creation time.
func NewSuggestion(url string, rssPresent, rssOverview, hasID any, now time.Time) *Suggestion {
	return &Suggestion{
		URL:         url,
		RSSPresent:  rssPresent,
		RSSOverview: rssOverview,
		HasID:       hasID,
		Datetime:    FormatSuggestionTime(now),
	}
}

// FormatSuggestionTime renders t as e.g. "October 15th 2026, 3:04:05 pm".
func FormatSuggestionTime(t time.Time) string {
	return t.Format("January ") + ordinal(t.Day()) + t.Format(" 2006, 3:04:05 pm")
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
