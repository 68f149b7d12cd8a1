package models

import "regexp"

// MaxArticleIDLength bounds accepted article identifiers.
const MaxArticleIDLength = 256

var articleIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:~-]+$`)

// IsValidArticleID reports whether s has the shape of an organisation-scoped
// article identifier. It never panics and depends only on s.
func IsValidArticleID(s string) bool {
	if s == "" || len(s) > MaxArticleIDLength {
		return false
	}
	return articleIDPattern.MatchString(s)
}
