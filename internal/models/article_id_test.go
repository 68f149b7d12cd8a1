package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidArticleID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"numeric", "2353584", true},
		{"slug", "politiek-kabinet-valt_2024", true},
		{"dotted", "nieuws.12345", true},
		{"urn", "urn:nos:2353584", true},
		{"empty", "", false},
		{"space", "12 34", false},
		{"slash", "a/b", false},
		{"query", "123?x=1", false},
		{"unicode", "artikel-é", false},
		{"newline", "123\n", false},
		{"too long", strings.Repeat("a", MaxArticleIDLength+1), false},
		{"max length", strings.Repeat("a", MaxArticleIDLength), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidArticleID(tt.id))
		})
	}
}

func TestIsValidArticleIDIsDeterministic(t *testing.T) {
	inputs := []string{"", "1", "abc", "\x00", "ü", strings.Repeat("x", 1000), "../etc", "%20"}
	for _, in := range inputs {
		first := IsValidArticleID(in)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, IsValidArticleID(in), "input %q", in)
		}
	}
}
