package slug

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slugPattern = regexp.MustCompile(`^hello-world-[0-9a-z]{6}$`)

func TestMake_Pattern(t *testing.T) {
	s := Make("Hello World")
	assert.Regexp(t, slugPattern, s)
}

func TestMake_SameTitleDifferentSlugs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		s := Make("Hello World")
		require.False(t, seen[s], "duplicate slug %q", s)
		seen[s] = true
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"How to train your dragon?!", "how-to-train-your-dragon"},
		{"  --Already--Hyphenated--  ", "already-hyphenated"},
		{"MiXeD CaSe 123", "mixed-case-123"},
		{"???", ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Slugify(tc.title), "title %q", tc.title)
	}
}

func TestMake_EmptyBaseStillProducesSuffix(t *testing.T) {
	s := Make("???")
	assert.Regexp(t, `^[0-9a-z]{6}$`, s)
}
