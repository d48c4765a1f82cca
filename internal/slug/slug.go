// Package slug generates lowercase, URL-safe identifiers for articles.
package slug

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// SuffixLength is the number of base36 characters appended to every slug.
const SuffixLength = 6

// maxSuffix is 36^SuffixLength, the number of possible suffixes.
var maxSuffix = new(big.Int).Exp(big.NewInt(36), big.NewInt(SuffixLength), nil)

// Make turns a title into a slug: the lowercased, hyphen-separated title
// followed by a random base36 suffix. The suffix makes collisions on the
// slug's unique index improbable (1 in 36^6 per pair) without a storage
// round-trip; uniqueness is not checked here.
func Make(title string) string {
	base := Slugify(title)
	if base == "" {
		return randomSuffix()
	}
	return base + "-" + randomSuffix()
}

// Slugify lowercases the title and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	hyphen := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
		} else {
			hyphen = true
		}
	}

	return b.String()
}

func randomSuffix() string {
	n, err := rand.Int(rand.Reader, maxSuffix)
	if err != nil {
		// crypto/rand only fails if the platform source is broken
		panic(err)
	}

	s := strconv.FormatInt(n.Int64(), 36)
	if len(s) < SuffixLength {
		s = strings.Repeat("0", SuffixLength-len(s)) + s
	}
	return s
}
