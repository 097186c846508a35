package textproc

import (
	"regexp"
	"strings"
)

var wordRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’]\p{L}+)*`)

// WordSet returns the distinct lower-cased words of s. Apostrophe
// contractions stay whole and no length or stop-word filtering is applied.
func WordSet(s string) map[string]struct{} {
	words := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
