// Package textproc holds the text stages of the extractive summarizer:
// normalization, sentence segmentation and term-frequency scoring.
// Every function is pure and safe for concurrent use.
package textproc

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// markupTagRe matches comments, doctypes and tags of common HTML elements
// whose attributes all carry values. Prose such as "x<y and costs>z" does
// not look like a tag and survives.
var markupTagRe = regexp.MustCompile(`(?s)<!--.*?-->` +
	`|(?i:<!doctype[^<>]*>)` +
	`|</?(?i:` + htmlElements + `)` +
	`(?:\s+[\w:-]+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'<>=]+))*\s*/?>`)

const htmlElements = `a|abbr|address|article|aside|audio|b|blockquote|body|br|button|` +
	`caption|cite|code|dd|div|dl|dt|em|figcaption|figure|font|footer|form|` +
	`h[1-6]|head|header|hr|html|i|iframe|img|input|label|li|link|main|meta|` +
	`nav|noscript|ol|option|p|picture|pre|q|s|script|section|select|small|` +
	`source|span|strong|style|sub|sup|svg|table|tbody|td|tfoot|th|thead|` +
	`time|title|tr|u|ul|video`

// Normalize returns s as a single-spaced, trimmed string with HTML tag
// remnants and &nbsp; entities removed. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	// stripping one tag can expose another, e.g. "<a<b>>"
	for {
		next := strings.ReplaceAll(s, "&nbsp;", " ")
		next = markupTagRe.ReplaceAllString(next, " ")
		if next == s {
			break
		}
		s = next
	}
	return strings.Join(strings.Fields(s), " ")
}
