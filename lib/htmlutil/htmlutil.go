package htmlutil

import (
	"regexp"
	"strings"
	"unicode"
)

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText flattens text pulled out of an html node into a single
// printable line. profile pages pad their spans with newlines and
// no-break spaces that would otherwise end up in the warehouse.
func CleanText(s string) string {
	var flat strings.Builder
	for _, c := range s {
		if unicode.IsPrint(c) {
			flat.WriteRune(c)
		} else {
			flat.WriteRune(' ')
		}
	}
	s = innerWhitespace.ReplaceAllString(flat.String(), " ")
	return strings.TrimSpace(s)
}
