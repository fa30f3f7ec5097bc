package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// member directory pages print names with accents
// (Vélazquez, Chú García, ...) while the disclosure XML
// does not, so both sides get folded before comparison
var asciiFold = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})),
)

func FoldASCII(s string) string {
	folded, _, err := transform.String(asciiFold, s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(folded)
}

var honorifics = map[string]struct{}{
	"rep":            {},
	"rep.":           {},
	"representative": {},
	"hon":            {},
	"hon.":           {},
	"mr":             {},
	"mr.":            {},
	"mrs":            {},
	"mrs.":           {},
	"ms":             {},
	"ms.":            {},
	"dr":             {},
	"dr.":            {},
}

// drops title tokens like "Rep." or "Hon." anywhere in a name,
// filers write them inconsistently
func StripHonorifics(name string) string {
	fields := strings.Fields(name)
	kept := fields[:0]
	for _, f := range fields {
		if _, ok := honorifics[strings.ToLower(strings.Trim(f, ","))]; ok {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// canonical key for name comparison: folded, honorific-free,
// lowercase, whitespace removed
func NormalizeName(name string) string {
	name = FoldASCII(name)
	name = StripHonorifics(name)
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return strings.Trim(name, ",.")
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}
