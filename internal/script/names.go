package script

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

// caseFolder performs Unicode-aware case folding, used in place of
// byte-wise strings.ToLower so accented and full-width author input
// normalizes the same way a human reader would expect (spec §3, §4.4.3:
// fork and identifier names are "lowercased, whitespace-stripped").
var caseFolder = cases.Fold()

// NormalizeName lowercases and strips all whitespace from a fork or
// identifier name, per spec §3/§4.4.3. Full-width forms are folded to their
// standard-width equivalent before case folding so "ＦＯＯ" and "foo" name
// the same fork.
func NormalizeName(s string) string {
	s = width.Fold.String(s)
	s = caseFolder.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
