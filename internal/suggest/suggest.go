// Package suggest attaches non-fatal "did you mean" hints to diagnostics
// about unknown fork names or unrecognized header keys (SPEC_FULL.md,
// "Supplemented features"). It never influences control flow: callers
// decide fatality entirely independent of whether a suggestion was found.
package suggest

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxDistance bounds how different a suggestion may be from the query
// before it is considered too unlike to be useful.
const maxDistance = 3

// Suggestor ranks candidate names by edit distance to a misspelled query.
type Suggestor struct{}

// New returns a Suggestor. It holds no state; it exists as a type so call
// sites read the same way other engine components do and so the zero value
// is never accidentally used ambiguously with a bare function call.
func New() *Suggestor { return &Suggestor{} }

// Closest returns the candidate nearest to query by Levenshtein distance,
// and whether one was found within maxDistance. Candidates equal to query
// are skipped (nothing to suggest).
func (*Suggestor) Closest(query string, candidates []string) (string, bool) {
	best, bestDist, found := "", maxDistance+1, false
	for _, c := range candidates {
		if c == query {
			continue
		}
		if d := fuzzy.LevenshteinDistance(strings.ToLower(query), strings.ToLower(c)); d < bestDist {
			best, bestDist, found = c, d, true
		}
	}
	return best, found
}
