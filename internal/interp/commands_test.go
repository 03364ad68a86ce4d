package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDecodeEscapesAllFiveSequences is spec §8.8's testable property: every
// reserved escape in one string decodes to its literal character, and \s is
// a backslash escape, not a space.
func TestDecodeEscapesAllFiveSequences(t *testing.T) {
	got := decodeEscapes(`text with \at \lb \rb \n \s`)
	want := "text with @ { } \n \\"
	assert.Equal(t, want, got)
}

func TestDecodeEscapesBackslashIsOnlyViaS(t *testing.T) {
	assert.Equal(t, `\`, decodeEscapes(`\s`))
}

func TestDecodeEscapesLeavesUnrelatedBackslashesAlone(t *testing.T) {
	assert.Equal(t, `\x`, decodeEscapes(`\x`))
}
