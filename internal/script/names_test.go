package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Intro", "intro"},
		{" Main Hall ", "mainhall"},
		{"already_lower", "already_lower"},
		{"", ""},
		{"\tTabbed\n", "tabbed"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeName(c.in), "input %q", c.in)
	}
}

func TestNormalizeNameFullWidth(t *testing.T) {
	// Full-width Latin letters fold to their standard-width lowercase form.
	assert.Equal(t, "abc", NormalizeName("ＡＢＣ"))
}
