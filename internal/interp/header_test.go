package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forktale/forktale/internal/console"
)

func TestProcessHeaderOptionsAppliesKnownKeys(t *testing.T) {
	var buf bytes.Buffer
	rec := console.NewRecorder(&buf, nil)
	i := New(rec, Options{}, nil)

	i.ProcessHeaderOptions("option-color f0f\nwindow-width 1024\noption-default-text try again\n")

	assert.Equal(t, "ff00ff", i.prefs.OptionColor)
	assert.Equal(t, 1024, i.prefs.WindowWidth)
	assert.Equal(t, "try again", i.prefs.OptionDefaultText)
}

func TestProcessHeaderOptionsResetsBetweenCalls(t *testing.T) {
	var buf bytes.Buffer
	rec := console.NewRecorder(&buf, nil)
	i := New(rec, Options{}, nil)

	i.ProcessHeaderOptions("window-width 1024\n")
	require.Equal(t, 1024, i.prefs.WindowWidth)

	i.ProcessHeaderOptions("")
	assert.Equal(t, defaultPrefs().WindowWidth, i.prefs.WindowWidth)
}

func TestProcessHeaderOptionsUnknownKeySuggestsWithPrintErrors(t *testing.T) {
	var buf bytes.Buffer
	rec := console.NewRecorder(&buf, nil)
	i := New(rec, Options{PrintErrors: true}, nil)

	i.ProcessHeaderOptions("option-colour f00\n")
	assert.Contains(t, buf.String(), "option-color")
}

func TestExpandHexThreeDigit(t *testing.T) {
	hex, ok := expandHex("f0a")
	require.True(t, ok)
	assert.Equal(t, "ff00aa", hex)
}

func TestExpandHexInvalid(t *testing.T) {
	_, ok := expandHex("zzz")
	assert.False(t, ok)
}
