package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forktale/forktale/internal/console"
	"github.com/forktale/forktale/internal/script"
)

// loaderFor returns a Loader that parses src in strict mode regardless of
// the requested path, letting tests avoid touching the filesystem.
func loaderFor(t *testing.T, src string) Loader {
	t.Helper()
	return func(path string) (*script.Result, error) {
		return script.ParseSource(src, script.Options{Strict: true})
	}
}

func newTestInterpreter(t *testing.T, src string, opts Options) (*Interpreter, *console.Recorder, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	rec := console.NewRecorder(&buf, nil)
	i := New(rec, opts, loaderFor(t, src))
	return i, rec, &buf
}

func TestLoadFileEntersEntryFork(t *testing.T) {
	src := "@intro\nhello there\n"
	i, _, buf := newTestInterpreter(t, src, Options{})
	require.NoError(t, i.LoadFile("game.txt", ""))
	assert.Contains(t, buf.String(), "hello there")
}

func TestLoadFileEntersNamedFork(t *testing.T) {
	src := "@intro\nfirst\n@armory\nswords here\n"
	i, _, buf := newTestInterpreter(t, src, Options{})
	require.NoError(t, i.LoadFile("game.txt", "armory"))
	assert.Contains(t, buf.String(), "swords here")
	assert.NotContains(t, buf.String(), "first")
}

func TestUnknownForkIsReportedError(t *testing.T) {
	src := "@intro\ngoto nosuchfork\n"
	i, _, _ := newTestInterpreter(t, src, Options{Strict: true})
	err := i.LoadFile("game.txt", "")
	assert.Error(t, err)
}

func TestAutoRestartOptionEmittedWhenNoneDeclared(t *testing.T) {
	src := "@intro\njust some text, no options\n"
	i, rec, buf := newTestInterpreter(t, src, Options{})
	require.NoError(t, i.LoadFile("game.txt", ""))
	assert.Contains(t, buf.String(), "restart")
	assert.True(t, rec.Click(1), "the synthesized restart option should be clickable")
}

func TestBareOptionNavigatesToFork(t *testing.T) {
	src := "@intro\nGo to the armory@armory\n@armory\nyou found the armory\n"
	i, rec, buf := newTestInterpreter(t, src, Options{})
	require.NoError(t, i.LoadFile("game.txt", ""))
	require.True(t, rec.Click(1))
	assert.Contains(t, buf.String(), "you found the armory")
	_ = i
}

func TestSetAndGetVariable(t *testing.T) {
	src := "@intro\nset gold = 10\nyou have\nget gold\n"
	i, _, buf := newTestInterpreter(t, src, Options{})
	require.NoError(t, i.LoadFile("game.txt", ""))
	v, ok := i.vars.Get("gold")
	require.True(t, ok)
	assert.Equal(t, "10", v.String())
	assert.Contains(t, buf.String(), "you have")
	assert.Contains(t, buf.String(), "10")
}

func TestSetFlagShorthand(t *testing.T) {
	src := "@intro\nset metHero\n"
	i, _, _ := newTestInterpreter(t, src, Options{})
	require.NoError(t, i.LoadFile("game.txt", ""))
	v, ok := i.vars.Get("methero")
	require.True(t, ok)
	assert.True(t, v.Bool())
}

func TestSetNegatedFlagShorthand(t *testing.T) {
	src := "@intro\nset !done\n"
	i, _, _ := newTestInterpreter(t, src, Options{})
	require.NoError(t, i.LoadFile("game.txt", ""))
	v, ok := i.vars.Get("done")
	require.True(t, ok)
	assert.False(t, v.Bool())
}

func TestBooleanConditionGatesText(t *testing.T) {
	src := "@intro\nset gold = 10\nif gold > 5\nyou are rich\nendif\nif gold > 100\nyou are a tycoon\nendif\n"
	i, _, buf := newTestInterpreter(t, src, Options{})
	require.NoError(t, i.LoadFile("game.txt", ""))
	assert.Contains(t, buf.String(), "you are rich")
	assert.NotContains(t, buf.String(), "you are a tycoon")
}

func TestVisitedIdentifierAvailableInConditions(t *testing.T) {
	src := "@intro\nGo@armory\n@armory\nif visited\nwelcome back\nendif\nAgain@armory\n"
	i, rec, buf := newTestInterpreter(t, src, Options{})
	require.NoError(t, i.LoadFile("game.txt", ""))
	require.True(t, rec.Click(1)) // intro -> armory (first visit, not yet marked visited mid-walk)
	require.True(t, rec.Click(1)) // armory -> armory again, now visited
	assert.Contains(t, buf.String(), "welcome back")
}

func TestGotoJumpsWithoutEmittingRemainingLines(t *testing.T) {
	src := "@intro\ngoto armory\nthis should never print\n@armory\narrived\n"
	i, _, buf := newTestInterpreter(t, src, Options{})
	require.NoError(t, i.LoadFile("game.txt", ""))
	assert.Contains(t, buf.String(), "arrived")
	assert.NotContains(t, buf.String(), "this should never print")
}

func TestStrictModePropagatesMalformedCommand(t *testing.T) {
	src := "@intro\nset\n"
	i, _, _ := newTestInterpreter(t, src, Options{Strict: true})
	err := i.LoadFile("game.txt", "")
	assert.Error(t, err)
}

func TestNonStrictModeSkipsMalformedCommand(t *testing.T) {
	src := "@intro\nset\nafter\n"
	i, _, buf := newTestInterpreter(t, src, Options{Strict: false})
	require.NoError(t, i.LoadFile("game.txt", ""))
	assert.Contains(t, buf.String(), "after")
}

func TestPrintErrorsCatchesFault(t *testing.T) {
	src := "@intro\nif 1 + true\nunreachable\nendif\n"
	i, _, buf := newTestInterpreter(t, src, Options{Strict: true, PrintErrors: true})
	require.NoError(t, i.LoadFile("game.txt", ""))
	assert.Contains(t, strings.ToLower(buf.String()), "evaluator_failure")
}

func TestTextSubmitConditionMatchesIs(t *testing.T) {
	src := "@intro\nif text is blue\nyou picked blue\nendif\n"
	i, rec, buf := newTestInterpreter(t, src, Options{})
	require.NoError(t, i.LoadFile("game.txt", ""))
	rec.Submit("  Blue  ")
	assert.Contains(t, buf.String(), "you picked blue")
}

func TestTextSubmitConditionHasRequiresAllWords(t *testing.T) {
	src := "@intro\nif text has red,blue\nmixed colors\nendif\n"
	i, rec, buf := newTestInterpreter(t, src, Options{})
	require.NoError(t, i.LoadFile("game.txt", ""))
	rec.Submit("a red and blue sky")
	assert.Contains(t, buf.String(), "mixed colors")
}

func TestTextSubmitConditionHasRejectsPartial(t *testing.T) {
	src := "@intro\nif text has red,blue\nmixed colors\nendif\n"
	i, rec, buf := newTestInterpreter(t, src, Options{})
	require.NoError(t, i.LoadFile("game.txt", ""))
	rec.Submit("only red here")
	assert.NotContains(t, buf.String(), "mixed colors")
}

func TestHeaderOptionDefaultTextCustomizesRestart(t *testing.T) {
	src := "option-default-text play again\n@intro\nthe end\n"
	i, rec, buf := newTestInterpreter(t, src, Options{})
	require.NoError(t, i.LoadFile("game.txt", ""))
	assert.Contains(t, buf.String(), "play again")
	assert.True(t, rec.Click(1))
}

func TestHeaderOptionDefaultDisableSuppressesRestart(t *testing.T) {
	src := "option-default-disable\n@intro\nthe end\n"
	i, rec, buf := newTestInterpreter(t, src, Options{})
	require.NoError(t, i.LoadFile("game.txt", ""))
	assert.False(t, rec.Click(1))
	_ = buf
}
