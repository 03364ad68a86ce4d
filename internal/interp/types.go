// Package interp implements the Interpreter (C4) and its line-level command
// dispatch (C5): walking a fork's ParseNode tree, emitting Console
// side-effects, mutating the variable store, and scheduling timers and
// submit handlers (spec §4.4).
package interp

import (
	"math/rand"
	"sync"

	"github.com/forktale/forktale/internal/console"
	"github.com/forktale/forktale/internal/evalexpr"
	"github.com/forktale/forktale/internal/resources"
	"github.com/forktale/forktale/internal/script"
	"github.com/forktale/forktale/internal/suggest"
	"github.com/forktale/forktale/internal/value"
)

// Options carries the two global behavior flags from spec §7.
type Options struct {
	// Strict makes faults raise a *scripterr.ScriptError instead of being
	// silently skipped.
	Strict bool
	// PrintErrors installs a top-level catch at each fork-load boundary
	// that clears the screen, prints the message in yellow, and restores
	// input, instead of propagating the error to the caller.
	PrintErrors bool
}

// prefs holds the presentation preferences the options header configures
// (spec §4.4.1). All fields are reset to defaultPrefs() before every header
// pass.
type prefs struct {
	LinkStyleText        bool
	OptionDefaultText    string
	OptionDefaultDisable bool
	OptionColor          string
	OptionHoverColor     string
	BackgroundColor      string
	OutputFontSize       float64
	OptionFontSize       float64
	WindowWidth          int
	WindowHeight         int
	OutputFont           string
	OptionFont           string
}

func defaultPrefs() prefs {
	return prefs{
		OptionDefaultText: "restart",
		OutputFontSize:    12,
		OptionFontSize:    12,
		WindowWidth:       800,
		WindowHeight:      600,
		OutputFont:        "sans-serif",
		OptionFont:        "sans-serif",
	}
}

// timerHandle is an owned, indexable cancellation handle for a live timer
// (spec §9: "a port should prefer owned handles... over opaque function
// references to make detachment O(1) and leak-free").
type timerHandle struct {
	stop func()
}

// loadRequest captures a `load`/`load new` command until the current fork's
// walk has fully unwound.
type loadRequest struct {
	path      string
	clearVars bool
}

// Loader parses a game file. Swappable so tests can parse in-memory source
// instead of touching the filesystem, and so `load`/`load new` can reuse
// the same hook the Interpreter was constructed with.
type Loader func(path string) (*script.Result, error)

// Interpreter owns everything spec §4.4 lists: current fork, fork table,
// variable store, RNG, live timers, submit handlers, the stop-evaluation
// flag, presentation preferences, and the Console.
type Interpreter struct {
	console console.Console
	opts    Options
	loader  Loader

	gameDir  string
	gamePath string

	forks *script.ForkTable
	vars  *value.Store
	eval  *evalexpr.Evaluator
	rng   *rand.Rand

	resources *resources.Cache
	suggestor *suggest.Suggestor

	current  string
	stopEval bool
	prefs    prefs

	// pendingGoto and pendingLoad record a `goto`/`load` line command hit
	// mid-walk (spec §4.4.5). The walk unwinds via stopEval first; SetFork
	// dispatches the pending jump only once its own preorderProcess call has
	// fully returned, so a `goto` never recurses into SetFork from inside
	// the tree it is abandoning.
	pendingGoto string
	pendingLoad *loadRequest

	liveTimers []*timerHandle
	submitSubs []func()

	optionsEmitted int

	// mu serializes re-entrant callbacks (timer fire, submit match) onto a
	// single logical thread, matching spec §5's "must not be re-entered
	// from a background thread" even though Go timers fire on their own
	// goroutines.
	mu sync.Mutex
}

// New constructs an Interpreter bound to c. loader defaults to
// script.ParseFile wrapped with opts.Strict when nil.
func New(c console.Console, opts Options, loader Loader) *Interpreter {
	i := &Interpreter{
		console:   c,
		opts:      opts,
		vars:      value.NewStore(),
		eval:      evalexpr.New(),
		rng:       rand.New(rand.NewSource(1)),
		resources: resources.NewCache(),
		suggestor: suggest.New(),
		prefs:     defaultPrefs(),
	}
	if loader != nil {
		i.loader = loader
	} else {
		i.loader = func(path string) (*script.Result, error) {
			return script.ParseFile(path, script.Options{Strict: opts.Strict})
		}
	}
	return i
}
