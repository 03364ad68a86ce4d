package interp

import (
	"path/filepath"

	"github.com/forktale/forktale/internal/console"
	"github.com/forktale/forktale/internal/script"
	"github.com/forktale/forktale/internal/scripterr"
)

// LoadFile is the top-level entry point (spec §4.3 step 6 / §6's CLI
// surface): parse path, process its header, and enter initialFork (or the
// table's entry fork if empty).
func (i *Interpreter) LoadFile(path string, initialFork string) error {
	return i.loadFileInto(path, initialFork, false)
}

func (i *Interpreter) loadFileInto(path string, initialFork string, clearVars bool) error {
	result, err := i.loader(path)
	if err != nil {
		return i.reportIfNeeded(err)
	}

	if clearVars {
		i.vars.Clear()
	}

	i.gamePath = path
	i.gameDir = filepath.Dir(path)

	i.ProcessHeaderOptions(result.Header)
	return i.SetEntries(result.Forks, initialFork)
}

// ReloadCurrent re-parses the previously loaded game file and re-enters the
// fork that was active when the reload was triggered, used by the CLI's
// --watch hot-reload (SPEC_FULL.md). It is safe to call from any goroutine;
// reload is serialized onto the Interpreter's logical thread like any other
// external event.
func (i *Interpreter) ReloadCurrent() {
	i.withLock(func() {
		if i.gamePath == "" {
			return
		}
		i.reportIfNeeded(i.loadFileInto(i.gamePath, i.current, false))
	})
}

// SetEntries installs a parsed fork table and enters the requested fork,
// falling back to the table's entry fork (spec §3) when initialFork is
// empty or unknown.
func (i *Interpreter) SetEntries(forks *script.ForkTable, initialFork string) error {
	i.forks = forks

	name := script.NormalizeName(initialFork)
	if name == "" || !forks.Has(name) {
		name = forks.EntryFork()
	}
	if name == "" {
		return i.reportIfNeeded(scripterr.New(scripterr.UnknownFork, "game file defines no forks"))
	}
	return i.SetFork(name)
}

// SetFork performs the atomic fork-entry sequence of spec §4.4.2 and then
// pre-order-walks the fork's tree.
func (i *Interpreter) SetFork(name string) error {
	name = script.NormalizeName(name)

	i.console.Clear()
	i.console.SetInputEnabled(false)
	i.console.Speech().UnloadAll()
	i.console.Speech().ListenStop()
	i.cancelAllTimers()
	i.unsubscribeAllSubmits()
	i.stopEval = false
	i.pendingGoto = ""
	i.pendingLoad = nil
	i.optionsEmitted = 0

	root, ok := i.forks.Get(name)
	if !ok {
		err := scripterr.New(scripterr.UnknownFork, "no such fork").With("fork", name)
		if hint, found := i.suggestor.Closest(name, i.forks.Names()); found {
			err.With("suggestion", hint)
		}
		return i.reportIfNeeded(err)
	}
	i.current = name

	if err := i.preorderProcess(root, ""); err != nil {
		return i.reportIfNeeded(err)
	}

	if i.pendingGoto != "" {
		target := i.pendingGoto
		i.pendingGoto = ""
		return i.SetFork(target)
	}
	if i.pendingLoad != nil {
		req := i.pendingLoad
		i.pendingLoad = nil
		return i.loadFileInto(req.path, "", req.clearVars)
	}

	if !i.stopEval {
		i.vars.MarkVisited(name)
		if i.optionsEmitted == 0 && !i.prefs.OptionDefaultDisable {
			i.emitAutoOption()
		}
	}
	return nil
}

// preorderProcess implements PreorderProcess (spec §4.4.3): evaluate this
// node's condition, process its own text if the condition holds, then
// recurse into its children in source order. processIf may instead schedule
// the node's text-then-children pair to run later (a timer, a speech match,
// a submitted line), in which case it reports proceed=false and this call
// returns immediately without error.
func (i *Interpreter) preorderProcess(node *script.ParseNode, textboxText string) error {
	if i.stopEval {
		return nil
	}
	proceed, err := i.processIf(node, textboxText)
	if err != nil {
		if i.opts.Strict {
			return err
		}
		return nil
	}
	if !proceed {
		return nil
	}
	return i.processTextThen(node, textboxText, func() error {
		return i.recurseChildren(node, textboxText)
	})
}

// emitAutoOption synthesizes the restart option (spec §4.4.2) when a fork
// completes having emitted no options of its own.
func (i *Interpreter) emitAutoOption() {
	entry := i.forks.EntryFork()
	i.console.AddOption(i.prefs.OptionDefaultText, i.optionStyle(), false, func() {
		i.withLock(func() {
			i.vars.Clear()
			i.SetFork(entry)
		})
	})
	i.optionsEmitted++
}

func (i *Interpreter) optionStyle() console.Style {
	return console.Style{Color: i.prefs.OptionColor}
}

// reportIfNeeded applies spec §7's print-errors policy: when set, the fault
// is caught, the screen cleared, the message shown in yellow, and input
// restored, instead of propagating to the caller.
func (i *Interpreter) reportIfNeeded(err error) error {
	if err == nil {
		return nil
	}
	if !i.opts.PrintErrors {
		return err
	}
	i.console.Clear()
	i.console.AddText(err.Error()+"\n", errorStyle())
	i.console.SetInputEnabled(true)
	return nil
}

// withLock serializes re-entrant work (timer fires, submit matches, option
// clicks) onto the Interpreter's single logical thread (spec §5).
func (i *Interpreter) withLock(fn func()) {
	i.mu.Lock()
	defer i.mu.Unlock()
	fn()
}

func (i *Interpreter) cancelAllTimers() {
	for _, t := range i.liveTimers {
		t.stop()
	}
	i.liveTimers = nil
}

func (i *Interpreter) unsubscribeAllSubmits() {
	for _, unsub := range i.submitSubs {
		unsub()
	}
	i.submitSubs = nil
}
