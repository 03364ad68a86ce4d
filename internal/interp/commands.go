package interp

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/forktale/forktale/internal/console"
	"github.com/forktale/forktale/internal/script"
	"github.com/forktale/forktale/internal/scripterr"
	"github.com/forktale/forktale/internal/value"
)

// recurseChildren walks node's children in source order (the second half of
// PreorderProcess, spec §4.4.3), stopping early if a line command upstream
// set the stop-evaluation flag.
func (i *Interpreter) recurseChildren(node *script.ParseNode, textboxText string) error {
	for _, child := range node.Children {
		if i.stopEval {
			return nil
		}
		if err := i.preorderProcess(child, textboxText); err != nil {
			return err
		}
	}
	return nil
}

// processTextThen implements ProcessText (spec §4.4.5): dispatch node's
// body one line at a time, then invoke cont. A line that starts an
// asynchronous wait (`type`) or a jump (`goto`, `load`) defers or cancels
// cont instead of calling it inline, so the caller always learns the
// outcome through cont's own eventual invocation rather than this call's
// return value.
func (i *Interpreter) processTextThen(node *script.ParseNode, textboxText string, cont func() error) error {
	lines := strings.Split(node.Text, "\n")
	style := console.Style{}
	return i.runLines(lines, &style, cont)
}

func (i *Interpreter) runLines(lines []string, style *console.Style, cont func() error) error {
	for idx := 0; idx < len(lines); idx++ {
		if i.stopEval {
			return nil
		}
		line := strings.TrimSpace(lines[idx])
		if line == "" {
			continue
		}
		halt, err := i.dispatchLine(line, style, lines[idx+1:], cont)
		if err != nil {
			if i.opts.Strict {
				return err
			}
			continue
		}
		if halt {
			return nil
		}
	}
	if i.stopEval {
		return nil
	}
	return cont()
}

// dispatchLine recognizes one line-level command (spec §4.4.5's table) and
// runs it. halt reports whether the remaining lines (and cont) have been
// handed off to something else — an async reveal, a fork jump — and must
// not be processed again by the caller's loop.
func (i *Interpreter) dispatchLine(line string, style *console.Style, rest []string, cont func() error) (halt bool, err error) {
	switch {
	case strings.HasPrefix(line, "{") && strings.HasSuffix(line, "}"):
		i.console.AddText(decodeEscapes(line[1:len(line)-1])+"\n", *style)
		return false, nil
	case hasTypeKeyword(line):
		return i.dispatchType(line, style, rest, cont)
	case line == "set" || strings.HasPrefix(line, "set "):
		return false, i.dispatchSet(line)
	case strings.HasPrefix(line, "get "):
		return false, i.dispatchGet(line, *style)
	case strings.HasPrefix(line, "goto "):
		return i.dispatchGoto(line)
	case strings.HasPrefix(line, "img "):
		return false, i.dispatchImg(line)
	case strings.HasPrefix(line, "snd "):
		return false, i.dispatchSnd(line)
	case strings.HasPrefix(line, "speak "):
		return false, i.dispatchSpeak(line)
	case line == "load" || strings.HasPrefix(line, "load "):
		return i.dispatchLoad(line)
	case strings.HasPrefix(line, "color "):
		return false, i.dispatchColor(line, style)
	case strings.HasPrefix(line, "link@"):
		return false, i.dispatchLinkOption(line, *style)
	case strings.Contains(line, "@"):
		return false, i.dispatchBareOption(line, *style)
	default:
		i.console.AddText(decodeEscapes(line)+"\n", *style)
		return false, nil
	}
}

func typeKeyword(line string) (keyword string, ok bool) {
	for _, kw := range []string{"type***", "type**", "type*", "type"} {
		if line == kw || strings.HasPrefix(line, kw+" ") {
			return kw, true
		}
	}
	return "", false
}

func hasTypeKeyword(line string) bool {
	_, ok := typeKeyword(line)
	return ok
}

// typeStyleFor maps the `type`/`type*`/`type**`/`type***` keyword to its
// italic/bold styling (spec §4.4.4, §4.4.5).
func typeStyleFor(keyword string) console.Style {
	switch keyword {
	case "type*":
		return console.Style{Italic: true}
	case "type**":
		return console.Style{Bold: true}
	case "type***":
		return console.Style{Italic: true, Bold: true}
	default:
		return console.Style{}
	}
}

func (i *Interpreter) dispatchType(line string, style *console.Style, rest []string, cont func() error) (bool, error) {
	keyword, _ := typeKeyword(line)
	args := strings.TrimSpace(strings.TrimPrefix(line, keyword))
	fields := strings.SplitN(args, " ", 2)
	if len(fields) < 2 {
		return false, i.malformed(scripterr.MalformedCommand, "type requires a delay and text", args)
	}
	delayMs, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil || delayMs <= 0 {
		return false, i.malformed(scripterr.InvalidNumericLiteral, "type delay must be a positive integer of milliseconds", fields[0])
	}
	text := decodeEscapes(fields[1])

	effective := *style
	kwStyle := typeStyleFor(keyword)
	effective.Italic = effective.Italic || kwStyle.Italic
	effective.Bold = effective.Bold || kwStyle.Bold

	i.startTypeReveal([]rune(text), time.Duration(delayMs)*time.Millisecond, effective, func() error {
		return i.runLines(rest, style, cont)
	})
	return true, nil
}

// startTypeReveal arms a repeating timer that appends one rune per tick
// (spec §4.4.4 / §4.4.5's `type`), invoking onDone once the text is
// exhausted. A zero-length reveal completes immediately.
func (i *Interpreter) startTypeReveal(runes []rune, interval time.Duration, style console.Style, onDone func() error) {
	if len(runes) == 0 {
		if err := onDone(); err != nil {
			i.reportIfNeeded(err)
		}
		return
	}
	idx := 0
	i.scheduleRepeating(interval, func() bool {
		i.console.AddText(string(runes[idx]), style)
		idx++
		done := idx >= len(runes)
		if done {
			if err := onDone(); err != nil {
				i.reportIfNeeded(err)
			}
		}
		return done
	})
}

func (i *Interpreter) dispatchSet(line string) error {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "set"))
	switch {
	case rest == "":
		return i.malformed(scripterr.MalformedCommand, "set requires a variable name", line)
	case strings.Contains(rest, "="):
		lhs, rhs, _ := strings.Cut(rest, "=")
		name := script.NormalizeName(strings.TrimSpace(lhs))
		i.bindEvaluatorSymbols()
		val, err := i.eval.Eval(strings.TrimSpace(rhs))
		if err != nil {
			return i.malformed(scripterr.EvaluatorFailure, "set expression failed", rhs).WithCause(err)
		}
		i.vars.Set(name, val)
		return nil
	case strings.HasPrefix(rest, "!"):
		name := script.NormalizeName(strings.TrimPrefix(rest, "!"))
		i.vars.Set(name, value.NewBool(false))
		return nil
	default:
		name := script.NormalizeName(rest)
		i.vars.Set(name, value.NewBool(true))
		return nil
	}
}

func (i *Interpreter) dispatchGet(line string, style console.Style) error {
	name := script.NormalizeName(strings.TrimSpace(strings.TrimPrefix(line, "get")))
	v, ok := i.vars.Get(name)
	if !ok {
		v = value.NewUnknown()
	}
	i.console.AddText(v.String(), style)
	return nil
}

func (i *Interpreter) dispatchGoto(line string) (bool, error) {
	target := script.NormalizeName(strings.TrimSpace(strings.TrimPrefix(line, "goto")))
	if target == "" {
		return false, i.malformed(scripterr.MalformedCommand, "goto requires a fork name", line)
	}
	i.vars.MarkVisited(i.current)
	i.pendingGoto = target
	i.stopEval = true
	return true, nil
}

func (i *Interpreter) dispatchImg(line string) error {
	path := strings.TrimSpace(strings.TrimPrefix(line, "img"))
	resolved := i.resolveAssetPath(path)
	if _, err := i.resources.Resolve(resolved); err != nil {
		return scripterr.Wrap(scripterr.MissingResource, "image not found", err).With("path", resolved)
	}
	i.console.AddImage(resolved)
	return nil
}

func (i *Interpreter) dispatchSnd(line string) error {
	path := strings.TrimSpace(strings.TrimPrefix(line, "snd"))
	resolved := i.resolveAssetPath(path)
	if _, err := i.resources.Resolve(resolved); err != nil {
		return scripterr.Wrap(scripterr.MissingResource, "sound not found", err).With("path", resolved)
	}
	i.console.AddSound(resolved)
	return nil
}

func (i *Interpreter) resolveAssetPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(i.gameDir, path)
}

func (i *Interpreter) dispatchSpeak(line string) error {
	text := decodeEscapes(strings.TrimSpace(strings.TrimPrefix(line, "speak")))
	i.console.Speech().Speak(text)
	return nil
}

func (i *Interpreter) dispatchLoad(line string) (bool, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "load"))
	clearVars := false
	if rest == "new" {
		clearVars = true
		rest = ""
	} else if strings.HasPrefix(rest, "new ") {
		clearVars = true
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "new"))
	}
	if rest == "" {
		return false, i.malformed(scripterr.MalformedCommand, "load requires a file path", line)
	}
	i.pendingLoad = &loadRequest{path: i.resolveAssetPath(rest), clearVars: clearVars}
	i.stopEval = true
	return true, nil
}

func (i *Interpreter) dispatchColor(line string, style *console.Style) error {
	hex, ok := expandHex(strings.TrimSpace(strings.TrimPrefix(line, "color")))
	if !ok {
		return i.malformed(scripterr.MalformedCommand, "color requires a 3- or 6-digit hex value", line)
	}
	style.Color = hex
	return nil
}

func (i *Interpreter) dispatchLinkOption(line string, style console.Style) error {
	rest := strings.TrimPrefix(line, "link@")
	display, forkPart, ok := strings.Cut(rest, "@")
	if !ok {
		return i.malformed(scripterr.MalformedCommand, "link@ requires display text and a fork name", line)
	}
	fork := script.NormalizeName(forkPart)
	i.console.AddOption(decodeEscapes(display), style, true, func() {
		i.withLock(func() {
			i.vars.MarkVisited(i.current)
			i.SetFork(fork)
		})
	})
	i.optionsEmitted++
	return nil
}

func (i *Interpreter) dispatchBareOption(line string, style console.Style) error {
	display, forkPart, ok := strings.Cut(line, "@")
	if !ok {
		return i.malformed(scripterr.MalformedCommand, "option line requires display text and a fork name", line)
	}
	fork := script.NormalizeName(forkPart)
	inline := i.prefs.LinkStyleText
	i.console.AddOption(decodeEscapes(strings.TrimSpace(display)), style, inline, func() {
		i.withLock(func() {
			i.vars.MarkVisited(i.current)
			i.SetFork(fork)
		})
	})
	i.optionsEmitted++
	return nil
}

// decodeEscapes expands the five escape sequences the file format reserves
// for syntactically-significant characters (spec §4.4.5): \at, \lb, \rb,
// \n, \s — the last of which is the only way to emit a literal backslash,
// not a space.
func decodeEscapes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] == '\\' {
			rest := s[i+1:]
			switch {
			case strings.HasPrefix(rest, "at"):
				b.WriteByte('@')
				i += 3
				continue
			case strings.HasPrefix(rest, "lb"):
				b.WriteByte('{')
				i += 3
				continue
			case strings.HasPrefix(rest, "rb"):
				b.WriteByte('}')
				i += 3
				continue
			case strings.HasPrefix(rest, "n"):
				b.WriteByte('\n')
				i += 2
				continue
			case strings.HasPrefix(rest, "s"):
				b.WriteByte('\\')
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
