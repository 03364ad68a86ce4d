package interp

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/forktale/forktale/internal/script"
	"github.com/forktale/forktale/internal/scripterr"
	"github.com/forktale/forktale/internal/value"
)

// processIf implements ProcessIf (spec §4.4.4): strip the leading `if `,
// dispatch on the first one or two words, and report whether the node's
// own text/children should run synchronously (true), have already been
// scheduled to run asynchronously (false, no error), or failed outright
// (non-nil error; preorderProcess raises it only under strict mode and
// otherwise treats the condition as false).
func (i *Interpreter) processIf(node *script.ParseNode, textboxText string) (bool, error) {
	cond := node.Condition
	if cond == "" {
		return true, nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(cond, "if"))
	if rest == "" {
		return true, nil
	}

	fields := strings.Fields(rest)
	first := fields[0]

	switch {
	case first == "timer" && len(fields) >= 3 && fields[1] == "is":
		return i.processTimerCondition(node, strings.Join(fields[2:], " "))
	case first == "speak":
		return i.processSpeakCondition(node, strings.TrimSpace(strings.TrimPrefix(rest, "speak")))
	case first == "text" && len(fields) >= 2 && isTextMode(fields[1]):
		return i.processTextCondition(node, fields[1], thirdField(rest), textboxText)
	case strings.HasPrefix(first, "type"):
		return i.processTypeCondition(node, first, strings.TrimSpace(strings.TrimPrefix(rest, first)))
	default:
		return i.processBooleanCondition(node, rest)
	}
}

func isTextMode(m string) bool {
	switch m {
	case "is", "!is", "has", "!has", "pick":
		return true
	default:
		return false
	}
}

// thirdField returns everything in rest after its first two space-separated
// fields, preserving internal spacing (the query text for `text ...`).
func thirdField(rest string) string {
	parts := strings.SplitN(rest, " ", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

func (i *Interpreter) processTimerCondition(node *script.ParseNode, secondsText string) (bool, error) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(secondsText), 64)
	if err != nil || seconds <= 0 || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return false, i.malformed(scripterr.InvalidNumericLiteral, "timer interval must be a positive finite number of seconds", secondsText)
	}
	i.scheduleOnce(time.Duration(seconds*float64(time.Second)), func() {
		if err := i.processTextThen(node, "", func() error { return i.recurseChildren(node, "") }); err != nil {
			i.reportIfNeeded(err)
		}
	})
	return false, nil
}

func (i *Interpreter) processSpeakCondition(node *script.ParseNode, phrase string) (bool, error) {
	phrase = decodeEscapes(phrase)
	i.console.Speech().Listen(func() {
		i.withLock(func() {
			if err := i.processTextThen(node, "", func() error { return i.recurseChildren(node, "") }); err != nil {
				i.reportIfNeeded(err)
			}
		})
	}, phrase)
	i.console.Speech().ListenStart()
	return false, nil
}

func (i *Interpreter) processTextCondition(node *script.ParseNode, mode, query, textboxText string) (bool, error) {
	i.console.SetInputEnabled(true)
	if textboxText == "" {
		i.addSubmitHandler(func(submitted string) {
			if checkTextMatch(mode, query, submitted) {
				if err := i.processTextThen(node, submitted, func() error { return i.recurseChildren(node, submitted) }); err != nil {
					i.reportIfNeeded(err)
				}
			}
		})
		return false, nil
	}
	if checkTextMatch(mode, query, textboxText) {
		err := i.processTextThen(node, textboxText, func() error { return i.recurseChildren(node, textboxText) })
		return false, err
	}
	return false, nil
}

func (i *Interpreter) processTypeCondition(node *script.ParseNode, keyword, args string) (bool, error) {
	style := typeStyleFor(keyword)
	fields := strings.SplitN(args, " ", 2)
	if len(fields) < 2 {
		return false, i.malformed(scripterr.MalformedCommand, "type condition requires a delay and text", args)
	}
	delayMs, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil || delayMs <= 0 {
		return false, i.malformed(scripterr.InvalidNumericLiteral, "type delay must be a positive integer of milliseconds", fields[0])
	}
	text := decodeEscapes(fields[1])

	i.startTypeReveal([]rune(text), time.Duration(delayMs)*time.Millisecond, style, func() error {
		return i.processTextThen(node, "", func() error { return i.recurseChildren(node, "") })
	})
	return false, nil
}

func (i *Interpreter) processBooleanCondition(node *script.ParseNode, expr string) (bool, error) {
	i.bindEvaluatorSymbols()
	result, err := i.eval.Eval(expr)
	if err != nil {
		return false, i.malformed(scripterr.EvaluatorFailure, "condition expression failed", expr).WithCause(err)
	}
	if result.Kind() == value.Unknown {
		return false, nil
	}
	if result.Kind() != value.Bool {
		return false, i.malformed(scripterr.NonBooleanCondition, "condition did not evaluate to a boolean", result.String())
	}
	return result.Bool(), nil
}

// bindEvaluatorSymbols resets the evaluator and re-registers every bound
// variable plus the synthetic `visited` identifier, as required before
// every evaluation (spec §4.1, §9 "Global evaluator state").
func (i *Interpreter) bindEvaluatorSymbols() {
	i.eval.Reset()
	for _, name := range i.vars.Names() {
		v, _ := i.vars.Get(name)
		i.eval.Bind(name, v)
	}
	i.eval.Bind("visited", value.NewBool(i.vars.Visited(i.current)))
}

func (i *Interpreter) malformed(kind scripterr.Kind, message, detail string) *scripterr.ScriptError {
	return scripterr.New(kind, message).With("detail", detail)
}

// checkTextMatch implements the five `text` comparison modes (spec §4.4.4).
func checkTextMatch(mode, query, input string) bool {
	switch mode {
	case "is":
		return strings.EqualFold(strings.TrimSpace(input), strings.TrimSpace(query))
	case "!is":
		return !strings.EqualFold(strings.TrimSpace(input), strings.TrimSpace(query))
	case "has":
		return allWordsPresent(splitQueryWords(query), input)
	case "!has":
		return allWordsAbsent(splitQueryWords(query), input)
	case "pick":
		return anyWordPresent(splitQueryWords(query), input)
	default:
		return false
	}
}

const escapedCommaPlaceholder = "\x00COMMA\x00"

func splitQueryWords(query string) []string {
	query = strings.ReplaceAll(query, `\c`, escapedCommaPlaceholder)
	parts := strings.Split(query, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ReplaceAll(p, escapedCommaPlaceholder, ",")
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func wordPresent(word, input string) bool {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(input)
}

func allWordsPresent(words []string, input string) bool {
	for _, w := range words {
		if !wordPresent(w, input) {
			return false
		}
	}
	return true
}

func allWordsAbsent(words []string, input string) bool {
	for _, w := range words {
		if wordPresent(w, input) {
			return false
		}
	}
	return true
}

func anyWordPresent(words []string, input string) bool {
	for _, w := range words {
		if wordPresent(w, input) {
			return true
		}
	}
	return false
}
