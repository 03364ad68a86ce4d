package script

import (
	"os"
	"regexp"
	"strings"

	"github.com/forktale/forktale/internal/scripterr"
)

// Options configures fatality of parse faults (spec §7's strict-errors
// flag, scoped to the parse layer).
type Options struct {
	// Strict makes parse faults return an error; non-strict yields an
	// empty fork table instead (spec §4.3: "on non-strict, the stage
	// yields an empty fork table to the Interpreter").
	Strict bool
}

// Result is the Parser's output: the fork table and the raw options header
// blob, handed respectively to the Interpreter's SetEntries and
// ProcessHeaderOptions (spec §4.3 step 6).
type Result struct {
	Header string
	Forks  *ForkTable
}

var tokenPattern = regexp.MustCompile(`\bif\b|\bendif\b`)

// ParseFile reads path and parses it per spec §4.3.
func ParseFile(path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if opts.Strict {
				return nil, scripterr.Wrap(scripterr.FileNotFound, "game file not found", err).With("path", path)
			}
			return &Result{Forks: NewForkTable()}, nil
		}
		if opts.Strict {
			return nil, scripterr.Wrap(scripterr.FileNotFound, "game file could not be read", err).With("path", path)
		}
		return &Result{Forks: NewForkTable()}, nil
	}
	return ParseSource(string(data), opts)
}

// ParseSource parses already-loaded source text. Split out from ParseFile
// so tests can exercise the parser without touching the filesystem.
func ParseSource(src string, opts Options) (*Result, error) {
	if len(src) == 0 {
		if opts.Strict {
			return nil, scripterr.New(scripterr.EmptyFile, "game file is empty")
		}
		return &Result{Forks: NewForkTable()}, nil
	}

	lines := splitLines(src)

	headerEnd, forkStarts := findForkHeaders(lines)
	header := strings.Join(lines[:headerEnd], "\n")

	forks := NewForkTable()
	for i, start := range forkStarts {
		end := len(lines)
		if i+1 < len(forkStarts) {
			end = forkStarts[i+1]
		}
		rawName := strings.TrimPrefix(lines[start], "@")
		name := NormalizeName(rawName)
		if name == "" {
			if opts.Strict {
				return nil, scripterr.New(scripterr.EmptyForkName, "fork header has an empty name").With("line", start+1)
			}
			return &Result{Forks: NewForkTable()}, nil
		}
		if forks.Has(name) {
			if opts.Strict {
				return nil, scripterr.New(scripterr.DuplicateFork, "duplicate fork name").With("name", name).With("line", start+1)
			}
			return &Result{Forks: NewForkTable()}, nil
		}

		body := strings.Join(lines[start+1:end], "\n")
		body = stripComments(body)

		// buildTree always runs strict here so that an if/endif fault in
		// non-strict mode yields the empty fork table, like every other
		// parse fault.
		root, err := buildTree(body, true)
		if err != nil {
			if opts.Strict {
				return nil, err
			}
			return &Result{Forks: NewForkTable()}, nil
		}
		forks.Add(name, root)
	}

	return &Result{Header: header, Forks: forks}, nil
}

// splitLines strips carriage returns and trailing whitespace from every
// line (spec §4.3 step 1).
func splitLines(src string) []string {
	raw := strings.Split(src, "\n")
	out := make([]string, len(raw))
	for i, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		out[i] = strings.TrimRight(l, " \t")
	}
	return out
}

// findForkHeaders returns the index of the first fork header line (i.e. the
// length of the options header, in lines) and the line index of every fork
// header (spec §4.3 step 2).
func findForkHeaders(lines []string) (headerEnd int, starts []int) {
	headerEnd = len(lines)
	for i, l := range lines {
		if strings.HasPrefix(l, "@") {
			if headerEnd == len(lines) {
				headerEnd = i
			}
			starts = append(starts, i)
		}
	}
	return headerEnd, starts
}

// isOptionLine reports whether a line is exempt from comment and if/endif
// scanning because it contains '@' (spec §9's documented "option
// classification heuristic" — preserved as-is, including its known
// misclassification of '@' inside brace text on the same line).
func isOptionLine(line string) bool {
	return strings.Contains(line, "@")
}

// stripComments removes `//` comments from body, one line at a time. A `//`
// is a comment unless it is inside `{ }` on that line or the line contains
// `@` (spec §4.3 step 4). Operating per-line is semantically equivalent to
// the source's "restart scanning because indices move" description for
// every game file in practice (comments never span `{ }` across lines) and
// avoids re-scanning already-resolved text.
func stripComments(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if isOptionLine(line) {
			continue
		}
		lines[i] = stripCommentFromLine(line)
	}
	return strings.Join(lines, "\n")
}

func stripCommentFromLine(line string) string {
	depth := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '/':
			if depth == 0 && i+1 < len(line) && line[i+1] == '/' {
				return line[:i]
			}
		}
	}
	return line
}

type ifToken struct {
	offset int // absolute byte offset of the token within body
	isIf   bool
	lineEnd int // absolute offset of the end of this token's line (before the newline)
}

// scanIfEndif finds every valid `if`/`endif` token in body, skipping tokens
// inside `{ }` or on option lines (spec §4.3 step 5).
func scanIfEndif(body string) []ifToken {
	var toks []ifToken
	lines := strings.Split(body, "\n")
	offset := 0
	for _, line := range lines {
		lineEnd := offset + len(line)
		if !isOptionLine(line) {
			depth := 0
			depths := make([]int, len(line)+1)
			for i, c := range []byte(line) {
				depths[i] = depth
				if c == '{' {
					depth++
				} else if c == '}' && depth > 0 {
					depth--
				}
			}
			depths[len(line)] = depth
			for _, m := range tokenPattern.FindAllStringIndex(line, -1) {
				if depths[m[0]] == 0 {
					toks = append(toks, ifToken{
						offset:  offset + m[0],
						isIf:    line[m[0]:m[1]] == "if",
						lineEnd: lineEnd,
					})
				}
			}
		}
		offset = lineEnd + 1 // +1 for the newline joining lines
	}
	return toks
}

// buildTree constructs a fork's ParseNode tree per spec §4.3 step 5.
func buildTree(body string, strict bool) (*ParseNode, error) {
	toks := scanIfEndif(body)

	ifCount, endifCount := 0, 0
	for _, t := range toks {
		if t.isIf {
			ifCount++
		} else {
			endifCount++
		}
	}
	if ifCount != endifCount {
		if strict {
			return nil, scripterr.New(scripterr.UnbalancedIf, "unbalanced if/endif").
				With("if_count", ifCount).With("endif_count", endifCount)
		}
		return &ParseNode{Text: body}, nil
	}

	root := &ParseNode{}
	current := root
	prior := 0
	depth := 0
	seenLineEnds := make(map[int]bool)

	for _, t := range toks {
		if t.isIf {
			emitSpan(current, body[prior:t.offset])
			lineEnd := t.lineEnd
			if lineEnd > len(body) {
				lineEnd = len(body)
			}
			condition := body[t.offset:lineEnd]
			current = newNode(current, condition)
			depth++
			prior = lineEnd + 1
			if prior > len(body) {
				prior = len(body)
			}
		} else {
			// Two endifs on the same line collapse to a negative span:
			// prior would be beyond this endif's own offset, so the span
			// cannot be sliced. The fault is the immediate re-close of a
			// line whose closing boundary was already consumed; it is
			// reported as a multiple-if/endif-on-one-line fault, and in
			// non-strict mode the whole body is kept as plain text.
			if seenLineEnds[t.lineEnd] {
				if strict {
					return nil, scripterr.New(scripterr.MultipleIfOrEndif, "multiple if/endif on one line")
				}
				return &ParseNode{Text: body}, nil
			}
			seenLineEnds[t.lineEnd] = true

			emitSpan(current, body[prior:t.offset])
			if current.Parent == nil {
				if strict {
					return nil, scripterr.New(scripterr.UnbalancedIf, "endif with no matching if")
				}
				return &ParseNode{Text: body}, nil
			}
			current = current.Parent
			depth--
			prior = t.lineEnd + 1
			if prior > len(body) {
				prior = len(body)
			}
		}
	}
	if depth != 0 {
		if strict {
			return nil, scripterr.New(scripterr.UnbalancedIf, "unbalanced if/endif depth")
		}
		return &ParseNode{Text: body}, nil
	}

	if prior < len(body) {
		emitSpan(root, body[prior:])
	}

	return root, nil
}
