package interp

import (
	"strconv"
	"strings"
)

var knownHeaderKeys = []string{
	"link-style-text",
	"option-default-text",
	"option-default-disable",
	"option-color",
	"option-hover-color",
	"background-color",
	"output-font-size",
	"option-font-size",
	"window-width",
	"window-height",
	"output-font",
	"option-font",
}

// ProcessHeaderOptions parses the options header blob (spec §4.4.1),
// resetting all preferences to defaults before applying recognized keys.
// Unknown keys are ignored, optionally with a "did you mean" suggestion
// when print-errors is set (SPEC_FULL.md's suggest package).
func (i *Interpreter) ProcessHeaderOptions(header string) {
	i.prefs = defaultPrefs()

	for _, line := range strings.Split(header, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch key {
		case "link-style-text":
			i.prefs.LinkStyleText = true
		case "option-default-text":
			i.prefs.OptionDefaultText = rest
		case "option-default-disable":
			i.prefs.OptionDefaultDisable = true
		case "option-color":
			if hex, ok := expandHex(rest); ok {
				i.prefs.OptionColor = hex
			}
		case "option-hover-color":
			if hex, ok := expandHex(rest); ok {
				i.prefs.OptionHoverColor = hex
			}
		case "background-color":
			if hex, ok := expandHex(rest); ok {
				i.prefs.BackgroundColor = hex
			}
		case "output-font-size":
			if f, ok := parsePositiveFloat(rest); ok {
				i.prefs.OutputFontSize = f
			}
		case "option-font-size":
			if f, ok := parsePositiveFloat(rest); ok {
				i.prefs.OptionFontSize = f
			}
		case "window-width":
			if n, ok := parsePositiveInt(rest); ok {
				i.prefs.WindowWidth = n
			}
		case "window-height":
			if n, ok := parsePositiveInt(rest); ok {
				i.prefs.WindowHeight = n
			}
		case "output-font":
			i.prefs.OutputFont = rest + ", sans-serif"
		case "option-font":
			i.prefs.OptionFont = rest + ", sans-serif"
		default:
			if i.opts.PrintErrors {
				if hint, ok := i.suggestor.Closest(key, knownHeaderKeys); ok {
					i.console.AddText("unrecognized header option '"+key+"' (did you mean '"+hint+"'?)\n", headerWarningStyle())
				}
			}
		}
	}

	i.applyPrefsToConsole()
}

func (i *Interpreter) applyPrefsToConsole() {
	i.console.SetOutputFont(i.prefs.OutputFont, i.prefs.OutputFontSize)
	i.console.SetOptionFont(i.prefs.OptionFont, i.prefs.OptionFontSize)
	if i.prefs.OptionColor != "" {
		i.console.SetOptionColor(i.prefs.OptionColor)
	}
	if i.prefs.OptionHoverColor != "" {
		i.console.SetOptionHoverColor(i.prefs.OptionHoverColor)
	}
	if i.prefs.BackgroundColor != "" {
		i.console.SetBackgroundColor(i.prefs.BackgroundColor)
	}
	i.console.SetWidth(i.prefs.WindowWidth)
	i.console.SetHeight(i.prefs.WindowHeight)
}

func parsePositiveFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

func parsePositiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// expandHex validates and normalizes a 3- or 6-digit hex color, doubling
// each digit of a 3-digit form (spec §8: "fAb expands to ffAAbb").
func expandHex(s string) (string, bool) {
	s = strings.TrimPrefix(s, "#")
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", false
		}
	}
	switch len(s) {
	case 3:
		var b strings.Builder
		for _, r := range s {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		return b.String(), true
	case 6:
		return s, true
	default:
		return "", false
	}
}
