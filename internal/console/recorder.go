package console

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// Recorder is a minimal Console implementation that renders to a writer and
// receives submissions through Submit — used by the CLI's terminal front end and
// by interpreter tests, in place of the GUI widget tree spec §1 places out
// of scope.
type Recorder struct {
	mu sync.Mutex

	out    *bufio.Writer
	in     *bufio.Scanner
	speech *nullSpeech

	title   string
	options []recordedOption

	submitSubs map[int]func(string)
	nextSubID  int
}

type recordedOption struct {
	text   string
	inline bool
	action OptionAction
}

// NewRecorder builds a Recorder that writes rendered output to out. A non-nil
// in is wrapped in a scanner but never read; submitted lines reach the
// registered handlers only through Submit.
func NewRecorder(out io.Writer, in io.Reader) *Recorder {
	r := &Recorder{
		out:        bufio.NewWriter(out),
		speech:     &nullSpeech{},
		submitSubs: make(map[int]func(string)),
	}
	if in != nil {
		r.in = bufio.NewScanner(in)
	}
	return r
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.options = nil
	fmt.Fprint(r.out, "\n--------------------------------\n")
	r.out.Flush()
}

func (r *Recorder) SetTitle(title string) { r.mu.Lock(); r.title = title; r.mu.Unlock() }
func (r *Recorder) SetWidth(int)          {}
func (r *Recorder) SetHeight(int)         {}
func (r *Recorder) SetInputEnabled(bool)  {}
func (r *Recorder) SetOutputFont(string, float64) {}
func (r *Recorder) SetOptionFont(string, float64) {}
func (r *Recorder) SetOptionColor(string)         {}
func (r *Recorder) SetOptionHoverColor(string)    {}
func (r *Recorder) SetBackgroundColor(string)     {}

func (r *Recorder) AddText(text string, style Style) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.out, decorate(text, style))
	r.out.Flush()
}

func (r *Recorder) AddOption(text string, style Style, inline bool, action OptionAction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := len(r.options) + 1
	r.options = append(r.options, recordedOption{text: text, inline: inline, action: action})
	if inline {
		fmt.Fprintf(r.out, "[%s]", decorate(text, style))
	} else {
		fmt.Fprintf(r.out, "\n  %d) %s", idx, decorate(text, style))
	}
	r.out.Flush()
}

func (r *Recorder) AddImage(pathOrURI string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "\n[image: %s]\n", pathOrURI)
	r.out.Flush()
}

func (r *Recorder) AddSound(pathOrURI string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "\n[sound: %s]\n", pathOrURI)
	r.out.Flush()
}

func (r *Recorder) OnSubmit(cb func(string)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextSubID
	r.nextSubID++
	r.submitSubs[id] = cb
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.submitSubs, id)
	}
}

func (r *Recorder) Speech() Speech { return r.speech }

// Submit delivers text to every registered submit handler, emulating the
// Console firing OnSubmit (spec §6). Driven by the CLI's read loop.
func (r *Recorder) Submit(text string) {
	r.mu.Lock()
	subs := make([]func(string), 0, len(r.submitSubs))
	for _, cb := range r.submitSubs {
		subs = append(subs, cb)
	}
	r.mu.Unlock()
	for _, cb := range subs {
		cb(text)
	}
}

// Click invokes the action bound to the n'th (1-based) non-inline option
// currently on screen, emulating a mouse click.
func (r *Recorder) Click(n int) bool {
	r.mu.Lock()
	var opts []recordedOption
	for _, o := range r.options {
		if !o.inline {
			opts = append(opts, o)
		}
	}
	r.mu.Unlock()
	if n < 1 || n > len(opts) {
		return false
	}
	if a := opts[n-1].action; a != nil {
		a()
	}
	return true
}

func decorate(text string, style Style) string {
	if !style.Italic && !style.Bold && style.Color == "" {
		return text
	}
	prefix := ""
	if style.Bold {
		prefix += "*"
	}
	if style.Italic {
		prefix += "_"
	}
	return prefix + text + reverse(prefix)
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

type nullSpeech struct{}

func (*nullSpeech) Speak(string)     {}
func (*nullSpeech) SpeakStop()       {}
func (*nullSpeech) SpeakPause()      {}
func (*nullSpeech) SpeakResume()     {}
func (*nullSpeech) Listen(action func(), phrases ...string) func() { return func() {} }
func (*nullSpeech) ListenStart()     {}
func (*nullSpeech) ListenStop()      {}
func (*nullSpeech) UnloadAll()       {}
