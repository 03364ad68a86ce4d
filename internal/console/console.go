// Package console defines the boundary the core relies on (spec §6): a
// presentation sink accepting styled text runs, clickable options, images,
// and one input line, plus a speech facade. Everything that implements this
// package's interfaces — window widgets, audio/image loaders, speech
// recognition/synthesis — is an external collaborator (spec §1) and is
// specified only through the interface it exposes here.
package console

// Style describes the presentation of one emitted text run (spec §4.4.5).
type Style struct {
	Italic bool
	Bold   bool
	Color  string // hex color, e.g. "ff0000"; empty means "current color"
}

// OptionAction is invoked when the user clicks a rendered option or inline
// link.
type OptionAction func()

// Console is the sink the Interpreter writes to and reads click/submit
// events from (spec §6). A production implementation wraps a GUI widget
// tree; it is an external collaborator and is not implemented by this
// module beyond the Recorder test double in recorder.go.
type Console interface {
	// Clear removes all output, options, and images from the screen
	// (spec §4.4.2).
	Clear()

	SetTitle(title string)
	SetWidth(px int)
	SetHeight(px int)
	SetInputEnabled(enabled bool)

	SetOutputFont(family string, size float64)
	SetOptionFont(family string, size float64)
	SetOptionColor(hex string)
	SetOptionHoverColor(hex string)
	SetBackgroundColor(hex string)

	// AddText appends a styled output run to the output pane.
	AddText(text string, style Style)

	// AddOption appends a clickable option to the options pane. AddOption
	// is also used for inline links (spec §4.4.5's `link@`) rendered with
	// inline set to true, so a styling-aware implementation can place them
	// in the output stream instead.
	AddOption(text string, style Style, inline bool, action OptionAction)

	// AddImage adds an image loaded from a resolved path or URI to the top
	// pane (spec §4.4.5's `img`).
	AddImage(pathOrURI string)

	// AddSound plays an audio asset loaded from a resolved path or URI
	// (spec §4.4.5's `snd`).
	AddSound(pathOrURI string)

	// OnSubmit registers a callback invoked when the user submits the
	// input textbox; it returns an unsubscribe function (spec §4.4.4's
	// "Submit Handler").
	OnSubmit(func(text string)) (unsubscribe func())

	Speech() Speech
}

// Speech is the speech recognition/synthesis facade (spec §6).
type Speech interface {
	Speak(text string)
	SpeakStop()
	SpeakPause()
	SpeakResume()

	// Listen registers phrase(s) as a grammar bound to action; it returns
	// an unsubscribe function used to unload the grammar (spec §4.4.2:
	// "unload speech grammars" on fork entry).
	Listen(action func(), phrases ...string) (unsubscribe func())
	ListenStart()
	ListenStop()
	UnloadAll()
}
