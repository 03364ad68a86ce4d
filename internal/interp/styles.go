package interp

import "github.com/forktale/forktale/internal/console"

// errorStyle is the diagnostic color used when print-errors displays a
// caught fault (spec §7: "display the message in yellow").
func errorStyle() console.Style {
	return console.Style{Color: "ffff00"}
}

// headerWarningStyle marks a non-fatal header diagnostic the same way.
func headerWarningStyle() console.Style {
	return console.Style{Color: "ffff00"}
}
