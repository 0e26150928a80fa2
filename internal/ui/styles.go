package ui

import (
	"fmt"

	"github.com/groblegark/linkpixel/internal/model"
)

// ANSI256 color codes for event table rendering.
const (
	colorView     = 74  // blue
	colorDevice   = 150 // green
	colorLocation = 215 // orange
	colorWarn     = 203 // red
	colorMuted    = 245 // medium gray
)

var noColor bool

// RenderType returns the event type colored by kind.
func RenderType(t model.EventType) string {
	if noColor {
		return string(t)
	}
	var code int
	switch t {
	case model.EventView:
		code = colorView
	case model.EventDevice:
		code = colorDevice
	case model.EventLocation:
		code = colorLocation
	default:
		return string(t)
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, t)
}

// RenderBot returns the bot marker in the warning color.
func RenderBot(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorWarn, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
