// Package ua classifies raw client-signature strings into device, OS,
// and browser families plus a bot flag.
package ua

import (
	"github.com/mileusna/useragent"
)

// Classification is the result of parsing one signature string.
type Classification struct {
	DeviceFamily  string `json:"device_family,omitempty"`
	OSFamily      string `json:"os_family,omitempty"`
	BrowserFamily string `json:"browser_family,omitempty"`
	IsBot         bool   `json:"is_bot"`
}

// Classifier turns a raw signature string into a Classification.
// Implementations must be pure: deterministic, no I/O, and total over
// arbitrary input. The rule set is swappable without touching the
// ingestion pipeline.
type Classifier interface {
	Classify(signature string) Classification
}

// Parser is the default Classifier, driven by the useragent pattern
// library.
type Parser struct{}

// Compile-time check that Parser implements Classifier.
var _ Classifier = Parser{}

// NewParser returns the default pattern-based classifier.
func NewParser() Parser {
	return Parser{}
}

// Classify parses the signature. An empty signature yields a zero
// Classification with IsBot false.
func (Parser) Classify(signature string) Classification {
	if signature == "" {
		return Classification{}
	}

	parsed := useragent.Parse(signature)
	return Classification{
		DeviceFamily:  deviceFamily(parsed),
		OSFamily:      parsed.OS,
		BrowserFamily: parsed.Name,
		IsBot:         parsed.Bot,
	}
}

// deviceFamily prefers the concrete device name when the library
// extracted one, and falls back to the form-factor class.
func deviceFamily(parsed useragent.UserAgent) string {
	if parsed.Device != "" {
		return parsed.Device
	}
	switch {
	case parsed.Bot:
		return "Bot"
	case parsed.Mobile:
		return "Mobile"
	case parsed.Tablet:
		return "Tablet"
	case parsed.Desktop:
		return "Desktop"
	}
	return ""
}
