package model

import "encoding/json"

// ClientFacts is extra information volunteered by the viewer page.
// Known variants are LocationFacts and DeviceFacts; RawFacts is the
// forward-compatible fallback for shapes this version does not model.
type ClientFacts interface {
	isClientFacts()
}

// LocationFacts carries explicit coordinates collected in the browser
// with the visitor's consent. Accuracy is the browser-reported radius
// in meters.
type LocationFacts struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Source    string  `json:"source,omitempty"`
}

func (LocationFacts) isClientFacts() {}

// DeviceFacts is a free-form map of device descriptors (platform,
// language, vendor and similar). It never influences reconciliation;
// it is persisted verbatim as the event payload.
type DeviceFacts map[string]any

func (DeviceFacts) isClientFacts() {}

// RawFacts is an opaque pre-serialized facts blob.
type RawFacts json.RawMessage

func (RawFacts) isClientFacts() {}
