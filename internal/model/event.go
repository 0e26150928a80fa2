package model

import (
	"encoding/json"
	"time"
)

// EventType categorizes what triggered an event.
type EventType string

const (
	// EventView is recorded when a visitor loads the hosted image.
	EventView EventType = "view"
	// EventDevice is recorded when the viewer posts device facts.
	EventDevice EventType = "device"
	// EventLocation is recorded when the viewer posts precise
	// coordinates with consent.
	EventLocation EventType = "location"
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	return string(t)
}

// IsValid checks whether the event type is a known value.
func (t EventType) IsValid() bool {
	switch t {
	case EventView, EventDevice, EventLocation:
		return true
	}
	return false
}

// AccuracySource tags the provenance of an event's coordinates.
type AccuracySource string

const (
	// AccuracyBrowser means the visitor supplied explicit coordinates.
	AccuracyBrowser AccuracySource = "browser"
	// AccuracyIP means coordinates came from IP geolocation.
	AccuracyIP AccuracySource = "ip"
	// AccuracyNone means no coordinate source was available.
	AccuracyNone AccuracySource = ""
)

// Event is one persisted visit record. Events are append-only: they are
// written exactly once per ingestion call and never updated or deleted.
type Event struct {
	ID         int64     `json:"id"`
	LinkSlug   string    `json:"link_slug"`
	OccurredAt time.Time `json:"occurred_at"`
	Type       EventType `json:"type"`

	// Network origin.
	IP      string `json:"ip,omitempty"`
	IPOrg   string `json:"ip_org,omitempty"`
	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`
	City    string `json:"city,omitempty"`

	// Device signature.
	UserAgent     string `json:"user_agent,omitempty"`
	DeviceFamily  string `json:"device_family,omitempty"`
	OSFamily      string `json:"os_family,omitempty"`
	BrowserFamily string `json:"browser_family,omitempty"`
	Referer       string `json:"referer,omitempty"`
	IsBot         bool   `json:"is_bot"`

	// Reconciled location. Latitude/Longitude are nil when no source
	// was available; AccuracyM is the client-reported accuracy and is
	// only set for browser-sourced coordinates.
	Latitude        *float64       `json:"latitude,omitempty"`
	Longitude       *float64       `json:"longitude,omitempty"`
	AccuracyM       *float64       `json:"accuracy_m,omitempty"`
	AccuracySource  AccuracySource `json:"accuracy_source,omitempty"`
	AccuracyRadiusM *float64       `json:"accuracy_radius_m,omitempty"`

	// Payload carries any non-coordinate client facts verbatim.
	Payload json.RawMessage `json:"payload,omitempty"`
}
