// Package pipeline turns a raw inbound visit plus optional
// client-supplied facts into one durable event record. It is a terminal
// sink: no failure inside Record ever reaches the request that
// triggered it.
package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/groblegark/linkpixel/internal/geo"
	"github.com/groblegark/linkpixel/internal/model"
	"github.com/groblegark/linkpixel/internal/store"
	"github.com/groblegark/linkpixel/internal/ua"
)

// GeoResolver is the pipeline's view of IP geolocation. nil means no
// enrichment; implementations never fail.
type GeoResolver interface {
	Resolve(ctx context.Context, ip string) *geo.Enrichment
}

// ReqContext carries the request-derived inputs for one ingestion call.
type ReqContext struct {
	// RemoteAddr is the transport-level peer address ("host:port").
	RemoteAddr string
	// ForwardedFor is the X-Forwarded-For header value, if any. The
	// first hop wins over RemoteAddr.
	ForwardedFor string
	UserAgent    string
	Referer      string
}

// Pipeline orchestrates classification, geo enrichment, reconciliation,
// and the single event write. It holds no mutable state across calls,
// so concurrent Record calls need no coordination.
type Pipeline struct {
	store      store.Store
	geo        GeoResolver
	classifier ua.Classifier
	ipRadiusM  float64
	logger     *slog.Logger
	now        func() time.Time
}

// New returns a Pipeline. ipRadiusM is the fixed accuracy radius
// attributed to IP-derived coordinates; zero falls back to the default.
func New(s store.Store, g GeoResolver, c ua.Classifier, ipRadiusM float64, logger *slog.Logger) *Pipeline {
	if ipRadiusM <= 0 {
		ipRadiusM = geo.DefaultAccuracyRadiusM
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:      s,
		geo:        g,
		classifier: c,
		ipRadiusM:  ipRadiusM,
		logger:     logger,
		now:        time.Now,
	}
}

// Record assembles and persists one event. Every internal failure is
// logged and swallowed so analytics collection never blocks or breaks
// the user-facing request it instruments. There are no retries: one
// bounded geo attempt, one insert.
func (p *Pipeline) Record(ctx context.Context, linkSlug string, eventType model.EventType, rc ReqContext, facts model.ClientFacts) {
	// A visitor closing the page must not truncate an in-flight write;
	// enrichment and persistence run to completion regardless.
	ctx = context.WithoutCancel(ctx)

	event := p.assemble(ctx, linkSlug, eventType, rc, facts)
	if err := p.store.InsertEvent(ctx, event); err != nil {
		p.logger.Warn("failed to persist event",
			"link_slug", linkSlug, "type", eventType, "error", err)
	}
}

// assemble runs the enrichment steps and the reconciliation rule.
// Each step degrades independently; assemble always returns an event.
func (p *Pipeline) assemble(ctx context.Context, linkSlug string, eventType model.EventType, rc ReqContext, facts model.ClientFacts) *model.Event {
	event := &model.Event{
		LinkSlug:   linkSlug,
		OccurredAt: p.now().UTC(),
		Type:       eventType,
		IP:         ClientIP(rc),
		UserAgent:  rc.UserAgent,
		Referer:    rc.Referer,
	}

	cls := p.classifier.Classify(rc.UserAgent)
	event.DeviceFamily = cls.DeviceFamily
	event.OSFamily = cls.OSFamily
	event.BrowserFamily = cls.BrowserFamily
	event.IsBot = cls.IsBot

	enrichment := p.geo.Resolve(ctx, event.IP)
	if enrichment != nil {
		event.IPOrg = enrichment.Org
		event.Country = enrichment.Country
		event.Region = enrichment.Region
		event.City = enrichment.City
	}

	p.reconcile(event, enrichment, facts)

	if payload := p.marshalFacts(linkSlug, facts); len(payload) > 0 {
		event.Payload = payload
	}

	return event
}

// reconcile selects the coordinate source by fixed priority: explicit
// client coordinates win, then IP enrichment, then nothing.
func (p *Pipeline) reconcile(event *model.Event, enrichment *geo.Enrichment, facts model.ClientFacts) {
	if loc, ok := facts.(model.LocationFacts); ok {
		lat, lon, acc := loc.Latitude, loc.Longitude, loc.Accuracy
		event.Latitude = &lat
		event.Longitude = &lon
		event.AccuracyM = &acc
		event.AccuracySource = model.AccuracyBrowser
		radius := acc
		event.AccuracyRadiusM = &radius
		return
	}

	if enrichment != nil {
		lat, lon := enrichment.Latitude, enrichment.Longitude
		event.Latitude = &lat
		event.Longitude = &lon
		event.AccuracySource = model.AccuracyIP
		radius := p.ipRadiusM
		event.AccuracyRadiusM = &radius
		return
	}

	event.AccuracySource = model.AccuracyNone
}

// marshalFacts serializes non-coordinate client facts for the payload
// field. Location facts are already reflected in the coordinate
// columns and are not duplicated. A marshal failure is logged and the
// event proceeds without a payload.
func (p *Pipeline) marshalFacts(linkSlug string, facts model.ClientFacts) json.RawMessage {
	switch f := facts.(type) {
	case nil:
		return nil
	case model.LocationFacts:
		return nil
	case model.DeviceFacts:
		if len(f) == 0 {
			return nil
		}
		data, err := json.Marshal(f)
		if err != nil {
			p.logger.Warn("failed to marshal device facts", "link_slug", linkSlug, "error", err)
			return nil
		}
		return data
	case model.RawFacts:
		return json.RawMessage(f)
	default:
		return nil
	}
}

// ClientIP extracts the caller's IP, preferring the first hop of a
// forwarded-for chain over the transport-level peer address.
func ClientIP(rc ReqContext) string {
	if rc.ForwardedFor != "" {
		first, _, _ := strings.Cut(rc.ForwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(rc.RemoteAddr); err == nil {
		return host
	}
	return rc.RemoteAddr
}
