package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/groblegark/linkpixel/internal/model"
	"github.com/groblegark/linkpixel/internal/store"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// linkColumns is the column list for queryGetLink results.
var linkColumns = []string{"id", "slug", "title", "image_path", "created_at"}

// eventRowColumns is the column list for scanEvent results.
var eventRowColumns = []string{
	"id", "link_slug", "occurred_at", "type", "ip", "ip_org",
	"country", "region", "city", "user_agent", "device_family", "os_family",
	"browser_family", "referer", "is_bot", "latitude", "longitude", "accuracy_m",
	"accuracy_source", "accuracy_radius_m", "payload",
}

func TestQueryCreateLink(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO links").
		WithArgs("abc123XYZ0", sqlmock.AnyArg(), sqlmock.AnyArg(), now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	link := &model.Link{Slug: "abc123XYZ0", Title: "campaign", CreatedAt: now}
	if err := queryCreateLink(context.Background(), db, link); err != nil {
		t.Fatalf("queryCreateLink: %v", err)
	}
	if link.ID != 7 {
		t.Errorf("link.ID = %d, want 7", link.ID)
	}
}

func TestQueryCreateLink_UniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("INSERT INTO links").
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "links_slug_key"`))

	link := &model.Link{Slug: "abc123XYZ0", CreatedAt: time.Now()}
	if err := queryCreateLink(context.Background(), db, link); err == nil {
		t.Fatal("expected error on unique violation, got nil")
	}
}

func TestQueryGetLink(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT .+ FROM links WHERE slug = \\$1").
		WithArgs("abc123XYZ0").
		WillReturnRows(sqlmock.NewRows(linkColumns).
			AddRow(int64(7), "abc123XYZ0", "campaign", nil, now))

	link, err := queryGetLink(context.Background(), db, "abc123XYZ0")
	if err != nil {
		t.Fatalf("queryGetLink: %v", err)
	}
	if link.Slug != "abc123XYZ0" {
		t.Errorf("Slug = %q, want %q", link.Slug, "abc123XYZ0")
	}
	if link.Title != "campaign" {
		t.Errorf("Title = %q, want %q", link.Title, "campaign")
	}
	if link.ImagePath != "" {
		t.Errorf("ImagePath = %q, want empty", link.ImagePath)
	}
}

func TestQueryGetLink_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT .+ FROM links WHERE slug = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := queryGetLink(context.Background(), db, "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want store.ErrNotFound", err)
	}
}

func TestQueryAttachImage(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("UPDATE links SET image_path = \\$2 WHERE slug = \\$1").
		WithArgs("abc123XYZ0", "abc123XYZ0.png").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryAttachImage(context.Background(), db, "abc123XYZ0", "abc123XYZ0.png"); err != nil {
		t.Fatalf("queryAttachImage: %v", err)
	}
}

func TestQueryAttachImage_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("UPDATE links SET image_path = \\$2 WHERE slug = \\$1").
		WithArgs("missing", "x.png").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := queryAttachImage(context.Background(), db, "missing", "x.png")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want store.ErrNotFound", err)
	}
}

func TestQueryInsertEvent(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	lat, lon, radius := 40.0, -74.0, 25000.0

	mock.ExpectQuery("INSERT INTO events").
		WithArgs(
			"abc123XYZ0", now, "view",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), false,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	event := &model.Event{
		LinkSlug:        "abc123XYZ0",
		OccurredAt:      now,
		Type:            model.EventView,
		IP:              "203.0.113.9",
		Country:         "US",
		Latitude:        &lat,
		Longitude:       &lon,
		AccuracySource:  model.AccuracyIP,
		AccuracyRadiusM: &radius,
	}
	if err := queryInsertEvent(context.Background(), db, event); err != nil {
		t.Fatalf("queryInsertEvent: %v", err)
	}
	if event.ID != 42 {
		t.Errorf("event.ID = %d, want 42", event.ID)
	}
}

func TestQueryListEvents(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(eventRowColumns).
		AddRow(int64(2), "abc123XYZ0", now, "location", "203.0.113.9", nil,
			"US", nil, nil, "Mozilla/5.0", "Desktop", "Linux",
			"Firefox", nil, false, 37.0, -122.0, 15.0,
			"browser", 15.0, []byte(`{"source":"gps"}`)).
		AddRow(int64(1), "abc123XYZ0", now.Add(-time.Minute), "view", "203.0.113.9", nil,
			nil, nil, nil, nil, nil, nil,
			nil, nil, false, nil, nil, nil,
			nil, nil, nil)

	mock.ExpectQuery("SELECT .+ FROM events WHERE link_slug = \\$1").
		WithArgs("abc123XYZ0", 100).
		WillReturnRows(rows)

	events, err := queryListEvents(context.Background(), db, "abc123XYZ0", 100)
	if err != nil {
		t.Fatalf("queryListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}

	first := events[0]
	if first.Type != model.EventLocation {
		t.Errorf("events[0].Type = %q, want location", first.Type)
	}
	if first.AccuracySource != model.AccuracyBrowser {
		t.Errorf("events[0].AccuracySource = %q, want browser", first.AccuracySource)
	}
	if first.Latitude == nil || *first.Latitude != 37.0 {
		t.Errorf("events[0].Latitude = %v, want 37.0", first.Latitude)
	}
	if string(first.Payload) != `{"source":"gps"}` {
		t.Errorf("events[0].Payload = %s", first.Payload)
	}

	second := events[1]
	if second.AccuracySource != model.AccuracyNone {
		t.Errorf("events[1].AccuracySource = %q, want empty", second.AccuracySource)
	}
	if second.Latitude != nil || second.Longitude != nil {
		t.Errorf("events[1] coordinates = (%v, %v), want nil", second.Latitude, second.Longitude)
	}
	if second.Payload != nil {
		t.Errorf("events[1].Payload = %s, want nil", second.Payload)
	}
}

func TestQueryListEvents_ClampsLimit(t *testing.T) {
	db, mock := newMockDB(t)

	// Limits beyond the cap, zero, and negative all clamp to the max.
	for _, limit := range []int{5000, 0, -1} {
		mock.ExpectQuery("SELECT .+ FROM events WHERE link_slug = \\$1").
			WithArgs("abc123XYZ0", store.MaxEventLimit).
			WillReturnRows(sqlmock.NewRows(eventRowColumns))

		if _, err := queryListEvents(context.Background(), db, "abc123XYZ0", limit); err != nil {
			t.Fatalf("queryListEvents(limit=%d): %v", limit, err)
		}
	}
}

func TestScanHelpers(t *testing.T) {
	// nullString
	if nullString("").Valid {
		t.Error("nullString(\"\") should be invalid")
	}
	if ns := nullString("x"); !ns.Valid || ns.String != "x" {
		t.Errorf("nullString(\"x\") = %+v", ns)
	}

	// nullFloatPtr
	if nullFloatPtr(nil).Valid {
		t.Error("nullFloatPtr(nil) should be invalid")
	}
	v := 12.5
	if nf := nullFloatPtr(&v); !nf.Valid || nf.Float64 != 12.5 {
		t.Errorf("nullFloatPtr(&12.5) = %+v", nf)
	}

	// jsonbBytes
	if jsonbBytes(nil) != nil {
		t.Error("jsonbBytes(nil) should be nil")
	}
	if got := jsonbBytes(json.RawMessage(`{}`)); string(got) != `{}` {
		t.Errorf("jsonbBytes = %s", got)
	}
}
