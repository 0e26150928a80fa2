package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/groblegark/linkpixel/internal/model"
	"github.com/groblegark/linkpixel/internal/store"
)

// eventColumns is the column list used for SELECT statements on the events table.
const eventColumns = `id, link_slug, occurred_at, type, ip, ip_org,
	country, region, city, user_agent, device_family, os_family,
	browser_family, referer, is_bot, latitude, longitude, accuracy_m,
	accuracy_source, accuracy_radius_m, payload`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateLink(ctx context.Context, db executor, l *model.Link) error {
	res, err := db.ExecContext(ctx, `
		INSERT INTO links (slug, title, image_path, created_at)
		VALUES (?, ?, ?, ?)`,
		l.Slug,
		nullString(l.Title),
		nullString(l.ImagePath),
		l.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}

func queryAttachImage(ctx context.Context, db executor, slug, path string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE links SET image_path = ? WHERE slug = ?`, path, slug)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func queryGetLink(ctx context.Context, db executor, slug string) (*model.Link, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, slug, title, image_path, created_at FROM links WHERE slug = ?`, slug)

	var l model.Link
	var (
		title     sql.NullString
		imagePath sql.NullString
	)
	err := row.Scan(&l.ID, &l.Slug, &title, &imagePath, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	l.Title = title.String
	l.ImagePath = imagePath.String
	return &l, nil
}

func queryInsertEvent(ctx context.Context, db executor, e *model.Event) error {
	res, err := db.ExecContext(ctx, `
		INSERT INTO events (
			link_slug, occurred_at, type, ip, ip_org,
			country, region, city, user_agent, device_family, os_family,
			browser_family, referer, is_bot, latitude, longitude, accuracy_m,
			accuracy_source, accuracy_radius_m, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.LinkSlug,
		e.OccurredAt,
		string(e.Type),
		nullString(e.IP),
		nullString(e.IPOrg),
		nullString(e.Country),
		nullString(e.Region),
		nullString(e.City),
		nullString(e.UserAgent),
		nullString(e.DeviceFamily),
		nullString(e.OSFamily),
		nullString(e.BrowserFamily),
		nullString(e.Referer),
		e.IsBot,
		nullFloatPtr(e.Latitude),
		nullFloatPtr(e.Longitude),
		nullFloatPtr(e.AccuracyM),
		nullString(string(e.AccuracySource)),
		nullFloatPtr(e.AccuracyRadiusM),
		payloadText(e.Payload),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func queryListEvents(ctx context.Context, db executor, slug string, limit int) ([]*model.Event, error) {
	if limit <= 0 || limit > store.MaxEventLimit {
		limit = store.MaxEventLimit
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE link_slug = ?
		 ORDER BY occurred_at DESC, id DESC LIMIT ?`, slug, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// scanEvent scans a single row into a model.Event.
// The row must contain columns in the order defined by eventColumns.
func scanEvent(rows *sql.Rows) (*model.Event, error) {
	var e model.Event
	var (
		ip             sql.NullString
		ipOrg          sql.NullString
		country        sql.NullString
		region         sql.NullString
		city           sql.NullString
		userAgent      sql.NullString
		deviceFamily   sql.NullString
		osFamily       sql.NullString
		browserFamily  sql.NullString
		referer        sql.NullString
		latitude       sql.NullFloat64
		longitude      sql.NullFloat64
		accuracyM      sql.NullFloat64
		accuracySource sql.NullString
		accuracyRadius sql.NullFloat64
		payload        sql.NullString
	)

	err := rows.Scan(
		&e.ID, &e.LinkSlug, &e.OccurredAt, &e.Type,
		&ip, &ipOrg, &country, &region, &city,
		&userAgent, &deviceFamily, &osFamily, &browserFamily, &referer,
		&e.IsBot,
		&latitude, &longitude, &accuracyM, &accuracySource, &accuracyRadius,
		&payload,
	)
	if err != nil {
		return nil, err
	}

	e.IP = ip.String
	e.IPOrg = ipOrg.String
	e.Country = country.String
	e.Region = region.String
	e.City = city.String
	e.UserAgent = userAgent.String
	e.DeviceFamily = deviceFamily.String
	e.OSFamily = osFamily.String
	e.BrowserFamily = browserFamily.String
	e.Referer = referer.String
	e.AccuracySource = model.AccuracySource(accuracySource.String)

	if latitude.Valid {
		v := latitude.Float64
		e.Latitude = &v
	}
	if longitude.Valid {
		v := longitude.Float64
		e.Longitude = &v
	}
	if accuracyM.Valid {
		v := accuracyM.Float64
		e.AccuracyM = &v
	}
	if accuracyRadius.Valid {
		v := accuracyRadius.Float64
		e.AccuracyRadiusM = &v
	}
	if payload.Valid && payload.String != "" {
		e.Payload = json.RawMessage(payload.String)
	}

	return &e, nil
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullFloatPtr converts a *float64 to a sql.NullFloat64.
func nullFloatPtr(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// payloadText converts json.RawMessage to a nullable TEXT value.
func payloadText(m json.RawMessage) sql.NullString {
	if len(m) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(m), Valid: true}
}
