package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/groblegark/linkpixel/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanLink scans a single row into a model.Link.
func scanLink(row scannable) (*model.Link, error) {
	var l model.Link
	var (
		title     sql.NullString
		imagePath sql.NullString
	)
	err := row.Scan(&l.ID, &l.Slug, &title, &imagePath, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	l.Title = title.String
	l.ImagePath = imagePath.String
	return &l, nil
}

// scanEvent scans a single row into a model.Event.
// The row must contain columns in the order defined by eventColumns.
func scanEvent(row scannable) (*model.Event, error) {
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
		payload        []byte
	)

	err := row.Scan(
		&e.ID,
		&e.LinkSlug,
		&e.OccurredAt,
		&e.Type,
		&ip,
		&ipOrg,
		&country,
		&region,
		&city,
		&userAgent,
		&deviceFamily,
		&osFamily,
		&browserFamily,
		&referer,
		&e.IsBot,
		&latitude,
		&longitude,
		&accuracyM,
		&accuracySource,
		&accuracyRadius,
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
	if len(payload) > 0 {
		e.Payload = json.RawMessage(payload)
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

// jsonbBytes converts json.RawMessage to a []byte suitable for JSONB columns.
func jsonbBytes(m json.RawMessage) []byte {
	if len(m) == 0 {
		return nil
	}
	return []byte(m)
}
