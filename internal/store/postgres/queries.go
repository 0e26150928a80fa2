package postgres

import (
	"context"
	"database/sql"
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
	row := db.QueryRowContext(ctx, `
		INSERT INTO links (slug, title, image_path, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		l.Slug,
		nullString(l.Title),
		nullString(l.ImagePath),
		l.CreatedAt,
	)
	return row.Scan(&l.ID)
}

func queryAttachImage(ctx context.Context, db executor, slug, path string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE links SET image_path = $2 WHERE slug = $1`, slug, path)
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
		`SELECT id, slug, title, image_path, created_at FROM links WHERE slug = $1`, slug)
	l, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func queryInsertEvent(ctx context.Context, db executor, e *model.Event) error {
	row := db.QueryRowContext(ctx, `
		INSERT INTO events (
			link_slug, occurred_at, type, ip, ip_org,
			country, region, city, user_agent, device_family, os_family,
			browser_family, referer, is_bot, latitude, longitude, accuracy_m,
			accuracy_source, accuracy_radius_m, payload
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17,
			$18, $19, $20
		)
		RETURNING id`,
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
		jsonbBytes(e.Payload),
	)
	return row.Scan(&e.ID)
}

func queryListEvents(ctx context.Context, db executor, slug string, limit int) ([]*model.Event, error) {
	if limit <= 0 || limit > store.MaxEventLimit {
		limit = store.MaxEventLimit
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE link_slug = $1
		 ORDER BY occurred_at DESC, id DESC LIMIT $2`, slug, limit)
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
