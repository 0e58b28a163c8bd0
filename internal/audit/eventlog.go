package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const TypeExportRendered = "ExportRendered"

type Event struct {
	Seq       int64  `json:"seq" db:"seq"`
	SiteID    string `json:"site_id" db:"site_id"`
	Type      string `json:"type" db:"typ"`
	Key       string `json:"key" db:"ref_key"` // natural key, e.g. the export filename
	DataJSON  string `json:"data" db:"data"`   // JSON payload
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

// Recorder is the write side the export service depends on.
type Recorder interface {
	Append(ctx context.Context, e Event) error
}

// EventRepo is the append-only event_log table.
type EventRepo struct {
	db     *sqlx.DB
	siteID string
	now    func() time.Time
}

func NewEventRepo(db *sqlx.DB, siteID string) *EventRepo {
	if siteID == "" {
		siteID = "local"
	}
	return &EventRepo{db: db, siteID: siteID, now: time.Now}
}

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = r.siteID
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO event_log (site_id, typ, ref_key, data, created_at) VALUES (?, ?, ?, ?, ?)`),
		e.SiteID, e.Type, e.Key, e.DataJSON, r.now().Unix())
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// List returns the newest events first.
func (r *EventRepo) List(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	out := make([]Event, 0)
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(
		`SELECT seq, site_id, typ, ref_key, data, created_at FROM event_log ORDER BY seq DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}
