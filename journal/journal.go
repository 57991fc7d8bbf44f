// Package journal records completed refreshes in a SQLite database.
//
// A Journal is an epdsim.Observer: attach it through Opts.Observers and every refresh
// of the display is stored with the session it belongs to. Each Open starts a new
// session.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/flavioheleno/epdsim"
	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Entry is a stored refresh.
type Entry struct {
	ID      int64
	Session string
	Panel   string
	epdsim.Result
}

// Journal stores refresh results.
type Journal struct {
	db      *sql.DB
	session string
	panel   string
	logger  *log.Logger
}

// Open opens or creates the journal at path for refreshes of the named panel.
// logger receives write failures from ObserveRefresh; nil selects the standard logger.
func Open(path, panel string, logger *log.Logger) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	j := &Journal{
		db:      db,
		session: uuid.New().String(),
		panel:   panel,
		logger:  logger,
	}
	if err := j.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: migrate %s: %w", path, err)
	}
	return j, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Session returns the id of the session entries are recorded under.
func (j *Journal) Session() string {
	return j.session
}

func (j *Journal) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refreshes (
			id INTEGER PRIMARY KEY,
			session TEXT NOT NULL,
			panel TEXT NOT NULL,
			completed_at TEXT NOT NULL,
			requested TEXT NOT NULL,
			mode TEXT NOT NULL,
			escalated INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			temperature INTEGER NOT NULL,
			ghosting REAL NOT NULL,
			region_min_x INTEGER NOT NULL,
			region_min_y INTEGER NOT NULL,
			region_max_x INTEGER NOT NULL,
			region_max_y INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_refreshes_session ON refreshes(session);`,
	}
	for _, stmt := range stmts {
		if _, err := j.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Record stores r in the current session and returns its id.
func (j *Journal) Record(ctx context.Context, r epdsim.Result) (int64, error) {
	escalated := 0
	if r.Escalated {
		escalated = 1
	}
	res, err := j.db.ExecContext(ctx,
		`INSERT INTO refreshes (session, panel, completed_at, requested, mode, escalated, duration_ms,
			temperature, ghosting, region_min_x, region_min_y, region_max_x, region_max_y)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.session,
		j.panel,
		r.Completed.UTC().Format(time.RFC3339Nano),
		r.Requested.String(),
		r.Mode.String(),
		escalated,
		r.Duration.Milliseconds(),
		r.Temperature,
		r.Ghosting,
		r.Region.Min.X, r.Region.Min.Y, r.Region.Max.X, r.Region.Max.Y,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ObserveRefresh implements epdsim.Observer. Failures are logged, not returned.
func (j *Journal) ObserveRefresh(r epdsim.Result) {
	if _, err := j.Record(context.Background(), r); err != nil {
		j.logger.Printf("journal: failed to record %s refresh: %v", r.Mode, err)
	}
}

// Entries returns the most recent entries, newest first. An empty session selects every
// session; limit <= 0 returns all of them.
func (j *Journal) Entries(ctx context.Context, session string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, session, panel, completed_at, requested, mode, escalated, duration_ms,
			temperature, ghosting, region_min_x, region_min_y, region_max_x, region_max_y
		 FROM refreshes
		 WHERE (? = '' OR session = ?)
		 ORDER BY id DESC
		 LIMIT ?`, session, session, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []Entry
	for rows.Next() {
		var (
			e                      Entry
			completed              string
			requested, mode        string
			escalated              int
			durationMS             int64
			minX, minY, maxX, maxY int
		)
		if err := rows.Scan(&e.ID, &e.Session, &e.Panel, &completed, &requested, &mode, &escalated,
			&durationMS, &e.Temperature, &e.Ghosting, &minX, &minY, &maxX, &maxY); err != nil {
			return nil, err
		}
		if e.Completed, err = time.Parse(time.RFC3339Nano, completed); err != nil {
			return nil, fmt.Errorf("journal: entry %d: %w", e.ID, err)
		}
		var ok bool
		if e.Requested, ok = epdsim.ParseMode(requested); !ok {
			return nil, fmt.Errorf("journal: entry %d: unknown mode %q", e.ID, requested)
		}
		if e.Mode, ok = epdsim.ParseMode(mode); !ok {
			return nil, fmt.Errorf("journal: entry %d: unknown mode %q", e.ID, mode)
		}
		e.Escalated = escalated != 0
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.Region = image.Rect(minX, minY, maxX, maxY)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ErrNoEntries is returned by Last when the journal holds no refresh.
var ErrNoEntries = errors.New("journal: no entries")

// Last returns the most recent entry of session, or of any session when session is empty.
func (j *Journal) Last(ctx context.Context, session string) (Entry, error) {
	entries, err := j.Entries(ctx, session, 1)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, ErrNoEntries
	}
	return entries[0], nil
}
