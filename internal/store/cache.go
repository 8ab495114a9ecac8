package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Cache holds fetched page content with a TTL plus the history of enrichment
// runs, backed by modernc.org/sqlite.
type Cache struct {
	db *sql.DB
}

// NewCache opens a SQLite database at the given path and configures WAL mode.
func NewCache(dsn string) (*Cache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "cache: exec %s", pragma)
		}
	}
	return &Cache{db: db}, nil
}

const cacheMigration = `
CREATE TABLE IF NOT EXISTS fetch_cache (
	url        TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS enrich_runs (
	id          TEXT PRIMARY KEY,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME,
	status      TEXT NOT NULL DEFAULT 'running',
	processed   INTEGER NOT NULL DEFAULT 0,
	updated     INTEGER NOT NULL DEFAULT 0,
	remaining   INTEGER NOT NULL DEFAULT 0,
	error       TEXT
);

CREATE INDEX IF NOT EXISTS idx_fetch_cache_expires_at ON fetch_cache(expires_at);
CREATE INDEX IF NOT EXISTS idx_enrich_runs_started_at ON enrich_runs(started_at);
`

// Migrate creates the cache schema.
func (c *Cache) Migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, cacheMigration)
	return eris.Wrap(err, "cache: migrate")
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// GetPage returns cached content for a URL if present and unexpired.
func (c *Cache) GetPage(ctx context.Context, url string) (string, bool, error) {
	var content string
	err := c.db.QueryRowContext(ctx,
		`SELECT content FROM fetch_cache WHERE url = ? AND expires_at > ?`,
		url, time.Now().UTC(),
	).Scan(&content)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrap(err, "cache: get page")
	}
	return content, true, nil
}

// SetPage stores page content for a URL with the given TTL, replacing any
// prior entry.
func (c *Cache) SetPage(ctx context.Context, url, content string, ttl time.Duration) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO fetch_cache (url, content, fetched_at, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET content = excluded.content,
		   fetched_at = excluded.fetched_at, expires_at = excluded.expires_at`,
		url, content, time.Now().UTC(), time.Now().UTC().Add(ttl),
	)
	return eris.Wrap(err, "cache: set page")
}

// DeleteExpired removes expired cache entries and returns the count removed.
func (c *Cache) DeleteExpired(ctx context.Context) (int, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM fetch_cache WHERE expires_at <= ?`, time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "cache: delete expired")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "cache: rows affected")
	}
	return int(n), nil
}

// RunRecord summarizes one enrichment run for the history table.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Processed  int
	Updated    int
	Remaining  int
	Error      string
}

// StartRun inserts a running enrichment run and returns its ID.
func (c *Cache) StartRun(ctx context.Context) (string, error) {
	id := uuid.New().String()
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO enrich_runs (id, started_at, status) VALUES (?, ?, 'running')`,
		id, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "cache: start run")
	}
	return id, nil
}

// FinishRun records a run's outcome.
func (c *Cache) FinishRun(ctx context.Context, id, status string, processed, updated, remaining int, runErr string) error {
	_, err := c.db.ExecContext(ctx,
		`UPDATE enrich_runs SET finished_at = ?, status = ?, processed = ?, updated = ?, remaining = ?, error = ?
		 WHERE id = ?`,
		time.Now().UTC(), status, processed, updated, remaining, runErr, id,
	)
	return eris.Wrapf(err, "cache: finish run %s", id)
}

// LastRuns returns the most recent run records, newest first.
func (c *Cache) LastRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, started_at, COALESCE(finished_at, started_at), status, processed, updated, remaining, COALESCE(error, '')
		 FROM enrich_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "cache: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Status, &r.Processed, &r.Updated, &r.Remaining, &r.Error); err != nil {
			return nil, eris.Wrap(err, "cache: scan run")
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
