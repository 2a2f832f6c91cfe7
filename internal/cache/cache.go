package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/detent/runview/internal/workflow"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const (
	// FileName is the cache database name inside the runview directory.
	FileName = "cache.db"

	currentSchemaVersion = 1
)

// TagStore is a SQLite-backed workflow.TagCache keyed by content hash.
// It is safe for concurrent use.
type TagStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

var _ workflow.TagCache = (*TagStore)(nil)

// Open opens (creating if needed) the tag cache at dbPath.
func Open(dbPath string) (*TagStore, error) {
	// #nosec G301 - restrictive permissions for cache directory (owner-only access)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Single connection; SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	s := &TagStore{db: db, path: dbPath, now: time.Now}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// #nosec G302 - intentionally setting restrictive permissions
	if err := os.Chmod(dbPath, 0o600); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("chmod %s: %w", dbPath, err)
	}

	return s, nil
}

func (s *TagStore) initSchema() error {
	if _, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL
	);`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var version int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to query schema version: %w", err)
	}
	if version >= currentSchemaVersion {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS workflow_tags (
		content_hash TEXT PRIMARY KEY,
		tag TEXT NOT NULL,
		status INTEGER NOT NULL,
		events TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_workflow_tags_updated_at ON workflow_tags(updated_at);`); err != nil {
		return fmt.Errorf("failed to create workflow_tags table: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
		currentSchemaVersion, s.now().Unix()); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return tx.Commit()
}

// Path returns the database file path.
func (s *TagStore) Path() string {
	return s.path
}

// Lookup implements workflow.TagCache. Any database error counts as a miss.
func (s *TagStore) Lookup(ctx context.Context, hash string) (workflow.CachedTag, bool) {
	var (
		tag    string
		status int
		events string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT tag, status, events FROM workflow_tags WHERE content_hash = ?", hash,
	).Scan(&tag, &status, &events)
	if err != nil {
		return workflow.CachedTag{}, false
	}

	entry := workflow.CachedTag{
		Tag:    workflow.Tag(tag),
		Status: workflow.TriggerStatus(status),
	}
	if err := json.Unmarshal([]byte(events), &entry.Events); err != nil {
		return workflow.CachedTag{}, false
	}
	if entry.Events == nil {
		entry.Events = []workflow.TriggerEvent{}
	}
	return entry, true
}

// Store implements workflow.TagCache.
func (s *TagStore) Store(ctx context.Context, hash string, entry workflow.CachedTag) error {
	if hash == "" {
		return errors.New("cache: empty content hash")
	}
	events, err := json.Marshal(entry.Events)
	if err != nil {
		return fmt.Errorf("encoding events: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
	INSERT INTO workflow_tags (content_hash, tag, status, events, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(content_hash) DO UPDATE SET
		tag = excluded.tag,
		status = excluded.status,
		events = excluded.events,
		updated_at = excluded.updated_at`,
		hash, string(entry.Tag), int(entry.Status), string(events), s.now().Unix())
	if err != nil {
		return fmt.Errorf("storing tag: %w", err)
	}
	return nil
}

// Prune deletes entries not refreshed within maxAge and returns how many
// were removed.
func (s *TagStore) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := s.now().Add(-maxAge).Unix()
	res, err := s.db.ExecContext(ctx, "DELETE FROM workflow_tags WHERE updated_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning tags: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (s *TagStore) Close() error {
	return s.db.Close()
}
