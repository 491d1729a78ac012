// Package sqlite persists a built dataset collection to a SQLite database
// so the registry can be queried without re-reading the YAML sources.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/opendataregistry/regsite/internal/log"
)

// migrations are applied in order; PRAGMA user_version records how many ran.
var migrations = []string{
	`CREATE TABLE builds (
		id            TEXT PRIMARY KEY,
		created_at    INTEGER NOT NULL,
		dataset_count INTEGER NOT NULL
	);
	CREATE TABLE datasets (
		slug                 TEXT PRIMARY KEY,
		position             INTEGER NOT NULL,
		name                 TEXT NOT NULL,
		description          TEXT,
		managed_by           TEXT,
		license              TEXT,
		update_frequency     TEXT,
		registry_entry_added TEXT,
		examples_count       INTEGER NOT NULL DEFAULT 0,
		document             TEXT NOT NULL,
		build_id             TEXT NOT NULL REFERENCES builds(id)
	);
	CREATE TABLE dataset_tags (
		slug     TEXT NOT NULL REFERENCES datasets(slug) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		tag      TEXT NOT NULL,
		PRIMARY KEY (slug, position)
	);
	CREATE INDEX idx_dataset_tags_tag ON dataset_tags(tag);
	CREATE TABLE dataset_sources (
		slug     TEXT NOT NULL REFERENCES datasets(slug) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		source   TEXT NOT NULL,
		PRIMARY KEY (slug, position)
	);`,
	`CREATE TABLE dataset_resources (
		slug        TEXT NOT NULL REFERENCES datasets(slug) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		type        TEXT,
		arn         TEXT,
		region      TEXT,
		description TEXT,
		PRIMARY KEY (slug, position)
	);`,
}

// DB wraps the export database connection.
type DB struct {
	conn *sql.DB
}

// NewDB opens (creating if needed) the database at path and applies any
// pending migrations. The parent directory is created with 0700.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps PRAGMAs and transactions on one handle.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := migrate(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Debug(log.CatExport, "Opened export database", "path", path)
	return &DB{conn: conn}, nil
}

func migrate(conn *sql.DB) error {
	var version int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, len(migrations))
	}

	for i := version; i < len(migrations); i++ {
		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		log.Debug(log.CatExport, "Applied migration", "version", i+1)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Exporter returns an Exporter writing to this database.
func (db *DB) Exporter(opts ...ExporterOption) *Exporter {
	return newExporter(db.conn, opts...)
}

// Reader returns a Reader over this database.
func (db *DB) Reader() *Reader {
	return &Reader{db: db.conn}
}
