package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/opendataregistry/regsite/internal/dataset"
	"github.com/opendataregistry/regsite/internal/log"
)

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithClock sets the time source used for build timestamps.
func WithClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) { e.now = now }
}

// Exporter replaces the dataset tables with a collection, recording the
// build it came from. Build history is kept across exports.
type Exporter struct {
	db  *sql.DB
	now func() time.Time
}

func newExporter(db *sql.DB, opts ...ExporterOption) *Exporter {
	e := &Exporter{db: db, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes records in order within a single transaction. A failure
// leaves the previous export untouched.
func (e *Exporter) Export(ctx context.Context, buildID string, records []*dataset.Record) (err error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"dataset_resources", "dataset_sources", "dataset_tags", "datasets"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO builds (id, created_at, dataset_count) VALUES (?, ?, ?)`,
		buildID, e.now().Unix(), len(records),
	); err != nil {
		return fmt.Errorf("failed to insert build %s: %w", buildID, err)
	}

	for i, r := range records {
		if err := insertDataset(ctx, tx, r, i, buildID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit export: %w", err)
	}
	log.Info(log.CatExport, "Exported datasets", "build", buildID, "count", len(records))
	return nil
}

func insertDataset(ctx context.Context, tx *sql.Tx, r *dataset.Record, position int, buildID string) error {
	m, err := toDatasetModel(r, position, buildID)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (
			slug, position, name, description, managed_by, license, update_frequency,
			registry_entry_added, examples_count, document, build_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Slug, m.Position, m.Name, m.Description, m.ManagedBy, m.License, m.UpdateFrequency,
		m.RegistryEntryAdded, m.ExamplesCount, m.Document, m.BuildID,
	); err != nil {
		return fmt.Errorf("failed to insert dataset %s: %w", m.Slug, err)
	}

	for i, tag := range m.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dataset_tags (slug, position, tag) VALUES (?, ?, ?)`, m.Slug, i, tag,
		); err != nil {
			return fmt.Errorf("failed to insert tag %q for %s: %w", tag, m.Slug, err)
		}
	}
	for i, src := range m.Sources {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dataset_sources (slug, position, source) VALUES (?, ?, ?)`, m.Slug, i, src,
		); err != nil {
			return fmt.Errorf("failed to insert source %q for %s: %w", src, m.Slug, err)
		}
	}
	for i, res := range r.Resources {
		rm := toResourceModel(res, i)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dataset_resources (slug, position, type, arn, region, description) VALUES (?, ?, ?, ?, ?, ?)`,
			m.Slug, rm.Position, rm.Type, rm.ARN, rm.Region, rm.Description,
		); err != nil {
			return fmt.Errorf("failed to insert resource %d for %s: %w", i, m.Slug, err)
		}
	}
	return nil
}
