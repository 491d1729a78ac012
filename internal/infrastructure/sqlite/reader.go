package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNoBuild is returned by LatestBuild when nothing has been exported.
var ErrNoBuild = errors.New("no build exported")

// Reader queries an exported collection.
type Reader struct {
	db *sql.DB
}

const datasetColumns = `slug, position, name, description, managed_by, license, update_frequency,
	registry_entry_added, examples_count, document, build_id`

func scanDataset(scanner interface{ Scan(...any) error }) (*DatasetModel, error) {
	var m DatasetModel
	err := scanner.Scan(
		&m.Slug, &m.Position, &m.Name, &m.Description, &m.ManagedBy, &m.License, &m.UpdateFrequency,
		&m.RegistryEntryAdded, &m.ExamplesCount, &m.Document, &m.BuildID,
	)
	return &m, err
}

// Datasets returns every exported dataset in collection order. When tag is
// non-empty only datasets carrying it are returned.
func (r *Reader) Datasets(ctx context.Context, tag string) ([]*DatasetModel, error) {
	query := `SELECT ` + datasetColumns + ` FROM datasets`
	var args []any
	if tag != "" {
		query += ` WHERE slug IN (SELECT slug FROM dataset_tags WHERE tag = ?)`
		args = append(args, tag)
	}
	query += ` ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*DatasetModel
	for rows.Next() {
		m, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate datasets: %w", err)
	}
	_ = rows.Close()

	for _, m := range out {
		if m.Tags, err = r.column(ctx, "SELECT tag FROM dataset_tags WHERE slug = ? ORDER BY position", m.Slug); err != nil {
			return nil, err
		}
		if m.Sources, err = r.column(ctx, "SELECT source FROM dataset_sources WHERE slug = ? ORDER BY position", m.Slug); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Resources returns the resources of slug in document order.
func (r *Reader) Resources(ctx context.Context, slug string) ([]ResourceModel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT position, type, arn, region, description FROM dataset_resources WHERE slug = ? ORDER BY position`, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ResourceModel
	for rows.Next() {
		var m ResourceModel
		if err := rows.Scan(&m.Position, &m.Type, &m.ARN, &m.Region, &m.Description); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// TagCounts returns how many datasets carry each tag.
func (r *Reader) TagCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT tag, COUNT(DISTINCT slug) FROM dataset_tags GROUP BY tag`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]int)
	for rows.Next() {
		var tag string
		var n int
		if err := rows.Scan(&tag, &n); err != nil {
			return nil, fmt.Errorf("failed to scan tag count: %w", err)
		}
		out[tag] = n
	}
	return out, rows.Err()
}

// LatestBuild returns the most recently exported build.
func (r *Reader) LatestBuild(ctx context.Context) (*BuildModel, error) {
	var b BuildModel
	err := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, dataset_count FROM builds ORDER BY created_at DESC, rowid DESC LIMIT 1`,
	).Scan(&b.ID, &b.CreatedAt, &b.DatasetCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoBuild
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest build: %w", err)
	}
	return &b, nil
}

func (r *Reader) column(ctx context.Context, query, slug string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", slug, err)
	}
	defer func() { _ = rows.Close() }()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", slug, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
