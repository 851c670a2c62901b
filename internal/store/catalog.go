package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/apiquery/internal/definition"
	"github.com/roach88/apiquery/internal/jsonutil"
	"github.com/roach88/apiquery/internal/query"
)

// ErrNotFound is returned when no definition is saved under a name.
var ErrNotFound = errors.New("definition not found")

// Record is one saved definition.
type Record struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Revision   int                   `json:"revision"`
	Config     query.Config          `json:"config"`
	Definition definition.Definition `json:"definition"`
}

// Render renders the saved definition with its saved configuration.
func (r *Record) Render(opts ...query.Option) (string, error) {
	return r.Definition.Render(r.Config, opts...)
}

// body is the JSON stored in definitions.body.
type body struct {
	Config     query.Config          `json:"config"`
	Definition definition.Definition `json:"definition"`
}

// NormalizeName returns the catalog key for name.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// Save inserts or replaces the definition named def.Name together with the
// configuration it renders with. An existing row keeps its id and has its
// revision incremented.
func (s *Store) Save(ctx context.Context, cfg query.Config, def definition.Definition) (Record, error) {
	def.Name = NormalizeName(def.Name)
	if def.Name == "" {
		return Record{}, fmt.Errorf("save definition: name is required")
	}

	data, err := jsonutil.Marshal(body{Config: cfg, Definition: def})
	if err != nil {
		return Record{}, fmt.Errorf("marshal definition %q: %w", def.Name, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO definitions (id, name, model, body, revision)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT(name) DO UPDATE SET
			model = excluded.model,
			body = excluded.body,
			revision = definitions.revision + 1
	`, uuid.Must(uuid.NewV7()).String(), def.Name, def.Model, string(data))
	if err != nil {
		return Record{}, fmt.Errorf("save definition %q: %w", def.Name, err)
	}

	return s.Get(ctx, def.Name)
}

// Get returns the definition saved under name, or an error wrapping
// ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (Record, error) {
	name = NormalizeName(name)
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, revision, body
		FROM definitions
		WHERE name = ?
	`, name)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("definition %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List returns every saved definition ordered by name.
// Returns an empty slice (not nil) if the catalog is empty.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, revision, body
		FROM definitions
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query definitions: %w", err)
	}
	return collectRecords(rows)
}

// ListByModel returns the definitions targeting model, ordered by name.
func (s *Store) ListByModel(ctx context.Context, model string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, revision, body
		FROM definitions
		WHERE model = ?
		ORDER BY name COLLATE BINARY ASC
	`, model)
	if err != nil {
		return nil, fmt.Errorf("query definitions for model %q: %w", model, err)
	}
	return collectRecords(rows)
}

// Delete removes the definition saved under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	name = NormalizeName(name)
	res, err := s.db.ExecContext(ctx, `DELETE FROM definitions WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete definition %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete definition %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("definition %q: %w", name, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var data string
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Revision, &data); err != nil {
		return Record{}, err
	}

	var b body
	if err := jsonutil.Unmarshal([]byte(data), &b); err != nil {
		return Record{}, fmt.Errorf("unmarshal definition %q: %w", rec.Name, err)
	}
	rec.Config = b.Config
	rec.Definition = b.Definition
	return rec, nil
}

func collectRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate definitions: %w", err)
	}
	return records, nil
}
