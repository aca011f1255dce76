// Package index persists a snapshot of the registry to SQLite under the
// workspace metadata directory, so follow-up commands can answer without
// re-ingesting the workspace.
package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/gts-tools/gtscheck/internal/config"
	"github.com/gts-tools/gtscheck/internal/model"
	"github.com/gts-tools/gtscheck/internal/registry"
)

// Database is the SQLite snapshot handle.
type Database struct {
	db *sql.DB
}

// Open opens or creates the snapshot database under root.
func Open(root string) (*Database, error) {
	dbDir := filepath.Join(root, config.MetaDirName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", config.MetaDirName, err)
	}

	dbPath := filepath.Join(dbDir, "index.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &Database{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database.
func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		path        TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		invalid     INTEGER NOT NULL DEFAULT 0,
		parse_error TEXT
	);
	CREATE TABLE IF NOT EXISTS entities (
		id       TEXT PRIMARY KEY,
		kind     TEXT NOT NULL,
		file     TEXT NOT NULL,
		schema_id TEXT,
		list_seq INTEGER NOT NULL,
		content  TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS validation_errors (
		entity_id     TEXT NOT NULL,
		instance_path TEXT NOT NULL,
		schema_path   TEXT NOT NULL,
		keyword       TEXT,
		message       TEXT NOT NULL,
		params        TEXT
	);
	CREATE TABLE IF NOT EXISTS absent_entities (
		id TEXT PRIMARY KEY
	);
	CREATE INDEX IF NOT EXISTS idx_errors_entity ON validation_errors(entity_id);
	CREATE INDEX IF NOT EXISTS idx_entities_file ON entities(file);
	`
	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}
	return nil
}

// Save rewrites the snapshot from the registry in one transaction.
func (d *Database) Save(reg *registry.Registry) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"files", "entities", "validation_errors", "absent_entities"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, f := range reg.Files() {
		if _, err := tx.Exec(
			"INSERT INTO files (path, name, invalid) VALUES (?, ?, 0)",
			f.Path, f.Name,
		); err != nil {
			return fmt.Errorf("failed to insert file %s: %w", f.Path, err)
		}
	}
	for _, f := range reg.InvalidFiles() {
		parseError := ""
		if f.Validation != nil && len(f.Validation.Errors) > 0 {
			parseError = f.Validation.Errors[0].Message
		}
		if _, err := tx.Exec(
			"INSERT INTO files (path, name, invalid, parse_error) VALUES (?, ?, 1, ?)",
			f.Path, f.Name, parseError,
		); err != nil {
			return fmt.Errorf("failed to insert invalid file %s: %w", f.Path, err)
		}
	}

	entities := append(reg.Schemas(), reg.Objects()...)
	for _, e := range entities {
		if err := insertEntity(tx, e); err != nil {
			return err
		}
	}

	for _, a := range reg.AbsentEntities() {
		if _, err := tx.Exec("INSERT INTO absent_entities (id) VALUES (?)", a.ID); err != nil {
			return fmt.Errorf("failed to insert absent entity %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

func insertEntity(tx *sql.Tx, e *model.Entity) error {
	content, err := json.Marshal(e.Content)
	if err != nil {
		return fmt.Errorf("failed to marshal entity %s: %w", e.ID, err)
	}
	if _, err := tx.Exec(
		"INSERT INTO entities (id, kind, file, schema_id, list_seq, content) VALUES (?, ?, ?, ?, ?, ?)",
		e.ID, e.Kind.String(), e.File, e.SchemaID, e.ListSequence, string(content),
	); err != nil {
		return fmt.Errorf("failed to insert entity %s: %w", e.ID, err)
	}

	if e.Validation == nil {
		return nil
	}
	for _, ve := range e.Validation.Errors {
		params := ""
		if len(ve.Params) > 0 {
			if b, err := json.Marshal(ve.Params); err == nil {
				params = string(b)
			}
		}
		if _, err := tx.Exec(
			"INSERT INTO validation_errors (entity_id, instance_path, schema_path, keyword, message, params) VALUES (?, ?, ?, ?, ?, ?)",
			e.ID, ve.InstancePath, ve.SchemaPath, ve.Keyword, ve.Message, params,
		); err != nil {
			return fmt.Errorf("failed to insert error for %s: %w", e.ID, err)
		}
	}
	return nil
}

// Summary aggregates snapshot counts.
type Summary struct {
	Schemas      int
	Objects      int
	Files        int
	InvalidFiles int
	Absent       int
	Errors       int
}

// Summary returns snapshot counts.
func (d *Database) Summary() (Summary, error) {
	var s Summary
	queries := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM entities WHERE kind = 'schema'", &s.Schemas},
		{"SELECT COUNT(*) FROM entities WHERE kind = 'object'", &s.Objects},
		{"SELECT COUNT(*) FROM files WHERE invalid = 0", &s.Files},
		{"SELECT COUNT(*) FROM files WHERE invalid = 1", &s.InvalidFiles},
		{"SELECT COUNT(*) FROM absent_entities", &s.Absent},
		{"SELECT COUNT(*) FROM validation_errors", &s.Errors},
	}
	for _, q := range queries {
		if err := d.db.QueryRow(q.query).Scan(q.dest); err != nil {
			return Summary{}, fmt.Errorf("failed to query summary: %w", err)
		}
	}
	return s, nil
}

// EntityRow is one entity as listed from the snapshot.
type EntityRow struct {
	ID       string
	Kind     string
	File     string
	SchemaID string
	Errors   int
}

// Entities lists all entities in the snapshot, sorted by id.
func (d *Database) Entities() ([]EntityRow, error) {
	rows, err := d.db.Query(`
		SELECT e.id, e.kind, e.file, e.schema_id,
		       (SELECT COUNT(*) FROM validation_errors v WHERE v.entity_id = e.id)
		FROM entities e ORDER BY e.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	var out []EntityRow
	for rows.Next() {
		var r EntityRow
		var schemaID sql.NullString
		if err := rows.Scan(&r.ID, &r.Kind, &r.File, &schemaID, &r.Errors); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		r.SchemaID = schemaID.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// EntityErrors returns the persisted validation errors for an entity.
func (d *Database) EntityErrors(id string) ([]model.ValidationError, error) {
	rows, err := d.db.Query(`
		SELECT instance_path, schema_path, keyword, message, params
		FROM validation_errors WHERE entity_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query errors for %s: %w", id, err)
	}
	defer rows.Close()

	var out []model.ValidationError
	for rows.Next() {
		var ve model.ValidationError
		var keyword, params sql.NullString
		if err := rows.Scan(&ve.InstancePath, &ve.SchemaPath, &keyword, &ve.Message, &params); err != nil {
			return nil, fmt.Errorf("failed to scan error: %w", err)
		}
		ve.Keyword = keyword.String
		if params.String != "" {
			_ = json.Unmarshal([]byte(params.String), &ve.Params)
		}
		out = append(out, ve)
	}
	return out, rows.Err()
}
