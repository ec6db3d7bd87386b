// ABOUTME: SQLite-backed index of saved diagrams for the dashboard library.
// ABOUTME: Provides upsert, get, list, and delete keyed by ULID record ids.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// Diagram is one saved diagram record.
type Diagram struct {
	ID        string
	Title     string
	Source    string
	CreatedAt string
	UpdatedAt string
}

// DiagramIndex is a SQLite-backed library of saved diagram sources.
type DiagramIndex struct {
	db *sql.DB
}

// OpenDiagramIndex opens or creates the diagram database at the given path
// and ensures the schema exists.
func OpenDiagramIndex(path string) (*DiagramIndex, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS diagrams (
			diagram_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DiagramIndex{db: db}, nil
}

// Close closes the database connection.
func (idx *DiagramIndex) Close() error {
	return idx.db.Close()
}

// Save upserts a diagram. An empty ID assigns a fresh ULID; the stored record
// is returned with its id and timestamps filled in.
func (idx *DiagramIndex) Save(d Diagram) (Diagram, error) {
	now := time.Now().UTC().Format(timeLayout)
	if d.ID == "" {
		d.ID = ulid.Make().String()
		d.CreatedAt = now
	}
	if d.CreatedAt == "" {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	_, err := idx.db.Exec(
		`INSERT INTO diagrams (diagram_id, title, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(diagram_id) DO UPDATE SET
			title = excluded.title,
			source = excluded.source,
			updated_at = excluded.updated_at`,
		d.ID, d.Title, d.Source, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return Diagram{}, fmt.Errorf("upsert diagram: %w", err)
	}
	return d, nil
}

// Get returns one diagram by id. A missing id reports sql.ErrNoRows.
func (idx *DiagramIndex) Get(id string) (Diagram, error) {
	var d Diagram
	err := idx.db.QueryRow(
		"SELECT diagram_id, title, source, created_at, updated_at FROM diagrams WHERE diagram_id = ?",
		id,
	).Scan(&d.ID, &d.Title, &d.Source, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return Diagram{}, fmt.Errorf("get diagram %s: %w", id, err)
	}
	return d, nil
}

// List returns all diagrams ordered by updated_at descending.
func (idx *DiagramIndex) List() ([]Diagram, error) {
	rows, err := idx.db.Query(
		"SELECT diagram_id, title, source, created_at, updated_at FROM diagrams ORDER BY updated_at DESC, diagram_id DESC")
	if err != nil {
		return nil, fmt.Errorf("query diagrams: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var diagrams []Diagram
	for rows.Next() {
		var d Diagram
		if err := rows.Scan(&d.ID, &d.Title, &d.Source, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan diagram row: %w", err)
		}
		diagrams = append(diagrams, d)
	}
	return diagrams, rows.Err()
}

// Delete removes a diagram by id. Deleting a missing id is not an error.
func (idx *DiagramIndex) Delete(id string) error {
	_, err := idx.db.Exec("DELETE FROM diagrams WHERE diagram_id = ?", id)
	if err != nil {
		return fmt.Errorf("delete diagram: %w", err)
	}
	return nil
}
