package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrTemplateNotFound is returned for lookups of missing template IDs.
var ErrTemplateNotFound = errors.New("template not found")

// Template is a saved designer payload: the full invoice JSON under a
// user-chosen name, so a layout can be reloaded into the canvas later.
type Template struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// TemplateStore persists templates in sqlite. database/sql serializes
// access, so the store is safe across concurrent requests.
type TemplateStore struct {
	db *sql.DB
}

const templateSchema = `
CREATE TABLE IF NOT EXISTS templates (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// OpenTemplateStore opens (creating if needed) the sqlite database at path.
func OpenTemplateStore(path string) (*TemplateStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening template store %s: %w", path, err)
	}
	if _, err := db.Exec(templateSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing template store: %w", err)
	}
	return &TemplateStore{db: db}, nil
}

func (s *TemplateStore) Close() error {
	return s.db.Close()
}

// Save inserts a new template and returns it with its assigned ID.
func (s *TemplateStore) Save(name string, payload json.RawMessage) (Template, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(
		"INSERT INTO templates (name, payload, created_at, updated_at) VALUES (?, ?, ?, ?)",
		name, string(payload), now, now)
	if err != nil {
		return Template{}, fmt.Errorf("saving template %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Template{}, fmt.Errorf("saving template %q: %w", name, err)
	}
	return Template{ID: id, Name: name, Payload: payload, CreatedAt: now, UpdatedAt: now}, nil
}

// List returns all templates, newest first, without their payloads.
func (s *TemplateStore) List() ([]Template, error) {
	rows, err := s.db.Query(
		"SELECT id, name, created_at, updated_at FROM templates ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	templates := []Template{}
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("listing templates: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// Get returns one template with its payload.
func (s *TemplateStore) Get(id int64) (Template, error) {
	var (
		t       Template
		payload string
	)
	err := s.db.QueryRow(
		"SELECT id, name, payload, created_at, updated_at FROM templates WHERE id = ?", id).
		Scan(&t.ID, &t.Name, &payload, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, ErrTemplateNotFound
	}
	if err != nil {
		return Template{}, fmt.Errorf("loading template %d: %w", id, err)
	}
	t.Payload = json.RawMessage(payload)
	return t, nil
}

// Delete removes a template by ID.
func (s *TemplateStore) Delete(id int64) error {
	res, err := s.db.Exec("DELETE FROM templates WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting template %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
