// Package drafts keeps comment text that failed to submit. In the browser
// widget a failed form keeps its text on screen; a CLI process exits, so the
// text is persisted locally instead and can be re-sent later.
package drafts

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Draft is a saved, not-yet-accepted submission.
type Draft struct {
	ID            string
	PostSlug      string
	Content       string
	ReplyToUserID int64 // zero for top-level comments
	CreatedAt     time.Time
}

// Store is a SQLite-backed draft store.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS drafts (
    id TEXT PRIMARY KEY,
    post_slug TEXT NOT NULL,
    content TEXT NOT NULL,
    reply_to_user_id INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);
`

// Open creates or opens the draft database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating drafts directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening drafts database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging drafts database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory draft store (useful for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Save stores a new draft and returns it with its assigned id.
func (s *Store) Save(postSlug, content string, replyToUserID int64) (*Draft, error) {
	d := &Draft{
		ID:            uuid.NewString(),
		PostSlug:      postSlug,
		Content:       content,
		ReplyToUserID: replyToUserID,
		CreatedAt:     time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO drafts (id, post_slug, content, reply_to_user_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.PostSlug, d.Content, d.ReplyToUserID, d.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("saving draft: %w", err)
	}
	return d, nil
}

// List returns all drafts, oldest first.
func (s *Store) List() ([]Draft, error) {
	rows, err := s.db.Query(`SELECT id, post_slug, content, reply_to_user_id, created_at FROM drafts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer rows.Close()

	var out []Draft
	for rows.Next() {
		var d Draft
		if err := rows.Scan(&d.ID, &d.PostSlug, &d.Content, &d.ReplyToUserID, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning draft: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Get returns a draft by id, or sql.ErrNoRows if it does not exist.
func (s *Store) Get(id string) (*Draft, error) {
	var d Draft
	err := s.db.QueryRow(
		`SELECT id, post_slug, content, reply_to_user_id, created_at FROM drafts WHERE id = ?`, id,
	).Scan(&d.ID, &d.PostSlug, &d.Content, &d.ReplyToUserID, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Delete removes a draft by id.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting draft: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("draft %s not found", id)
	}
	return nil
}
