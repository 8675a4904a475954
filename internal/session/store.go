// Package session persists the comments-API session across CLI invocations:
// a single opaque token, plus the redirect URL round-tripped through the
// OAuth provider. Token presence only proves a past login; the auth package
// revalidates it against the server on every run.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirName  = ".sakura-comments"
	fileName = "session.json"
)

// State is the on-disk session file.
type State struct {
	Token       string `json:"token,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// Store reads and writes the session file. The zero value is unusable; use New.
type Store struct {
	path string
}

// New returns a Store backed by the default location under the user's home
// directory (~/.sakura-comments/session.json).
func New() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	return NewAt(filepath.Join(home, dirName, fileName)), nil
}

// NewAt returns a Store backed by an explicit file path.
func NewAt(path string) *Store {
	return &Store{path: path}
}

// Load reads the session file. A missing file is an empty session, not an error.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}
	return &st, nil
}

// Save writes the session file with restricted permissions.
func (s *Store) Save(st *State) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Token returns the stored token, or "" if none.
func (s *Store) Token() string {
	st, err := s.Load()
	if err != nil {
		return ""
	}
	return st.Token
}

// SetToken stores a new token, preserving the rest of the session.
func (s *Store) SetToken(token string) error {
	st, err := s.Load()
	if err != nil {
		st = &State{}
	}
	st.Token = token
	return s.Save(st)
}

// ClearToken removes the stored token, preserving the rest of the session.
func (s *Store) ClearToken() error {
	st, err := s.Load()
	if err != nil {
		st = &State{}
	}
	st.Token = ""
	return s.Save(st)
}

// SetRedirect records the URL the OAuth provider should send the user back to.
func (s *Store) SetRedirect(url string) error {
	st, err := s.Load()
	if err != nil {
		st = &State{}
	}
	st.RedirectURL = url
	return s.Save(st)
}

// TakeRedirect returns the stored redirect URL and clears it.
func (s *Store) TakeRedirect() (string, error) {
	st, err := s.Load()
	if err != nil {
		return "", err
	}
	url := st.RedirectURL
	if url == "" {
		return "", nil
	}
	st.RedirectURL = ""
	if err := s.Save(st); err != nil {
		return "", err
	}
	return url, nil
}
