// Package auth tracks whether the visitor is a guest or an authenticated
// user, and owns the session token's lifecycle around that distinction.
package auth

import (
	"context"
	"log"

	"github.com/yijhen/sakura-comments/internal/api"
	"github.com/yijhen/sakura-comments/internal/session"
)

// State is the visitor's authentication state.
type State string

const (
	StateGuest         State = "guest"
	StateAuthenticated State = "authenticated"
)

// SessionClient is the slice of the API the manager needs.
type SessionClient interface {
	Me(ctx context.Context) (*api.User, error)
	SetToken(token string)
}

// Manager is the auth state machine. A stored token never implies current
// validity: Resolve revalidates it against the server exactly once per run,
// and any failure (rejection or network) clears it and yields Guest.
type Manager struct {
	store  *session.Store
	client SessionClient

	state State
	user  *api.User
}

// NewManager creates a Manager in the Guest state.
func NewManager(store *session.Store, client SessionClient) *Manager {
	return &Manager{store: store, client: client, state: StateGuest}
}

// State returns the current state.
func (m *Manager) State() State { return m.state }

// User returns the authenticated user snapshot, or nil for guests. The
// snapshot is immutable for the run; re-auth replaces it wholesale.
func (m *Manager) User() *api.User { return m.user }

// Resolve determines the state at startup. A failed session check is the
// expected steady state for first-time visitors, so it is not surfaced as an
// error; the stale token is cleared and the guest view applies.
func (m *Manager) Resolve(ctx context.Context) State {
	token := m.store.Token()
	if token == "" {
		m.toGuest()
		return m.state
	}

	m.client.SetToken(token)
	user, err := m.client.Me(ctx)
	if err != nil {
		log.Printf("auth: session check failed, continuing as guest: %v", err)
		if err := m.store.ClearToken(); err != nil {
			log.Printf("auth: clearing stale token: %v", err)
		}
		m.toGuest()
		return m.state
	}

	m.state = StateAuthenticated
	m.user = user
	return m.state
}

// Adopt installs a token and user snapshot from a completed login (OTP
// verify returns both) without a further server round-trip.
func (m *Manager) Adopt(token string, user *api.User) error {
	if err := m.store.SetToken(token); err != nil {
		return err
	}
	m.client.SetToken(token)
	m.state = StateAuthenticated
	m.user = user
	return nil
}

// AdoptToken installs a bare token (the OAuth callback carries no user) and
// resolves the user snapshot from the server.
func (m *Manager) AdoptToken(ctx context.Context, token string) (State, error) {
	if err := m.store.SetToken(token); err != nil {
		return m.state, err
	}
	return m.Resolve(ctx), nil
}

// Logout clears the stored token and user. No server call is made.
func (m *Manager) Logout() error {
	if err := m.store.ClearToken(); err != nil {
		return err
	}
	m.toGuest()
	return nil
}

func (m *Manager) toGuest() {
	m.state = StateGuest
	m.user = nil
	m.client.SetToken("")
}
