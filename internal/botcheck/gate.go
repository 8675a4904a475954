// Package botcheck gates mutating API calls behind a human-verification
// challenge. The gate is modeled as an event source: it emits token-acquired,
// token-expired and error events, and an absent or expired token is a normal
// state, not an exception. The gate never blocks anything but the specific
// calls that declare it required.
package botcheck

import (
	"context"
	"errors"
)

// EventKind identifies a gate event.
type EventKind string

const (
	// TokenAcquired carries a fresh single-use challenge token.
	TokenAcquired EventKind = "token-acquired"
	// TokenExpired means the previously issued token is no longer valid.
	TokenExpired EventKind = "token-expired"
	// GateError means the challenge widget reported a failure.
	GateError EventKind = "error"
)

// Event is a state change emitted by the challenge widget.
type Event struct {
	Kind  EventKind
	Token string // set for TokenAcquired
	Err   error  // set for GateError
}

// ErrNoToken is returned when a token is needed but the widget has not
// produced one yet. Callers should prompt the user rather than retry silently.
var ErrNoToken = errors.New("human verification not completed")

// Gate issues single-use challenge tokens for mutating requests.
type Gate interface {
	// Required reports whether calls through this gate need a token at all.
	Required() bool
	// Token returns the current unconsumed token, or "" if none.
	Token() string
	// Consume marks the current token used; each token accompanies exactly
	// one request.
	Consume()
	// Reset invalidates any current token and asks the widget for a fresh one.
	Reset() error
	// WaitToken blocks until a token is acquired, the widget errors, or ctx
	// is done.
	WaitToken(ctx context.Context) (string, error)
	// Events exposes the widget's event stream.
	Events() <-chan Event
	// Close tears the gate down.
	Close() error
}

// trustedHosts are the loopback names where verification is skipped for
// developer convenience. Exact match only.
var trustedHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
	"::1":       true,
}

// IsTrustedHost reports whether host is a recognized local-development host.
func IsTrustedHost(host string) bool { return trustedHosts[host] }

// ForHost returns the gate appropriate for the given API host: a NopGate on
// recognized local-development hosts or when no site key is configured,
// otherwise a Turnstile gate.
func ForHost(host, siteKey string) Gate {
	if IsTrustedHost(host) || siteKey == "" {
		return NopGate{}
	}
	return NewTurnstileGate(siteKey)
}

// NopGate is the trusted-local-context gate: nothing is required and no
// widget is ever rendered.
type NopGate struct{}

func (NopGate) Required() bool { return false }
func (NopGate) Token() string  { return "" }
func (NopGate) Consume()       {}
func (NopGate) Reset() error   { return nil }
func (NopGate) WaitToken(ctx context.Context) (string, error) {
	return "", nil
}
func (NopGate) Events() <-chan Event { return nil }
func (NopGate) Close() error         { return nil }
