// Package otp drives the passwordless email login: request a code, wait out
// the resend cooldown, verify. The flow is UI-agnostic; commands wire its
// hooks to terminal output.
package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yijhen/sakura-comments/internal/api"
	"github.com/yijhen/sakura-comments/internal/botcheck"
)

// State is the flow's position in the login exchange.
type State string

const (
	// StateIdle: no code has been requested.
	StateIdle State = "idle"
	// StateCodeRequested: a code was emailed; waiting for the user to enter it.
	StateCodeRequested State = "code-requested"
	// StateVerifying: a verify request is in flight.
	StateVerifying State = "verifying"
)

// Validation failures. These are raised before any request is issued.
var (
	ErrEmailRequired  = errors.New("email is required")
	ErrCodeRequired   = errors.New("verification code is required")
	ErrCooldownActive = errors.New("resend cooldown still active")
	ErrBadState       = errors.New("operation not valid in current state")
)

// Client is the slice of the API the flow needs.
type Client interface {
	SendOTP(ctx context.Context, email, displayName, turnstileToken string) error
	VerifyOTP(ctx context.Context, email, code, displayName string) (*api.VerifyResult, error)
}

const (
	// DefaultCooldownSeconds is how long resend stays disabled after a send.
	DefaultCooldownSeconds = 60
	defaultTickInterval    = time.Second
)

// Flow is the OTP login state machine. It is challenge-gated: on untrusted
// hosts every send or resend consumes a fresh bot-check token. Not safe for
// concurrent use; it belongs to one interactive session.
type Flow struct {
	client Client
	gate   botcheck.Gate

	// CooldownSeconds and TickInterval default to 60 and one second; tests
	// shrink the interval.
	CooldownSeconds int
	TickInterval    time.Duration
	// OnCooldownTick and OnCooldownDone observe the resend countdown.
	OnCooldownTick func(remaining int)
	OnCooldownDone func()

	state       State
	email       string
	displayName string
	cooldown    *Countdown
}

// NewFlow creates an idle flow using the given API client and bot-check gate.
func NewFlow(client Client, gate botcheck.Gate) *Flow {
	return &Flow{
		client:          client,
		gate:            gate,
		CooldownSeconds: DefaultCooldownSeconds,
		TickInterval:    defaultTickInterval,
		state:           StateIdle,
	}
}

// State returns the current flow state.
func (f *Flow) State() State { return f.state }

// Email returns the address the code was requested for.
func (f *Flow) Email() string { return f.email }

// CooldownRemaining returns the seconds until resend is allowed again.
func (f *Flow) CooldownRemaining() int {
	if f.cooldown == nil {
		return 0
	}
	return f.cooldown.Remaining()
}

// ResendAvailable reports whether a resend would be accepted right now.
func (f *Flow) ResendAvailable() bool {
	return f.state == StateCodeRequested && f.CooldownRemaining() == 0
}

// Start requests a code for email. The transition is rejected before any
// request is sent when the email is empty or, outside the trusted local
// context, when no challenge token is available.
func (f *Flow) Start(ctx context.Context, email, displayName string) error {
	if f.state != StateIdle {
		return fmt.Errorf("%w: code already requested", ErrBadState)
	}
	if email == "" {
		return ErrEmailRequired
	}
	if err := f.send(ctx, email, displayName); err != nil {
		return err
	}
	f.email = email
	f.displayName = displayName
	f.state = StateCodeRequested
	return nil
}

// Resend requests a fresh code for the same address. It is refused while the
// cooldown runs and, outside the trusted local context, requires a fresh
// challenge token: the widget must have produced one since the last send.
func (f *Flow) Resend(ctx context.Context) error {
	if f.state != StateCodeRequested {
		return fmt.Errorf("%w: no code requested yet", ErrBadState)
	}
	if rem := f.CooldownRemaining(); rem > 0 {
		return fmt.Errorf("%w: %ds remaining", ErrCooldownActive, rem)
	}
	return f.send(ctx, f.email, f.displayName)
}

func (f *Flow) send(ctx context.Context, email, displayName string) error {
	var token string
	if f.gate.Required() {
		token = f.gate.Token()
		if token == "" {
			return botcheck.ErrNoToken
		}
	}

	err := f.client.SendOTP(ctx, email, displayName, token)
	// The token accompanied exactly one request; spent either way.
	f.gate.Consume()
	if err != nil {
		return err
	}

	f.startCooldown()
	return nil
}

// Verify exchanges the emailed code for a session. On success all OTP state
// is cleared and the cooldown cancelled; on failure the flow returns to
// CodeRequested so the user can retry or resend without losing the email.
func (f *Flow) Verify(ctx context.Context, code string) (*api.VerifyResult, error) {
	if f.state != StateCodeRequested {
		return nil, fmt.Errorf("%w: no code requested yet", ErrBadState)
	}
	if code == "" {
		return nil, ErrCodeRequired
	}

	f.state = StateVerifying
	res, err := f.client.VerifyOTP(ctx, f.email, code, f.displayName)
	if err != nil {
		f.state = StateCodeRequested
		return nil, err
	}

	f.Reset()
	return res, nil
}

// Reset cancels the cooldown timer and clears every OTP-specific field,
// returning the flow to idle. Must be called on teardown of an abandoned
// flow so the timer goroutine does not leak.
func (f *Flow) Reset() {
	if f.cooldown != nil {
		f.cooldown.Stop()
		f.cooldown = nil
	}
	f.email = ""
	f.displayName = ""
	f.state = StateIdle
}

func (f *Flow) startCooldown() {
	if f.cooldown != nil {
		f.cooldown.Stop()
	}
	f.cooldown = StartCountdown(f.CooldownSeconds, f.TickInterval, f.OnCooldownTick, f.OnCooldownDone)
}
