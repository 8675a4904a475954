package botcheck

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
)

//go:embed widget.html
var widgetHTML string

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// widgetMessage is what the widget page sends over the websocket.
type widgetMessage struct {
	Type  string `json:"type"` // "token", "expired", "error"
	Token string `json:"token,omitempty"`
	Error string `json:"error,omitempty"`
}

// resetMessage is pushed to the page to make it re-render the challenge.
type resetMessage struct {
	Type string `json:"type"` // "reset"
}

// TurnstileGate hosts the Cloudflare Turnstile widget on a loopback HTTP
// server and relays its callbacks to the CLI over a websocket. The browser
// is opened lazily on the first Start.
type TurnstileGate struct {
	siteKey string

	mu      sync.Mutex
	token   string
	conn    *websocket.Conn
	started bool

	events   chan Event
	server   *http.Server
	listener net.Listener
}

// NewTurnstileGate creates a gate for the given Turnstile site key. The
// widget server is not started until Start or WaitToken is called.
func NewTurnstileGate(siteKey string) *TurnstileGate {
	return &TurnstileGate{
		siteKey: siteKey,
		events:  make(chan Event, 8),
	}
}

func (g *TurnstileGate) Required() bool { return true }

// Token returns the current unconsumed challenge token, or "".
func (g *TurnstileGate) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

// Consume discards the current token; tokens are single-use.
func (g *TurnstileGate) Consume() {
	g.mu.Lock()
	g.token = ""
	g.mu.Unlock()
}

// Events exposes the widget event stream.
func (g *TurnstileGate) Events() <-chan Event { return g.events }

// Start launches the loopback widget server and opens the browser. Calling
// it again is a no-op.
func (g *TurnstileGate) Start() error {
	g.mu.Lock()
	if g.started {
		g.mu.Unlock()
		return nil
	}
	g.started = true
	g.mu.Unlock()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("starting verification server: %w", err)
	}
	g.listener = listener

	g.server = &http.Server{Handler: g.router()}
	go func() {
		if err := g.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("botcheck: widget server: %v", err)
		}
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d/", listener.Addr().(*net.TCPAddr).Port)
	fmt.Printf("Opening browser for human verification...\nIf it does not open, visit %s\n", url)
	openBrowser(url)
	return nil
}

func (g *TurnstileGate) router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET"},
	}))
	r.Get("/", g.servePage)
	r.Get("/ws", g.handleWebSocket)
	return r
}

func (g *TurnstileGate) servePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := strings.ReplaceAll(widgetHTML, "{{SITE_KEY}}", g.siteKey)
	w.Write([]byte(page))
}

func (g *TurnstileGate) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("botcheck: websocket upgrade: %v", err)
		return
	}

	g.mu.Lock()
	g.conn = conn
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		if g.conn == conn {
			g.conn = nil
		}
		g.mu.Unlock()
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("botcheck: websocket read: %v", err)
			}
			return
		}

		var m widgetMessage
		if err := json.Unmarshal(msg, &m); err != nil {
			continue
		}

		switch m.Type {
		case "token":
			g.mu.Lock()
			g.token = m.Token
			g.mu.Unlock()
			g.emit(Event{Kind: TokenAcquired, Token: m.Token})
		case "expired":
			g.mu.Lock()
			g.token = ""
			g.mu.Unlock()
			g.emit(Event{Kind: TokenExpired})
		case "error":
			g.mu.Lock()
			g.token = ""
			g.mu.Unlock()
			g.emit(Event{Kind: GateError, Err: errors.New(m.Error)})
		}
	}
}

func (g *TurnstileGate) emit(ev Event) {
	select {
	case g.events <- ev:
	default: // stale consumers must not wedge the widget loop
	}
}

// Reset invalidates the current token and tells the open widget page to
// render a fresh challenge. If no page is connected yet, Start has to have
// been called so one can appear.
func (g *TurnstileGate) Reset() error {
	if err := g.Start(); err != nil {
		return err
	}

	g.mu.Lock()
	g.token = ""
	conn := g.conn
	g.mu.Unlock()

	if conn == nil {
		return nil
	}
	data, _ := json.Marshal(resetMessage{Type: "reset"})
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("resetting challenge widget: %w", err)
	}
	return nil
}

// WaitToken starts the widget if needed and blocks until a token arrives,
// the widget errors, or ctx is done.
func (g *TurnstileGate) WaitToken(ctx context.Context) (string, error) {
	if tok := g.Token(); tok != "" {
		return tok, nil
	}
	if err := g.Start(); err != nil {
		return "", err
	}

	for {
		select {
		case ev := <-g.events:
			switch ev.Kind {
			case TokenAcquired:
				return ev.Token, nil
			case GateError:
				return "", fmt.Errorf("verification failed: %w", ev.Err)
			}
			// TokenExpired: keep waiting.
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// Close shuts the widget server down.
func (g *TurnstileGate) Close() error {
	if g.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return g.server.Shutdown(ctx)
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
