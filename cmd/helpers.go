package cmd

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/yijhen/sakura-comments/internal/api"
	"github.com/yijhen/sakura-comments/internal/auth"
	"github.com/yijhen/sakura-comments/internal/comments"
	"github.com/yijhen/sakura-comments/internal/config"
	"github.com/yijhen/sakura-comments/internal/drafts"
	"github.com/yijhen/sakura-comments/internal/notify"
	"github.com/yijhen/sakura-comments/internal/session"
)

// app bundles the wiring every command needs: config, API client, session
// store, auth manager, notifier.
type app struct {
	cfg      *config.Config
	client   *api.Client
	store    *session.Store
	auth     *auth.Manager
	svc      *comments.Service
	notifier notify.Notifier
}

// buildApp loads and validates configuration and wires the shared pieces.
func buildApp() (*app, error) {
	if !verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sessionPath, err := cfg.SessionPath()
	if err != nil {
		return nil, err
	}
	store := session.NewAt(sessionPath)
	client := api.New(cfg.APIURL, cfg.Timeout())

	return &app{
		cfg:      cfg,
		client:   client,
		store:    store,
		auth:     auth.NewManager(store, client),
		svc:      comments.NewService(client),
		notifier: notify.NewTerminal(),
	}, nil
}

// requireAuth revalidates the stored session once and fails if the visitor
// is a guest. Submission commands are unreachable without it.
func (a *app) requireAuth(ctx context.Context) error {
	if a.auth.Resolve(ctx) != auth.StateAuthenticated {
		return fmt.Errorf("not logged in; run 'sakura-comments login' first")
	}
	return nil
}

// slugArg resolves the post slug from the first argument or the configured
// default.
func (a *app) slugArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if a.cfg.DefaultSlug != "" {
		return a.cfg.DefaultSlug, nil
	}
	return "", fmt.Errorf("post slug required (argument or default_slug in config)")
}

// openDrafts opens the local drafts database.
func (a *app) openDrafts() (*drafts.Store, error) {
	path, err := a.cfg.DraftsPath()
	if err != nil {
		return nil, err
	}
	return drafts.Open(path)
}
