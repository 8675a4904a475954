package config

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to sakura-comments! Let's point it at your blog.")
	fmt.Println()

	cfg := DefaultConfig()

	apiPrompt := promptui.Prompt{
		Label: "Comments API base URL",
		Validate: func(s string) error {
			u, err := url.Parse(s)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("enter a full http(s) URL")
			}
			return nil
		},
	}
	apiURL, err := apiPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("api url: %w", err)
	}
	cfg.APIURL = apiURL

	keyPrompt := promptui.Prompt{
		Label:   "Turnstile site key (empty to skip human verification)",
		Default: "",
	}
	siteKey, err := keyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site key: %w", err)
	}
	cfg.TurnstileSiteKey = siteKey

	slugPrompt := promptui.Prompt{
		Label:   "Default post slug (optional)",
		Default: "",
	}
	slug, err := slugPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("default slug: %w", err)
	}
	cfg.DefaultSlug = slug

	timeoutPrompt := promptui.Prompt{
		Label:   "Request timeout in seconds",
		Default: strconv.Itoa(cfg.TimeoutSeconds),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return fmt.Errorf("enter a positive number")
			}
			return nil
		},
	}
	timeout, err := timeoutPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("timeout: %w", err)
	}
	cfg.TimeoutSeconds, _ = strconv.Atoi(timeout)

	if err := cfg.Save(path); err != nil {
		return nil, err
	}
	fmt.Printf("\nConfiguration written to %s\n", path)
	return cfg, nil
}
