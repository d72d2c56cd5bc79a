// Package browser holds settings shared by the live browser sessions.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	defaultSlowMotion = 0
	defaultTimeout    = 10 * time.Second
	defaultIdle       = 2 * time.Second
)

var ErrInvalidURL = errors.New("invalid page address")

type Config struct {
	Headless   bool
	SlowMotion time.Duration
	// Timeout bounds single element lookups and navigations.
	Timeout   time.Duration
	IdleWait  time.Duration
	NoSandbox bool
	DevTools  bool
	Trace     bool
	// WebDriverURL is the remote end used by the webdriver session.
	WebDriverURL string
}

func DefaultConfig() Config {
	return Config{
		Headless:     true,
		SlowMotion:   defaultSlowMotion,
		Timeout:      defaultTimeout,
		IdleWait:     defaultIdle,
		NoSandbox:    false,
		WebDriverURL: "http://localhost:4444/wd/hub",
	}
}

// Normalize fills zero durations with defaults.
func (c Config) Normalize() Config {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.IdleWait < 0 {
		c.IdleWait = 0
	}
	return c
}

var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"file":  true,
	"about": true,
	"data":  true,
}

// ValidateURL rejects addresses a session should never navigate to.
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if !allowedSchemes[scheme] {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	return nil
}
