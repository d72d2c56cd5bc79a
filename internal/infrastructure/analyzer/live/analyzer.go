// Package live implements the analyzer that drives a real browser session.
package live

import (
	"context"
	"fmt"
	"sync"

	"domquery/internal/application/port/output"
	"domquery/internal/domain/entity"
	"domquery/internal/infrastructure/logger"
)

var (
	_ output.Analyzer          = (*Analyzer)(nil)
	_ output.ScreenshotCapable = (*Analyzer)(nil)
)

type Option func(*Analyzer)

// WithSession hands an already running session to the analyzer. The
// analyzer takes ownership and quits it on Close.
func WithSession(s output.BrowserSession) Option {
	return func(a *Analyzer) { a.session = s }
}

func WithLogger(l output.LoggerPort) Option {
	return func(a *Analyzer) { a.log = l }
}

// WithBackendName sets the name reported in load errors and logs.
func WithBackendName(name string) Option {
	return func(a *Analyzer) { a.backend = name }
}

// Analyzer loads page addresses into a lazily started browser session.
// Calls on one instance are serialized; the session is not reentrant.
type Analyzer struct {
	mu         sync.Mutex
	newSession output.SessionFactory
	session    output.BrowserSession
	backend    string
	log        output.LoggerPort
	loaded     bool
	closed     bool
}

func New(factory output.SessionFactory, opts ...Option) *Analyzer {
	a := &Analyzer{
		newSession: factory,
		backend:    entity.BackendSelenium,
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load navigates to source, starting a session on first use.
func (a *Analyzer) Load(ctx context.Context, source string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return a.loadErr(source, entity.ErrAnalyzerClosed)
	}
	a.loaded = false

	if a.session == nil {
		if a.newSession == nil {
			return a.loadErr(source, fmt.Errorf("no session factory configured"))
		}
		s, err := a.newSession(ctx)
		if err != nil {
			return a.loadErr(source, fmt.Errorf("start session: %w", err))
		}
		a.session = s
		a.log.Debug("Session started", "backend", a.backend)
	}

	if err := a.session.Navigate(ctx, source); err != nil {
		return a.loadErr(source, err)
	}

	a.loaded = true
	a.log.Info("Page loaded", "backend", a.backend, "source", source)
	return nil
}

func (a *Analyzer) loadErr(source string, err error) error {
	a.log.Warn("Load failed", "backend", a.backend, "source", source, "error", err)
	return &entity.LoadError{Backend: a.backend, Source: source, Err: err}
}

// Query returns the session's matches, or nothing when the analyzer is not
// loaded or the lookup fails.
func (a *Analyzer) Query(ctx context.Context, selector string) []output.Element {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.loaded || a.session == nil {
		return nil
	}

	elements, err := a.session.FindElements(ctx, selector)
	if err != nil {
		a.log.Debug("Query failed", "backend", a.backend, "selector", selector, "error", err)
		return nil
	}
	return elements
}

// Screenshot captures the loaded page when the session supports it.
func (a *Analyzer) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.loaded || a.session == nil {
		return nil, entity.ErrNotLoaded
	}
	capable, ok := a.session.(output.ScreenshotCapable)
	if !ok {
		return nil, entity.ErrScreenshotUnsupported
	}
	return capable.Screenshot(ctx)
}

// Close quits the session once; later calls are no-ops.
func (a *Analyzer) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true
	a.loaded = false

	if a.session == nil {
		return nil
	}
	s := a.session
	a.session = nil
	if err := s.Quit(); err != nil {
		return fmt.Errorf("%s: quit session: %w", a.backend, err)
	}
	a.log.Debug("Session closed", "backend", a.backend)
	return nil
}
