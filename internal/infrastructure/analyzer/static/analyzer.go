// Package static implements the "soup" analyzer: in-process HTML parsing
// with CSS selector queries.
package static

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"domquery/internal/application/port/output"
	"domquery/internal/domain/entity"
	"domquery/internal/infrastructure/markup"

	"github.com/PuerkitoBio/goquery"
)

var _ output.Analyzer = (*Analyzer)(nil)

type Option func(*Analyzer)

// WithCleaner runs the markup cleaner over the source before parsing.
func WithCleaner(cfg *markup.CleanConfig) Option {
	return func(a *Analyzer) {
		if cfg == nil {
			cfg = &markup.DefaultCleanConfig
		}
		a.clean = cfg
	}
}

type Analyzer struct {
	mu     sync.Mutex
	doc    *goquery.Document
	clean  *markup.CleanConfig
	closed bool
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load parses markup, replacing any previously loaded document.
func (a *Analyzer) Load(ctx context.Context, source string) error {
	if a.clean != nil {
		cleaned, err := markup.Clean(source, a.clean)
		if err != nil {
			a.reset()
			return &entity.LoadError{Backend: entity.BackendSoup, Source: source, Err: err}
		}
		return a.load(ctx, source, strings.NewReader(cleaned))
	}
	return a.load(ctx, source, strings.NewReader(source))
}

// LoadReader parses markup read from r.
func (a *Analyzer) LoadReader(ctx context.Context, r io.Reader) error {
	if a.clean != nil {
		raw, err := io.ReadAll(r)
		if err != nil {
			a.reset()
			return &entity.LoadError{Backend: entity.BackendSoup, Source: "<reader>", Err: err}
		}
		return a.Load(ctx, string(raw))
	}
	return a.load(ctx, "<reader>", r)
}

func (a *Analyzer) load(ctx context.Context, label string, r io.Reader) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return &entity.LoadError{Backend: entity.BackendSoup, Source: label, Err: entity.ErrAnalyzerClosed}
	}
	a.doc = nil

	if err := ctx.Err(); err != nil {
		return &entity.LoadError{Backend: entity.BackendSoup, Source: label, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return &entity.LoadError{
			Backend: entity.BackendSoup,
			Source:  label,
			Err:     fmt.Errorf("parse markup: %w", err),
		}
	}
	a.doc = doc
	return nil
}

func (a *Analyzer) reset() {
	a.mu.Lock()
	a.doc = nil
	a.mu.Unlock()
}

// Query returns matches in document order. An invalid selector matches
// nothing.
func (a *Analyzer) Query(_ context.Context, selector string) []output.Element {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.doc == nil {
		return nil
	}

	sel := a.doc.Find(selector)
	result := make([]output.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		result = append(result, &Element{sel: s})
	})
	return result
}

func (a *Analyzer) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.doc = nil
	a.closed = true
	return nil
}
