package chromedp

import (
	"context"
	"fmt"
	"sync"

	"domquery/internal/application/port/output"
	"domquery/internal/domain/entity"
	"domquery/internal/infrastructure/browser"
	"domquery/internal/infrastructure/browser/capture"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

var (
	_ output.BrowserSession    = (*Session)(nil)
	_ output.ScreenshotCapable = (*Session)(nil)
)

// Session drives a Chrome tab over the DevTools protocol with chromedp.
type Session struct {
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	cfg         browser.Config

	closeOnce sync.Once
	closeErr  error
}

func Factory(cfg browser.Config) output.SessionFactory {
	return func(ctx context.Context) (output.BrowserSession, error) {
		s, err := NewSession(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// NewSession starts a browser whose lifetime is independent of ctx.
func NewSession(ctx context.Context, cfg browser.Config) (*Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg = cfg.Normalize()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("auto-open-devtools-for-tabs", cfg.DevTools),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// The first Run launches the browser.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &Session{
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		cfg:         cfg,
	}, nil
}

// run executes actions on the tab, bounded by the configured timeout and
// by the caller's ctx.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.tabCtx, s.cfg.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := browser.ValidateURL(url); err != nil {
		return err
	}
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (s *Session) FindElements(ctx context.Context, selector string) ([]output.Element, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}

	result := make([]output.Element, 0, len(nodes))
	for _, n := range nodes {
		result = append(result, &Element{session: s, id: n.NodeID})
	}
	return result, nil
}

func (s *Session) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	var buf []byte
	if err := s.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return capture.Thumbnail(buf)
}

func (s *Session) Quit() error {
	s.closeOnce.Do(func() {
		s.closeErr = chromedp.Cancel(s.tabCtx)
		s.tabCancel()
		s.allocCancel()
	})
	return s.closeErr
}

var _ output.Element = (*Element)(nil)

type Element struct {
	session *Session
	id      cdp.NodeID
}

func (e *Element) ids() []cdp.NodeID {
	return []cdp.NodeID{e.id}
}

func (e *Element) Text(ctx context.Context) (string, error) {
	var text string
	err := e.session.run(ctx, chromedp.TextContent(e.ids(), &text, chromedp.ByNodeID))
	return text, err
}

func (e *Element) Attr(ctx context.Context, name string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := e.session.run(ctx, chromedp.AttributeValue(e.ids(), name, &value, &ok, chromedp.ByNodeID))
	return value, ok, err
}

func (e *Element) HTML(ctx context.Context) (string, error) {
	var html string
	err := e.session.run(ctx, chromedp.OuterHTML(e.ids(), &html, chromedp.ByNodeID))
	return html, err
}
