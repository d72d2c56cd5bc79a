package rod

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"domquery/internal/application/port/output"
	"domquery/internal/domain/entity"
	"domquery/internal/infrastructure/browser"
	"domquery/internal/infrastructure/browser/capture"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var (
	_ output.BrowserSession    = (*Session)(nil)
	_ output.ScreenshotCapable = (*Session)(nil)
)

// Session is a Chrome instance launched and driven through go-rod.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	cfg      browser.Config

	closeOnce sync.Once
	closeErr  error
}

// Factory adapts NewSession to the live analyzer.
func Factory(cfg browser.Config) output.SessionFactory {
	return func(ctx context.Context) (output.BrowserSession, error) {
		s, err := NewSession(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// NewSession launches Chrome and opens a blank page. The browser outlives
// ctx; it is released by Quit.
func NewSession(ctx context.Context, cfg browser.Config) (*Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg = cfg.Normalize()

	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().
		ControlURL(url).
		Trace(cfg.Trace).
		SlowMotion(cfg.SlowMotion)
	if err := b.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = b.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &Session{
		browser:  b,
		launcher: l,
		page:     page,
		cfg:      cfg,
	}, nil
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := browser.ValidateURL(url); err != nil {
		return err
	}

	p := s.page.Context(ctx).Timeout(s.cfg.Timeout)
	defer p.CancelTimeout()

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	if s.cfg.IdleWait > 0 {
		// Pages that never go idle still count as loaded.
		_ = p.WaitIdle(s.cfg.IdleWait)
	}
	return nil
}

// FindElements returns the current matches without waiting for any to appear.
func (s *Session) FindElements(ctx context.Context, selector string) ([]output.Element, error) {
	els, err := s.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}

	result := make([]output.Element, 0, len(els))
	for _, el := range els {
		result = append(result, &Element{el: el})
	}
	return result, nil
}

func (s *Session) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := s.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return capture.Thumbnail(imgBytes)
}

func (s *Session) CurrentURL() (string, error) {
	info, err := s.page.Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// Quit closes the browser and kills the Chrome process. Safe to call twice.
func (s *Session) Quit() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.browser != nil {
			errs = append(errs, s.browser.Close())
		}
		if s.launcher != nil {
			s.launcher.Kill()
			s.launcher.Cleanup()
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

var _ output.Element = (*Element)(nil)

type Element struct {
	el *rod.Element
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *Element) Attr(ctx context.Context, name string) (string, bool, error) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *Element) HTML(ctx context.Context) (string, error) {
	return e.el.Context(ctx).HTML()
}
