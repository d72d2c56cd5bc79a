package playwright

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"domquery/internal/application/port/output"
	"domquery/internal/domain/entity"
	"domquery/internal/infrastructure/browser"
	"domquery/internal/infrastructure/browser/capture"

	"github.com/playwright-community/playwright-go"
)

var (
	_ output.BrowserSession    = (*Session)(nil)
	_ output.ScreenshotCapable = (*Session)(nil)
)

// Session drives Chromium through the Playwright driver. Playwright calls
// are not cancellable, so ctx is only checked between calls.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	cfg     browser.Config

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

func NewSession(ctx context.Context, cfg browser.Config) (*Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg = cfg.Normalize()

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	}
	if cfg.SlowMotion > 0 {
		launchOpts.SlowMo = playwright.Float(float64(cfg.SlowMotion.Milliseconds()))
	}
	if cfg.NoSandbox {
		launchOpts.ChromiumSandbox = playwright.Bool(false)
	}

	b, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	page, err := b.NewPage()
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	page.SetDefaultTimeout(float64(cfg.Timeout.Milliseconds()))

	return &Session{pw: pw, browser: b, page: page, cfg: cfg}, nil
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := browser.ValidateURL(url); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(s.cfg.Timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (s *Session) FindElements(ctx context.Context, selector string) ([]output.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The css= prefix keeps Playwright's own selector engines out of play.
	locators, err := s.page.Locator("css=" + selector).All()
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}

	result := make([]output.Element, 0, len(locators))
	for _, l := range locators {
		result = append(result, &Element{loc: l})
	}
	return result, nil
}

func (s *Session) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Type:    playwright.ScreenshotTypeJpeg,
		Quality: playwright.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return capture.Thumbnail(raw)
}

func (s *Session) Quit() error {
	s.closeOnce.Do(func() {
		s.closeErr = errors.Join(s.browser.Close(), s.pw.Stop())
	})
	return s.closeErr
}

var _ output.Element = (*Element)(nil)

type Element struct {
	loc playwright.Locator
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.loc.TextContent()
}

func (e *Element) Attr(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	v, err := e.loc.Evaluate(`(el, name) => el.getAttribute(name)`, name)
	if err != nil {
		return "", false, err
	}
	str, ok := v.(string)
	return str, ok, nil
}

func (e *Element) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, err := e.loc.Evaluate(`el => el.outerHTML`, nil)
	if err != nil {
		return "", err
	}
	str, _ := v.(string)
	return str, nil
}
