// Package webdriver talks to a remote WebDriver endpoint (chromedriver,
// Selenium Grid) with tebeka/selenium.
package webdriver

import (
	"context"
	"fmt"
	"sync"

	"domquery/internal/application/port/output"
	"domquery/internal/domain/entity"
	"domquery/internal/infrastructure/browser"
	"domquery/internal/infrastructure/browser/capture"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

var (
	_ output.BrowserSession    = (*Session)(nil)
	_ output.ScreenshotCapable = (*Session)(nil)
)

const (
	scriptAttr = `return arguments[0].getAttribute(arguments[1]);`
	scriptText = `return arguments[0].textContent;`
	scriptHTML = `return arguments[0].outerHTML;`
)

type Session struct {
	wd  selenium.WebDriver
	cfg browser.Config

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

// NewSession opens a Chrome session on cfg.WebDriverURL.
func NewSession(ctx context.Context, cfg browser.Config) (*Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg = cfg.Normalize()

	caps := selenium.Capabilities{"browserName": "chrome"}
	chromeCaps := chrome.Capabilities{
		Args: []string{"--disable-dev-shm-usage"},
	}
	if cfg.Headless {
		chromeCaps.Args = append(chromeCaps.Args, "--headless=new")
	}
	if cfg.NoSandbox {
		chromeCaps.Args = append(chromeCaps.Args, "--no-sandbox")
	}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, cfg.WebDriverURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}
	if err := wd.SetPageLoadTimeout(cfg.Timeout); err != nil {
		_ = wd.Quit()
		return nil, fmt.Errorf("failed to set page load timeout: %w", err)
	}

	return &Session{wd: wd, cfg: cfg}, nil
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := browser.ValidateURL(url); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.wd.Get(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (s *Session) FindElements(ctx context.Context, selector string) ([]output.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	found, err := s.wd.FindElements(selenium.ByCSSSelector, selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}

	result := make([]output.Element, 0, len(found))
	for _, el := range found {
		result = append(result, &Element{wd: s.wd, el: el})
	}
	return result, nil
}

func (s *Session) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := s.wd.Screenshot()
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return capture.Thumbnail(raw)
}

func (s *Session) Quit() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.wd.Quit()
	})
	return s.closeErr
}

var _ output.Element = (*Element)(nil)

// Element reads through scripts so hidden nodes report their text and
// missing attributes are told apart from empty ones.
type Element struct {
	wd selenium.WebDriver
	el selenium.WebElement
}

func (e *Element) script(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.wd.ExecuteScript(script, append([]interface{}{e.el}, args...))
}

func (e *Element) Text(ctx context.Context) (string, error) {
	v, err := e.script(ctx, scriptText)
	if err != nil {
		return "", err
	}
	str, _ := v.(string)
	return str, nil
}

func (e *Element) Attr(ctx context.Context, name string) (string, bool, error) {
	v, err := e.script(ctx, scriptAttr, name)
	if err != nil {
		return "", false, err
	}
	str, ok := v.(string)
	return str, ok, nil
}

func (e *Element) HTML(ctx context.Context) (string, error) {
	v, err := e.script(ctx, scriptHTML)
	if err != nil {
		return "", err
	}
	str, _ := v.(string)
	return str, nil
}
