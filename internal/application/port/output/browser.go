package output

import (
	"context"

	"domquery/internal/domain/entity"
)

// BrowserSession is the live-browser collaborator used by the live analyzer.
type BrowserSession interface {
	Navigate(ctx context.Context, url string) error
	FindElements(ctx context.Context, selector string) ([]Element, error)
	Quit() error
}

type SessionFactory func(ctx context.Context) (BrowserSession, error)

// ScreenshotCapable is implemented by sessions and analyzers that can
// capture the current viewport.
type ScreenshotCapable interface {
	Screenshot(ctx context.Context) (*entity.Screenshot, error)
}
