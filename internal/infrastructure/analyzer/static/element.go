package static

import (
	"context"

	"domquery/internal/application/port/output"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var _ output.Element = (*Element)(nil)

// Element wraps a single-node selection. Accessors never fail.
type Element struct {
	sel *goquery.Selection
}

// Node exposes the parsed node; handles from repeated queries over the same
// document share nodes.
func (e *Element) Node() *html.Node {
	return e.sel.Get(0)
}

func (e *Element) Text(context.Context) (string, error) {
	return e.sel.Text(), nil
}

func (e *Element) Attr(_ context.Context, name string) (string, bool, error) {
	v, ok := e.sel.Attr(name)
	return v, ok, nil
}

func (e *Element) HTML(context.Context) (string, error) {
	return goquery.OuterHtml(e.sel)
}
