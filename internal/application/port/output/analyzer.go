package output

import "context"

// Element is an opaque handle to one node matched by a query.
// Live handles may perform a round trip to the browser on every call.
type Element interface {
	Text(ctx context.Context) (string, error)
	Attr(ctx context.Context, name string) (value string, ok bool, err error)
	HTML(ctx context.Context) (string, error)
}

// Analyzer loads one document or live page and answers selector queries.
//
// Query never fails: an unloaded or released analyzer, an invalid selector
// and a backend error all produce an empty result. Close is idempotent.
type Analyzer interface {
	Load(ctx context.Context, source string) error
	Query(ctx context.Context, selector string) []Element
	Close() error
}

type AnalyzerConstructor func() Analyzer

type AnalyzerRegistry interface {
	Register(name string, ctor AnalyzerConstructor)
	Create(name string) (Analyzer, error)
	Names() []string
}
