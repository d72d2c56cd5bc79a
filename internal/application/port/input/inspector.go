package input

import (
	"context"

	"domquery/internal/domain/entity"
)

type InspectRequest struct {
	Backend    string
	Source     string
	Selectors  []string
	Attributes []string
	// Limit caps matches per selector; zero means no cap.
	Limit int
}

type InspectResult struct {
	Backend string
	Matches []entity.Match
}

type Inspector interface {
	Execute(ctx context.Context, req InspectRequest) (*InspectResult, error)
	Screenshot(ctx context.Context, backend, source string) (*entity.Screenshot, error)
}
