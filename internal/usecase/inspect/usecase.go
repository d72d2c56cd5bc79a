package inspect

import (
	"context"
	"fmt"

	"domquery/internal/application/port/input"
	"domquery/internal/application/port/output"
	"domquery/internal/domain/entity"
)

var _ input.Inspector = (*UseCase)(nil)

type UseCase struct {
	registry output.AnalyzerRegistry
	logger   output.LoggerPort
}

func New(registry output.AnalyzerRegistry, logger output.LoggerPort) *UseCase {
	return &UseCase{
		registry: registry,
		logger:   logger.Named("inspect"),
	}
}

// Execute loads req.Source into a fresh analyzer and collects the matches of
// every selector in order. The analyzer is closed before returning.
func (uc *UseCase) Execute(ctx context.Context, req input.InspectRequest) (*input.InspectResult, error) {
	a, err := uc.open(ctx, req.Backend, req.Source)
	if err != nil {
		return nil, err
	}
	defer uc.close(a, req.Backend)

	result := &input.InspectResult{Backend: req.Backend, Matches: []entity.Match{}}
	for _, selector := range req.Selectors {
		elements := a.Query(ctx, selector)
		if req.Limit > 0 && len(elements) > req.Limit {
			elements = elements[:req.Limit]
		}
		uc.logger.Debug("Query finished", "selector", selector, "matches", len(elements))

		for i, el := range elements {
			result.Matches = append(result.Matches, uc.describe(ctx, selector, i, el, req.Attributes))
		}
	}

	return result, nil
}

func (uc *UseCase) Screenshot(ctx context.Context, backend, source string) (*entity.Screenshot, error) {
	a, err := uc.open(ctx, backend, source)
	if err != nil {
		return nil, err
	}
	defer uc.close(a, backend)

	capable, ok := a.(output.ScreenshotCapable)
	if !ok {
		return nil, fmt.Errorf("%s: %w", backend, entity.ErrScreenshotUnsupported)
	}
	shot, err := capable.Screenshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", backend, err)
	}
	return shot, nil
}

func (uc *UseCase) open(ctx context.Context, backend, source string) (output.Analyzer, error) {
	a, err := uc.registry.Create(backend)
	if err != nil {
		return nil, err
	}
	if err := a.Load(ctx, source); err != nil {
		uc.close(a, backend)
		return nil, err
	}
	uc.logger.Info("Source loaded", "backend", backend)
	return a, nil
}

func (uc *UseCase) close(a output.Analyzer, backend string) {
	if err := a.Close(); err != nil {
		uc.logger.Warn("Failed to close analyzer", "backend", backend, "error", err)
	}
}

func (uc *UseCase) describe(ctx context.Context, selector string, index int, el output.Element, attrs []string) entity.Match {
	m := entity.Match{Selector: selector, Index: index}
	log := uc.logger.WithFields(map[string]any{"selector": selector, "index": index})

	var err error
	if m.Text, err = el.Text(ctx); err != nil {
		log.Warn("Failed to read text", "error", err)
	}
	if m.HTML, err = el.HTML(ctx); err != nil {
		log.Warn("Failed to read markup", "error", err)
	}

	for _, name := range attrs {
		v, ok, err := el.Attr(ctx, name)
		if err != nil {
			log.Warn("Failed to read attribute", "attribute", name, "error", err)
			continue
		}
		if !ok {
			continue
		}
		if m.Attributes == nil {
			m.Attributes = make(map[string]string, len(attrs))
		}
		m.Attributes[name] = v
	}
	return m
}
