package entity

import (
	"errors"
	"fmt"
)

var (
	ErrBackendNotFound       = errors.New("analyzer backend not found")
	ErrAnalyzerClosed        = errors.New("analyzer closed")
	ErrNotLoaded             = errors.New("analyzer has no loaded document")
	ErrScreenshotUnsupported = errors.New("backend cannot capture screenshots")
)

// BackendNotFoundError is returned when a registry has no constructor for Name.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return fmt.Sprintf("analyzer %q is not registered", e.Name)
}

func (e *BackendNotFoundError) Is(target error) bool {
	return target == ErrBackendNotFound
}

// LoadError wraps a parse, navigation or session-start failure.
type LoadError struct {
	Backend string
	Source  string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: load %q: %v", e.Backend, abbreviate(e.Source, 80), e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
