package service

import (
	"sort"
	"sync"

	"domquery/internal/application/port/output"
	"domquery/internal/domain/entity"
)

var _ output.AnalyzerRegistry = (*AnalyzerRegistryImpl)(nil)

// AnalyzerRegistryImpl maps backend names to analyzer constructors.
// Register overwrites silently, including built-in names.
type AnalyzerRegistryImpl struct {
	mu    sync.RWMutex
	ctors map[string]output.AnalyzerConstructor
}

func NewAnalyzerRegistry() *AnalyzerRegistryImpl {
	return &AnalyzerRegistryImpl{
		ctors: make(map[string]output.AnalyzerConstructor),
	}
}

// NewDefaultAnalyzerRegistry returns a registry seeded with the static and
// live built-ins.
func NewDefaultAnalyzerRegistry(static, live output.AnalyzerConstructor) *AnalyzerRegistryImpl {
	r := NewAnalyzerRegistry()
	r.Register(entity.BackendSoup, static)
	r.Register(entity.BackendSelenium, live)
	return r
}

func (r *AnalyzerRegistryImpl) Register(name string, ctor output.AnalyzerConstructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[name] = ctor
}

func (r *AnalyzerRegistryImpl) Create(name string) (output.Analyzer, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[name]
	r.mu.RUnlock()
	if !ok || ctor == nil {
		return nil, &entity.BackendNotFoundError{Name: name}
	}
	return ctor(), nil
}

func (r *AnalyzerRegistryImpl) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}
