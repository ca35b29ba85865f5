// Package tokenizer provides the word segmentation backends the segmenter
// uses to find cut points at word boundaries.
package tokenizer

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"dictation/internal/domain"
)

const (
	TypeGSE    = "gse"
	TypeUniseg = "uniseg"
	TypeNone   = "none"
)

// Options configures tokenizer construction.
type Options struct {
	// DictPath replaces the embedded gse dictionary with a file in gse's
	// "word frequency [pos]" line format.
	DictPath string
	Logger   *slog.Logger
}

// Factory builds a tokenizer from options.
type Factory func(opts Options) (domain.Tokenizer, error)

// Registry maps backend names to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a registry holding the built-in backends.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(TypeGSE, func(opts Options) (domain.Tokenizer, error) { return NewGSE(opts), nil })
	r.Register(TypeUniseg, func(Options) (domain.Tokenizer, error) { return NewUniseg(), nil })
	r.Register(TypeNone, func(Options) (domain.Tokenizer, error) { return None{}, nil })
	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = f
}

// Names returns the registered backend names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named tokenizer. An empty name selects gse.
func (r *Registry) New(name string, opts Options) (domain.Tokenizer, error) {
	if name == "" {
		name = TypeGSE
	}
	r.mu.RLock()
	f, ok := r.factories[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown tokenizer %q (want %s)", name, strings.Join(r.Names(), "|"))
	}
	return f(opts)
}

var defaultRegistry = NewRegistry()

// New builds the named tokenizer from the default registry.
func New(name string, opts Options) (domain.Tokenizer, error) {
	return defaultRegistry.New(name, opts)
}

// Names lists the backends of the default registry.
func Names() []string {
	return defaultRegistry.Names()
}

// None never produces word boundaries, forcing character-offset cuts.
type None struct{}

func (None) Name() string { return TypeNone }

func (None) Tokenize(string) ([]string, error) {
	return nil, domain.ErrTokenizerUnavailable
}
