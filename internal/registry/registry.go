package registry

import (
	"context"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Init builds T from its YAML config section.
type Init[T any] func(ctx context.Context, value yaml.Node) (T, error)

// Registry maps a type name to the constructor of T.
type Registry[T any] struct {
	kind  string
	inits map[string]Init[T]
}

// New returns an empty registry. kind names T in error messages.
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{kind: kind, inits: make(map[string]Init[T])}
}

func (r *Registry[T]) Register(name string, init Init[T], aliases ...string) {
	r.inits[name] = init
	for _, alias := range aliases {
		r.inits[alias] = init
	}
}

func (r *Registry[T]) Get(ctx context.Context, name string, value yaml.Node) (T, error) {
	init, ok := r.inits[name]
	if !ok {
		var zero T
		return zero, errors.Errorf("unknown %s type %q", r.kind, name)
	}
	return init(ctx, value)
}
