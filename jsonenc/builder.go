package jsonenc

import (
	"reflect"

	"github.com/rs/zerolog"
)

// DefaultMaxDepth bounds the nesting of containers and strategy calls within one session.
const DefaultMaxDepth = 1000

// ObjectEncoder writes the keys of v into the object opened for it.
type ObjectEncoder[T any] func(v T, ctx *ObjectContext) error

// ValueEncoder replaces v with exactly one JSON value written through ctx.
type ValueEncoder[T any] func(v T, ctx *ValueContext) error

// Strategy is a registered encoder bound to the type it handles.
// Build one with Object or Value.
type Strategy struct {
	typ    reflect.Type
	object func(v reflect.Value, ctx *ObjectContext) error
	value  func(v reflect.Value, ctx *ValueContext) error
}

// Object returns a strategy encoding T as a JSON object.
// T may be an interface type, in which case it applies to every type implementing it.
func Object[T any](fn ObjectEncoder[T]) Strategy {
	return Strategy{
		typ: reflect.TypeFor[T](),
		object: func(v reflect.Value, ctx *ObjectContext) error {
			return fn(v.Interface().(T), ctx)
		},
	}
}

// Value returns a strategy encoding T as a single JSON value.
func Value[T any](fn ValueEncoder[T]) Strategy {
	return Strategy{
		typ: reflect.TypeFor[T](),
		value: func(v reflect.Value, ctx *ValueContext) error {
			return fn(v.Interface().(T), ctx)
		},
	}
}

// Configurator bundles registrations so they can be shared between builders.
type Configurator interface {
	Configure(b *Builder)
}

type ConfiguratorFunc func(b *Builder)

func (f ConfiguratorFunc) Configure(b *Builder) { f(b) }

// Builder collects strategies and options. Build freezes them into an Encoder;
// later changes to the builder do not affect encoders already built.
type Builder struct {
	strategies map[reflect.Type]Strategy
	fallback   *Strategy
	ignoreNull bool
	maxDepth   int
	log        zerolog.Logger
}

func NewBuilder() *Builder {
	return &Builder{
		strategies: make(map[reflect.Type]Strategy),
		maxDepth:   DefaultMaxDepth,
		log:        zerolog.Nop(),
	}
}

// Register adds strategies. A later strategy for the same type replaces the earlier one.
func (b *Builder) Register(strategies ...Strategy) *Builder {
	for _, s := range strategies {
		if s.typ == nil {
			panic("jsonenc: Strategy must be created with Object or Value")
		}
		b.strategies[s.typ] = s
	}
	return b
}

// Fallback sets the object encoder used for values no registered strategy matches.
func (b *Builder) Fallback(fn ObjectEncoder[any]) *Builder {
	s := Object(fn)
	b.fallback = &s
	return b
}

// IgnoreNullValues makes ObjectContext.Add skip keys whose value is nil.
func (b *Builder) IgnoreNullValues(ignore bool) *Builder {
	b.ignoreNull = ignore
	return b
}

func (b *Builder) MaxDepth(depth int) *Builder {
	b.maxDepth = depth
	return b
}

func (b *Builder) Logger(logger zerolog.Logger) *Builder {
	b.log = logger
	return b
}

func (b *Builder) Configure(cfgs ...Configurator) *Builder {
	for _, cfg := range cfgs {
		cfg.Configure(b)
	}
	return b
}

func (b *Builder) Build() *Encoder {
	maxDepth := b.maxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	enc := &Encoder{
		reg:        newRegistry(b.strategies),
		ignoreNull: b.ignoreNull,
		maxDepth:   maxDepth,
		log:        b.log,
	}
	if b.fallback != nil {
		fallback := *b.fallback
		enc.fallback = &fallback
	}
	b.log.Debug().
		Int("strategies", len(b.strategies)).
		Bool("fallback", enc.fallback != nil).
		Bool("ignore_null_values", enc.ignoreNull).
		Msg("JSON: Registry built")
	return enc
}
