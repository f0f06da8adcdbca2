package jsonenc

import (
	"cmp"
	"reflect"
	"slices"

	"github.com/puzpuzpuz/xsync/v4"
)

// deref marks a pointer dereference in a match path.
const deref = -1

// match is a resolved strategy plus the path from the runtime value to the value
// the strategy receives: field indexes of embedded structs and pointer dereferences.
type match struct {
	strategy *Strategy
	path     []int
}

func (m match) found() bool { return m.strategy != nil }

// walk follows the path. It reports false if a pointer on the way is nil.
func (m match) walk(v reflect.Value) (reflect.Value, bool) {
	for _, i := range m.path {
		if i == deref {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
			continue
		}
		v = v.Field(i)
	}
	return v, true
}

type registry struct {
	exact      map[reflect.Type]*Strategy
	interfaces []*Strategy
	cache      *xsync.Map[reflect.Type, match]
}

func newRegistry(strategies map[reflect.Type]Strategy) *registry {
	r := &registry{
		exact: make(map[reflect.Type]*Strategy, len(strategies)),
		cache: xsync.NewMap[reflect.Type, match](xsync.WithGrowOnly()),
	}
	for t, s := range strategies {
		if t.Kind() == reflect.Interface {
			r.interfaces = append(r.interfaces, &s)
			continue
		}
		r.exact[t] = &s
	}
	// An interface embedding another one always has more methods,
	// so the most derived interface is tried first.
	slices.SortFunc(r.interfaces, func(a, b *Strategy) int {
		if c := cmp.Compare(b.typ.NumMethod(), a.typ.NumMethod()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.typ.String(), b.typ.String()); c != 0 {
			return c
		}
		return cmp.Compare(a.typ.PkgPath(), b.typ.PkgPath())
	})
	return r
}

func (r *registry) lookupExact(t reflect.Type) (*Strategy, bool) {
	s, ok := r.exact[t]
	return s, ok
}

// resolve finds the strategy for t: the exact type, then the pointed-to type,
// then embedded structs breadth-first, then implemented interfaces.
func (r *registry) resolve(t reflect.Type) match {
	m, _ := r.cache.LoadOrCompute(t, func() (match, bool) {
		return r.lookup(t), false
	})
	return m
}

func (r *registry) lookup(t reflect.Type) match {
	type node struct {
		t    reflect.Type
		path []int
	}
	queue := []node{{t: t}}
	seen := make(map[reflect.Type]struct{})
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if _, ok := seen[n.t]; ok {
			continue
		}
		seen[n.t] = struct{}{}

		if s, ok := r.exact[n.t]; ok {
			return match{strategy: s, path: n.path}
		}
		switch n.t.Kind() {
		case reflect.Pointer:
			// The pointed-to type belongs to the same level as the pointer.
			queue = slices.Insert(queue, 0, node{t: n.t.Elem(), path: appendPath(n.path, deref)})
		case reflect.Struct:
			for i := range n.t.NumField() {
				if f := n.t.Field(i); f.Anonymous && f.IsExported() && f.Type.Kind() != reflect.Interface {
					queue = append(queue, node{t: f.Type, path: appendPath(n.path, i)})
				}
			}
		}
	}

	for _, s := range r.interfaces {
		if t.Implements(s.typ) {
			return match{strategy: s}
		}
	}
	return match{}
}

func appendPath(path []int, step int) []int {
	return append(slices.Clip(path), step)
}
