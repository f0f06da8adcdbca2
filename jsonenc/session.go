package jsonenc

import (
	"iter"
	"reflect"
	"slices"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/egsam98/encoders"
)

// session is the state of one Encode call. It is never shared between goroutines.
type session struct {
	enc    *Encoder
	stream *jsoniter.Stream
	err    error
	depth  int
	// visiting holds references currently being encoded, to detect cycles.
	visiting map[visit]struct{}
}

type visit struct {
	ptr uintptr
	typ reflect.Type
}

func (s *session) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *session) enter() bool {
	s.depth++
	if s.depth > s.enc.maxDepth {
		s.fail(errors.Wrapf(encoders.ErrCyclicValue, "exceeded max depth %d", s.enc.maxDepth))
		return false
	}
	return true
}

func (s *session) leave() { s.depth-- }

// guard runs fn unless v is a reference already being encoded further up the stack.
func (s *session) guard(v reflect.Value, fn func()) {
	if k := v.Kind(); k != reflect.Pointer && k != reflect.Map {
		fn()
		return
	}
	key := visit{ptr: v.Pointer(), typ: v.Type()}
	if _, ok := s.visiting[key]; ok {
		s.fail(errors.Wrapf(encoders.ErrCyclicValue, "%s refers back to itself", v.Type()))
		return
	}
	if s.visiting == nil {
		s.visiting = make(map[visit]struct{})
	}
	s.visiting[key] = struct{}{}
	defer delete(s.visiting, key)
	fn()
}

// encode writes v choosing the encoding by its runtime type.
func (s *session) encode(v reflect.Value) {
	if s.err != nil {
		return
	}
	if isNil(v) {
		s.stream.WriteNil()
		return
	}
	if v.Kind() == reflect.Interface {
		s.encode(v.Elem())
		return
	}

	t := v.Type()
	if !isPredeclared(t) {
		if st, ok := s.enc.reg.lookupExact(t); ok {
			s.apply(match{strategy: st}, v)
			return
		}
	}

	switch kind := t.Kind(); {
	case isPredeclared(t) && isScalarKind(kind):
		s.writeScalar(v)
		return
	case kind == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		s.writeBytes(v)
		return
	case t == timeType:
		s.writeTime(v.Interface().(time.Time))
		return
	case kind == reflect.Slice, kind == reflect.Array:
		s.encodeArray(elements(v))
		return
	case kind == reflect.Func && t.CanSeq():
		s.guard(v, func() { s.encodeArray(v.Seq()) })
		return
	case kind == reflect.Map:
		s.guard(v, func() { s.encodeMap(v) })
		return
	case isEnum(t):
		if m := s.enc.reg.resolve(t); m.found() {
			s.apply(m, v)
			return
		}
		s.writeString(v.Interface().(interface{ String() string }).String())
		return
	case isScalarKind(kind):
		if m := s.enc.reg.resolve(t); m.found() {
			s.apply(m, v)
			return
		}
		s.writeScalar(v)
		return
	}

	if m := s.enc.reg.resolve(t); m.found() {
		s.apply(m, v)
		return
	}
	if t.Kind() == reflect.Pointer {
		s.guard(v, func() { s.encode(v.Elem()) })
		return
	}
	if s.enc.fallback != nil {
		s.apply(match{strategy: s.enc.fallback}, v)
		return
	}
	s.fail(errors.Wrapf(encoders.ErrMissingEncoder, "no strategy for %s", t))
}

func (s *session) apply(m match, v reflect.Value) {
	s.guard(v, func() {
		target, ok := m.walk(v)
		if !ok {
			s.stream.WriteNil()
			return
		}
		if m.strategy.object != nil {
			s.encodeObject(m.strategy, target)
		} else {
			s.encodeValue(m.strategy, target)
		}
	})
}

func (s *session) encodeObject(st *Strategy, v reflect.Value) {
	if !s.enter() {
		return
	}
	defer s.leave()

	s.stream.WriteObjectStart()
	ctx := &ObjectContext{s: s, active: true}
	if err := st.object(v, ctx); err != nil {
		s.fail(errors.Wrapf(err, "encode %s", v.Type()))
	}
	ctx.close()
}

func (s *session) encodeValue(st *Strategy, v reflect.Value) {
	if !s.enter() {
		return
	}
	defer s.leave()

	ctx := &ValueContext{s: s, active: true}
	if err := st.value(v, ctx); err != nil {
		s.fail(errors.Wrapf(err, "encode %s", v.Type()))
	}
	ctx.active = false
	if !ctx.written {
		s.fail(errors.Wrapf(encoders.ErrProtocolViolation, "value encoder for %s wrote no value", v.Type()))
	}
}

func (s *session) encodeArray(values iter.Seq[reflect.Value]) {
	if !s.enter() {
		return
	}
	defer s.leave()

	s.stream.WriteArrayStart()
	first := true
	for v := range values {
		if s.err != nil {
			break
		}
		if !first {
			s.stream.WriteMore()
		}
		first = false
		s.encode(v)
	}
	s.stream.WriteArrayEnd()
}

func (s *session) encodeMap(v reflect.Value) {
	if k := v.Type().Key().Kind(); k != reflect.String {
		s.fail(errors.Wrapf(encoders.ErrUnsupportedValue, "map key of kind %s in %s", k, v.Type()))
		return
	}
	if !s.enter() {
		return
	}
	defer s.leave()

	keys := v.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return strings.Compare(a.String(), b.String())
	})
	s.stream.WriteObjectStart()
	first := true
	for _, key := range keys {
		value := v.MapIndex(key)
		if s.enc.ignoreNull && isNil(value) {
			continue
		}
		if !first {
			s.stream.WriteMore()
		}
		first = false
		s.stream.WriteObjectField(validUTF8(key.String()))
		s.encode(value)
		if s.err != nil {
			break
		}
	}
	s.stream.WriteObjectEnd()
}

// elements iterates a slice or an array in index order.
func elements(v reflect.Value) iter.Seq[reflect.Value] {
	return func(yield func(reflect.Value) bool) {
		for i := range v.Len() {
			if !yield(v.Index(i)) {
				return
			}
		}
	}
}
