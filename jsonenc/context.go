package jsonenc

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/egsam98/encoders"
)

// ObjectContext writes the keys of one JSON object. Only the innermost context of a
// session accepts writes; any other write fails the session with
// encoders.ErrProtocolViolation. Errors are sticky: after the first failure every
// write is a no-op and Err reports the failure.
type ObjectContext struct {
	s      *session
	child  *ObjectContext
	active bool
	// locked is set while control is handed to code that writes below this object.
	locked bool
	more   bool
}

// Add writes key followed by the encoded v.
func (c *ObjectContext) Add(key string, v any) *ObjectContext {
	if !c.writable() {
		return c
	}
	value := reflect.ValueOf(v)
	if c.s.enc.ignoreNull && isNil(value) {
		return c
	}
	c.key(key)
	c.locked = true
	c.s.encode(value)
	c.locked = false
	return c
}

// Nested opens an object under key and returns its context. The nested object is
// closed by the next write through c or when the strategy owning c returns;
// writing through the returned context after that fails.
func (c *ObjectContext) Nested(key string) *ObjectContext {
	if !c.writable() {
		return &ObjectContext{s: c.s}
	}
	c.key(key)
	c.s.stream.WriteObjectStart()
	c.child = &ObjectContext{s: c.s, active: true}
	return c.child
}

// NestedFunc opens an object under key, lets fn fill it and closes it when fn returns.
// c rejects writes while fn runs.
func (c *ObjectContext) NestedFunc(key string, fn func(ctx *ObjectContext) error) *ObjectContext {
	child := c.Nested(key)
	if !child.active {
		return c
	}
	c.locked = true
	err := fn(child)
	c.locked = false
	if err != nil {
		c.s.fail(errors.Wrapf(err, "nested %q", key))
	}
	c.closeChild()
	return c
}

// Inline writes the keys produced by v's object encoder directly into c.
func (c *ObjectContext) Inline(v any) *ObjectContext {
	if !c.writable() {
		return c
	}
	value := reflect.ValueOf(v)
	if isNil(value) {
		return c
	}
	m := c.s.enc.reg.resolve(value.Type())
	if !m.found() || m.strategy.object == nil {
		c.s.fail(errors.Wrapf(encoders.ErrUnsupportedValue, "%s cannot be encoded inline", value.Type()))
		return c
	}
	target, ok := m.walk(value)
	if !ok {
		return c
	}
	c.s.guard(value, func() {
		if !c.s.enter() {
			return
		}
		defer c.s.leave()
		if err := m.strategy.object(target, c); err != nil {
			c.s.fail(errors.Wrapf(err, "inline %s", value.Type()))
		}
	})
	return c
}

// Err returns the first failure of the session c belongs to.
func (c *ObjectContext) Err() error { return c.s.err }

func (c *ObjectContext) key(key string) {
	if c.more {
		c.s.stream.WriteMore()
	}
	c.more = true
	c.s.stream.WriteObjectField(validUTF8(key))
}

// writable closes an open nested object and reports whether c may be written.
func (c *ObjectContext) writable() bool {
	s := c.s
	if s.err != nil {
		return false
	}
	switch {
	case !c.active:
		s.fail(errors.Wrap(encoders.ErrProtocolViolation, "write through a closed object context"))
		return false
	case c.locked || c.lockedBelow():
		s.fail(errors.Wrap(encoders.ErrProtocolViolation, "write through an object context while a nested value is being encoded"))
		return false
	}
	c.closeChild()
	return true
}

func (c *ObjectContext) lockedBelow() bool {
	for child := c.child; child != nil; child = child.child {
		if child.locked {
			return true
		}
	}
	return false
}

func (c *ObjectContext) closeChild() {
	if c.child == nil {
		return
	}
	c.child.closeChild()
	c.child.active = false
	c.child = nil
	c.s.stream.WriteObjectEnd()
}

func (c *ObjectContext) close() {
	c.closeChild()
	c.active = false
	c.s.stream.WriteObjectEnd()
}

// ValueContext receives the single value a value encoder stands in for.
type ValueContext struct {
	s       *session
	active  bool
	written bool
}

// Add writes the encoded v. It must be called exactly once.
func (c *ValueContext) Add(v any) *ValueContext {
	s := c.s
	if s.err != nil {
		return c
	}
	switch {
	case !c.active:
		s.fail(errors.Wrap(encoders.ErrProtocolViolation, "write through a closed value context"))
	case c.written:
		s.fail(errors.Wrap(encoders.ErrProtocolViolation, "value encoder wrote more than one value"))
	default:
		c.written = true
		s.encode(reflect.ValueOf(v))
	}
	return c
}

// Err returns the first failure of the session c belongs to.
func (c *ValueContext) Err() error { return c.s.err }
