package jsonenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egsam98/encoders"
)

func encodeWith(fn ObjectEncoder[dummy], extra ...Strategy) (string, error) {
	return NewBuilder().Register(Object(fn)).Register(extra...).Build().Encode(dummy{})
}

func TestNestedUsedCorrectly(t *testing.T) {
	res, err := encodeWith(func(_ dummy, ctx *ObjectContext) error {
		ctx.Add("name", "value")
		ctx.Nested("nested1").Add("key1", "value1")
		ctx.Add("after1", true)
		ctx.Nested("nested2").Add("key2", "value2")
		ctx.Add("after2", true)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t,
		`{"name":"value","nested1":{"key1":"value1"},"after1":true,"nested2":{"key2":"value2"},"after2":true}`,
		res)
}

func TestNestedClosedWhenStrategyReturns(t *testing.T) {
	res, err := encodeWith(func(_ dummy, ctx *ObjectContext) error {
		ctx.Nested("a").Nested("b").Add("c", 1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"b":{"c":1}}}`, res)
}

func TestNestedUsedAfterParent(t *testing.T) {
	_, err := encodeWith(func(_ dummy, ctx *ObjectContext) error {
		nested := ctx.Nested("nested1")
		ctx.Add("after1", true)
		nested.Add("hello", "world")
		return nil
	})
	assert.ErrorIs(t, err, encoders.ErrProtocolViolation)
}

func TestNestedFuncUsedCorrectly(t *testing.T) {
	res, err := encodeWith(func(_ dummy, ctx *ObjectContext) error {
		ctx.Add("name", "value").
			NestedFunc("nested1", func(n *ObjectContext) error {
				n.Add("key1", "value1")
				return n.Err()
			}).
			Add("after1", true).
			NestedFunc("nested2", func(n *ObjectContext) error {
				n.Add("key2", "value2").NestedFunc("deeper", func(d *ObjectContext) error {
					d.Add("key3", 3)
					return nil
				})
				return nil
			}).
			Add("after2", true)
		return ctx.Err()
	})
	require.NoError(t, err)
	assert.Equal(t,
		`{"name":"value","nested1":{"key1":"value1"},"after1":true,"nested2":{"key2":"value2","deeper":{"key3":3}},"after2":true}`,
		res)
}

func TestNestedFuncParentWrittenBeforeReturn(t *testing.T) {
	_, err := encodeWith(func(_ dummy, ctx *ObjectContext) error {
		ctx.NestedFunc("nested1", func(n *ObjectContext) error {
			ctx.Add("after1", true)
			n.Add("key1", "value1")
			return nil
		})
		return nil
	})
	assert.ErrorIs(t, err, encoders.ErrProtocolViolation)
}

func TestNestedFuncChildUsedAfterReturn(t *testing.T) {
	_, err := encodeWith(func(_ dummy, ctx *ObjectContext) error {
		var leaked *ObjectContext
		ctx.NestedFunc("nested1", func(n *ObjectContext) error {
			leaked = n
			return nil
		})
		leaked.Add("key1", "value1")
		return nil
	})
	assert.ErrorIs(t, err, encoders.ErrProtocolViolation)
}

func TestParentWrittenFromNestedStrategy(t *testing.T) {
	var outer *ObjectContext
	_, err := encodeWith(func(_ dummy, ctx *ObjectContext) error {
		outer = ctx
		ctx.Add("inner", innerDummy{})
		return nil
	}, Object(func(_ innerDummy, ctx *ObjectContext) error {
		outer.Add("sneaky", true)
		return nil
	}))
	assert.ErrorIs(t, err, encoders.ErrProtocolViolation)
}

func TestContextUsedAfterStrategyReturned(t *testing.T) {
	var stale *ObjectContext
	_, err := encodeWith(func(_ dummy, ctx *ObjectContext) error {
		ctx.Add("first", innerDummy{}).Add("second", innerDummy{})
		return nil
	}, Object(func(_ innerDummy, ctx *ObjectContext) error {
		if stale != nil {
			stale.Add("late", true)
		}
		stale = ctx
		return nil
	}))
	assert.ErrorIs(t, err, encoders.ErrProtocolViolation)
}

func TestErrorsAreSticky(t *testing.T) {
	var afterErr error
	_, err := encodeWith(func(_ dummy, ctx *ObjectContext) error {
		nested := ctx.Nested("nested1")
		ctx.Add("after1", true)
		nested.Add("hello", "world")
		afterErr = ctx.Add("more", 1).Err()
		return nil
	})
	assert.ErrorIs(t, err, encoders.ErrProtocolViolation)
	assert.Same(t, err, afterErr)
}

func TestInline(t *testing.T) {
	res, err := encodeWith(func(_ dummy, ctx *ObjectContext) error {
		ctx.Add("before", 1).Inline(innerDummy{}).Inline(nil).Add("after", 2)
		return nil
	}, Object(encodeInner))
	require.NoError(t, err)
	assert.Equal(t, `{"before":1,"Name":"innerClass","after":2}`, res)
}

func TestInlineValueEncoder(t *testing.T) {
	_, err := encodeWith(func(_ dummy, ctx *ObjectContext) error {
		ctx.Inline(innerDummy{})
		return nil
	}, Value(func(_ innerDummy, ctx *ValueContext) error {
		ctx.Add("x")
		return nil
	}))
	assert.ErrorIs(t, err, encoders.ErrUnsupportedValue)
}

func TestValueEncoderWritesOnce(t *testing.T) {
	tests := []struct {
		name string
		fn   ValueEncoder[innerDummy]
	}{
		{
			name: "twice",
			fn: func(_ innerDummy, ctx *ValueContext) error {
				ctx.Add(1).Add(2)
				return nil
			},
		},
		{
			name: "never",
			fn: func(innerDummy, *ValueContext) error {
				return nil
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder().Register(Value(tt.fn)).Build().Encode(innerDummy{})
			assert.ErrorIs(t, err, encoders.ErrProtocolViolation)
		})
	}
}

func TestValueEncoderEmitsObject(t *testing.T) {
	type wrapper struct{ inner innerDummy }
	res, err := NewBuilder().
		Register(Object(encodeInner)).
		Register(Value(func(w wrapper, ctx *ValueContext) error {
			ctx.Add([]innerDummy{w.inner})
			return nil
		})).
		Build().
		Encode(wrapper{})
	require.NoError(t, err)
	assert.Equal(t, `[{"Name":"innerClass"}]`, res)
}

func TestDuplicateKeysPassThrough(t *testing.T) {
	res, err := encodeWith(func(_ dummy, ctx *ObjectContext) error {
		ctx.Add("k", 1).Add("k", 2)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, `{"k":1,"k":2}`, res)
}

func TestEmptyObject(t *testing.T) {
	res, err := encodeWith(func(dummy, *ObjectContext) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, `{}`, res)
}
