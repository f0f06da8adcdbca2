package jsonenc

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egsam98/encoders"
)

func TestAppendFloat(t *testing.T) {
	tests := []struct {
		in   float64
		bits int
		want string
	}{
		{0, 64, "0.0"},
		{math.Copysign(0, -1), 64, "-0.0"},
		{2.2, 64, "2.2"},
		{1.1, 64, "1.1"},
		{100, 64, "100.0"},
		{-3.5, 64, "-3.5"},
		{1e20, 64, "100000000000000000000.0"},
		{1e21, 64, "1e+21"},
		{1e-7, 64, "1e-7"},
		{1.5e-10, 64, "1.5e-10"},
		{0.000001, 64, "0.000001"},
		{float64(float32(1.1)), 32, "1.1"},
		{float64(float32(16777216)), 32, "16777216.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(appendFloat(nil, tt.in, tt.bits)), "%v/%d", tt.in, tt.bits)
	}
}

func TestEncodeLiterals(t *testing.T) {
	enc := NewBuilder().Build()
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "string", `"string"`},
		{"escaped string", "q\"b\\s\n\r\t\x01\x1f", `"q\"b\\s\n\r\t\u0001\u001f"`},
		{"unicode", "héllo", `"héllo"`},
		{"invalid utf-8", "a\xffb", "\"a\uFFFDb\""},
		{"invalid utf-8 run", "a\xff\xfeb\xc3", "\"a\uFFFDb\uFFFD\""},
		{"true", true, `true`},
		{"false", false, `false`},
		{"null", nil, `null`},
		{"int8", int8(-128), `-128`},
		{"int16", int16(32767), `32767`},
		{"int32", int32(-2147483648), `-2147483648`},
		{"int64 max", int64(math.MaxInt64), `9223372036854775807`},
		{"int64 min", int64(math.MinInt64), `-9223372036854775808`},
		{"large long", int64(2473946328429347632), `2473946328429347632`},
		{"uint64 max", uint64(math.MaxUint64), `18446744073709551615`},
		{"float32", float32(2.2), `2.2`},
		{"float64", 2.2, `2.2`},
		{"zero float", 0.0, `0.0`},
		{"bytes", []byte("My {custom} value."), `"TXkge2N1c3RvbX0gdmFsdWUu"`},
		{"empty bytes", []byte{}, `""`},
		{"nil bytes", []byte(nil), `null`},
		{"byte array", [2]byte{1, 2}, `[1,2]`},
		{"time", timestamp, `"2019-11-04T16:45:32.212Z"`},
		{"empty slice", []int{}, `[]`},
		{"nested slices", [][]int{{1}, {}, {2, 3}}, `[[1],[],[2,3]]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := enc.Encode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestEncodeInvalidUTF8Keys(t *testing.T) {
	res, err := NewBuilder().Build().Encode(map[string]int{"k\xff": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\"k\uFFFD\":1}", res)

	res = encodeDummy(t, func(_ dummy, ctx *ObjectContext) error {
		ctx.Add("a\x80", "b\x80")
		return nil
	})
	assert.Equal(t, "{\"a\uFFFD\":\"b\uFFFD\"}", res)
}

func TestEncodeTimeKeepsMilliseconds(t *testing.T) {
	ts := time.Date(2020, 1, 2, 3, 4, 5, 999_999_999, time.FixedZone("", -5*60*60))
	res, err := NewBuilder().Build().Encode(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2020-01-02T08:04:05.999Z"`, res)
}

func TestEncodeNonFiniteFloats(t *testing.T) {
	enc := NewBuilder().Build()
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := enc.Encode([]float64{f})
		assert.ErrorIs(t, err, encoders.ErrUnsupportedValue)
	}
}

func TestEncodeUnsupportedKinds(t *testing.T) {
	enc := NewBuilder().Build()
	_, err := enc.Encode(complex(1, 2))
	assert.ErrorIs(t, err, encoders.ErrMissingEncoder)
	_, err = enc.Encode(make(chan int))
	assert.ErrorIs(t, err, encoders.ErrMissingEncoder)
}
