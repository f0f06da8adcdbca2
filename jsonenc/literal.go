package jsonenc

import (
	"bytes"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/egsam98/encoders"
)

// TimeLayout is ISO-8601 in UTC with millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z"

var (
	timeType     = reflect.TypeFor[time.Time]()
	stringerType = reflect.TypeFor[interface{ String() string }]()
)

func (s *session) writeScalar(v reflect.Value) {
	switch v.Kind() {
	case reflect.String:
		s.writeString(v.String())
	case reflect.Bool:
		s.stream.WriteBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		s.stream.WriteInt64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		s.stream.WriteUint64(v.Uint())
	case reflect.Float32:
		s.writeFloat(v.Float(), 32)
	case reflect.Float64:
		s.writeFloat(v.Float(), 64)
	default:
		s.fail(errors.Wrapf(encoders.ErrUnsupportedValue, "%s is not a JSON scalar", v.Type()))
	}
}

func (s *session) writeFloat(f float64, bits int) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		s.fail(errors.Wrapf(encoders.ErrUnsupportedValue, "float %v", f))
		return
	}
	s.stream.WriteRaw(string(appendFloat(nil, f, bits)))
}

func (s *session) writeBytes(v reflect.Value) {
	s.stream.WriteVal(v.Bytes())
}

// writeString writes str as a JSON string. Invalid UTF-8 is replaced with U+FFFD.
func (s *session) writeString(str string) {
	s.stream.WriteString(validUTF8(str))
}

func validUTF8(str string) string {
	if utf8.ValidString(str) {
		return str
	}
	return strings.ToValidUTF8(str, string(utf8.RuneError))
}

func (s *session) writeTime(t time.Time) {
	s.stream.WriteString(t.UTC().Format(TimeLayout))
}

// appendFloat appends the shortest decimal form of f that parses back to the same
// bits. Integral values keep a trailing ".0"; very small and very large magnitudes
// use exponent notation.
func appendFloat(b []byte, f float64, bits int) []byte {
	format := byte('f')
	if abs := math.Abs(f); abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	start := len(b)
	b = strconv.AppendFloat(b, f, format, -1, bits)
	if format == 'e' {
		// e-09 -> e-9
		if n := len(b); n-start >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
		return b
	}
	if bytes.IndexByte(b[start:], '.') < 0 {
		b = append(b, '.', '0')
	}
	return b
}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// isPredeclared reports whether t is one of the language's predeclared types (int, string...).
func isPredeclared(t reflect.Type) bool {
	return t.PkgPath() == "" && t.Name() != ""
}

// isEnum reports whether t is a defined integer type naming its members via String.
func isEnum(t reflect.Type) bool {
	return !isPredeclared(t) && t.Name() != "" && isIntegerKind(t.Kind()) && t.Implements(stringerType)
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
