package jsonenc

import (
	"io"
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"github.com/egsam98/encoders"
)

// api only provides the pooled streams; all structure is written by the session.
var api = jsoniter.Config{
	EscapeHTML: false,
}.Froze()

// Encoder encodes values with the strategies frozen by Builder.Build.
// It is safe for concurrent use.
type Encoder struct {
	reg        *registry
	fallback   *Strategy
	ignoreNull bool
	maxDepth   int
	log        zerolog.Logger
}

var _ encoders.DataEncoder = (*Encoder)(nil)

func (e *Encoder) Encode(v any) (string, error) {
	stream := api.BorrowStream(nil)
	defer api.ReturnStream(stream)

	if err := e.run(stream, v); err != nil {
		return "", err
	}
	return string(stream.Buffer()), nil
}

// EncodeTo encodes v in memory and writes the result to w in a single call.
// An error returned by w is returned as is.
func (e *Encoder) EncodeTo(v any, w io.Writer) error {
	stream := api.BorrowStream(nil)
	defer api.ReturnStream(stream)

	if err := e.run(stream, v); err != nil {
		return err
	}
	_, err := w.Write(stream.Buffer())
	return err
}

func (e *Encoder) run(stream *jsoniter.Stream, v any) error {
	s := session{enc: e, stream: stream}
	s.encode(reflect.ValueOf(v))
	if s.err == nil {
		s.err = stream.Error
	}
	if s.err != nil {
		e.log.Debug().Err(s.err).Type("type", v).Msg("JSON: Encode aborted")
		return s.err
	}
	return nil
}
